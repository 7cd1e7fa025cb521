package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTallyVotes(t *testing.T) {
	cases := []struct {
		name  string
		votes map[string]string
		want  VoteOutcome
	}{
		{
			name: "clear majority eliminates",
			votes: map[string]string{
				"v1": "A", "v2": "A", "v3": "A", "v4": "B",
			},
			want: VoteOutcome{Eliminated: true, TargetUserID: "A", VoteCount: 3},
		},
		{
			name: "tie at the top eliminates nobody",
			votes: map[string]string{
				"v1": "A", "v2": "A", "v3": "B", "v4": "B", "v5": "C",
			},
			want: VoteOutcome{},
		},
		{
			name:  "no votes cast",
			votes: map[string]string{},
			want:  VoteOutcome{},
		},
		{
			name:  "single vote wins",
			votes: map[string]string{"v1": "A"},
			want:  VoteOutcome{Eliminated: true, TargetUserID: "A", VoteCount: 1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TallyVotes(tc.votes))
		})
	}
}
