package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   Settings
		min  int
		want Settings
	}{
		{
			name: "defaults pass through",
			in:   DefaultSettings(),
			min:  10,
			want: DefaultSettings(),
		},
		{
			name: "durations clamped to floor",
			in: Settings{
				WerewolfCount:  2,
				PhaseDurations: PhaseDurations{DaySeconds: 3, NightSeconds: 0, VoteSeconds: -5},
			},
			min: 10,
			want: Settings{
				WerewolfCount:  2,
				PhaseDurations: PhaseDurations{DaySeconds: 10, NightSeconds: 10, VoteSeconds: 10},
			},
		},
		{
			name: "werewolf count floored at one",
			in: Settings{
				WerewolfCount:  0,
				PhaseDurations: PhaseDurations{DaySeconds: 60, NightSeconds: 60, VoteSeconds: 30},
			},
			min: 10,
			want: Settings{
				WerewolfCount:  1,
				PhaseDurations: PhaseDurations{DaySeconds: 60, NightSeconds: 60, VoteSeconds: 30},
			},
		},
		{
			name: "neutral without special is dropped",
			in: Settings{
				WerewolfCount:       1,
				NeutralRolesEnabled: true,
				PhaseDurations:      PhaseDurations{DaySeconds: 60, NightSeconds: 60, VoteSeconds: 30},
			},
			min: 10,
			want: Settings{
				WerewolfCount:  1,
				PhaseDurations: PhaseDurations{DaySeconds: 60, NightSeconds: 60, VoteSeconds: 30},
			},
		},
		{
			name: "the floor itself is configurable",
			in: Settings{
				WerewolfCount:  1,
				PhaseDurations: PhaseDurations{DaySeconds: 15, NightSeconds: 15, VoteSeconds: 15},
			},
			min: 60,
			want: Settings{
				WerewolfCount:  1,
				PhaseDurations: PhaseDurations{DaySeconds: 60, NightSeconds: 60, VoteSeconds: 60},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Sanitize(tc.min))
		})
	}
}
