package game

// VoteOutcome is the result of counting a vote phase.
// Eliminated is false on a tie at the top count or when nobody voted.
type VoteOutcome struct {
	Eliminated   bool
	TargetUserID string
	VoteCount    int
}

// TallyVotes counts votes per target. A target wins only with strictly more
// votes than every other target.
func TallyVotes(votes map[string]string) VoteOutcome {
	counts := make(map[string]int, len(votes))
	for _, targetID := range votes {
		counts[targetID]++
	}

	var (
		topID    string
		topCount int
		tie      bool
	)
	for targetID, n := range counts {
		switch {
		case n > topCount:
			topID, topCount, tie = targetID, n, false
		case n == topCount:
			tie = true
		}
	}

	if tie || topID == "" {
		return VoteOutcome{}
	}
	return VoteOutcome{Eliminated: true, TargetUserID: topID, VoteCount: topCount}
}
