package game

// PhaseDurations are the host-tunable phase lengths, in seconds.
type PhaseDurations struct {
	DaySeconds   int `json:"daySeconds"`
	NightSeconds int `json:"nightSeconds"`
	VoteSeconds  int `json:"voteSeconds"`
}

// Settings are the host-editable lobby settings. They only take effect at
// the next game start.
type Settings struct {
	WerewolfCount       int            `json:"werewolfCount"`
	SpecialRolesEnabled bool           `json:"specialRolesEnabled"`
	NeutralRolesEnabled bool           `json:"neutralRolesEnabled"`
	PhaseDurations      PhaseDurations `json:"phaseDurations"`
}

func DefaultSettings() Settings {
	return Settings{
		WerewolfCount: 1,
		PhaseDurations: PhaseDurations{
			DaySeconds:   60,
			NightSeconds: 60,
			VoteSeconds:  30,
		},
	}
}

// Sanitize clamps untrusted settings values into their legal ranges.
// minSeconds is the configured floor for every phase duration. Neutral
// roles require the special pool, so the flag is dropped without it.
func (s Settings) Sanitize(minSeconds int) Settings {
	if s.WerewolfCount < 1 {
		s.WerewolfCount = 1
	}
	if !s.SpecialRolesEnabled {
		s.NeutralRolesEnabled = false
	}
	if s.PhaseDurations.DaySeconds < minSeconds {
		s.PhaseDurations.DaySeconds = minSeconds
	}
	if s.PhaseDurations.NightSeconds < minSeconds {
		s.PhaseDurations.NightSeconds = minSeconds
	}
	if s.PhaseDurations.VoteSeconds < minSeconds {
		s.PhaseDurations.VoteSeconds = minSeconds
	}
	return s
}
