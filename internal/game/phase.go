package game

// Phase is one stage of the lobby state machine. PhaseLobby is the sentinel
// pre-game state; every other phase is only meaningful once a game started.
type Phase string

const (
	PhaseLobby              Phase = "lobby"
	PhaseRoleReveal         Phase = "roleReveal"
	PhaseDay                Phase = "day"
	PhaseNight              Phase = "night"
	PhaseNightResults       Phase = "nightResults"
	PhaseVote               Phase = "vote"
	PhaseEliminationResults Phase = "eliminationResults"
)
