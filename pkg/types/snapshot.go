package types

import "github.com/moonhowl/werewolf-backend/internal/game"

// LobbySummary is the public listing entry pushed to every connected client.
type LobbySummary struct {
	LobbyName   string `json:"lobbyName"`
	HostUserID  string `json:"hostUserId"`
	MemberCount int    `json:"memberCount"`
	Started     bool   `json:"started"`
}

type MemberView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Alive  bool   `json:"alive"`
}

// DeathRevealView is one night casualty shown during nightResults. The
// notebook is public once its owner is dead.
type DeathRevealView struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Notebook string `json:"notebook"`
}

type EliminationView struct {
	NoElimination bool   `json:"noElimination"`
	UserID        string `json:"userId,omitempty"`
	Name          string `json:"name,omitempty"`
	Notebook      string `json:"notebook,omitempty"`
	VoteCount     int    `json:"voteCount,omitempty"`
}

// LobbyView is the full lobby snapshot, scoped per recipient: Role is the
// recipient's own role and WerewolfUserIDs is only populated for werewolves.
// Timestamps are milliseconds since the Unix epoch.
type LobbyView struct {
	LobbyName  string       `json:"lobbyName"`
	HostUserID string       `json:"hostUserId"`
	Members    []MemberView `json:"members"`
	Started    bool         `json:"started"`
	StartingAt *int64       `json:"startingAt,omitempty"`

	Settings game.Settings `json:"settings"`

	GamePhase   game.Phase `json:"gamePhase"`
	DayNumber   *int       `json:"dayNumber,omitempty"`
	NightNumber *int       `json:"nightNumber,omitempty"`
	PhaseEndsAt *int64     `json:"phaseEndsAt,omitempty"`

	CurrentNightDeathReveal  *DeathRevealView `json:"currentNightDeathReveal,omitempty"`
	CurrentEliminationResult *EliminationView `json:"currentEliminationResult,omitempty"`

	Role             game.Role `json:"role,omitempty"`
	WerewolfUserIDs  []string  `json:"werewolfUserIds,omitempty"`
	CanWriteNotebook bool      `json:"canWriteNotebook"`
}

// GameView is the per-caller game bootstrap answered to a gameInit request.
type GameView struct {
	Started     bool       `json:"started"`
	Phase       game.Phase `json:"phase"`
	DayNumber   *int       `json:"dayNumber,omitempty"`
	NightNumber *int       `json:"nightNumber,omitempty"`
	PhaseEndsAt *int64     `json:"phaseEndsAt,omitempty"`

	CurrentNightDeathReveal  *DeathRevealView `json:"currentNightDeathReveal,omitempty"`
	CurrentEliminationResult *EliminationView `json:"currentEliminationResult,omitempty"`

	Role             game.Role `json:"role,omitempty"`
	WerewolfUserIDs  []string  `json:"werewolfUserIds,omitempty"`
	HostUserID       string    `json:"hostUserId"`
	CanWriteNotebook bool      `json:"canWriteNotebook"`
}

type NotebookView struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Content string `json:"content"`
}
