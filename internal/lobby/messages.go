package lobby

import (
	"time"

	"github.com/moonhowl/werewolf-backend/internal/game"
	"github.com/moonhowl/werewolf-backend/pkg/types"
)

// Msg is anything that may be posted to a lobby's inbox. The loop processes
// messages strictly in arrival order; that ordering is the lobby's only
// concurrency guarantee and handlers rely on it.
type Msg interface{ isLobbyMsg() }

// Ack is the synchronous answer to a request message. Code carries the
// machine-readable rejection reason when OK is false.
type Ack struct {
	OK   bool
	Code string

	StartingAt *time.Time
	Cleared    bool
	Notebook   *types.NotebookView
	Game       *types.GameView
	Lobby      *types.LobbyView
}

func reject(code string) Ack { return Ack{Code: code} }

// Rejection codes, mirrored onto the wire.
const (
	CodeAlreadyStarted = "already_started"
	CodeAlreadyInLobby = "already_in_lobby"
	CodeNotHost        = "not_host"
	CodeNotMember      = "not_member"
	CodeWrongPhase     = "wrong_phase"
	CodeDeadPlayer     = "dead_player"
	CodeNotWerewolf    = "not_werewolf"
	CodeIllegalTarget  = "illegal_target"
	CodeTargetNotDead  = "target_not_dead"
)

type Join struct {
	UserID string
	Name   string
	Outbox chan<- types.ServerMessage
	Reply  chan Ack
}

// Leave covers both an explicit leave request and a disconnect. It is
// fire-and-forget; there is nobody left to ack a disconnect.
type Leave struct{ UserID string }

type StartGame struct {
	UserID string
	Reply  chan Ack
}

type EndGame struct {
	UserID string
	Reply  chan Ack
}

type UpdateSettings struct {
	UserID   string
	Settings game.Settings
	Reply    chan Ack
}

type NightAction struct {
	UserID       string
	TargetUserID string
	Reply        chan Ack
}

type CastVote struct {
	UserID       string
	TargetUserID string
	Reply        chan Ack
}

type SetNotebook struct {
	UserID string
	Notes  string
	Reply  chan Ack
}

type GetNotebook struct {
	UserID       string
	TargetUserID string
	Reply        chan Ack
}

type GetSnapshot struct {
	UserID string
	Reply  chan Ack
}

type GameInit struct {
	UserID string
	Reply  chan Ack
}

// SetEliminated is the host override for a member's alive state. With
// Cause == "night" it also maintains the pending death-reveal list.
type SetEliminated struct {
	UserID       string
	TargetUserID string
	Eliminated   bool
	Cause        string
	Reply        chan Ack
}

type Shutdown struct{}

// phaseTimeout is posted by the armed timer. Gen guards against a stale
// handle firing after the timer was superseded or cancelled.
type phaseTimeout struct{ Gen uint64 }

func (Join) isLobbyMsg()           {}
func (Leave) isLobbyMsg()          {}
func (StartGame) isLobbyMsg()      {}
func (EndGame) isLobbyMsg()        {}
func (UpdateSettings) isLobbyMsg() {}
func (NightAction) isLobbyMsg()    {}
func (CastVote) isLobbyMsg()       {}
func (SetNotebook) isLobbyMsg()    {}
func (GetNotebook) isLobbyMsg()    {}
func (GetSnapshot) isLobbyMsg()    {}
func (GameInit) isLobbyMsg()       {}
func (SetEliminated) isLobbyMsg()  {}
func (Shutdown) isLobbyMsg()       {}
func (phaseTimeout) isLobbyMsg()   {}
