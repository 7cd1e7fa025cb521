package types

import "github.com/moonhowl/werewolf-backend/internal/game"

// ClientMessage is the single request envelope read off a connection.
// Which fields matter depends on Type.
type ClientMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`

	LobbyName    string         `json:"lobbyName,omitempty"`
	TargetUserID string         `json:"targetUserId,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	Settings     *game.Settings `json:"settings,omitempty"`

	// Host elimination override.
	Eliminated *bool  `json:"eliminated,omitempty"`
	Cause      string `json:"cause,omitempty"`
}

// Client message types.
const (
	MsgCreateLobby    = "createLobby"
	MsgJoinLobby      = "joinLobby"
	MsgLeaveLobby     = "leaveLobby"
	MsgListLobbies    = "lobbiesList"
	MsgLobbySnapshot  = "lobbySnapshot"
	MsgStartGame      = "startGame"
	MsgEndGame        = "endGame"
	MsgUpdateSettings = "updateSettings"
	MsgGameInit       = "gameInit"
	MsgNightAction    = "nightAction"
	MsgCastVote       = "castVote"
	MsgSetNotebook    = "setNotebook"
	MsgGetNotebook    = "getNotebook"
	MsgSetEliminated  = "setPlayerEliminated"
)

// ServerMessage is every frame the server writes: request acks, per-lobby
// state pushes and the global lobby list push.
type ServerMessage struct {
	Type      string `json:"type"` // "ack" | "lobbyUpdate" | "lobbiesList"
	RequestID string `json:"requestId,omitempty"`

	OK   bool   `json:"ok"`
	Code string `json:"code,omitempty"`

	LobbyName  string         `json:"lobbyName,omitempty"`
	StartingAt *int64         `json:"startingAt,omitempty"`
	Cleared    bool           `json:"cleared,omitempty"`
	Notebook   *NotebookView  `json:"notebook,omitempty"`
	Game       *GameView      `json:"game,omitempty"`
	Lobby      *LobbyView     `json:"lobby,omitempty"`
	Lobbies    []LobbySummary `json:"lobbies,omitempty"`
}

// Server message types.
const (
	ServerAck         = "ack"
	ServerLobbyUpdate = "lobbyUpdate"
	ServerLobbiesList = "lobbiesList"
)
