package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moonhowl/werewolf-backend/internal/game"
	"github.com/moonhowl/werewolf-backend/internal/hub"
	"github.com/moonhowl/werewolf-backend/internal/lobby"
	"github.com/moonhowl/werewolf-backend/pkg/types"
)

// Rejection codes raised at the boundary, before any lobby is involved.
const (
	codeInvalidLobbyName = "invalid_lobby_name"
	codeInvalidTarget    = "invalid_target"
	codeLobbyNotFound    = "lobby_not_found"
	codeLobbyExists      = "lobby_exists"
	codeAlreadyInLobby   = "already_in_lobby"
	codeUnknownType      = "unknown_type"
	codeBadJSON          = "bad_json"
)

const (
	outboxSize   = 32
	writeTimeout = 3 * time.Second
)

type session struct {
	h      *hub.Hub
	log    *zap.Logger
	user   identity
	connID string
	outbox chan types.ServerMessage
}

// Handler upgrades the connection, registers it for lobby list pushes and
// runs the read loop. One writer goroutine drains the session outbox so
// lobby broadcasts, list pushes and acks share a single ordered stream.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := identityFrom(r)
		if !ok {
			http.Error(w, "missing identity", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		s := &session{
			h:      h,
			log:    log.With(zap.String("user", user.UserID)),
			user:   user,
			connID: uuid.NewString(),
			outbox: make(chan types.ServerMessage, outboxSize),
		}

		h.Subscribe(s.connID, s.outbox)
		defer h.Unsubscribe(s.connID)
		defer s.leaveCurrentLobby()

		// Seed the client with the current lobby list.
		s.push(types.ServerMessage{Type: types.ServerLobbiesList, OK: true, Lobbies: h.List()})

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			// The outbox is never closed: lobby actors may push into it
			// until the deferred leave is processed. Exit on cancel instead.
			for {
				var msg types.ServerMessage
				select {
				case msg = <-s.outbox:
				case <-writeCtx.Done():
					return
				}
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				werr := conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if werr != nil {
					return
				}
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				s.push(ackMsg("", lobby.Ack{Code: codeBadJSON}))
				continue
			}
			s.dispatch(r.Context(), cm)
		}
	}
}

func (s *session) push(msg types.ServerMessage) {
	select {
	case s.outbox <- msg:
	default:
		s.log.Warn("dropping frame, outbox full")
	}
}

func (s *session) ack(requestID string, a lobby.Ack) {
	s.push(ackMsg(requestID, a))
}

func ackMsg(requestID string, a lobby.Ack) types.ServerMessage {
	msg := types.ServerMessage{
		Type:      types.ServerAck,
		RequestID: requestID,
		OK:        a.OK,
		Code:      a.Code,
		Cleared:   a.Cleared,
		Notebook:  a.Notebook,
		Game:      a.Game,
		Lobby:     a.Lobby,
	}
	if a.StartingAt != nil {
		ms := a.StartingAt.UnixMilli()
		msg.StartingAt = &ms
	}
	return msg
}

// leaveCurrentLobby handles a disconnect: the registry knows which lobby,
// if any, still holds this user.
func (s *session) leaveCurrentLobby() {
	name, ok := s.h.UserLobby(s.user.UserID)
	if !ok {
		return
	}
	if lb := s.h.Get(name); lb != nil {
		select {
		case lb.Inbox() <- lobby.Leave{UserID: s.user.UserID}:
		case <-lb.Done():
		}
	}
}

func (s *session) dispatch(ctx context.Context, cm types.ClientMessage) {
	switch cm.Type {
	case types.MsgCreateLobby:
		s.createLobby(ctx, cm)
	case types.MsgJoinLobby:
		s.joinLobby(ctx, cm)
	case types.MsgLeaveLobby:
		s.leaveLobby(cm)
	case types.MsgListLobbies:
		s.push(types.ServerMessage{
			Type:      types.ServerAck,
			RequestID: cm.RequestID,
			OK:        true,
			Lobbies:   s.h.List(),
		})
	case types.MsgLobbySnapshot:
		s.toLobby(ctx, cm, func(reply chan lobby.Ack) lobby.Msg {
			return lobby.GetSnapshot{UserID: s.user.UserID, Reply: reply}
		})
	case types.MsgStartGame:
		s.toLobby(ctx, cm, func(reply chan lobby.Ack) lobby.Msg {
			return lobby.StartGame{UserID: s.user.UserID, Reply: reply}
		})
	case types.MsgEndGame:
		s.toLobby(ctx, cm, func(reply chan lobby.Ack) lobby.Msg {
			return lobby.EndGame{UserID: s.user.UserID, Reply: reply}
		})
	case types.MsgUpdateSettings:
		settings := game.DefaultSettings()
		if cm.Settings != nil {
			settings = *cm.Settings
		}
		s.toLobby(ctx, cm, func(reply chan lobby.Ack) lobby.Msg {
			return lobby.UpdateSettings{UserID: s.user.UserID, Settings: settings, Reply: reply}
		})
	case types.MsgGameInit:
		s.toLobby(ctx, cm, func(reply chan lobby.Ack) lobby.Msg {
			return lobby.GameInit{UserID: s.user.UserID, Reply: reply}
		})
	case types.MsgNightAction:
		s.toLobbyWithTarget(ctx, cm, func(target string, reply chan lobby.Ack) lobby.Msg {
			return lobby.NightAction{UserID: s.user.UserID, TargetUserID: target, Reply: reply}
		})
	case types.MsgCastVote:
		s.toLobbyWithTarget(ctx, cm, func(target string, reply chan lobby.Ack) lobby.Msg {
			return lobby.CastVote{UserID: s.user.UserID, TargetUserID: target, Reply: reply}
		})
	case types.MsgSetNotebook:
		s.toLobby(ctx, cm, func(reply chan lobby.Ack) lobby.Msg {
			return lobby.SetNotebook{UserID: s.user.UserID, Notes: cm.Notes, Reply: reply}
		})
	case types.MsgGetNotebook:
		s.toLobbyWithTarget(ctx, cm, func(target string, reply chan lobby.Ack) lobby.Msg {
			return lobby.GetNotebook{UserID: s.user.UserID, TargetUserID: target, Reply: reply}
		})
	case types.MsgSetEliminated:
		eliminated := true
		if cm.Eliminated != nil {
			eliminated = *cm.Eliminated
		}
		s.toLobbyWithTarget(ctx, cm, func(target string, reply chan lobby.Ack) lobby.Msg {
			return lobby.SetEliminated{
				UserID:       s.user.UserID,
				TargetUserID: target,
				Eliminated:   eliminated,
				Cause:        cm.Cause,
				Reply:        reply,
			}
		})
	default:
		s.ack(cm.RequestID, lobby.Ack{Code: codeUnknownType})
	}
}

func (s *session) createLobby(ctx context.Context, cm types.ClientMessage) {
	name, ok := parseLobbyName(cm.LobbyName)
	if !ok {
		s.ack(cm.RequestID, lobby.Ack{Code: codeInvalidLobbyName})
		return
	}
	if current, bound := s.h.UserLobby(s.user.UserID); bound && current != name {
		s.ack(cm.RequestID, lobby.Ack{Code: codeAlreadyInLobby})
		return
	}

	lb, created := s.h.Create(name)
	if !created {
		s.ack(cm.RequestID, lobby.Ack{Code: codeLobbyExists})
		return
	}

	a := s.send(ctx, lb, func(reply chan lobby.Ack) lobby.Msg {
		return lobby.Join{UserID: s.user.UserID, Name: s.user.Name, Outbox: s.outbox, Reply: reply}
	})
	if !a.OK {
		// The creator never made it in; drop the empty lobby.
		s.h.Remove(name)
		s.ack(cm.RequestID, a)
		return
	}

	msg := ackMsg(cm.RequestID, a)
	msg.LobbyName = name
	s.push(msg)
}

func (s *session) joinLobby(ctx context.Context, cm types.ClientMessage) {
	name, ok := parseLobbyName(cm.LobbyName)
	if !ok {
		s.ack(cm.RequestID, lobby.Ack{Code: codeInvalidLobbyName})
		return
	}
	lb := s.h.Get(name)
	if lb == nil {
		s.ack(cm.RequestID, lobby.Ack{Code: codeLobbyNotFound})
		return
	}

	a := s.send(ctx, lb, func(reply chan lobby.Ack) lobby.Msg {
		return lobby.Join{UserID: s.user.UserID, Name: s.user.Name, Outbox: s.outbox, Reply: reply}
	})
	msg := ackMsg(cm.RequestID, a)
	if a.OK {
		msg.LobbyName = name
	}
	s.push(msg)
}

// leaveLobby is fire-and-forget; there is no ack by contract.
func (s *session) leaveLobby(cm types.ClientMessage) {
	name, ok := parseLobbyName(cm.LobbyName)
	if !ok {
		return
	}
	lb := s.h.Get(name)
	if lb == nil {
		return
	}
	select {
	case lb.Inbox() <- lobby.Leave{UserID: s.user.UserID}:
	case <-lb.Done():
	}
}

// toLobby resolves the lobby and round-trips one request message.
func (s *session) toLobby(ctx context.Context, cm types.ClientMessage, build func(chan lobby.Ack) lobby.Msg) {
	name, ok := parseLobbyName(cm.LobbyName)
	if !ok {
		s.ack(cm.RequestID, lobby.Ack{Code: codeInvalidLobbyName})
		return
	}
	lb := s.h.Get(name)
	if lb == nil {
		s.ack(cm.RequestID, lobby.Ack{Code: codeLobbyNotFound})
		return
	}
	s.ack(cm.RequestID, s.send(ctx, lb, build))
}

func (s *session) toLobbyWithTarget(ctx context.Context, cm types.ClientMessage, build func(string, chan lobby.Ack) lobby.Msg) {
	target, ok := parseTargetUserID(cm.TargetUserID)
	if !ok {
		s.ack(cm.RequestID, lobby.Ack{Code: codeInvalidTarget})
		return
	}
	s.toLobby(ctx, cm, func(reply chan lobby.Ack) lobby.Msg {
		return build(target, reply)
	})
}

// send posts a request into the lobby inbox and waits for its ack. A lobby
// that shuts down mid-flight answers as not found.
func (s *session) send(ctx context.Context, lb *lobby.Lobby, build func(chan lobby.Ack) lobby.Msg) lobby.Ack {
	reply := make(chan lobby.Ack, 1)
	select {
	case lb.Inbox() <- build(reply):
	case <-lb.Done():
		return lobby.Ack{Code: codeLobbyNotFound}
	case <-ctx.Done():
		return lobby.Ack{Code: codeLobbyNotFound}
	}

	select {
	case a := <-reply:
		return a
	case <-lb.Done():
		// The handler may have answered in the same instant it shut down.
		select {
		case a := <-reply:
			return a
		default:
			return lobby.Ack{Code: codeLobbyNotFound}
		}
	case <-ctx.Done():
		return lobby.Ack{Code: codeLobbyNotFound}
	}
}
