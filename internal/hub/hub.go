package hub

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/moonhowl/werewolf-backend/internal/config"
	"github.com/moonhowl/werewolf-backend/internal/lobby"
	"github.com/moonhowl/werewolf-backend/pkg/types"
)

// Hub is the process-wide lobby registry: lobby name -> lobby actor, user
// id -> the one lobby that user occupies, and the set of connections
// subscribed to the public lobby list. All maps live behind one mutex;
// per-lobby state is never touched here, only the summaries the lobbies
// push.
type Hub struct {
	ctx context.Context
	cfg config.Config
	log *zap.Logger

	mu        sync.RWMutex
	lobbies   map[string]*lobby.Lobby
	userLobby map[string]string
	summaries map[string]types.LobbySummary
	subs      map[string]chan<- types.ServerMessage
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) *Hub {
	return &Hub{
		ctx:       ctx,
		cfg:       cfg,
		log:       log,
		lobbies:   make(map[string]*lobby.Lobby),
		userLobby: make(map[string]string),
		summaries: make(map[string]types.LobbySummary),
		subs:      make(map[string]chan<- types.ServerMessage),
	}
}

// Create registers a new lobby actor under name. The name must be non-empty
// after trimming and not taken (case-sensitive exact match).
func (h *Hub) Create(name string) (*lobby.Lobby, bool) {
	if strings.TrimSpace(name) != name || name == "" {
		return nil, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, taken := h.lobbies[name]; taken {
		return nil, false
	}

	hooks := lobby.Hooks{
		BindUser:       func(userID string) bool { return h.bindUser(userID, name) },
		ReleaseUser:    h.releaseUser,
		PublishSummary: func(s types.LobbySummary) { h.updateSummary(name, s) },
		OnEmpty:        func() { h.Remove(name) },
	}
	l := lobby.New(h.ctx, name, h.cfg, hooks, h.log)
	h.lobbies[name] = l
	h.log.Info("lobby created", zap.String("lobby", name))
	return l, true
}

func (h *Hub) Get(name string) *lobby.Lobby {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lobbies[name]
}

// Remove drops the lobby and its summary, then republishes the list.
// Called by a lobby's OnEmpty hook and when a failed create is rolled back.
func (h *Hub) Remove(name string) {
	h.mu.Lock()
	delete(h.lobbies, name)
	delete(h.summaries, name)
	h.mu.Unlock()

	h.log.Info("lobby removed", zap.String("lobby", name))
	h.PublishList()
}

// UserLobby reports which lobby the user currently occupies, if any.
func (h *Hub) UserLobby(userID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	name, ok := h.userLobby[userID]
	return name, ok
}

// bindUser claims the user for a lobby. A user already bound to a
// different lobby stays bound there and the claim fails.
func (h *Hub) bindUser(userID, name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.userLobby[userID]; ok && current != name {
		return false
	}
	h.userLobby[userID] = name
	return true
}

func (h *Hub) releaseUser(userID string) {
	h.mu.Lock()
	delete(h.userLobby, userID)
	h.mu.Unlock()
}

// updateSummary stores a lobby's public entry and republishes the list.
func (h *Hub) updateSummary(name string, s types.LobbySummary) {
	h.mu.Lock()
	// A summary for a lobby already removed must not resurrect it.
	if _, ok := h.lobbies[name]; ok {
		h.summaries[name] = s
	}
	h.mu.Unlock()

	h.PublishList()
}

// List returns the public lobby summaries, fullest lobby first.
func (h *Hub) List() []types.LobbySummary {
	h.mu.RLock()
	out := make([]types.LobbySummary, 0, len(h.summaries))
	for _, s := range h.summaries {
		out = append(out, s)
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].MemberCount != out[j].MemberCount {
			return out[i].MemberCount > out[j].MemberCount
		}
		return out[i].LobbyName < out[j].LobbyName
	})
	return out
}

// Subscribe registers a connection outbox for lobby list pushes.
func (h *Hub) Subscribe(connID string, outbox chan<- types.ServerMessage) {
	h.mu.Lock()
	h.subs[connID] = outbox
	h.mu.Unlock()
}

func (h *Hub) Unsubscribe(connID string) {
	h.mu.Lock()
	delete(h.subs, connID)
	h.mu.Unlock()
}

// PublishList pushes the current summaries to every subscriber. Full
// outboxes drop the frame; the next change resends a complete list anyway.
func (h *Hub) PublishList() {
	list := h.List()
	msg := types.ServerMessage{Type: types.ServerLobbiesList, OK: true, Lobbies: list}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for connID, out := range h.subs {
		select {
		case out <- msg:
		default:
			h.log.Warn("dropping lobby list push, outbox full", zap.String("conn", connID))
		}
	}
}
