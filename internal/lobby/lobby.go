package lobby

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/moonhowl/werewolf-backend/internal/config"
	"github.com/moonhowl/werewolf-backend/internal/game"
	"github.com/moonhowl/werewolf-backend/pkg/types"
)

// Member is one user currently inside the lobby. Outbox is where scoped
// snapshots for this user are pushed; the transport owns the channel.
type Member struct {
	UserID   string
	Name     string
	Outbox   chan<- types.ServerMessage
	JoinedAt time.Time
}

type deathReveal struct {
	UserID   string
	Name     string
	Notebook string
}

type eliminationResult struct {
	NoElimination bool
	UserID        string
	Name          string
	Notebook      string
	VoteCount     int
}

// Hooks are the lobby's only way to talk back to the registry. They are
// called from the lobby goroutine and must not block on lobby state.
type Hooks struct {
	// BindUser claims the user for this lobby. False means the user is
	// already bound to a different lobby.
	BindUser func(userID string) bool
	// ReleaseUser must be called exactly once per departure.
	ReleaseUser func(userID string)
	// PublishSummary pushes the lobby's public listing entry.
	PublishSummary func(types.LobbySummary)
	// OnEmpty tells the registry the last member left.
	OnEmpty func()
}

// Lobby owns all mutable state for one named game lobby. Every mutation
// happens on the loop goroutine; outside code talks to it via Inbox.
type Lobby struct {
	inbox  chan Msg
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
	cfg    config.Config
	hooks  Hooks

	name       string
	hostUserID string
	members    map[string]*Member
	order      []string // join order, drives host succession
	settings   game.Settings

	started    bool
	startingAt *time.Time

	phase       game.Phase
	dayNumber   *int
	nightNumber *int
	phaseEndsAt *time.Time

	playerRoles       map[string]game.Role
	eliminated        map[string]struct{}
	notebooks         map[string]string
	pendingKillTarget string
	votes             map[string]string // voter -> target
	pendingReveals    []deathReveal
	currentReveal     *deathReveal
	elimResult        *eliminationResult

	phaseTimer *time.Timer
	timerGen   uint64
}

// New constructs the lobby and starts its loop. The creator is not a
// member yet; the caller follows up with a Join.
func New(parent context.Context, name string, cfg config.Config, hooks Hooks, log *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	l := &Lobby{
		inbox:       make(chan Msg, 64),
		ctx:         ctx,
		cancel:      cancel,
		log:         log.With(zap.String("lobby", name)),
		cfg:         cfg,
		hooks:       hooks,
		name:        name,
		members:     make(map[string]*Member),
		settings:    game.DefaultSettings(),
		phase:       game.PhaseLobby,
		playerRoles: make(map[string]game.Role),
		eliminated:  make(map[string]struct{}),
		notebooks:   make(map[string]string),
		votes:       make(map[string]string),
	}
	go l.loop()
	return l
}

func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Done is closed once the lobby's loop has exited; senders use it to avoid
// posting into a destroyed lobby.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				msg.Reply <- l.handleJoin(msg)
			case Leave:
				if l.handleLeave(msg.UserID) {
					return // lobby destroyed
				}
			case StartGame:
				msg.Reply <- l.handleStartGame(msg.UserID)
			case EndGame:
				msg.Reply <- l.handleEndGame(msg.UserID)
			case UpdateSettings:
				msg.Reply <- l.handleUpdateSettings(msg)
			case NightAction:
				msg.Reply <- l.handleNightAction(msg)
			case CastVote:
				msg.Reply <- l.handleCastVote(msg)
			case SetNotebook:
				msg.Reply <- l.handleSetNotebook(msg)
			case GetNotebook:
				msg.Reply <- l.handleGetNotebook(msg)
			case GetSnapshot:
				msg.Reply <- l.handleGetSnapshot(msg.UserID)
			case GameInit:
				msg.Reply <- l.handleGameInit(msg.UserID)
			case SetEliminated:
				msg.Reply <- l.handleSetEliminated(msg)
			case phaseTimeout:
				if msg.Gen == l.timerGen {
					l.onTimeout()
				}
			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) shutdown() {
	l.cancelTimer()
	l.cancel()
}

// broadcast pushes a per-recipient snapshot to every member. Slow outboxes
// drop the frame rather than stall the loop; a newer snapshot always
// supersedes a missed one.
func (l *Lobby) broadcast() {
	for _, id := range l.order {
		m := l.members[id]
		view := l.viewFor(m)
		select {
		case m.Outbox <- types.ServerMessage{Type: types.ServerLobbyUpdate, OK: true, Lobby: &view}:
		default:
			l.log.Warn("dropping lobby update, outbox full", zap.String("user", id))
		}
	}
}

func (l *Lobby) publishSummary() {
	l.hooks.PublishSummary(types.LobbySummary{
		LobbyName:   l.name,
		HostUserID:  l.hostUserID,
		MemberCount: len(l.members),
		Started:     l.started,
	})
}

func (l *Lobby) isAlive(userID string) bool {
	if _, ok := l.members[userID]; !ok {
		return false
	}
	_, dead := l.eliminated[userID]
	return !dead
}

func (l *Lobby) werewolfIDs() []string {
	var ids []string
	for _, id := range l.order {
		if l.playerRoles[id] == game.RoleWerewolf {
			ids = append(ids, id)
		}
	}
	return ids
}

func unixMilliPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func (l *Lobby) revealView(r *deathReveal) *types.DeathRevealView {
	if r == nil {
		return nil
	}
	return &types.DeathRevealView{UserID: r.UserID, Name: r.Name, Notebook: r.Notebook}
}

func (l *Lobby) elimView() *types.EliminationView {
	if l.elimResult == nil {
		return nil
	}
	r := l.elimResult
	if r.NoElimination {
		return &types.EliminationView{NoElimination: true}
	}
	return &types.EliminationView{
		UserID:    r.UserID,
		Name:      r.Name,
		Notebook:  r.Notebook,
		VoteCount: r.VoteCount,
	}
}

// viewFor builds the snapshot as seen by one member: their own role, and
// werewolf teammates only if they are a werewolf themselves.
func (l *Lobby) viewFor(recipient *Member) types.LobbyView {
	members := make([]types.MemberView, 0, len(l.order))
	for _, id := range l.order {
		m := l.members[id]
		members = append(members, types.MemberView{
			UserID: m.UserID,
			Name:   m.Name,
			Alive:  !l.isEliminated(id),
		})
	}

	view := types.LobbyView{
		LobbyName:                l.name,
		HostUserID:               l.hostUserID,
		Members:                  members,
		Started:                  l.started,
		StartingAt:               unixMilliPtr(l.startingAt),
		Settings:                 l.settings,
		GamePhase:                l.phase,
		DayNumber:                l.dayNumber,
		NightNumber:              l.nightNumber,
		PhaseEndsAt:              unixMilliPtr(l.phaseEndsAt),
		CurrentNightDeathReveal:  l.revealView(l.currentReveal),
		CurrentEliminationResult: l.elimView(),
		CanWriteNotebook:         !l.isEliminated(recipient.UserID),
	}

	if role, ok := l.playerRoles[recipient.UserID]; ok {
		view.Role = role
		if game.FactionOf(role) == game.FactionEnemy {
			view.WerewolfUserIDs = l.werewolfIDs()
		}
	}
	return view
}

func (l *Lobby) isEliminated(userID string) bool {
	_, dead := l.eliminated[userID]
	return dead
}
