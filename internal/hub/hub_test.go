package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moonhowl/werewolf-backend/internal/config"
	"github.com/moonhowl/werewolf-backend/internal/lobby"
	"github.com/moonhowl/werewolf-backend/pkg/types"
)

func testConfig() config.Config {
	return config.Config{
		PhaseMinSeconds:    0,
		NotebookMaxLen:     100,
		StartCountdown:     5 * time.Millisecond,
		RoleRevealDuration: 5 * time.Millisecond,
		DayZeroDuration:    5 * time.Millisecond,
		DeathReveal:        5 * time.Millisecond,
		NoDeathPause:       5 * time.Millisecond,
		EliminationResults: 5 * time.Millisecond,
	}
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, testConfig(), zap.NewNop())
}

func joinLobby(t *testing.T, lb *lobby.Lobby, userID, name string) (chan types.ServerMessage, lobby.Ack) {
	t.Helper()
	out := make(chan types.ServerMessage, 64)
	reply := make(chan lobby.Ack, 1)
	select {
	case lb.Inbox() <- lobby.Join{UserID: userID, Name: name, Outbox: out, Reply: reply}:
	case <-time.After(time.Second):
		t.Fatalf("timed out posting join")
	}
	select {
	case a := <-reply:
		return out, a
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for join ack")
		return nil, lobby.Ack{}
	}
}

func TestCreateGetSamePointer(t *testing.T) {
	h := newTestHub(t)

	lb1, ok := h.Create("den")
	require.True(t, ok)
	lb2 := h.Get("den")
	require.Same(t, lb1, lb2)
}

func TestCreateRejectsTakenAndEmptyNames(t *testing.T) {
	h := newTestHub(t)

	_, ok := h.Create("den")
	require.True(t, ok)

	_, ok = h.Create("den")
	assert.False(t, ok, "duplicate name accepted")

	_, ok = h.Create("")
	assert.False(t, ok, "empty name accepted")

	// Names are case-sensitive; a different casing is a different lobby.
	_, ok = h.Create("Den")
	assert.True(t, ok)
}

func TestOneLobbyPerUser(t *testing.T) {
	h := newTestHub(t)

	lb1, _ := h.Create("first")
	lb2, _ := h.Create("second")

	_, a := joinLobby(t, lb1, "u1", "User One")
	require.True(t, a.OK)

	_, a = joinLobby(t, lb2, "u1", "User One")
	assert.False(t, a.OK)
	assert.Equal(t, lobby.CodeAlreadyInLobby, a.Code)

	name, bound := h.UserLobby("u1")
	require.True(t, bound)
	assert.Equal(t, "first", name)
}

func TestLastLeaveRemovesLobbyFromRegistry(t *testing.T) {
	h := newTestHub(t)

	lb, _ := h.Create("den")
	_, a := joinLobby(t, lb, "u1", "User One")
	require.True(t, a.OK)

	lb.Inbox() <- lobby.Leave{UserID: "u1"}

	require.Eventually(t, func() bool {
		return h.Get("den") == nil
	}, time.Second, 10*time.Millisecond)

	_, bound := h.UserLobby("u1")
	assert.False(t, bound)
	assert.Empty(t, h.List())

	// The freed user can join elsewhere right away.
	lb2, ok := h.Create("other")
	require.True(t, ok)
	_, a = joinLobby(t, lb2, "u1", "User One")
	assert.True(t, a.OK)
}

func TestListSortedByMemberCount(t *testing.T) {
	h := newTestHub(t)

	big, _ := h.Create("big")
	small, _ := h.Create("small")

	for _, id := range []string{"u1", "u2", "u3"} {
		_, a := joinLobby(t, big, id, id)
		require.True(t, a.OK)
	}
	_, a := joinLobby(t, small, "u9", "u9")
	require.True(t, a.OK)

	require.Eventually(t, func() bool {
		list := h.List()
		return len(list) == 2 && list[0].MemberCount == 3
	}, time.Second, 10*time.Millisecond)

	list := h.List()
	assert.Equal(t, "big", list[0].LobbyName)
	assert.Equal(t, "small", list[1].LobbyName)
	assert.Equal(t, "u1", list[0].HostUserID)
	assert.False(t, list[0].Started)
}

func TestSubscribersReceiveListPushes(t *testing.T) {
	h := newTestHub(t)

	sub := make(chan types.ServerMessage, 16)
	h.Subscribe("conn-1", sub)
	defer h.Unsubscribe("conn-1")

	lb, _ := h.Create("den")
	_, a := joinLobby(t, lb, "u1", "User One")
	require.True(t, a.OK)

	deadline := time.After(time.Second)
	for {
		select {
		case msg := <-sub:
			require.Equal(t, types.ServerLobbiesList, msg.Type)
			if len(msg.Lobbies) == 1 && msg.Lobbies[0].MemberCount == 1 {
				return
			}
		case <-deadline:
			t.Fatalf("no lobby list push with the joined member")
		}
	}
}
