package lobby

import (
	"time"

	"go.uber.org/zap"
)

func (l *Lobby) handleJoin(msg Join) Ack {
	if existing, ok := l.members[msg.UserID]; ok {
		// Reconnect into the same lobby replaces the connection.
		existing.Outbox = msg.Outbox
		existing.Name = msg.Name
		l.broadcast()
		return Ack{OK: true}
	}
	if l.started {
		return reject(CodeAlreadyStarted)
	}
	if !l.hooks.BindUser(msg.UserID) {
		return reject(CodeAlreadyInLobby)
	}

	l.members[msg.UserID] = &Member{
		UserID:   msg.UserID,
		Name:     msg.Name,
		Outbox:   msg.Outbox,
		JoinedAt: time.Now(),
	}
	l.order = append(l.order, msg.UserID)
	if l.hostUserID == "" {
		l.hostUserID = msg.UserID
	}
	l.log.Info("member joined", zap.String("user", msg.UserID))

	l.broadcast()
	l.publishSummary()
	return Ack{OK: true}
}

// handleLeave removes the member and every round-scoped reference to them,
// reassigns the host if needed and destroys the lobby when it empties.
// Returns true when the lobby was destroyed and the loop must exit.
func (l *Lobby) handleLeave(userID string) bool {
	if _, ok := l.members[userID]; !ok {
		return false
	}

	delete(l.members, userID)
	for i, id := range l.order {
		if id == userID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}

	delete(l.eliminated, userID)
	delete(l.notebooks, userID)
	delete(l.playerRoles, userID)
	if l.pendingKillTarget == userID {
		l.pendingKillTarget = ""
	}
	delete(l.votes, userID)
	for voterID, targetID := range l.votes {
		if targetID == userID {
			delete(l.votes, voterID)
		}
	}
	l.removePendingReveal(userID)
	if l.currentReveal != nil && l.currentReveal.UserID == userID {
		l.currentReveal = nil
	}

	l.hooks.ReleaseUser(userID)
	l.log.Info("member left", zap.String("user", userID))

	if len(l.members) == 0 {
		l.cancelTimer()
		l.hooks.OnEmpty()
		l.cancel()
		return true
	}

	if l.hostUserID == userID {
		l.hostUserID = l.order[0]
		l.log.Info("host reassigned", zap.String("host", l.hostUserID))
	}

	l.broadcast()
	l.publishSummary()
	return false
}

func (l *Lobby) removePendingReveal(userID string) {
	kept := l.pendingReveals[:0]
	for _, r := range l.pendingReveals {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	l.pendingReveals = kept
}

func (l *Lobby) handleStartGame(userID string) Ack {
	if l.hostUserID != userID {
		return reject(CodeNotHost)
	}
	if l.started || l.startingAt != nil {
		return reject(CodeAlreadyStarted)
	}

	startingAt := l.scheduleStart()
	return Ack{OK: true, StartingAt: &startingAt}
}

func (l *Lobby) handleEndGame(userID string) Ack {
	if _, ok := l.members[userID]; !ok {
		return reject(CodeNotMember)
	}
	if l.hostUserID != userID {
		return reject(CodeNotHost)
	}

	l.endGame()
	return Ack{OK: true}
}

func (l *Lobby) handleUpdateSettings(msg UpdateSettings) Ack {
	if l.hostUserID != msg.UserID {
		return reject(CodeNotHost)
	}

	l.settings = msg.Settings.Sanitize(l.cfg.PhaseMinSeconds)
	l.broadcast()
	return Ack{OK: true}
}

func (l *Lobby) handleGetSnapshot(userID string) Ack {
	m, ok := l.members[userID]
	if !ok {
		return reject(CodeNotMember)
	}
	view := l.viewFor(m)
	return Ack{OK: true, Lobby: &view}
}
