package lobby

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/moonhowl/werewolf-backend/internal/game"
	"github.com/moonhowl/werewolf-backend/pkg/types"
)

func (l *Lobby) handleNightAction(msg NightAction) Ack {
	if _, ok := l.members[msg.UserID]; !ok {
		return reject(CodeNotMember)
	}
	if l.phase != game.PhaseNight {
		return reject(CodeWrongPhase)
	}
	if l.isEliminated(msg.UserID) {
		return reject(CodeDeadPlayer)
	}
	if l.playerRoles[msg.UserID] != game.RoleWerewolf {
		return reject(CodeNotWerewolf)
	}
	if msg.TargetUserID == msg.UserID || !l.isAlive(msg.TargetUserID) {
		return reject(CodeIllegalTarget)
	}

	l.pendingKillTarget = msg.TargetUserID
	l.broadcast()
	return Ack{OK: true}
}

// handleCastVote records a vote; re-selecting the same target toggles the
// vote off.
func (l *Lobby) handleCastVote(msg CastVote) Ack {
	if _, ok := l.members[msg.UserID]; !ok {
		return reject(CodeNotMember)
	}
	if l.phase != game.PhaseVote {
		return reject(CodeWrongPhase)
	}
	if l.isEliminated(msg.UserID) {
		return reject(CodeDeadPlayer)
	}
	if !l.isAlive(msg.TargetUserID) {
		return reject(CodeIllegalTarget)
	}

	if l.votes[msg.UserID] == msg.TargetUserID {
		delete(l.votes, msg.UserID)
		return Ack{OK: true, Cleared: true}
	}
	l.votes[msg.UserID] = msg.TargetUserID
	return Ack{OK: true}
}

func (l *Lobby) handleSetNotebook(msg SetNotebook) Ack {
	if _, ok := l.members[msg.UserID]; !ok {
		return reject(CodeNotMember)
	}

	notes := msg.Notes
	if len(notes) > l.cfg.NotebookMaxLen {
		// Back the cut up to a rune boundary so the stored text stays
		// valid UTF-8.
		cut := l.cfg.NotebookMaxLen
		for cut > 0 && !utf8.RuneStart(notes[cut]) {
			cut--
		}
		notes = notes[:cut]
	}
	l.notebooks[msg.UserID] = notes
	return Ack{OK: true}
}

// handleGetNotebook discloses a notebook: only during day or night, and
// only for an eliminated player.
func (l *Lobby) handleGetNotebook(msg GetNotebook) Ack {
	if _, ok := l.members[msg.UserID]; !ok {
		return reject(CodeNotMember)
	}
	if l.phase != game.PhaseDay && l.phase != game.PhaseNight {
		return reject(CodeWrongPhase)
	}
	if !l.isEliminated(msg.TargetUserID) {
		return reject(CodeTargetNotDead)
	}

	name := "Unknown Player"
	if m, ok := l.members[msg.TargetUserID]; ok {
		name = m.Name
	}
	return Ack{OK: true, Notebook: &types.NotebookView{
		UserID:  msg.TargetUserID,
		Name:    name,
		Content: l.notebooks[msg.TargetUserID],
	}}
}

func (l *Lobby) handleGameInit(userID string) Ack {
	if _, ok := l.members[userID]; !ok {
		return reject(CodeNotMember)
	}

	view := types.GameView{
		Started:                  l.started,
		Phase:                    l.phase,
		DayNumber:                l.dayNumber,
		NightNumber:              l.nightNumber,
		PhaseEndsAt:              unixMilliPtr(l.phaseEndsAt),
		CurrentNightDeathReveal:  l.revealView(l.currentReveal),
		CurrentEliminationResult: l.elimView(),
		HostUserID:               l.hostUserID,
		CanWriteNotebook:         !l.isEliminated(userID),
	}
	if role, ok := l.playerRoles[userID]; ok {
		view.Role = role
		if game.FactionOf(role) == game.FactionEnemy {
			view.WerewolfUserIDs = l.werewolfIDs()
		}
	}
	return Ack{OK: true, Game: &view}
}

// handleSetEliminated is the host override: force-eliminate or revive a
// member. Cause "night" keeps the pending reveal list consistent so the
// reveal sequence matches the final casualty set.
func (l *Lobby) handleSetEliminated(msg SetEliminated) Ack {
	if l.hostUserID != msg.UserID {
		return reject(CodeNotHost)
	}
	m, ok := l.members[msg.TargetUserID]
	if !ok {
		return reject(CodeIllegalTarget)
	}

	if !msg.Eliminated {
		delete(l.eliminated, msg.TargetUserID)
		if msg.Cause == "night" {
			l.removePendingReveal(msg.TargetUserID)
			if l.currentReveal != nil && l.currentReveal.UserID == msg.TargetUserID {
				l.currentReveal = nil
			}
		}
	} else {
		l.eliminated[msg.TargetUserID] = struct{}{}
		if msg.Cause == "night" {
			entry := deathReveal{
				UserID:   msg.TargetUserID,
				Name:     m.Name,
				Notebook: l.notebooks[msg.TargetUserID],
			}
			replaced := false
			for i, r := range l.pendingReveals {
				if r.UserID == msg.TargetUserID {
					l.pendingReveals[i] = entry
					replaced = true
					break
				}
			}
			if !replaced {
				l.pendingReveals = append(l.pendingReveals, entry)
			}
		}
	}

	l.log.Info("host override on alive state",
		zap.String("target", msg.TargetUserID),
		zap.Bool("eliminated", msg.Eliminated))
	l.broadcast()
	return Ack{OK: true}
}
