package lobby

import (
	"time"

	"go.uber.org/zap"

	"github.com/moonhowl/werewolf-backend/internal/game"
)

// armTimer replaces any outstanding timer. Bumping the generation first
// means a previously armed callback that already fired into the inbox is
// ignored when the loop gets to it.
func (l *Lobby) armTimer(d time.Duration) {
	l.cancelTimer()
	l.timerGen++
	gen := l.timerGen
	l.phaseTimer = time.AfterFunc(d, func() {
		select {
		case l.inbox <- phaseTimeout{Gen: gen}:
		case <-l.ctx.Done():
		}
	})
}

func (l *Lobby) cancelTimer() {
	l.timerGen++
	if l.phaseTimer != nil {
		l.phaseTimer.Stop()
		l.phaseTimer = nil
	}
}

// armPhase enters a timed phase: sets phaseEndsAt and arms the single timer.
func (l *Lobby) armPhase(d time.Duration) {
	endsAt := time.Now().Add(d)
	l.phaseEndsAt = &endsAt
	l.armTimer(d)
}

func (l *Lobby) clearRoundState() {
	l.dayNumber = nil
	l.nightNumber = nil
	l.phaseEndsAt = nil
	l.currentReveal = nil
	l.pendingReveals = nil
	l.pendingKillTarget = ""
	l.votes = make(map[string]string)
	l.elimResult = nil
}

func (l *Lobby) clearPlayerGameData() {
	l.playerRoles = make(map[string]game.Role)
	l.notebooks = make(map[string]string)
	l.eliminated = make(map[string]struct{})
}

// onTimeout is the single exit point for every timed phase. The transition
// taken is a function of the current state alone; phaseTimeout generation
// checking upstream of this call guarantees no superseded phase gets here.
func (l *Lobby) onTimeout() {
	switch {
	case !l.started && l.startingAt != nil:
		l.beginGame()
	case l.phase == game.PhaseRoleReveal:
		l.startDay(0)
	case l.phase == game.PhaseDay:
		if l.dayNumber != nil && *l.dayNumber == 0 {
			l.startNight(1)
		} else {
			l.startVote()
		}
	case l.phase == game.PhaseNight:
		l.resolveNightKill()
		l.startNightResults()
	case l.phase == game.PhaseNightResults:
		l.advanceNightResults()
	case l.phase == game.PhaseVote:
		l.resolveVote()
		l.startEliminationResults()
	case l.phase == game.PhaseEliminationResults:
		l.elimResult = nil
		next := 1
		if l.nightNumber != nil {
			next = *l.nightNumber + 1
		}
		l.startNight(next)
	}
}

// scheduleStart arms the pre-game countdown and returns its deadline.
func (l *Lobby) scheduleStart() time.Time {
	startingAt := time.Now().Add(l.cfg.StartCountdown)
	l.startingAt = &startingAt
	l.clearRoundState()
	l.eliminated = make(map[string]struct{})

	l.armTimer(l.cfg.StartCountdown)
	l.log.Info("game start scheduled", zap.Time("startingAt", startingAt))

	l.broadcast()
	l.publishSummary()
	return startingAt
}

func (l *Lobby) beginGame() {
	ids := make([]string, len(l.order))
	copy(ids, l.order)
	l.playerRoles = game.AssignRoles(
		ids,
		l.settings.WerewolfCount,
		l.settings.SpecialRolesEnabled,
		l.settings.NeutralRolesEnabled,
	)

	l.started = true
	l.startingAt = nil
	l.phase = game.PhaseRoleReveal
	l.armPhase(l.cfg.RoleRevealDuration)
	l.log.Info("game started", zap.Int("players", len(ids)))

	l.broadcast()
	l.publishSummary()
}

func (l *Lobby) startDay(dayNumber int) {
	l.phase = game.PhaseDay
	n := dayNumber
	l.dayNumber = &n

	d := time.Duration(l.settings.PhaseDurations.DaySeconds) * time.Second
	if dayNumber == 0 {
		// Intro day: discussion only, no vote follows.
		d = l.cfg.DayZeroDuration
	}
	l.armPhase(d)
	l.broadcast()
}

func (l *Lobby) startNight(nightNumber int) {
	l.phase = game.PhaseNight
	n := nightNumber
	l.nightNumber = &n
	l.currentReveal = nil
	l.pendingReveals = nil
	l.pendingKillTarget = ""
	l.votes = make(map[string]string)
	l.elimResult = nil

	l.armPhase(time.Duration(l.settings.PhaseDurations.NightSeconds) * time.Second)
	l.broadcast()
}

// resolveNightKill runs at night exit. A target that left or already died
// while the night ran is silently ignored.
func (l *Lobby) resolveNightKill() {
	targetID := l.pendingKillTarget
	l.pendingKillTarget = ""
	if targetID == "" || !l.isAlive(targetID) {
		return
	}

	l.eliminated[targetID] = struct{}{}
	m := l.members[targetID]
	l.pendingReveals = append(l.pendingReveals, deathReveal{
		UserID:   targetID,
		Name:     m.Name,
		Notebook: l.notebooks[targetID],
	})
	l.log.Info("night kill resolved", zap.String("target", targetID))
}

func (l *Lobby) startNightResults() {
	l.phase = game.PhaseNightResults

	if len(l.pendingReveals) == 0 {
		l.currentReveal = nil
		l.armPhase(l.cfg.NoDeathPause)
		l.broadcast()
		return
	}

	l.showNextReveal()
}

// advanceNightResults steps to the next queued reveal, or to the next day
// once the queue drains. Reveals are consumed from the head of the queue,
// so leave-cleanup pruning an entry never shifts the remaining ones past
// the cursor.
func (l *Lobby) advanceNightResults() {
	if len(l.pendingReveals) > 0 {
		l.showNextReveal()
		return
	}

	l.currentReveal = nil
	nextDay := 1
	if l.dayNumber != nil {
		nextDay = *l.dayNumber + 1
	}
	l.startDay(nextDay)
}

// showNextReveal pops the queue head and holds it on screen.
func (l *Lobby) showNextReveal() {
	r := l.pendingReveals[0]
	l.pendingReveals = l.pendingReveals[1:]
	l.currentReveal = &r
	l.armPhase(l.cfg.DeathReveal)
	l.broadcast()
}

func (l *Lobby) startVote() {
	l.phase = game.PhaseVote
	l.votes = make(map[string]string)
	l.armPhase(time.Duration(l.settings.PhaseDurations.VoteSeconds) * time.Second)
	l.broadcast()
}

// resolveVote tallies the vote at phase exit. Registry cleanup on leave
// removes dangling votes proactively, so recorded votes always point at
// present members; a tie or an empty ballot produces no elimination.
func (l *Lobby) resolveVote() {
	outcome := game.TallyVotes(l.votes)
	if !outcome.Eliminated || !l.isAlive(outcome.TargetUserID) {
		l.elimResult = &eliminationResult{NoElimination: true}
		return
	}

	l.eliminated[outcome.TargetUserID] = struct{}{}
	m := l.members[outcome.TargetUserID]
	l.elimResult = &eliminationResult{
		UserID:    outcome.TargetUserID,
		Name:      m.Name,
		Notebook:  l.notebooks[outcome.TargetUserID],
		VoteCount: outcome.VoteCount,
	}
	l.log.Info("vote resolved",
		zap.String("target", outcome.TargetUserID),
		zap.Int("votes", outcome.VoteCount))
}

func (l *Lobby) startEliminationResults() {
	l.phase = game.PhaseEliminationResults
	l.currentReveal = nil
	l.armPhase(l.cfg.EliminationResults)
	l.broadcast()
}

// endGame resets the lobby to its pre-game state from any phase. Settings
// survive; everything round-scoped, including assigned roles, does not.
func (l *Lobby) endGame() {
	l.cancelTimer()
	l.started = false
	l.startingAt = nil
	l.phase = game.PhaseLobby
	l.clearRoundState()
	l.clearPlayerGameData()
	l.log.Info("game ended")

	l.broadcast()
	l.publishSummary()
}
