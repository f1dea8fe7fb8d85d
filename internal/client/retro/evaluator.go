package retro

import (
	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xslog"
)

type inputKind uint8

const (
	inputTrigger inputKind = iota
	inputProgress
	inputHideProgress
	inputPrime
	inputStartLeaderboard
	inputUpdateLeaderboard
	inputSubmitLeaderboard
	inputFailLeaderboard
	inputRichPresence
)

type input struct {
	kind     inputKind
	id       uint32
	measured string
	pct      float32
	primed   bool
	value    int32
	text     string
}

func (r *Runtime) push(in input) {
	r.inputMu.Lock()
	defer r.inputMu.Unlock()
	r.inputs = append(r.inputs, in)
}

func (r *Runtime) clearInputs() {
	r.inputMu.Lock()
	defer r.inputMu.Unlock()
	r.inputs = nil
}

// Trigger reports that an achievement's conditions were met.
func (r *Runtime) Trigger(id uint32) { r.push(input{kind: inputTrigger, id: id}) }

// UpdateProgress reports measured progress towards an achievement.
func (r *Runtime) UpdateProgress(id uint32, measured string, pct float32) {
	r.push(input{kind: inputProgress, id: id, measured: measured, pct: pct})
}

func (r *Runtime) HideProgress() { r.push(input{kind: inputHideProgress}) }

// Prime marks an achievement as one frame away from triggering, which shows a challenge indicator.
func (r *Runtime) Prime(id uint32, primed bool) {
	r.push(input{kind: inputPrime, id: id, primed: primed})
}

func (r *Runtime) StartLeaderboard(id uint32, value int32) {
	r.push(input{kind: inputStartLeaderboard, id: id, value: value})
}

func (r *Runtime) UpdateLeaderboard(id uint32, value int32) {
	r.push(input{kind: inputUpdateLeaderboard, id: id, value: value})
}

func (r *Runtime) SubmitLeaderboard(id uint32, value int32) {
	r.push(input{kind: inputSubmitLeaderboard, id: id, value: value})
}

func (r *Runtime) FailLeaderboard(id uint32) { r.push(input{kind: inputFailLeaderboard, id: id}) }

func (r *Runtime) SetRichPresence(text string) {
	r.push(input{kind: inputRichPresence, text: text})
}

func (r *Runtime) applyInputs() {
	r.inputMu.Lock()
	batch := r.inputs
	r.inputs = nil
	r.inputMu.Unlock()

	if r.game == nil {
		return
	}
	for _, in := range batch {
		switch in.kind {
		case inputTrigger:
			r.trigger(in.id)
		case inputProgress:
			r.updateProgress(in.id, in.measured, in.pct)
		case inputHideProgress:
			r.hideProgress()
		case inputPrime:
			r.prime(in.id, in.primed)
		case inputStartLeaderboard:
			r.startLeaderboard(in.id, in.value)
		case inputUpdateLeaderboard:
			r.updateLeaderboard(in.id, in.value)
		case inputSubmitLeaderboard:
			r.submitLeaderboard(in.id, in.value)
		case inputFailLeaderboard:
			r.failLeaderboard(in.id)
		case inputRichPresence:
			r.game.richPresence = in.text
		}
	}
}

func (r *Runtime) activeAchievement(id uint32) (*backend.Achievement, bool) {
	a, ok := r.game.achievement(id)
	if !ok || a.State != backend.AchievementActive {
		return nil, false
	}
	if a.Unofficial() && !r.unofficial {
		return nil, false
	}
	return a, true
}

func (r *Runtime) trigger(id uint32) {
	a, ok := r.activeAchievement(id)
	if !ok {
		return
	}
	g := r.game

	if g.primed[id] {
		delete(g.primed, id)
		r.raise(backend.ChallengeIndicatorHide{Achievement: *a})
	}
	if g.progressShown && g.progressID == id {
		g.progressShown = false
		r.raise(backend.ProgressIndicatorHide{})
	}

	now := r.clock()
	a.State = backend.AchievementUnlocked
	a.UnlockTime = now

	firstUnlock := !g.earned(id, r.hardcore)
	if firstUnlock {
		g.softcoreUnlocks[id] = now
		if r.hardcore {
			g.hardcoreUnlocks[id] = now
		}
	}

	r.logger.Info("achievement triggered", xslog.AchievementID(id), xslog.GameID(g.info.ID))
	r.raise(backend.AchievementTriggered{Achievement: *a})

	if a.Category != backend.CategoryCore {
		return
	}
	if !r.spectator && firstUnlock {
		r.submitAward(id)
	}
	if !g.completed && g.allCoreUnlocked(r.hardcore) {
		g.completed = true
		r.raise(backend.GameCompleted{})
	}
}

func (r *Runtime) updateProgress(id uint32, measured string, pct float32) {
	a, ok := r.activeAchievement(id)
	if !ok {
		return
	}
	a.Measured = measured
	a.MeasuredPct = pct

	g := r.game
	g.progressID = id
	if !g.progressShown {
		g.progressShown = true
		r.raise(backend.ProgressIndicatorShow{Achievement: *a})
		return
	}
	r.raise(backend.ProgressIndicatorUpdate{Achievement: *a})
}

func (r *Runtime) hideProgress() {
	if !r.game.progressShown {
		return
	}
	r.game.progressShown = false
	r.raise(backend.ProgressIndicatorHide{})
}

func (r *Runtime) prime(id uint32, primed bool) {
	a, ok := r.activeAchievement(id)
	if !ok {
		return
	}
	g := r.game
	switch {
	case primed && !g.primed[id]:
		g.primed[id] = true
		r.raise(backend.ChallengeIndicatorShow{Achievement: *a})
	case !primed && g.primed[id]:
		delete(g.primed, id)
		r.raise(backend.ChallengeIndicatorHide{Achievement: *a})
	}
}

// Leaderboards are only processed in hardcore mode.
func (r *Runtime) leaderboardFor(id uint32, state backend.LeaderboardState) (*leaderboard, bool) {
	if !r.hardcore {
		return nil, false
	}
	lb, ok := r.game.leaderboard(id)
	if !ok || lb.State != state {
		return nil, false
	}
	return lb, true
}

func (r *Runtime) startLeaderboard(id uint32, value int32) {
	lb, ok := r.leaderboardFor(id, backend.LeaderboardActive)
	if !ok {
		return
	}
	lb.State = backend.LeaderboardTracking
	lb.value = value
	lb.Tracker = formatScore(lb.Format, value)

	r.raise(backend.LeaderboardStarted{Leaderboard: lb.Leaderboard})
	r.game.visibleTrackers[id] = true
	r.raise(backend.LeaderboardTrackerShow{Tracker: backend.Tracker{ID: id, Display: lb.Tracker}})
}

func (r *Runtime) updateLeaderboard(id uint32, value int32) {
	lb, ok := r.leaderboardFor(id, backend.LeaderboardTracking)
	if !ok || lb.value == value {
		return
	}
	lb.value = value
	lb.Tracker = formatScore(lb.Format, value)
	r.raise(backend.LeaderboardTrackerUpdate{Tracker: backend.Tracker{ID: id, Display: lb.Tracker}})
}

func (r *Runtime) stopTracking(lb *leaderboard) {
	lb.State = backend.LeaderboardActive
	if r.game.visibleTrackers[lb.ID] {
		delete(r.game.visibleTrackers, lb.ID)
		r.raise(backend.LeaderboardTrackerHide{Tracker: backend.Tracker{ID: lb.ID, Display: lb.Tracker}})
	}
}

func (r *Runtime) submitLeaderboard(id uint32, value int32) {
	lb, ok := r.leaderboardFor(id, backend.LeaderboardTracking)
	if !ok {
		return
	}
	lb.value = value
	lb.Tracker = formatScore(lb.Format, value)
	r.stopTracking(lb)

	r.logger.Info("leaderboard submitted", xslog.LeaderboardID(id), xslog.GameID(r.game.info.ID))
	r.raise(backend.LeaderboardSubmitted{Leaderboard: lb.Leaderboard})
	if !r.spectator {
		r.submitEntry(lb.Leaderboard, value)
	}
}

func (r *Runtime) failLeaderboard(id uint32) {
	lb, ok := r.leaderboardFor(id, backend.LeaderboardTracking)
	if !ok {
		return
	}
	r.stopTracking(lb)
	r.raise(backend.LeaderboardFailed{Leaderboard: lb.Leaderboard})
}

// Reset returns every achievement and leaderboard to its initial evaluation
// state. Unlocks are kept.
func (r *Runtime) Reset() {
	r.clearInputs()
	g := r.game
	if g == nil {
		return
	}
	for _, a := range g.achievements {
		if g.primed[a.ID] {
			r.raise(backend.ChallengeIndicatorHide{Achievement: *a})
		}
		a.Measured = ""
		a.MeasuredPct = 0
	}
	clear(g.primed)
	if g.progressShown {
		g.progressShown = false
		r.raise(backend.ProgressIndicatorHide{})
	}
	for _, lb := range g.leaderboards {
		if lb.State == backend.LeaderboardTracking {
			r.stopTracking(lb)
		}
		lb.value = 0
	}
	g.applyUnlocks(r.hardcore, r.encore)
}
