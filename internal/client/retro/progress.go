package retro

import (
	"fmt"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/cheevo/internal/backend"
	"github.com/garrettladley/cheevo/internal/xerrors"
)

type achievementProgress struct {
	ID       uint32  `json:"id"`
	Primed   bool    `json:"primed,omitempty"`
	Measured string  `json:"measured,omitempty"`
	Pct      float32 `json:"pct,omitempty"`
}

type leaderboardProgress struct {
	ID    uint32 `json:"id"`
	Value int32  `json:"value"`
}

type progressState struct {
	GameID       uint32                `json:"game_id"`
	Achievements []achievementProgress `json:"achievements,omitempty"`
	Leaderboards []leaderboardProgress `json:"leaderboards,omitempty"`
	RichPresence string                `json:"rich_presence,omitempty"`
}

// CaptureProgress snapshots evaluation state in a single pass. It returns nil
// when no game is loaded.
func (r *Runtime) CaptureProgress() ([]byte, error) {
	g := r.game
	if g == nil {
		return nil, nil
	}

	state := progressState{GameID: g.info.ID, RichPresence: g.richPresence}
	for _, a := range g.achievements {
		if a.State != backend.AchievementActive {
			continue
		}
		if !g.primed[a.ID] && a.Measured == "" {
			continue
		}
		state.Achievements = append(state.Achievements, achievementProgress{
			ID:       a.ID,
			Primed:   g.primed[a.ID],
			Measured: a.Measured,
			Pct:      a.MeasuredPct,
		})
	}
	for _, lb := range g.leaderboards {
		if lb.State == backend.LeaderboardTracking {
			state.Leaderboards = append(state.Leaderboards, leaderboardProgress{ID: lb.ID, Value: lb.value})
		}
	}

	data, err := go_json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encoding progress: %w", err)
	}
	return data, nil
}

func (r *Runtime) ProgressSize() int {
	data, err := r.CaptureProgress()
	if err != nil {
		return 0
	}
	return len(data)
}

func (r *Runtime) SerializeProgress(buf []byte) error {
	data, err := r.CaptureProgress()
	if err != nil {
		return err
	}
	if len(data) != len(buf) {
		return xerrors.Invariant("serialize progress",
			xerrors.WithMessage(fmt.Sprintf("progress size changed: have %d bytes, buffer is %d", len(data), len(buf))))
	}
	copy(buf, data)
	return nil
}

func (r *Runtime) DeserializeProgress(data []byte) error {
	const op = "deserialize progress"

	g := r.game
	if g == nil {
		return xerrors.MalformedState(op, xerrors.WithMessage("no game loaded"))
	}
	var state progressState
	if err := go_json.Unmarshal(data, &state); err != nil {
		return xerrors.MalformedState(op, xerrors.WithCause(err))
	}
	if state.GameID != g.info.ID {
		return xerrors.MalformedState(op,
			xerrors.WithMessage(fmt.Sprintf("progress is for game %d, loaded game is %d", state.GameID, g.info.ID)))
	}

	r.Reset()

	for _, p := range state.Achievements {
		a, ok := r.activeAchievement(p.ID)
		if !ok {
			continue
		}
		a.Measured = p.Measured
		a.MeasuredPct = p.Pct
		if p.Primed {
			g.primed[a.ID] = true
			r.raise(backend.ChallengeIndicatorShow{Achievement: *a})
		}
	}
	for _, p := range state.Leaderboards {
		lb, ok := g.leaderboard(p.ID)
		if !ok || lb.State != backend.LeaderboardActive {
			continue
		}
		lb.State = backend.LeaderboardTracking
		lb.value = p.Value
		lb.Tracker = formatScore(lb.Format, p.Value)
		g.visibleTrackers[lb.ID] = true
		r.raise(backend.LeaderboardTrackerShow{Tracker: backend.Tracker{ID: lb.ID, Display: lb.Tracker}})
	}
	g.richPresence = state.RichPresence
	return nil
}
