package achievements

import (
	"slices"
	"time"

	"github.com/garrettladley/cheevo/internal/backend"
)

const purgeOpacity = 0.01

// Opacity returns the indicator opacity elapsed after a show or hide. It is
// always within [0, 1].
func Opacity(elapsed time.Duration, active bool) float32 {
	fade := IndicatorFadeOut
	if active {
		fade = IndicatorFadeIn
	}
	frac := float32(1)
	if elapsed < fade {
		frac = float32(max(elapsed, 0)) / float32(fade)
	}
	if active {
		return frac
	}
	return 1 - frac
}

type Indicator[T any] struct {
	Payload     T
	Active      bool
	Opacity     float32
	ActivatedAt time.Time
}

func (i *Indicator[T]) show(payload T, now time.Time) {
	i.Payload = payload
	i.Active = true
	i.ActivatedAt = now
}

func (i *Indicator[T]) hide(now time.Time) {
	i.Active = false
	i.ActivatedAt = now
}

func (i *Indicator[T]) update(now time.Time) bool {
	i.Opacity = Opacity(now.Sub(i.ActivatedAt), i.Active)
	return !i.Active && i.Opacity <= purgeOpacity
}

// Indicators is a set of indicators keyed by K, kept in first-show order.
type Indicators[K comparable, T any] struct {
	keys  []K
	items map[K]*Indicator[T]
}

// Show activates key. An existing indicator keeps its position and has its
// payload and timer reset.
func (s *Indicators[K, T]) Show(key K, payload T, now time.Time) {
	if i, ok := s.items[key]; ok {
		i.show(payload, now)
		return
	}
	if s.items == nil {
		s.items = make(map[K]*Indicator[T])
	}
	i := &Indicator[T]{}
	i.show(payload, now)
	s.items[key] = i
	s.keys = append(s.keys, key)
}

// Hide starts the fade out of key. It reports whether key was present.
func (s *Indicators[K, T]) Hide(key K, now time.Time) bool {
	i, ok := s.items[key]
	if !ok {
		return false
	}
	i.hide(now)
	return true
}

// Update replaces the payload of key and marks it active without restarting
// its timer.
func (s *Indicators[K, T]) Update(key K, payload T) bool {
	i, ok := s.items[key]
	if !ok {
		return false
	}
	i.Payload = payload
	i.Active = true
	return true
}

func (s *Indicators[K, T]) Get(key K) (Indicator[T], bool) {
	i, ok := s.items[key]
	if !ok {
		return Indicator[T]{}, false
	}
	return *i, true
}

func (s *Indicators[K, T]) Len() int { return len(s.keys) }

// All returns copies in first-show order.
func (s *Indicators[K, T]) All() []Indicator[T] {
	out := make([]Indicator[T], 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, *s.items[k])
	}
	return out
}

func (s *Indicators[K, T]) update(now time.Time) {
	s.keys = slices.DeleteFunc(s.keys, func(k K) bool {
		if s.items[k].update(now) {
			delete(s.items, k)
			return true
		}
		return false
	})
}

func (s *Indicators[K, T]) clear() {
	s.keys = nil
	s.items = nil
}

// Slot holds at most one indicator.
type Slot[T any] struct {
	ind *Indicator[T]
}

// Show replaces the payload and restarts the timer, creating the indicator if needed.
func (s *Slot[T]) Show(payload T, now time.Time) {
	if s.ind == nil {
		s.ind = &Indicator[T]{}
	}
	s.ind.show(payload, now)
}

func (s *Slot[T]) Hide(now time.Time) bool {
	if s.ind == nil {
		return false
	}
	s.ind.hide(now)
	return true
}

func (s *Slot[T]) Update(payload T) bool {
	if s.ind == nil {
		return false
	}
	s.ind.Payload = payload
	s.ind.Active = true
	return true
}

func (s *Slot[T]) Get() (Indicator[T], bool) {
	if s.ind == nil {
		return Indicator[T]{}, false
	}
	return *s.ind, true
}

func (s *Slot[T]) update(now time.Time) {
	if s.ind != nil && s.ind.update(now) {
		s.ind = nil
	}
}

func (s *Slot[T]) clear() { s.ind = nil }

// Badge is an achievement shown with its cached badge image.
type Badge struct {
	Achievement backend.Achievement
	BadgePath   string
}

// Animator owns the on-screen indicators: challenge badges keyed by
// achievement, the single progress badge and leaderboard trackers keyed by
// tracker id.
type Animator struct {
	clock func() time.Time

	Challenges Indicators[uint32, Badge]
	Progress   Slot[Badge]
	Trackers   Indicators[uint32, backend.Tracker]
}

func NewAnimator(clock func() time.Time) *Animator {
	return &Animator{clock: clock}
}

func (a *Animator) Now() time.Time { return a.clock() }

// Update recomputes opacities and drops indicators that finished fading out.
func (a *Animator) Update() {
	now := a.clock()
	a.Challenges.update(now)
	a.Progress.update(now)
	a.Trackers.update(now)
}

func (a *Animator) Clear() {
	a.Challenges.clear()
	a.Progress.clear()
	a.Trackers.clear()
}
