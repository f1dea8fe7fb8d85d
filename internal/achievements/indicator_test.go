package achievements

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOpacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		elapsed time.Duration
		active  bool
		want    float32
	}{
		{name: "fade in start", elapsed: 0, active: true, want: 0},
		{name: "fade in half", elapsed: IndicatorFadeIn / 2, active: true, want: 0.5},
		{name: "fade in done", elapsed: IndicatorFadeIn, active: true, want: 1},
		{name: "long active", elapsed: time.Hour, active: true, want: 1},
		{name: "fade out start", elapsed: 0, active: false, want: 1},
		{name: "fade out half", elapsed: IndicatorFadeOut / 2, active: false, want: 0.5},
		{name: "fade out done", elapsed: IndicatorFadeOut, active: false, want: 0},
		{name: "clock went back", elapsed: -time.Second, active: true, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Opacity(tt.elapsed, tt.active); got != tt.want {
				t.Errorf("Opacity(%v, %v) = %v, want %v", tt.elapsed, tt.active, got, tt.want)
			}
		})
	}
}

func TestIndicators_ShowHidePurge(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	var s Indicators[uint32, string]

	s.Show(2, "two", now)
	s.Show(1, "one", now)
	s.update(now.Add(IndicatorFadeIn))

	got := s.All()
	if diff := cmp.Diff([]string{"two", "one"}, payloads(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got[0].Opacity != 1 {
		t.Errorf("opacity = %v, want 1", got[0].Opacity)
	}

	hidden := now.Add(time.Second)
	if !s.Hide(2, hidden) {
		t.Fatal("Hide(2) = false")
	}
	if s.Hide(3, hidden) {
		t.Error("Hide(3) = true for a missing key")
	}

	s.update(hidden.Add(IndicatorFadeOut / 2))
	if s.Len() != 2 {
		t.Fatalf("Len() = %d while fading, want 2", s.Len())
	}
	s.update(hidden.Add(IndicatorFadeOut))
	if diff := cmp.Diff([]string{"one"}, payloads(s.All())); diff != "" {
		t.Errorf("after purge mismatch (-want +got):\n%s", diff)
	}
}

func TestIndicators_ShowExistingResetsTimer(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	var s Indicators[uint32, string]
	s.Show(1, "first", now)
	s.Hide(1, now.Add(time.Second))

	later := now.Add(2 * time.Second)
	s.Show(1, "second", later)

	got, ok := s.Get(1)
	if !ok || !got.Active || got.Payload != "second" || !got.ActivatedAt.Equal(later) {
		t.Errorf("Get(1) = %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestIndicators_UpdateKeepsTimer(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	var s Indicators[uint32, string]
	s.Show(1, "a", now)

	if !s.Update(1, "b") {
		t.Fatal("Update(1) = false")
	}
	if s.Update(2, "c") {
		t.Error("Update(2) = true for a missing key")
	}

	got, _ := s.Get(1)
	if got.Payload != "b" || !got.ActivatedAt.Equal(now) {
		t.Errorf("Get(1) = %+v, want payload b and the original timer", got)
	}
}

func TestSlot(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	var s Slot[string]

	if s.Update("x") || s.Hide(now) {
		t.Error("empty slot accepted Update or Hide")
	}

	s.Show("a", now)
	s.Show("b", now.Add(time.Second))
	got, ok := s.Get()
	if !ok || got.Payload != "b" || !got.ActivatedAt.Equal(now.Add(time.Second)) {
		t.Errorf("Get() = %+v", got)
	}

	s.Hide(now.Add(2 * time.Second))
	s.update(now.Add(2*time.Second + IndicatorFadeOut))
	if _, ok := s.Get(); ok {
		t.Error("slot not purged after fade out")
	}
}

func TestAnimator_Clear(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	a := NewAnimator(func() time.Time { return now })
	a.Challenges.Show(1, Badge{}, a.Now())
	a.Progress.Show(Badge{}, a.Now())

	a.Clear()
	a.Update()

	if a.Challenges.Len() != 0 || a.Trackers.Len() != 0 {
		t.Error("indicators left after Clear")
	}
	if _, ok := a.Progress.Get(); ok {
		t.Error("progress left after Clear")
	}
}

func payloads(in []Indicator[string]) []string {
	out := make([]string, 0, len(in))
	for _, i := range in {
		out = append(out, i.Payload)
	}
	return out
}
