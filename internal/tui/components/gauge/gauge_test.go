package gauge

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/garrettladley/cheevo/internal/tui/theme"
)

func TestGauge_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		done     uint32
		total    uint32
		wantText string
		wantFrac float64
	}{
		{name: "no achievements", done: 0, total: 0, wantText: "--", wantFrac: 0},
		{name: "none unlocked", done: 0, total: 10, wantText: "0/10", wantFrac: 0},
		{name: "partial", done: 3, total: 12, wantText: "3/12", wantFrac: 0.25},
		{name: "mastered", done: 10, total: 10, wantText: "10/10", wantFrac: 1},
		{name: "over total", done: 11, total: 10, wantText: "11/10", wantFrac: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New(tt.done, tt.total, "ACHIEVEMENTS", theme.ColorGold)
			if got := g.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
			if got := g.Fraction(); got != tt.wantFrac {
				t.Errorf("Fraction() = %v, want %v", got, tt.wantFrac)
			}
		})
	}
}

func TestGauge_Render(t *testing.T) {
	t.Parallel()

	out := ansi.Strip(New(7, 10, "ACHIEVEMENTS", theme.ColorGold).Render())
	lines := strings.Split(out, "\n")

	if got, want := len(lines), ringDotsHeight/4+1; got != want {
		t.Fatalf("lines = %d, want %d", got, want)
	}
	if !strings.Contains(lines[ringDotsHeight/8], "7/10") {
		t.Errorf("render is missing the value:\n%s", out)
	}
	if !strings.Contains(lines[len(lines)-1], "ACHIEVEMENTS") {
		t.Errorf("last line = %q, want the label", lines[len(lines)-1])
	}
	if !strings.ContainsFunc(out, isBraille) {
		t.Error("render has no ring")
	}
}

func TestWithinSweep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dx, dy float64
		sweep  float64
		want   bool
	}{
		{name: "just past top", dx: 0.01, dy: -1, sweep: 1, want: true},
		{name: "right after quarter", dx: 1, dy: 0, sweep: 90, want: true},
		{name: "right before quarter", dx: 1, dy: 0, sweep: 89, want: false},
		{name: "left after half", dx: -1, dy: 0, sweep: 179, want: false},
		{name: "left after three quarters", dx: -1, dy: 0, sweep: 271, want: true},
		{name: "full turn", dx: -1, dy: -0.01, sweep: 360, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := withinSweep(tt.dx, tt.dy, tt.sweep); got != tt.want {
				t.Errorf("withinSweep(%v, %v, %v) = %v, want %v", tt.dx, tt.dy, tt.sweep, got, tt.want)
			}
		})
	}
}
