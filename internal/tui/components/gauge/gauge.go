package gauge

import (
	"fmt"
	"image/color"
	"strings"

	drawille "github.com/exrook/drawille-go"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/cheevo/internal/tui/theme"
)

const (
	// braille cells are 2 dots wide and 4 dots tall
	ringDotsWidth  = 36
	ringDotsHeight = 36

	emptyBraille rune = '⠀'
)

// Gauge is a completion ring with "done/total" in the middle.
type Gauge struct {
	Done      uint32
	Total     uint32
	Label     string
	Color     color.Color
	BgColor   color.Color
	TextColor color.Color
}

type Option func(*Gauge)

func WithBgColor(c color.Color) Option {
	return func(g *Gauge) { g.BgColor = c }
}

func WithTextColor(c color.Color) Option {
	return func(g *Gauge) { g.TextColor = c }
}

func New(done uint32, total uint32, label string, c color.Color, opts ...Option) Gauge {
	g := Gauge{
		Done:      done,
		Total:     total,
		Label:     label,
		Color:     c,
		BgColor:   theme.ColorBgLight,
		TextColor: theme.ColorWhite,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func (g Gauge) Fraction() float64 {
	if g.Total == 0 {
		return 0
	}
	return clamp(float64(g.Done) / float64(g.Total))
}

func (g Gauge) Text() string {
	if g.Total == 0 {
		return "--"
	}
	return fmt.Sprintf("%d/%d", g.Done, g.Total)
}

func (g Gauge) Render() string {
	var (
		cx     = float64(ringDotsWidth) / 2
		cy     = float64(ringDotsHeight) / 2
		radius = float64(ringDotsWidth)/2 - 1
	)

	canvas := drawille.NewCanvas()
	drawRing(&canvas, cx, cy, radius, 1)
	bg := cells(&canvas)

	canvas.Clear()
	drawRing(&canvas, cx, cy, radius, g.Fraction())
	fill := cells(&canvas)

	var (
		bgStyle   = lipgloss.NewStyle().Foreground(g.BgColor)
		fillStyle = lipgloss.NewStyle().Foreground(g.Color)
		textStyle = lipgloss.NewStyle().Foreground(g.TextColor).Bold(true)
		text      = []rune(g.Text())
		textRow   = len(bg) / 2
		textCol   = (ringDotsWidth/2 - len(text)) / 2
	)

	lines := make([]string, len(bg))
	for i := range bg {
		var b strings.Builder
		for j := range bg[i] {
			if i == textRow && j >= textCol && j < textCol+len(text) {
				b.WriteString(textStyle.Render(string(text[j-textCol])))
				continue
			}
			switch {
			case fill[i][j] != emptyBraille:
				b.WriteString(fillStyle.Render(string(fill[i][j] | bg[i][j])))
			case bg[i][j] != emptyBraille:
				b.WriteString(bgStyle.Render(string(bg[i][j])))
			default:
				b.WriteRune(' ')
			}
		}
		lines[i] = b.String()
	}

	label := lipgloss.NewStyle().
		Foreground(g.TextColor).
		Bold(true).
		Width(ringDotsWidth / 2).
		Align(lipgloss.Center).
		Render(g.Label)

	return lipgloss.JoinVertical(lipgloss.Center, strings.Join(lines, "\n"), label)
}

// cells returns the canvas as a fixed grid of braille runes. Unset cells are
// the empty braille pattern so dot patterns can be OR'd together.
func cells(canvas *drawille.Canvas) [][]rune {
	const (
		w = ringDotsWidth / 2
		h = ringDotsHeight / 4
	)
	rows := canvas.Rows(0, 0, ringDotsWidth, ringDotsHeight)

	out := make([][]rune, h)
	for i := range out {
		out[i] = make([]rune, w)
		var row []rune
		if i < len(rows) {
			row = []rune(rows[i])
		}
		for j := range out[i] {
			out[i][j] = emptyBraille
			if j < len(row) && isBraille(row[j]) {
				out[i][j] = row[j]
			}
		}
	}
	return out
}

func isBraille(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}
