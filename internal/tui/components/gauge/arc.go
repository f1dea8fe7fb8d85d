package gauge

import (
	"math"

	drawille "github.com/exrook/drawille-go"
)

const (
	// screen angles: 0 is 3 o'clock and angles grow clockwise, so 270 is 12 o'clock
	ringStart     = 270.0
	ringSweep     = 360.0
	ringThickness = 4.0
)

// drawRing sets every dot of a ring of the given outer radius whose angle
// lies within fraction of a full turn, starting at 12 o'clock.
func drawRing(canvas *drawille.Canvas, cx, cy, radius float64, fraction float64) {
	fraction = clamp(fraction)
	if fraction == 0 {
		return
	}
	sweep := fraction * ringSweep
	inner := radius - ringThickness

	for y := int(cy - radius); y <= int(cy+radius); y++ {
		for x := int(cx - radius); x <= int(cx+radius); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d := math.Hypot(dx, dy)
			if d > radius || d < inner {
				continue
			}
			if withinSweep(dx, dy, sweep) {
				canvas.Set(x, y)
			}
		}
	}
}

func withinSweep(dx, dy, sweep float64) bool {
	if sweep >= ringSweep {
		return true
	}
	angle := math.Atan2(dy, dx) * 180 / math.Pi
	offset := math.Mod(angle-ringStart+720, 360)
	return offset <= sweep
}

func clamp(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
