package roads

import (
	"math"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

// slopeCurve evaluates the configured interpolation curve at t in [0,1]
// (§4.9.5).
func slopeCurve(curve model.SlopeCurve, t float64) float64 {
	switch curve {
	case model.SlopeEaseIn:
		return t * t
	case model.SlopeEaseOut:
		return 1 - (1-t)*(1-t)
	case model.SlopeEaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - math.Pow(-2*t+2, 2)/2
	case model.SlopeExponential:
		if t <= 0 {
			return 0
		}
		return math.Pow(2, 10*(t-1))
	default: // linear
		return t
	}
}

// interpolateRampHeights computes the height at each index of a ramp
// sub-path using the configured slope curve between baseHeight(fromLevel)
// and baseHeight(toLevel). It refuses to interpolate when |Δlevel| > 1,
// per the invariant that a ramp segment must cross exactly one level
// boundary — callers must route via an intermediate ramp waypoint
// instead.
func interpolateRampHeights(fromLevel, toLevel int8, levelStep float32, count int, curve model.SlopeCurve) ([]float32, error) {
	delta := int(fromLevel) - int(toLevel)
	if delta < 0 {
		delta = -delta
	}
	if delta > 1 {
		return nil, common.NewError(common.InvalidLevelTransition, "roads.interpolate",
			"ramp segment spans more than one level; route via an intermediate waypoint", nil)
	}
	if count < 1 {
		return nil, nil
	}

	fromHeight := float32(fromLevel) * levelStep
	toHeight := float32(toLevel) * levelStep

	out := make([]float32, count)
	for i := 0; i < count; i++ {
		t := 0.0
		if count > 1 {
			t = float64(i) / float64(count-1)
		}
		eased := slopeCurve(curve, t)
		out[i] = fromHeight + float32(eased)*(toHeight-fromHeight)
	}
	return out, nil
}
