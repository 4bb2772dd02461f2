package pipeline

import (
	"github.com/ridgeline-games/terrain-builder/pkg/grid"
)

// runLevels is the level-assignment pass (§4.4): it maps the scalar
// height field to a small set of level ids using smoothstep-softened
// thresholds, then quantizes to the integer levelId plane, deriving
// underwater/visualOnly/playable flags. Assigning the level id resets each
// cell's height to baseHeight(levelId) (grid.ResetHeight), so every level
// leaves this pass as a flat plateau.
//
// The source defines two threshold sets: the semantic water/lowland/
// hill/mountain bands, and a separate set of bucket cutoffs (<0.1, <0.4,
// <0.6) applied to a "continuous blended level" derived from them. This
// implementation resolves that into a concrete continuousLevel: the mean
// of three smoothstep crossings (water->lowland, lowland->hill,
// hill->mountain), which rises monotonically from 0 near the water line
// to 1 well above the mountain line and crosses the bucket cutoffs in the
// order the spec's defaults imply.
func (p *Pipeline) runLevels(g *grid.Grid) error {
	cfg := p.params.Level
	heightScale := p.params.Noise.HeightScale
	if heightScale == 0 {
		heightScale = 1
	}
	tw := cfg.TransitionWidth
	if tw <= 0 {
		tw = 0.02
	}

	g.ForEachCell(func(c grid.Cell, x, y int) {
		h := float64(g.Height(c)) / heightScale

		var level int8
		underwater := false

		if h < cfg.WaterThreshold {
			level = -1
			underwater = true
		} else {
			a := smoothstep(cfg.WaterThreshold, cfg.LowlandThreshold, h)
			b := smoothstep(cfg.LowlandThreshold, cfg.HillThreshold, h)
			d := smoothstep(cfg.HillThreshold, cfg.MountainThreshold, h)
			continuous := (a + b + d) / 3

			switch {
			case continuous < 0.1:
				level = 0
			case continuous < 0.4:
				level = 1
			case continuous < 0.6:
				level = 2
			default:
				level = 3
			}
		}

		if level < cfg.MinLevel {
			level = cfg.MinLevel
		}
		if level > cfg.MaxLevel {
			level = cfg.MaxLevel
		}

		g.SetLevelID(c, level, grid.ResetHeight)

		visualOnly := level > cfg.MaxWalkableLevel
		playable := !visualOnly && !underwater
		g.MutateFlags(c, func(f grid.Flags) grid.Flags {
			return f.WithUnderwater(underwater).
				WithWater(underwater).
				WithVisualOnly(visualOnly).
				WithPlayable(playable)
		})
	})

	return nil
}
