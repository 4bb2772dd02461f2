package pipeline

import (
	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

// runRamp is the iterative ramp cutter (§4.6): it carves walkable slopes
// between adjacent levels by only ever lowering the high side, repeated
// rampConfig.iterations times (default 12). It never touches cells
// flagged road or blocked, and never raises terrain.
func (p *Pipeline) runRamp(g *grid.Grid, stats *model.Stats) error {
	cfg := p.params.Ramp
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = 12
	}
	for iter := 0; iter < iterations; iter++ {
		snapshot := g.HeightPlane()

		g.ForEachCell(func(c grid.Cell, x, y int) {
			f := g.Flags(c)
			if f.Road() || f.Blocked() {
				return
			}

			level := g.LevelID(c)
			h := snapshot[g.Index(x, y)]

			minNeighborHeight := float32(0)
			found := false
			for _, n := range g.Neighbors4(x, y) {
				nx, ny := n[0], n[1]
				nIdx := g.Index(nx, ny)
				nLevel := g.LevelIDAt(nx, ny)
				if nLevel >= level {
					continue
				}
				nh := snapshot[nIdx]
				if !found || nh < minNeighborHeight {
					minNeighborHeight = nh
					found = true
				}
			}
			if !found {
				return
			}

			target := 0.4*minNeighborHeight + 0.6*h
			if target < h {
				g.SetHeightAt(x, y, target)
			}
			g.MutateFlags(c, func(f grid.Flags) grid.Flags {
				return f.WithRamp(true).WithPlayable(true)
			})
		})
	}

	// stats.RampCellCount is tallied by Run's final sweep over the finished
	// grid, not here, since a cell can gain flags.ramp on any iteration.
	_ = stats

	return nil
}
