package pipeline

import (
	"math"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
	"github.com/ridgeline-games/terrain-builder/pkg/noise"
)

// runBorder is the edge-barrier pass (§4.5): it raises, lowers, or floods
// the outermost borderWidth band of the grid according to the configured
// barrier kind, then cuts deliberate exits through it so roads can reach
// the map edge. border.enabled = false leaves every cell's boundary flag
// untouched and returns immediately.
func (p *Pipeline) runBorder(g *grid.Grid) error {
	cfg := p.params.Border
	if !cfg.Enabled || cfg.Type == model.BarrierNone {
		return nil
	}

	cols, rows := g.Cols(), g.Rows()
	heightScale := p.params.Noise.HeightScale
	if heightScale == 0 {
		heightScale = 1
	}
	targetHeight := float32(cfg.Height * heightScale)
	smoothness := cfg.Smoothness
	if smoothness < 0 {
		smoothness = 0
	}
	exponent := 1 / (smoothness + 0.1)

	exitCells := borderExitCells(cols, rows, cfg)

	g.ForEachCell(func(c grid.Cell, x, y int) {
		d := distanceToEdge(x, y, cols, rows)
		if d >= cfg.Width {
			return
		}

		g.MutateFlags(c, func(f grid.Flags) grid.Flags {
			f = f.WithBoundary(true)
			f.BoundaryType = grid.BoundaryEdge
			return f
		})

		t := float64(d) / float64(cfg.Width)
		smoothT := t * t * (3 - 2*t)
		barrierFactor := math.Pow(1-smoothT, exponent)

		noiseOffset := (noise.FBM(float64(x)*cfg.NoiseScale, float64(y)*cfg.NoiseScale, 3, 0.5, 2.0, p.params.Noise.Seed) - 0.5) * 2 * 0.05 * heightScale

		if _, isExit := exitCells[[2]int{x, y}]; isExit {
			exitFloor := float32(cfg.Height*heightScale) * 0.3
			exitT := 1 - smoothT
			h := g.HeightAt(x, y)
			h = h + (exitFloor-h)*float32(exitT)
			g.SetHeightAt(x, y, h)
			g.MutateFlags(c, func(f grid.Flags) grid.Flags {
				return f.WithRoad(true).WithPlayable(true).WithVisualOnly(false).WithCliff(false)
			})
			return
		}

		switch cfg.Type {
		case model.BarrierMountain:
			h := g.HeightAt(x, y)
			target := float32(barrierFactor)*targetHeight + float32(noiseOffset)
			if target > h {
				h = target
			}
			g.SetHeightAt(x, y, h)
			if barrierFactor > 0.3 {
				g.MutateFlags(c, func(f grid.Flags) grid.Flags {
					return f.WithVisualOnly(true).WithPlayable(false)
				})
			}
		case model.BarrierCliff:
			h := g.HeightAt(x, y)
			floor := -targetHeight * 0.5
			h = h - float32(barrierFactor)*(h-floor)
			g.SetHeightAt(x, y, h)
			g.MutateFlags(c, func(f grid.Flags) grid.Flags {
				return f.WithVisualOnly(true).WithCliff(true).WithPlayable(false)
			})
		case model.BarrierWater:
			h := g.HeightAt(x, y)
			subSeaLevel := -targetHeight * 0.25
			h = h - float32(barrierFactor)*(h-subSeaLevel)
			g.SetHeightAt(x, y, h)
			g.MutateFlags(c, func(f grid.Flags) grid.Flags {
				return f.WithWater(true).WithPlayable(false)
			})
		}
	})

	return nil
}

// distanceToEdge returns the Chebyshev distance from (x, y) to the
// nearest grid edge.
func distanceToEdge(x, y, cols, rows int) int {
	d := x
	if cols-1-x < d {
		d = cols - 1 - x
	}
	if y < d {
		d = y
	}
	if rows-1-y < d {
		d = rows - 1 - y
	}
	return d
}

// borderExitCells computes the set of edge cells cut through as exits,
// following §4.5's auto-distribution rule when exitPositions is empty:
// 1 exit -> south only; 2 -> north+south; 3 -> north+east+south; 4+ -> one
// per edge then distributed along the remaining edges in round-robin.
func borderExitCells(cols, rows int, cfg model.BorderConfig) map[[2]int]struct{} {
	set := make(map[[2]int]struct{})
	width := cfg.ExitWidth
	if width <= 0 {
		width = 1
	}

	addExit := func(edge string, center int) {
		half := width / 2
		for i := -half; i <= half; i++ {
			switch edge {
			case "north":
				x := center + i
				if x >= 0 && x < cols {
					set[[2]int{x, 0}] = struct{}{}
				}
			case "south":
				x := center + i
				if x >= 0 && x < cols {
					set[[2]int{x, rows - 1}] = struct{}{}
				}
			case "east":
				y := center + i
				if y >= 0 && y < rows {
					set[[2]int{cols - 1, y}] = struct{}{}
				}
			case "west":
				y := center + i
				if y >= 0 && y < rows {
					set[[2]int{0, y}] = struct{}{}
				}
			}
		}
	}

	if len(cfg.ExitPositions) > 0 {
		// explicit positions are pairs of (x, y) flattened into the slice.
		for i := 0; i+1 < len(cfg.ExitPositions); i += 2 {
			x, y := cfg.ExitPositions[i], cfg.ExitPositions[i+1]
			half := width / 2
			for dx := -half; dx <= half; dx++ {
				for dy := -half; dy <= half; dy++ {
					set[[2]int{x + dx, y + dy}] = struct{}{}
				}
			}
		}
		return set
	}

	switch {
	case cfg.ExitCount <= 0:
		return set
	case cfg.ExitCount == 1:
		addExit("south", cols/2)
	case cfg.ExitCount == 2:
		addExit("north", cols/2)
		addExit("south", cols/2)
	case cfg.ExitCount == 3:
		addExit("north", cols/2)
		addExit("east", rows/2)
		addExit("south", cols/2)
	default:
		edges := []string{"north", "east", "south", "west"}
		addExit("north", cols/2)
		addExit("east", rows/2)
		addExit("south", cols/2)
		addExit("west", rows/2)
		remaining := cfg.ExitCount - 4
		for i := 0; i < remaining; i++ {
			edge := edges[i%len(edges)]
			offset := (i/len(edges) + 2) * width * 2
			switch edge {
			case "north":
				addExit("north", cols/2+offset)
			case "south":
				addExit("south", cols/2+offset)
			case "east":
				addExit("east", rows/2+offset)
			case "west":
				addExit("west", rows/2+offset)
			}
		}
	}
	return set
}
