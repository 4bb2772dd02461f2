package pipeline

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
)

// runErosion runs thermal erosion then hydraulic erosion (§4.7). Both
// write height only, and both treat road/visualOnly cells as
// height-frozen rather than crossing into them.
func (p *Pipeline) runErosion(g *grid.Grid) error {
	if p.params.Erosion.ThermalEnabled {
		runThermalErosion(g, p.params.Erosion.ThermalIterations, p.params.Erosion.TalusAngle, p.params.Erosion.ErosionStrength)
	}
	if p.params.Erosion.HydraulicEnabled {
		runHydraulicErosion(g, p.rng, p.params.Erosion.HydraulicIterations, p.params.Erosion.RainAmount, p.params.Erosion.EvaporationRate, p.params.Erosion.ErosionStrength)
	}
	return nil
}

func frozen(f grid.Flags) bool {
	return f.Road() || f.VisualOnly()
}

// runThermalErosion iterates the talus-angle relaxation described in
// §4.7: excess slope beyond talusAngle is redistributed proportionally to
// the steepest-descending 8-neighbours, applied from a consistent
// snapshot each iteration (double-buffered).
func runThermalErosion(g *grid.Grid, iterations int, talusAngle, strength float64) {
	if iterations <= 0 {
		iterations = 3
	}
	cols, rows := g.Cols(), g.Rows()

	for iter := 0; iter < iterations; iter++ {
		snapshot := g.HeightPlane()
		deltas := make([]float64, len(snapshot))

		for y := 1; y < rows-1; y++ {
			for x := 1; x < cols-1; x++ {
				if frozen(g.FlagsAt(x, y)) {
					continue
				}
				idx := g.Index(x, y)
				h := float64(snapshot[idx])

				neighbors := g.Neighbors8(x, y)
				excess := make([]float64, 0, len(neighbors))
				var totalExcess, maxExcess float64
				for _, n := range neighbors {
					nh := float64(snapshot[g.Index(n[0], n[1])])
					d := h - nh
					if d > talusAngle {
						e := d - talusAngle
						excess = append(excess, e)
						totalExcess += e
						if e > maxExcess {
							maxExcess = e
						}
					} else {
						excess = append(excess, 0)
					}
				}
				if totalExcess <= 0 {
					continue
				}

				meanExcess := stat.Mean(excess, nil)
				remove := maxExcess * 0.5
				if alt := meanExcess * strength * 0.5; alt < remove {
					remove = alt
				}
				if remove <= 0 {
					continue
				}

				deltas[idx] -= remove
				for i, n := range neighbors {
					if excess[i] <= 0 {
						continue
					}
					if frozen(g.FlagsAt(n[0], n[1])) {
						continue
					}
					share := remove * excess[i] / totalExcess
					deltas[g.Index(n[0], n[1])] += share
				}
			}
		}

		g.ForEachCell(func(c grid.Cell, x, y int) {
			d := deltas[g.Index(x, y)]
			if d == 0 {
				return
			}
			g.SetHeight(c, g.Height(c)+float32(d))
		})
	}
}

// rainFraction is the share of cells rained on per hydraulic iteration
// (§4.7: "sprinkle rain on ~10% of cells").
const rainFraction = 0.1

// runHydraulicErosion simulates rainfall, steepest-descent flow and
// sediment transport across the whole grid each iteration, seeded by rng
// so a given seed reproduces bit-identical terrain (§9 fixes the source's
// use of an unseeded random generator here).
func runHydraulicErosion(g *grid.Grid, rng *rand.Rand, iterations int, rainAmount, evaporationRate, strength float64) {
	if iterations <= 0 {
		iterations = 4
	}
	if evaporationRate <= 0 {
		evaporationRate = 0.02
	}
	if strength <= 0 {
		strength = 0.5
	}
	cols, rows := g.Cols(), g.Rows()
	n := cols * rows

	water := make([]float64, n)
	sediment := make([]float64, n)

	for iter := 0; iter < iterations; iter++ {
		for idx := 0; idx < n; idx++ {
			if rng.Float64() < rainFraction {
				water[idx] += rainAmount
			}
		}

		heightSnapshot := g.HeightPlane()
		heightDelta := make([]float64, n)
		nextWater := make([]float64, n)
		nextSediment := make([]float64, n)
		copy(nextWater, water)
		copy(nextSediment, sediment)

		g.ForEachCell(func(c grid.Cell, x, y int) {
			idx := g.Index(x, y)
			if water[idx] <= 0 || frozen(g.Flags(c)) {
				return
			}

			h := float64(heightSnapshot[idx])
			bestSlope := 0.0
			bestIdx := -1
			for _, nb := range g.Neighbors8(x, y) {
				if frozen(g.FlagsAt(nb[0], nb[1])) {
					continue
				}
				nh := float64(heightSnapshot[g.Index(nb[0], nb[1])])
				slope := h - nh
				if slope > bestSlope {
					bestSlope = slope
					bestIdx = g.Index(nb[0], nb[1])
				}
			}

			if bestIdx < 0 {
				// No descent: deposit on the spot proportional to evaporation.
				deposit := sediment[idx] * evaporationRate
				heightDelta[idx] += deposit
				nextSediment[idx] -= deposit
				nextWater[idx] -= water[idx] * evaporationRate
				return
			}

			flow := water[idx]
			if slopeFlow := bestSlope * 0.5; slopeFlow < flow {
				flow = slopeFlow
			}
			erosionAmt := flow * strength * bestSlope

			heightDelta[idx] -= erosionAmt
			nextSediment[idx] += erosionAmt

			movedSediment := nextSediment[idx] * (flow / (water[idx] + 1e-9))
			if movedSediment > nextSediment[idx] {
				movedSediment = nextSediment[idx]
			}
			nextSediment[idx] -= movedSediment
			nextSediment[bestIdx] += movedSediment
			nextWater[idx] -= flow
			nextWater[bestIdx] += flow

			evaporated := nextWater[idx] * evaporationRate
			nextWater[idx] -= evaporated
			deposit := nextSediment[idx] * evaporationRate
			heightDelta[idx] += deposit
			nextSediment[idx] -= deposit
		})

		g.ForEachCell(func(c grid.Cell, x, y int) {
			idx := g.Index(x, y)
			if heightDelta[idx] == 0 {
				return
			}
			g.SetHeight(c, g.Height(c)+float32(heightDelta[idx]))
		})

		water, sediment = nextWater, nextSediment
	}
}

