package pipeline

import (
	"math"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/noise"
)

// runSynth is the base-height synthesis pass (§4.3): it composes the
// noise primitives into a normalized [0,1] field per pixel, then scales
// by heightScale into engine units. It writes height only.
func (p *Pipeline) runSynth(g *grid.Grid) error {
	cfg := p.params.Noise
	cols, rows := g.Cols(), g.Rows()
	seed := cfg.Seed

	mountainMask := 1.0 // a global scalar in this implementation; a future
	// biome-aware variant could vary this per-region.

	g.ForEachCell(func(c grid.Cell, x, y int) {
		u := float64(x) / float64(cols)
		v := float64(y) / float64(rows)

		px := u * float64(cols) * cfg.NoiseScale
		py := v * float64(rows) * cfg.NoiseScale

		wx, wy := noise.Warp(px, py, cfg.WarpStrength*40, seed)

		continentalBase := smoothstep(0.35, 0.65, noise.FBM(wx*0.3+float64(seed), wy*0.3, 4, 0.6, 2.0, seed))
		ridges := math.Pow(noise.RidgedMultifractal(wx*0.8+float64(seed)*1.1, wy*0.8, 6, 2.2, 0.5, seed), 1.5)
		hills := 0.6 * noise.BillowNoise(wx*1.5+float64(seed)*2, wy*1.5, 5, 0.45, 2.0, seed)
		voronoiPlateaus := 0.2 * smoothstep(0.1, 0.4, noise.Voronoi(wx*0.5+float64(seed), wy*0.5, seed))
		cracks := 1 - 0.15*(1-smoothstep(0, 0.15, noise.VoronoiEdges(wx*1.2+float64(seed)*0.3, wy*1.2, seed)))
		meso := 0.12 * noise.FBM(wx*4+float64(seed)*4, wy*4, 4, 0.5, 2.0, seed)
		micro := 0.08 * noise.Turbulence(wx*8+float64(seed)*3, wy*8, 3, seed)

		h := 0.3*continentalBase + ridges*cfg.RidgeStrength*mountainMask + hills*cfg.HillStrength + voronoiPlateaus*mountainMask
		h *= cracks
		h += meso + micro*cfg.SlopeWeight

		// Plains flattening: push toward the median per §4.3 step 9.
		const median = 0.35
		plainsFlat := clamp01(cfg.PlainsFlat)
		if plainsFlat > 0 {
			d := h - median
			sign := 1.0
			if d < 0 {
				sign = -1.0
			}
			h = median + sign*math.Pow(math.Abs(d), 1+2*plainsFlat)*0.8
		}

		// Sea level compression/renormalization per §4.3 step 10.
		seaLevel := cfg.SeaLevel
		if seaLevel > 0 && seaLevel < 1 {
			if h < seaLevel {
				h = (h / seaLevel) * (0.5 * seaLevel)
			} else {
				h = (h - seaLevel) / (1 - seaLevel)
			}
		}

		h = clamp01(h)

		// Anti-banding dither, amplitude 0.002, derived from the pixel hash.
		dither := (noise.Hash2(int64(x), int64(y), seed) - 0.5) * 2 * 0.002
		h = clamp01(h + dither)

		g.SetHeightAt(x, y, float32(h*cfg.HeightScale))
	})

	return nil
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
