package pipeline

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

// rampMaskFalloff is the distance, in cells, over which rampMask decays
// from 1 (fully protected) to 0 (safe terrain) away from a ramp or
// boundary cell.
const rampMaskFalloff = 5.0

// runStamps is the detail-stamp pass (§4.8): it overlays pre-authored
// cosmetic micro-relief on top of the finished structural terrain, gated
// by a rampMask that fully protects ramp and border cells and decays with
// distance from them. It is purely additive over the pre-stamp heightmap
// and never exceeds the 1% amplitude ceiling.
func (p *Pipeline) runStamps(g *grid.Grid) ([]model.Warning, int, int) {
	var warnings []model.Warning
	applied, skipped := 0, 0

	rampMask := computeRampMask(g)
	levelHeightDiff := float64(g.LevelStep)
	if levelHeightDiff <= 0 {
		levelHeightDiff = 270
	}

	globalIntensity := clamp01(p.params.Detail.Intensity)
	if p.params.Detail.Intensity == 0 {
		globalIntensity = 1
	}

	for _, layer := range p.params.Detail.Layers {
		stamp, ok := p.catalog.Get(layer.StampID)
		if !ok {
			warnings = append(warnings, model.Warning{
				Kind:    string(common.StampDataMissing),
				Message: fmt.Sprintf("stamp %q not found in catalog; skipping layer", layer.StampID),
			})
			skipped++
			continue
		}

		placements := expandLayerPlacements(g, layer, p.rng)
		for _, pl := range placements {
			applyStampPlacement(g, stamp, pl, rampMask, levelHeightDiff, globalIntensity*clamp01(layer.Intensity))
			applied++
		}
	}

	return warnings, applied, skipped
}

// placement is a single stamp application: world-space center, scale, and
// rotation. Every application mode in §4.8 expands to a sequence of these.
type placement struct {
	cx, cy float64
	scale  float64
	rotRad float64
}

func expandLayerPlacements(g *grid.Grid, layer model.DetailLayer, rng *rand.Rand) []placement {
	scale := layer.Scale
	if scale <= 0 {
		scale = 1
	}
	rot := layer.RotateDeg * math.Pi / 180

	switch layer.Mode {
	case "tile-level":
		return tilePlacements(g, &layer.LevelID, scale, rot)
	case "tile-all":
		return tilePlacements(g, nil, scale, rot)
	case "scatter":
		return scatterPlacements(g, layer, scale, rng)
	case "paint":
		out := make([]placement, 0, len(layer.Path))
		for _, pt := range layer.Path {
			out = append(out, placement{cx: float64(pt[0]), cy: float64(pt[1]), scale: scale, rotRad: rot})
		}
		return out
	default: // "single"
		return []placement{{cx: float64(layer.X), cy: float64(layer.Y), scale: scale, rotRad: rot}}
	}
}

func tilePlacements(g *grid.Grid, levelID *int8, scale float64, rot float64) []placement {
	step := int(math.Max(8, scale*16))
	var out []placement
	for y := step / 2; y < g.Rows(); y += step {
		for x := step / 2; x < g.Cols(); x += step {
			if levelID != nil && g.LevelIDAt(x, y) != *levelID {
				continue
			}
			if !g.FlagsAt(x, y).Playable() {
				continue
			}
			out = append(out, placement{cx: float64(x), cy: float64(y), scale: scale, rotRad: rot})
		}
	}
	return out
}

func scatterPlacements(g *grid.Grid, layer model.DetailLayer, scale float64, rng *rand.Rand) []placement {
	local := rng
	if layer.Seed != 0 {
		local = common.NewRNG(layer.Seed)
	}
	count := layer.Count
	if count <= 0 {
		count = 1
	}
	out := make([]placement, 0, count)
	attempts := count * 20
	for len(out) < count && attempts > 0 {
		attempts--
		x := local.Intn(g.Cols())
		y := local.Intn(g.Rows())
		f := g.FlagsAt(x, y)
		if f.Blocking() {
			continue
		}
		out = append(out, placement{cx: float64(x), cy: float64(y), scale: scale, rotRad: local.Float64() * 2 * math.Pi})
	}
	return out
}

func applyStampPlacement(g *grid.Grid, stamp *model.DetailStamp, pl placement, rampMask []float64, levelHeightDiff, intensity float64) {
	maxAmplitude := stamp.MaxAmplitude
	if ceiling := 0.01; maxAmplitude > ceiling {
		maxAmplitude = ceiling
	}

	halfW := float64(stamp.Width) * pl.scale / 2
	halfH := float64(stamp.Height) * pl.scale / 2
	radius := math.Hypot(halfW, halfH)

	minX := int(math.Floor(pl.cx - radius))
	maxX := int(math.Ceil(pl.cx + radius))
	minY := int(math.Floor(pl.cy - radius))
	maxY := int(math.Ceil(pl.cy + radius))

	cosR, sinR := math.Cos(-pl.rotRad), math.Sin(-pl.rotRad)

	for y := minY; y <= maxY; y++ {
		if y < 0 || y >= g.Rows() {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= g.Cols() {
				continue
			}

			dx := float64(x) - pl.cx
			dy := float64(y) - pl.cy
			// Inverse affine transform: rotate back, undo scale, recenter
			// into stamp-local [0, width) x [0, height) coordinates.
			lx := (dx*cosR - dy*sinR) / pl.scale
			ly := (dx*sinR + dy*cosR) / pl.scale
			u := lx + float64(stamp.Width)/2
			v := ly + float64(stamp.Height)/2

			stampValue, ok := stamp.At(u, v)
			if !ok {
				continue
			}

			idx := g.Index(x, y)
			mask := rampMask[idx]
			if mask > 0.95 {
				continue
			}

			safeAmplitude := maxAmplitude * levelHeightDiff * (1 - mask) * intensity
			contribution := (stampValue - 0.5) * 2 * safeAmplitude

			ceiling := float32(0.01 * levelHeightDiff)
			if contribution > float64(ceiling) {
				contribution = float64(ceiling)
			} else if contribution < -float64(ceiling) {
				contribution = -float64(ceiling)
			}

			g.SetHeightAt(x, y, g.HeightAt(x, y)+float32(contribution))
		}
	}
}

// ApplyStandalonePlacement applies a single stamp placement directly to
// an already-built grid, outside of a full Run — the primitive behind the
// CLI's apply-stamp command. It recomputes the rampMask fresh each call,
// since the caller may have mutated the grid since the last full run.
func ApplyStandalonePlacement(g *grid.Grid, stamp *model.DetailStamp, x, y int, scale, rotateDeg, intensity float64) {
	rampMask := computeRampMask(g)
	levelHeightDiff := float64(g.LevelStep)
	if levelHeightDiff <= 0 {
		levelHeightDiff = 270
	}
	pl := placement{cx: float64(x), cy: float64(y), scale: scale, rotRad: rotateDeg * math.Pi / 180}
	if pl.scale <= 0 {
		pl.scale = 1
	}
	applyStampPlacement(g, stamp, pl, rampMask, levelHeightDiff, clamp01(intensity))
}

// computeRampMask runs a multi-source BFS from every ramp, boundary, or
// road cell, yielding a [0,1] field that is 1 at the source cells and
// decays linearly to 0 over rampMaskFalloff cells. Road cells are seeded
// alongside ramp/boundary cells because the road pass runs before this
// one: a stamp MUST NOT modify height under a road, flat or not (§4.9.5,
// §5).
func computeRampMask(g *grid.Grid) []float64 {
	cols, rows := g.Cols(), g.Rows()
	n := cols * rows
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}

	queue := make([][2]int, 0, n/4)
	g.ForEachCell(func(c grid.Cell, x, y int) {
		f := g.Flags(c)
		if f.Ramp() || f.Boundary() || f.Road() {
			dist[g.Index(x, y)] = 0
			queue = append(queue, [2]int{x, y})
		}
	})

	for head := 0; head < len(queue); head++ {
		x, y := queue[head][0], queue[head][1]
		d := dist[g.Index(x, y)]
		if d >= rampMaskFalloff {
			continue
		}
		for _, nb := range g.Neighbors4(x, y) {
			nIdx := g.Index(nb[0], nb[1])
			if dist[nIdx] > d+1 {
				dist[nIdx] = d + 1
				queue = append(queue, nb)
			}
		}
	}

	mask := make([]float64, n)
	for i, d := range dist {
		if math.IsInf(d, 1) {
			mask[i] = 0
			continue
		}
		mask[i] = clamp01(1 - d/rampMaskFalloff)
	}
	return mask
}
