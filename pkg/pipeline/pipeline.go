// Package pipeline is the terrain construction pipeline: the ordered
// sequence of passes that transforms a parameter record into a
// self-consistent (height, levelId, flags) grid, plus the road network
// layered on top of it. Pipeline is constructed once per generation (per
// §9's guidance against singleton generators) and owns the noise seed
// state, the stamp catalog reference, and the immutable parameter record
// for that run's lifetime.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
	"github.com/ridgeline-games/terrain-builder/pkg/pipeline/roads"
)

// Pipeline owns everything a single generation needs: the validated
// parameters, the seeded RNG, and (optionally) a stamp catalog for the
// detail pass. Construct with New, run once with Run, release with
// Dispose.
type Pipeline struct {
	params  model.Params
	catalog *model.StampCatalog
	rng     *rand.Rand
}

// Result bundles everything a generation produces: the final grid, the
// road network, and non-fatal warnings/stats accumulated along the way.
type Result struct {
	Grid     *grid.Grid
	Roads    []model.RoadSegment
	POIs     []model.POI
	Warnings []model.Warning
	Stats    *model.Stats

	// PreStampHeight is a snapshot of the height plane immediately before
	// the detail-stamp pass, preserved losslessly per §4.8's export
	// requirement that the pre-stamp heightmap remain reconstructable.
	PreStampHeight []float32
}

// New validates params and constructs a Pipeline. catalog may be nil if
// the generation uses no detail stamps.
func New(params model.Params, catalog *model.StampCatalog) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = model.NewStampCatalog()
	}
	return &Pipeline{
		params:  params,
		catalog: catalog,
		rng:     common.NewRNG(params.Noise.Seed),
	}, nil
}

// Dispose releases the pipeline's RNG/catalog reference. The pipeline
// holds no other resources, but Dispose exists as the explicit lifecycle
// endpoint §9 asks for instead of relying on process-wide state.
func (p *Pipeline) Dispose() {
	p.rng = nil
	p.catalog = nil
}

// Run executes every pass of §2's data flow in order, yielding at each
// pass boundary so a caller's ctx can cancel between (never within) a
// pass (§5). A cancelled run returns a nil Result and an error wrapping
// ctx.Err().
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	g, err := grid.New(p.params.Grid.Cols, p.params.Grid.Rows)
	if err != nil {
		return nil, err
	}
	g.LevelStep = float32(1.5 * characterHeight)
	g.MaxWalkableLevel = p.params.Level.MaxWalkableLevel

	res := &Result{Grid: g, Stats: model.NewStats()}
	// GpuUnavailable is always raised in this CPU-only implementation;
	// §9 treats "CPU-only, omit the GPU regime" as a valid implementer
	// choice, with the determinism test (S5) reducing to the CPU-bitwise
	// case as a result.
	res.Warnings = append(res.Warnings, model.Warning{
		Kind:    string(common.GpuUnavailable),
		Message: "GPU regime not implemented; running the CPU emulation for every pass",
	})

	passes := []struct {
		name string
		run  func() error
	}{
		{"synth", func() error { return p.runSynth(g) }},
		{"levels", func() error { return p.runLevels(g) }},
		{"border", func() error { return p.runBorder(g) }},
		{"ramp", func() error { return p.runRamp(g, res.Stats) }},
		{"erosion", func() error { return p.runErosion(g) }},
	}

	for _, pass := range passes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled before pass %q: %w", pass.name, err)
		}
		start := time.Now()
		if err := pass.run(); err != nil {
			return nil, fmt.Errorf("pass %q failed: %w", pass.name, err)
		}
		res.Stats.PassDurations[pass.name] = time.Since(start)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation cancelled before pass %q: %w", "roads", err)
	}
	start := time.Now()
	roadsResult, err := roads.Build(g, p.params.Road, p.rng)
	if err != nil {
		return nil, fmt.Errorf("pass %q failed: %w", "roads", err)
	}
	res.Stats.PassDurations["roads"] = time.Since(start)
	res.Roads = roadsResult.Segments
	res.POIs = roadsResult.POIs
	res.Stats.SegmentsRouted = roadsResult.SegmentsRouted
	res.Stats.SegmentsDropped = roadsResult.SegmentsDropped
	res.Stats.RoadCellCount = roadsResult.RoadCellCount
	for _, w := range roadsResult.Warnings {
		res.Warnings = append(res.Warnings, w)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation cancelled before pass %q: %w", "stamps", err)
	}
	res.PreStampHeight = g.HeightPlane()
	start = time.Now()
	stampWarnings, applied, skipped := p.runStamps(g)
	res.Stats.PassDurations["stamps"] = time.Since(start)
	res.Stats.StampsApplied = applied
	res.Stats.StampsSkipped = skipped
	res.Warnings = append(res.Warnings, stampWarnings...)

	g.ForEachCell(func(c grid.Cell, x, y int) {
		res.Stats.LevelCounts[g.LevelID(c)]++
		if g.Flags(c).Ramp() {
			res.Stats.RampCellCount++
		}
	})

	return res, nil
}

// characterHeight is the reference unit spec.md's level step is derived
// from: levelStep defaults to 1.5x the configured character height.
const characterHeight = 180.0
