package pipeline

import (
	"testing"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

func TestRunRampOnlyLowersNeverRaises(t *testing.T) {
	params := model.Defaults()
	params.Ramp.Iterations = 6
	p := newTestPipeline(t, params)
	defer p.Dispose()

	g, _ := grid.New(3, 1)
	g.LevelStep = 100
	c0, _ := g.At(0, 0)
	c1, _ := g.At(1, 0)
	c2, _ := g.At(2, 0)
	g.SetLevelID(c0, 0, grid.ResetHeight)
	g.SetLevelID(c1, 1, grid.ResetHeight)
	g.SetLevelID(c2, 2, grid.ResetHeight)

	before := g.HeightPlane()

	if err := p.runRamp(g, model.NewStats()); err != nil {
		t.Fatalf("runRamp: %v", err)
	}

	after := g.HeightPlane()
	for i := range before {
		if after[i] > before[i] {
			t.Fatalf("cell %d height increased from %v to %v; ramp cutter must never raise terrain", i, before[i], after[i])
		}
	}
}

func TestRunRampSkipsRoadAndBlockedCells(t *testing.T) {
	params := model.Defaults()
	params.Ramp.Iterations = 4
	p := newTestPipeline(t, params)
	defer p.Dispose()

	g, _ := grid.New(2, 1)
	g.LevelStep = 100
	c0, _ := g.At(0, 0)
	c1, _ := g.At(1, 0)
	g.SetLevelID(c0, 2, grid.ResetHeight)
	g.SetLevelID(c1, 0, grid.ResetHeight)
	g.MutateFlags(c0, func(f grid.Flags) grid.Flags { return f.WithRoad(true) })

	before := g.Height(c0)
	if err := p.runRamp(g, model.NewStats()); err != nil {
		t.Fatalf("runRamp: %v", err)
	}
	if g.Height(c0) != before {
		t.Error("road-flagged cell must not be touched by the ramp cutter")
	}
}

func TestRunRampSetsRampAndPlayableFlags(t *testing.T) {
	params := model.Defaults()
	params.Ramp.Iterations = 4
	p := newTestPipeline(t, params)
	defer p.Dispose()

	g, _ := grid.New(2, 1)
	g.LevelStep = 100
	c0, _ := g.At(0, 0)
	c1, _ := g.At(1, 0)
	g.SetLevelID(c0, 2, grid.ResetHeight)
	g.SetLevelID(c1, 0, grid.ResetHeight)

	if err := p.runRamp(g, model.NewStats()); err != nil {
		t.Fatalf("runRamp: %v", err)
	}
	if !g.Flags(c0).Ramp() || !g.Flags(c0).Playable() {
		t.Error("expected the high-side cell to be flagged ramp and playable")
	}
}
