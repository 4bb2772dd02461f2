package roads

import (
	"math/rand"
	"testing"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

func testRoadConfig() model.RoadConfig {
	return model.RoadConfig{
		RoadWidth:             3,
		SimplificationEpsilon: 1.0,
		MaxExtraEdges:         3,
		SmoothingPasses:       2,
		SlopeCurve:            model.SlopeEaseInOut,
		AStar:                 model.AStarConfig{MaxStepBudget: 50000, HeightDiffCap: 30},
		RandomPOICount:        0,
		MinPOIDistance:        8,
	}
}

func TestBuildConnectsTwoExitsWithARoutedSegment(t *testing.T) {
	g := openGrid(30, 30)
	// open north and south runs so discoverExitPOIs finds exactly one cluster on each edge
	for x := 0; x < 30; x++ {
		if x < 10 || x > 20 {
			nc, _ := g.At(x, 0)
			g.MutateFlags(nc, func(f grid.Flags) grid.Flags { return f.WithBlocked(true) })
			sc, _ := g.At(x, 29)
			g.MutateFlags(sc, func(f grid.Flags) grid.Flags { return f.WithBlocked(true) })
		}
	}
	g.MaxWalkableLevel = 3
	g.LevelStep = 4

	rng := rand.New(rand.NewSource(1))
	res, err := Build(g, testRoadConfig(), rng)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.POIs) < 2 {
		t.Fatalf("expected at least 2 POIs (north+south exit clusters), got %d", len(res.POIs))
	}
	if res.SegmentsRouted == 0 {
		t.Fatal("expected at least one routed segment between the two exits")
	}
	if res.RoadCellCount == 0 {
		t.Error("expected stampRoad to mark at least one cell as road")
	}

	found := false
	g.ForEachCell(func(c grid.Cell, x, y int) {
		if g.Flags(c).Road() {
			found = true
		}
	})
	if !found {
		t.Error("expected at least one grid cell flagged as road after Build")
	}
}

func TestBuildWithFewerThanTwoPOIsIsNoOp(t *testing.T) {
	g := openGrid(10, 10)
	// Block every edge cell so there are no exits; with no ramps and
	// RandomPOICount 0 there are no POIs at all.
	g.ForEachCell(func(c grid.Cell, x, y int) {
		if x == 0 || y == 0 || x == 9 || y == 9 {
			g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithBlocked(true) })
		}
	})
	rng := rand.New(rand.NewSource(1))
	cfg := testRoadConfig()
	cfg.RandomPOICount = 0

	res, err := Build(g, cfg, rng)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.SegmentsRouted != 0 || res.RoadCellCount != 0 {
		t.Errorf("expected a no-op result with fewer than 2 POIs, got %+v", res)
	}
}

func TestFindRampRangeSpansContiguousRampFlaggedCells(t *testing.T) {
	g, _ := grid.New(10, 1)
	path := make([][2]int, 10)
	for x := 0; x < 10; x++ {
		level := int8(0)
		if x >= 5 {
			level = 1
		}
		c, _ := g.At(x, 0)
		g.SetLevelID(c, level, grid.KeepHeight)
		// Ramp cells span x=3..6, straddling the level-5 boundary crossing.
		if x >= 3 && x <= 6 {
			g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithRamp(true) })
		}
		path[x] = [2]int{x, 0}
	}

	start, end, ok := findRampRange(g, path)
	if !ok {
		t.Fatal("expected a ramp range to be found")
	}
	if start != 3 || end != 6 {
		t.Errorf("expected the ramp range to span the full ramp-flagged run [3,6], got [%d,%d]", start, end)
	}
}

func TestFindRampRangeFallsBackToBoundaryCrossingWithoutRampFlags(t *testing.T) {
	g, _ := grid.New(10, 1)
	path := make([][2]int, 10)
	for x := 0; x < 10; x++ {
		level := int8(0)
		if x >= 5 {
			level = 1
		}
		c, _ := g.At(x, 0)
		g.SetLevelID(c, level, grid.KeepHeight)
		path[x] = [2]int{x, 0}
	}

	start, end, ok := findRampRange(g, path)
	if !ok {
		t.Fatal("expected a ramp range to be found")
	}
	if start != 4 || end != 5 {
		t.Errorf("expected the fallback 2-cell crossing [4,5], got [%d,%d]", start, end)
	}
}

func TestBuildRecordsWarningWhenPathBlocked(t *testing.T) {
	g := openGrid(20, 20)
	for x := 0; x < 20; x++ {
		if x < 8 || x > 12 {
			nc, _ := g.At(x, 0)
			g.MutateFlags(nc, func(f grid.Flags) grid.Flags { return f.WithBlocked(true) })
			sc, _ := g.At(x, 19)
			g.MutateFlags(sc, func(f grid.Flags) grid.Flags { return f.WithBlocked(true) })
		}
	}
	// Wall off the whole interior between the two exit clusters so A* fails.
	for x := 0; x < 20; x++ {
		c, _ := g.At(x, 10)
		g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithBlocked(true) })
	}
	g.MaxWalkableLevel = 3
	g.LevelStep = 4

	rng := rand.New(rand.NewSource(1))
	res, err := Build(g, testRoadConfig(), rng)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.SegmentsDropped == 0 {
		t.Fatal("expected the wall to block the only route and register a dropped segment")
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning recorded for the dropped segment")
	}
}
