package roads

import (
	"math/rand"
	"testing"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

func openGrid(cols, rows int) *grid.Grid {
	g, _ := grid.New(cols, rows)
	g.ForEachCell(func(c grid.Cell, x, y int) {
		g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithPlayable(true) })
	})
	return g
}

func TestDiscoverExitPOIsFindsOneClusterPerEdgeRun(t *testing.T) {
	g := openGrid(20, 20)
	// Block everything along the north edge except a single run of open cells.
	for x := 0; x < 20; x++ {
		if x < 8 || x > 12 {
			c, _ := g.At(x, 0)
			g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithBlocked(true) })
		}
	}

	nextID := 0
	pois := discoverExitPOIs(g, &nextID)
	// one run on the north edge, and one each on the fully open south,
	// west and east edges
	if len(pois) != 4 {
		t.Fatalf("expected one exit POI per open edge run (4), got %d", len(pois))
	}
	for _, p := range pois {
		if p.Type != model.POIExit {
			t.Errorf("expected POIExit type, got %v", p.Type)
		}
	}
}

func TestDiscoverRampWaypointsRequiresMinimumClusterSize(t *testing.T) {
	g := openGrid(20, 20)
	// A tiny ramp cluster (below minClusterSize) should yield nothing.
	for i := 0; i < 5; i++ {
		c, _ := g.At(i, 5)
		g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithRamp(true) })
	}
	nextID := 0
	if pois := discoverRampWaypoints(g, &nextID); len(pois) != 0 {
		t.Errorf("expected no waypoints for an undersized ramp cluster, got %d", len(pois))
	}

	// A cluster at or above minClusterSize should yield an entry/exit pair.
	// The 16 cells fill rows 8-9 of columns 0-7, i.e. a single 8x8 coarse key.
	for i := 0; i < 16; i++ {
		x, y := i%8, 8+i/8
		c, _ := g.At(x, y)
		g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithRamp(true) })
		g.SetHeightAt(x, y, float32(i))
	}
	pois := discoverRampWaypoints(g, &nextID)
	if len(pois) != 2 {
		t.Fatalf("expected exactly one entry/exit pair (2 POIs), got %d", len(pois))
	}
}

func TestDiscoverRandomPOIsRespectsMinDistance(t *testing.T) {
	g := openGrid(40, 40)
	rng := rand.New(rand.NewSource(1))
	nextID := 0
	pois := discoverRandomPOIs(g, 5, 10, 3, rng, nil, &nextID)
	for i := range pois {
		for j := range pois {
			if i == j {
				continue
			}
			if d := dist(pois[i].X, pois[i].Y, pois[j].X, pois[j].Y); d < 10 {
				t.Errorf("POIs %d and %d are closer than minDistance: %v", i, j, d)
			}
		}
	}
}

func TestDiscoverRandomPOIsSkipsBlockingAndHighLevelCells(t *testing.T) {
	g := openGrid(20, 20)
	g.ForEachCell(func(c grid.Cell, x, y int) {
		g.SetLevelID(c, 9, grid.KeepHeight) // above any walkableCap
	})
	rng := rand.New(rand.NewSource(1))
	nextID := 0
	pois := discoverRandomPOIs(g, 5, 2, 3, rng, nil, &nextID)
	if len(pois) != 0 {
		t.Errorf("expected no POIs above walkableCap, got %d", len(pois))
	}
}
