package roads

import (
	"errors"
	"testing"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

func TestFindPathStraightLineOnOpenGrid(t *testing.T) {
	g := openGrid(20, 20)
	path, err := FindPath(g, 0, 0, 10, 0, model.AStarConfig{}, 3)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if len(path) == 0 {
		t.Fatal("expected a non-empty path")
	}
	if path[0] != [2]int{0, 0} {
		t.Errorf("expected path to start at (0,0), got %v", path[0])
	}
	if path[len(path)-1] != [2]int{10, 0} {
		t.Errorf("expected path to end at (10,0), got %v", path[len(path)-1])
	}
}

func TestFindPathReturnsPathNotFoundWhenBlocked(t *testing.T) {
	g := openGrid(10, 10)
	for y := 0; y < 10; y++ {
		c, _ := g.At(5, y)
		g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithBlocked(true) })
	}
	_, err := FindPath(g, 0, 5, 9, 5, model.AStarConfig{}, 3)
	if !errors.Is(err, common.KindError(common.PathNotFound)) {
		t.Fatalf("expected PathNotFound, got %v", err)
	}
}

func TestCellCostTreatsExitBoundaryAsPassable(t *testing.T) {
	g := openGrid(10, 10)
	c, _ := g.At(5, 0)
	g.MutateFlags(c, func(f grid.Flags) grid.Flags {
		f = f.WithBoundary(true).WithRoad(true).WithPlayable(true)
		return f
	})
	cost := cellCost(g, 5, 0, 3)
	if cost >= 1e300 {
		t.Fatal("expected an exit cell (boundary+road+playable) to be passable, got infinite cost")
	}
}

func TestCellCostBlocksNonExitBoundary(t *testing.T) {
	g := openGrid(10, 10)
	c, _ := g.At(5, 0)
	g.MutateFlags(c, func(f grid.Flags) grid.Flags {
		return f.WithBoundary(true).WithPlayable(false)
	})
	cost := cellCost(g, 5, 0, 3)
	if cost < 1e300 {
		t.Fatalf("expected a non-exit boundary cell to be impassable, got cost %v", cost)
	}
}

func TestCellCostRejectsAboveWalkableCap(t *testing.T) {
	g := openGrid(5, 5)
	c, _ := g.At(2, 2)
	g.SetLevelID(c, 5, grid.KeepHeight)
	if cost := cellCost(g, 2, 2, 3); cost < 1e300 {
		t.Fatal("expected a cell above walkableCap to be impassable")
	}
}
