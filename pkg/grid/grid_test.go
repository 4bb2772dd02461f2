package grid

import (
	"errors"
	"testing"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
)

func TestNewRejectsNonPositiveDimensions(t *testing.T) {
	cases := [][2]int{{0, 10}, {10, 0}, {-1, 5}, {5, -1}}
	for _, c := range cases {
		if _, err := New(c[0], c[1]); !errors.Is(err, common.KindError(common.InvalidDimensions)) {
			t.Errorf("New(%d, %d): expected InvalidDimensions, got %v", c[0], c[1], err)
		}
	}
}

func TestAtOutOfBounds(t *testing.T) {
	g, err := New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	cases := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}}
	for _, c := range cases {
		if _, err := g.At(c[0], c[1]); !errors.Is(err, common.KindError(common.OutOfBounds)) {
			t.Errorf("At(%d, %d): expected OutOfBounds, got %v", c[0], c[1], err)
		}
	}
}

func TestSetLevelIDResetsHeightByDefault(t *testing.T) {
	g, _ := New(2, 2)
	g.LevelStep = 100
	c, _ := g.At(0, 0)
	g.SetHeight(c, 999)
	g.SetLevelID(c, 2, ResetHeight)
	if got := g.Height(c); got != 200 {
		t.Errorf("expected height reset to baseHeight(2)=200, got %v", got)
	}
}

func TestSetLevelIDKeepHeightPreservesDecoupledHeight(t *testing.T) {
	g, _ := New(2, 2)
	g.LevelStep = 100
	c, _ := g.At(0, 0)
	g.SetHeight(c, 55)
	g.SetLevelID(c, 2, KeepHeight)
	if got := g.Height(c); got != 55 {
		t.Errorf("expected height to remain decoupled at 55, got %v", got)
	}
}

func TestForEachCellRowMajorIndexing(t *testing.T) {
	g, _ := New(3, 2)
	seen := make(map[int][2]int)
	g.ForEachCell(func(c Cell, x, y int) {
		seen[g.Index(x, y)] = [2]int{x, y}
	})
	if len(seen) != 6 {
		t.Fatalf("expected 6 visited cells, got %d", len(seen))
	}
	for idx, xy := range seen {
		if idx != xy[1]*3+xy[0] {
			t.Errorf("index %d does not match y*cols+x for (%d,%d)", idx, xy[0], xy[1])
		}
	}
}

func TestFlagsRoundTrip(t *testing.T) {
	var f Flags
	f = f.WithRoad(true).WithRamp(true).WithPlayable(true)
	if !f.Road() || !f.Ramp() || !f.Playable() {
		t.Fatal("expected road, ramp, playable all set")
	}
	if f.Water() || f.Blocked() {
		t.Fatal("expected water/blocked unset")
	}
	f = f.WithRoad(false)
	if f.Road() {
		t.Fatal("expected road cleared")
	}
}

func TestNeighbors4ClampsAtEdges(t *testing.T) {
	g, _ := New(3, 3)
	if n := g.Neighbors4(0, 0); len(n) != 2 {
		t.Errorf("corner cell expected 2 neighbors, got %d", len(n))
	}
	if n := g.Neighbors4(1, 1); len(n) != 4 {
		t.Errorf("center cell expected 4 neighbors, got %d", len(n))
	}
}
