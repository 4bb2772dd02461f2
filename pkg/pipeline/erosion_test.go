package pipeline

import (
	"math/rand"
	"testing"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
)

func TestRunThermalErosionSkipsFrozenCells(t *testing.T) {
	g, _ := grid.New(5, 5)
	c, _ := g.At(2, 2)
	g.SetHeight(c, 1000)
	g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithRoad(true) })

	before := g.Height(c)
	runThermalErosion(g, 3, 0.1, 0.5)
	if g.Height(c) != before {
		t.Error("road-flagged (frozen) cell must not be eroded")
	}
}

func TestRunThermalErosionSmoothsExcessSlope(t *testing.T) {
	g, _ := grid.New(5, 5)
	c, _ := g.At(2, 2)
	g.SetHeight(c, 1000) // isolated spike against a flat field

	runThermalErosion(g, 5, 0.01, 1.0)
	if g.Height(c) >= 1000 {
		t.Errorf("expected the spike to be eroded down from 1000, got %v", g.Height(c))
	}
}

func TestRunHydraulicErosionIsSeedDeterministic(t *testing.T) {
	build := func(seed int64) []float32 {
		g, _ := grid.New(8, 8)
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				c, _ := g.At(i, j)
				g.SetHeight(c, float32((i+j)*10))
			}
		}
		rng := rand.New(rand.NewSource(seed))
		runHydraulicErosion(g, rng, 3, 0.1, 0.02, 0.5)
		return g.HeightPlane()
	}

	a := build(7)
	b := build(7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("hydraulic erosion not deterministic for a fixed seed at index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestRunHydraulicErosionSkipsFrozenCells(t *testing.T) {
	g, _ := grid.New(5, 5)
	c, _ := g.At(2, 2)
	g.SetHeight(c, 500)
	g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithVisualOnly(true) })

	rng := rand.New(rand.NewSource(1))
	before := g.Height(c)
	runHydraulicErosion(g, rng, 5, 0.2, 0.02, 0.5)
	if g.Height(c) != before {
		t.Error("visualOnly (frozen) cell must not be eroded by hydraulic erosion")
	}
}
