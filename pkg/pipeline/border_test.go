package pipeline

import (
	"testing"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

func TestRunBorderFlagsOuterBandAsBoundary(t *testing.T) {
	params := model.Defaults()
	params.Grid.Rows, params.Grid.Cols = 32, 32
	params.Border.Width = 4
	params.Border.ExitCount = 2
	p := newTestPipeline(t, params)
	defer p.Dispose()

	g, _ := grid.New(32, 32)
	if err := p.runBorder(g); err != nil {
		t.Fatalf("runBorder: %v", err)
	}

	if !g.FlagsAt(0, 0).Boundary() {
		t.Error("corner cell should be flagged boundary")
	}
	if g.FlagsAt(16, 16).Boundary() {
		t.Error("center cell should not be flagged boundary")
	}
}

func TestRunBorderDisabledIsNoOp(t *testing.T) {
	params := model.Defaults()
	params.Border.Enabled = false
	p := newTestPipeline(t, params)
	defer p.Dispose()

	g, _ := grid.New(16, 16)
	if err := p.runBorder(g); err != nil {
		t.Fatalf("runBorder: %v", err)
	}
	if g.FlagsAt(0, 0).Boundary() {
		t.Error("disabled border pass must not set any boundary flags")
	}
}

func TestRunBorderExitCellsStayPlayableAndRoad(t *testing.T) {
	params := model.Defaults()
	params.Grid.Rows, params.Grid.Cols = 32, 32
	params.Border.Width = 4
	params.Border.ExitCount = 2
	params.Border.ExitWidth = 4
	p := newTestPipeline(t, params)
	defer p.Dispose()

	g, _ := grid.New(32, 32)
	if err := p.runBorder(g); err != nil {
		t.Fatalf("runBorder: %v", err)
	}

	foundExit := false
	for x := 0; x < 32; x++ {
		f := g.FlagsAt(x, 0)
		if f.Road() {
			foundExit = true
			if !f.Playable() {
				t.Error("exit cell must be playable")
			}
			if !f.Boundary() {
				t.Error("exit cell keeps boundary=true even though it's a road")
			}
		}
	}
	if !foundExit {
		t.Fatal("expected at least one north-edge exit cell to be flagged road")
	}
}

func TestBorderExitCellsAutoDistribution(t *testing.T) {
	cases := []struct {
		count    int
		wantEdge [2]int // an (x,y) expected to be present
	}{
		{1, [2]int{50, 99}},  // south-only
		{2, [2]int{50, 0}},   // north+south
	}
	for _, c := range cases {
		cfg := model.BorderConfig{ExitCount: c.count, ExitWidth: 2}
		set := borderExitCells(100, 100, cfg)
		if _, ok := set[c.wantEdge]; !ok {
			t.Errorf("exitCount=%d: expected exit cell near %v, set=%v", c.count, c.wantEdge, len(set))
		}
	}
}
