package validator

import (
	"math"
	"testing"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

func openGrid(t *testing.T, cols, rows int) *grid.Grid {
	t.Helper()
	g, err := grid.New(cols, rows)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	g.ForEachCell(func(c grid.Cell, x, y int) {
		g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithPlayable(true) })
	})
	return g
}

func TestCheckGridFlagsNonFiniteHeight(t *testing.T) {
	g := openGrid(t, 3, 3)
	g.SetHeightAt(1, 1, float32(math.Inf(1))) // +Inf
	report := CheckGrid(g, Options{MinHeight: -1000, MaxHeight: 1000})
	if report.OK() {
		t.Fatal("expected a height-finite violation")
	}
	found := false
	for _, v := range report.Violations {
		if v.Rule == "height-finite" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a height-finite violation, got %v", report.Violations)
	}
}

func TestCheckGridFlagsOutOfBoundsHeight(t *testing.T) {
	g := openGrid(t, 3, 3)
	g.SetHeightAt(0, 0, 9999)
	report := CheckGrid(g, Options{MinHeight: -100, MaxHeight: 100})
	if report.OK() {
		t.Fatal("expected a height-bounds violation")
	}
}

func TestCheckGridFlagsRoadExclusivityViolation(t *testing.T) {
	g := openGrid(t, 3, 3)
	c, _ := g.At(1, 1)
	g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithRoad(true).WithBlocked(true) })
	report := CheckGrid(g, Options{MinHeight: -1000, MaxHeight: 1000})
	found := false
	for _, v := range report.Violations {
		if v.Rule == "road-exclusivity" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a road-exclusivity violation, got %v", report.Violations)
	}
}

func TestCheckGridFlagsEdgeBoundaryPlayableWithoutRoad(t *testing.T) {
	g := openGrid(t, 3, 3)
	c, _ := g.At(0, 0)
	g.MutateFlags(c, func(f grid.Flags) grid.Flags {
		f = f.WithBoundary(true).WithPlayable(true)
		f.BoundaryType = grid.BoundaryEdge
		return f
	})
	report := CheckGrid(g, Options{MinHeight: -1000, MaxHeight: 1000})
	found := false
	for _, v := range report.Violations {
		if v.Rule == "border-playability" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a border-playability violation, got %v", report.Violations)
	}
}

func TestCheckGridFlagsWalkableSlopeViolation(t *testing.T) {
	g := openGrid(t, 3, 3)
	g.SetHeightAt(1, 1, 1000)
	report := CheckGrid(g, Options{MinHeight: -10000, MaxHeight: 10000, WalkableSlopeMax: 10})
	found := false
	for _, v := range report.Violations {
		if v.Rule == "walkable-slope" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a walkable-slope violation, got %v", report.Violations)
	}
}

func TestCheckGridFlagsStampAmplitudeViolation(t *testing.T) {
	g := openGrid(t, 2, 1)
	pre := []float32{0, 0}
	post := []float32{100, 0}
	report := CheckGrid(g, Options{
		MinHeight: -1000, MaxHeight: 1000,
		LevelHeightDiff: 10, PreStampHeight: pre, PostStampHeight: post,
	})
	found := false
	for _, v := range report.Violations {
		if v.Rule == "stamp-amplitude" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a stamp-amplitude violation, got %v", report.Violations)
	}
}

func TestCheckGridPassesOnWellFormedGrid(t *testing.T) {
	g := openGrid(t, 4, 4)
	report := CheckGrid(g, Options{MinHeight: -1000, MaxHeight: 1000, WalkableSlopeMax: 30})
	if !report.OK() {
		t.Errorf("expected no violations on a flat well-formed grid, got %v", report.Violations)
	}
}

func TestCheckPOIConnectivityFlagsUnconnectedExit(t *testing.T) {
	pois := []model.POI{{ID: 0, X: 0, Y: 0, Type: model.POIExit}}
	report := CheckPOIConnectivity(pois, nil)
	if report.OK() {
		t.Fatal("expected exit-connectivity violation for an unconnected exit")
	}
}

func TestCheckPOIConnectivityPassesConnectedExit(t *testing.T) {
	pois := []model.POI{
		{ID: 0, X: 0, Y: 0, Type: model.POIExit},
		{ID: 1, X: 5, Y: 5, Type: model.POITown},
	}
	segments := []model.RoadSegment{{From: pois[0], To: pois[1]}}
	report := CheckPOIConnectivity(pois, segments)
	if !report.OK() {
		t.Errorf("expected no violations, got %v", report.Violations)
	}
}

func TestCheckPOIConnectivityRequiresTwoEdgesWhenBothRampSidesExist(t *testing.T) {
	pois := []model.POI{
		{ID: 0, X: 0, Y: 0, Type: model.POIRampWaypoint, RampSide: model.RampEntry, RampCluster: 0},
		{ID: 1, X: 10, Y: 0, Type: model.POIRampWaypoint, RampSide: model.RampExit, RampCluster: 0},
	}
	segments := []model.RoadSegment{{From: pois[0], To: pois[1]}} // only one edge touches POI 0
	report := CheckPOIConnectivity(pois, segments)
	found := false
	for _, v := range report.Violations {
		if v.Rule == "ramp-waypoint-connectivity" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a ramp-waypoint-connectivity violation when only one edge exists, got %v", report.Violations)
	}
}

func TestCheckPOIConnectivitySkipsRampCheckWhenOnlyOneSideExists(t *testing.T) {
	pois := []model.POI{
		{ID: 0, X: 0, Y: 0, Type: model.POIRampWaypoint, RampSide: model.RampEntry, RampCluster: 0},
	}
	report := CheckPOIConnectivity(pois, nil)
	if !report.OK() {
		t.Errorf("expected no ramp-waypoint-connectivity violation when the ramp's other side is absent, got %v", report.Violations)
	}
}
