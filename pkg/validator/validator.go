// Package validator checks the quantified invariants of §8 against a
// finished pipeline Result: per-cell height bounds, road/blocking
// exclusivity, walkable-slope continuity, border playability, and
// stamp-amplitude bounds. It is used both by the CLI's validate command
// and directly by tests.
package validator

import (
	"fmt"
	"math"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

// Violation is one failed invariant check, carrying enough context to
// locate and describe the failure.
type Violation struct {
	Rule    string
	X, Y    int
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] (%d,%d): %s", v.Rule, v.X, v.Y, v.Message)
}

// Report bundles every violation found across a full invariant sweep.
type Report struct {
	Violations []Violation
}

func (r *Report) add(rule string, x, y int, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{Rule: rule, X: x, Y: y, Message: fmt.Sprintf(format, args...)})
}

// OK reports whether the sweep found no violations.
func (r *Report) OK() bool { return len(r.Violations) == 0 }

// Options carries the configured bounds a Check needs beyond what's on
// the grid itself.
type Options struct {
	MinHeight, MaxHeight   float32
	WalkableSlopeMax       float32
	LevelHeightDiff        float32
	PreStampHeight         []float32
	PostStampHeight        []float32
}

// CheckGrid runs invariants 1-6 of §8 against a finished grid.
func CheckGrid(g *grid.Grid, opts Options) *Report {
	report := &Report{}

	g.ForEachCell(func(c grid.Cell, x, y int) {
		h := g.Height(c)
		if math.IsNaN(float64(h)) || math.IsInf(float64(h), 0) {
			report.add("height-finite", x, y, "height is not finite: %v", h)
		} else if h < opts.MinHeight || h > opts.MaxHeight {
			report.add("height-bounds", x, y, "height %v outside [%v, %v]", h, opts.MinHeight, opts.MaxHeight)
		}

		f := g.Flags(c)
		if f.Road() && (f.Blocked() || f.VisualOnly() || f.Water()) {
			report.add("road-exclusivity", x, y, "cell is road but also blocked/visualOnly/water")
		}

		if f.Boundary() && f.BoundaryType == grid.BoundaryEdge && !f.Road() && f.Playable() {
			report.add("border-playability", x, y, "edge-boundary cell is playable without being a road exit")
		}
	})

	if opts.WalkableSlopeMax > 0 {
		g.ForEachCell(func(c grid.Cell, x, y int) {
			if !g.Flags(c).Playable() {
				return
			}
			for _, n := range g.Neighbors4(x, y) {
				if !g.FlagsAt(n[0], n[1]).Playable() {
					continue
				}
				diff := g.Height(c) - g.HeightAt(n[0], n[1])
				if diff < 0 {
					diff = -diff
				}
				if diff > opts.WalkableSlopeMax {
					report.add("walkable-slope", x, y, "height difference %v to (%d,%d) exceeds %v", diff, n[0], n[1], opts.WalkableSlopeMax)
				}
			}
		})
	}

	if opts.PreStampHeight != nil && opts.PostStampHeight != nil && opts.LevelHeightDiff > 0 {
		ceiling := 0.01 * opts.LevelHeightDiff
		g.ForEachCell(func(c grid.Cell, x, y int) {
			idx := g.Index(x, y)
			if idx >= len(opts.PreStampHeight) || idx >= len(opts.PostStampHeight) {
				return
			}
			diff := opts.PostStampHeight[idx] - opts.PreStampHeight[idx]
			if diff < 0 {
				diff = -diff
			}
			if diff > ceiling {
				report.add("stamp-amplitude", x, y, "post-stamp change %v exceeds ceiling %v", diff, ceiling)
			}
		})
	}

	return report
}

// CheckPOIConnectivity checks invariants 7-8 of §8: every exit POI
// appears in at least one road segment, and every ramp waypoint POI
// appears in at least two (when both sides of the ramp exist).
func CheckPOIConnectivity(pois []model.POI, segments []model.RoadSegment) *Report {
	report := &Report{}

	degree := make(map[int]int)
	for _, seg := range segments {
		degree[seg.From.ID]++
		degree[seg.To.ID]++
	}

	rampSidesSeen := map[int]map[model.RampSide]bool{}
	for _, p := range pois {
		if p.Type != model.POIRampWaypoint {
			continue
		}
		if rampSidesSeen[p.RampCluster] == nil {
			rampSidesSeen[p.RampCluster] = map[model.RampSide]bool{}
		}
		rampSidesSeen[p.RampCluster][p.RampSide] = true
	}

	for _, p := range pois {
		switch p.Type {
		case model.POIExit:
			if degree[p.ID] < 1 {
				report.add("exit-connectivity", p.X, p.Y, "exit POI %d has no road connection", p.ID)
			}
		case model.POIRampWaypoint:
			bothSides := rampSidesSeen[p.RampCluster][model.RampEntry] && rampSidesSeen[p.RampCluster][model.RampExit]
			if bothSides && degree[p.ID] < 2 {
				report.add("ramp-waypoint-connectivity", p.X, p.Y, "ramp waypoint POI %d has fewer than 2 connections", p.ID)
			}
		}
	}

	return report
}
