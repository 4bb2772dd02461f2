package roads

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

// Result bundles everything the road-network pass produces: the routed
// segments, the POIs they connect, and counts/warnings for the caller's
// Stats record.
type Result struct {
	Segments        []model.RoadSegment
	POIs            []model.POI
	SegmentsRouted  int
	SegmentsDropped int
	RoadCellCount   int
	Warnings        []model.Warning
}

// Build runs the full road-network pass (§4.9): POI discovery,
// MST-plus-extra-edges connectivity, per-edge A* pathfinding,
// Douglas-Peucker/Chaikin/blur post-processing, and writing the result
// back to the grid's flags/roadId/ramp-region height.
func Build(g *grid.Grid, cfg model.RoadConfig, rng *rand.Rand) (*Result, error) {
	res := &Result{}

	nextID := 0
	var pois []model.POI
	pois = append(pois, discoverExitPOIs(g, &nextID)...)
	pois = append(pois, discoverRampWaypoints(g, &nextID)...)

	walkableCap := g.MaxWalkableLevel
	pois = append(pois, discoverRandomPOIs(g, cfg.RandomPOICount, cfg.MinPOIDistance, walkableCap, rng, pois, &nextID)...)

	// The three discovery passes append in a fixed order and assign IDs
	// sequentially, but sort explicitly so the POI index layout feeding
	// buildGraph (and thus A* processing order and flags.RoadID
	// assignment) never depends on that happening to hold (§4.11, §8 S5).
	pois = sortedByID(pois)

	res.POIs = pois
	if len(pois) < 2 {
		return res, nil
	}

	edges := buildGraph(pois, cfg.MaxExtraEdges)
	roadID := 1

	for _, e := range edges {
		from, to := pois[e.a], pois[e.b]
		path, err := FindPath(g, from.X, from.Y, to.X, to.Y, cfg.AStar, walkableCap)
		if err != nil {
			res.SegmentsDropped++
			res.Warnings = append(res.Warnings, model.Warning{
				Kind:    string(common.PathNotFound),
				Message: fmt.Sprintf("no path from POI %d to POI %d", from.ID, to.ID),
			})
			continue
		}

		path = simplifyPath(g, path, cfg.SimplificationEpsilon)
		path = chaikinSmooth(g, path, cfg.SmoothingPasses)
		path = blurPath(path)

		segment := model.RoadSegment{From: from, To: to, Path: path}

		rampStart, rampEnd, hasRamp := findRampRange(g, path)
		if hasRamp {
			fromLevel := g.LevelIDAt(path[rampStart][0], path[rampStart][1])
			toLevel := g.LevelIDAt(path[rampEnd][0], path[rampEnd][1])
			heights, err := interpolateRampHeights(fromLevel, toLevel, g.LevelStep, rampEnd-rampStart+1, cfg.SlopeCurve)
			if err != nil {
				res.Warnings = append(res.Warnings, model.Warning{
					Kind:    string(common.InvalidLevelTransition),
					Message: err.Error(),
				})
			} else {
				for i, h := range heights {
					x, y := path[rampStart+i][0], path[rampStart+i][1]
					g.SetHeightAt(x, y, h)
					c, cerr := g.At(x, y)
					if cerr == nil {
						g.MutateFlags(c, func(f grid.Flags) grid.Flags { return f.WithRamp(true).WithPlayable(true) })
					}
				}
				segment.HasRamp = true
				segment.RampStartIdx = rampStart
				segment.RampEndIdx = rampEnd
			}
		}

		res.RoadCellCount += stampRoad(g, path, cfg.RoadWidth, roadID)
		roadID++

		res.Segments = append(res.Segments, segment)
		res.SegmentsRouted++
	}

	return res, nil
}

// findRampRange locates the level-boundary crossing in path, then expands
// it to the full contiguous run of ramp-flagged path cells straddling that
// crossing. Interpolating across only the 2-cell boundary crossing would
// lay the whole level step across a single step, producing a near-vertical
// "ramp" that can trip the walkable-slope invariant (§8.3); spreading it
// over the ramp-cutting pass's actual ramp-flagged cells instead keeps the
// grade gentle. If no ramp cells border the crossing (e.g. the level
// transition sits on an unramped soft boundary), falls back to the bare
// 2-cell crossing.
func findRampRange(g *grid.Grid, path [][2]int) (start, end int, ok bool) {
	if len(path) == 0 {
		return 0, 0, false
	}
	baseLevel := g.LevelIDAt(path[0][0], path[0][1])
	crossing := -1
	for i := 1; i < len(path); i++ {
		level := g.LevelIDAt(path[i][0], path[i][1])
		if level != baseLevel {
			crossing = i
			break
		}
	}
	if crossing == -1 {
		return 0, 0, false
	}

	isRamp := func(i int) bool {
		return g.FlagsAt(path[i][0], path[i][1]).Ramp()
	}

	start, end = crossing-1, crossing
	for start > 0 && isRamp(start-1) {
		start--
	}
	for end < len(path)-1 && isRamp(end+1) {
		end++
	}
	return start, end, true
}

// stampRoad marks every cell within roadWidth/2 of each path cell as
// road+playable with the given roadId, and returns the number of cells
// newly marked. Roads never modify height outside a ramp sub-range.
func stampRoad(g *grid.Grid, path [][2]int, roadWidth float64, roadID int) int {
	half := roadWidth / 2
	if half < 0 {
		half = 0
	}
	r := int(math.Ceil(half))
	count := 0

	marked := map[[2]int]bool{}
	for _, p := range path {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if math.Hypot(float64(dx), float64(dy)) > half {
					continue
				}
				x, y := p[0]+dx, p[1]+dy
				if !g.InBounds(x, y) {
					continue
				}
				if marked[[2]int{x, y}] {
					continue
				}
				marked[[2]int{x, y}] = true
				c, err := g.At(x, y)
				if err != nil {
					continue
				}
				already := g.Flags(c).Road()
				g.MutateFlags(c, func(f grid.Flags) grid.Flags {
					f = f.WithRoad(true).WithPlayable(true)
					f.RoadID = roadID
					return f
				})
				if !already {
					count++
				}
			}
		}
	}
	return count
}
