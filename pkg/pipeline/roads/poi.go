// Package roads builds the road network that connects points of interest
// across levels: POI discovery, a minimum-spanning-tree-plus-extra-edges
// graph, A* pathfinding per edge, and Douglas-Peucker/Chaikin
// post-processing before the path is written back to the grid (§4.9).
package roads

import (
	"math"
	"math/rand"
	"sort"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

const edgeInset = 3

// discoverExitPOIs scans the outermost row or column of each map edge for
// runs of non-blocking cells and emits one POI per run at its centroid,
// snapped inward and onto the nearest passable cell (§4.9.1). Cell height
// is not considered when forming runs.
func discoverExitPOIs(g *grid.Grid, nextID *int) []model.POI {
	cols, rows := g.Cols(), g.Rows()
	var pois []model.POI

	type edgeScan struct {
		name   string
		points func(i int) (int, int)
		length int
	}
	edges := []edgeScan{
		{"north", func(i int) (int, int) { return i, 0 }, cols},
		{"south", func(i int) (int, int) { return i, rows - 1 }, cols},
		{"west", func(i int) (int, int) { return 0, i }, rows},
		{"east", func(i int) (int, int) { return cols - 1, i }, rows},
	}

	for _, edge := range edges {
		var clusterSum, clusterCount int
		flush := func() {
			if clusterCount == 0 {
				return
			}
			centroid := clusterSum / clusterCount
			x, y := edge.points(centroid)
			x, y = insetToward(x, y, cols, rows, edgeInset)
			x, y = nearestPassable(g, x, y)
			pois = append(pois, model.POI{
				ID: *nextID, X: x, Y: y, LevelID: g.LevelIDAt(x, y), Type: model.POIExit,
			})
			*nextID++
			clusterSum, clusterCount = 0, 0
		}

		for i := 0; i < edge.length; i++ {
			x, y := edge.points(i)
			f := g.FlagsAt(x, y)
			if f.Blocking() {
				flush()
				continue
			}
			clusterSum += i
			clusterCount++
		}
		flush()
	}

	return pois
}

func insetToward(x, y, cols, rows, inset int) (int, int) {
	if x == 0 {
		x = inset
	} else if x == cols-1 {
		x = cols - 1 - inset
	}
	if y == 0 {
		y = inset
	} else if y == rows-1 {
		y = rows - 1 - inset
	}
	if x < 0 {
		x = 0
	}
	if x >= cols {
		x = cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= rows {
		y = rows - 1
	}
	return x, y
}

func nearestPassable(g *grid.Grid, x, y int) (int, int) {
	if !g.FlagsAt(x, y).Blocking() {
		return x, y
	}
	for radius := 1; radius < 32; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				nx, ny := x+dx, y+dy
				if !g.InBounds(nx, ny) {
					continue
				}
				if !g.FlagsAt(nx, ny).Blocking() {
					return nx, ny
				}
			}
		}
	}
	return x, y
}

// discoverRampWaypoints groups ramp-flagged cells into clusters by coarse
// grid key; clusters of size >= 15 emit an entry POI at the low end and
// an exit POI at the high end along the ramp's natural axis (§4.9.1).
func discoverRampWaypoints(g *grid.Grid, nextID *int) []model.POI {
	const coarse = 8
	const minClusterSize = 15

	clusters := make(map[[2]int][][2]int)
	g.ForEachCell(func(c grid.Cell, x, y int) {
		if !g.Flags(c).Ramp() {
			return
		}
		key := [2]int{x / coarse, y / coarse}
		clusters[key] = append(clusters[key], [2]int{x, y})
	})

	// Map iteration order is randomized per run; sort cluster keys so POI
	// IDs (and everything keyed off them downstream: graph edges, A*
	// processing order, RoadID assignment) are reproducible for a fixed
	// seed (§4.11, §8 S5).
	keys := make([][2]int, 0, len(clusters))
	for key := range clusters {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	var pois []model.POI
	clusterID := 0
	for _, key := range keys {
		cells := clusters[key]
		if len(cells) < minClusterSize {
			continue
		}
		lowIdx, highIdx := 0, 0
		lowH, highH := g.HeightAt(cells[0][0], cells[0][1]), g.HeightAt(cells[0][0], cells[0][1])
		for i, cell := range cells {
			h := g.HeightAt(cell[0], cell[1])
			if h < lowH {
				lowH = h
				lowIdx = i
			}
			if h > highH {
				highH = h
				highIdx = i
			}
		}
		low, high := cells[lowIdx], cells[highIdx]

		pois = append(pois, model.POI{
			ID: *nextID, X: low[0], Y: low[1], LevelID: g.LevelIDAt(low[0], low[1]),
			Type: model.POIRampWaypoint, RampSide: model.RampEntry, RampCluster: clusterID,
		})
		*nextID++
		pois = append(pois, model.POI{
			ID: *nextID, X: high[0], Y: high[1], LevelID: g.LevelIDAt(high[0], high[1]),
			Type: model.POIRampWaypoint, RampSide: model.RampExit, RampCluster: clusterID,
		})
		*nextID++
		clusterID++
	}

	return pois
}

// discoverRandomPOIs rejection-samples count POIs within a margin-inset
// rectangle, rejecting blocked/water/visual-only cells, cells above
// walkableCap, and any candidate closer than minDistance to an existing
// POI (§4.9.1).
func discoverRandomPOIs(g *grid.Grid, count int, minDistance float64, walkableCap int8, rng *rand.Rand, existing []model.POI, nextID *int) []model.POI {
	if count <= 0 {
		return nil
	}
	cols, rows := g.Cols(), g.Rows()
	const margin = 6

	placed := append([]model.POI(nil), existing...)
	var out []model.POI

	attempts := count * 200
	for len(out) < count && attempts > 0 {
		attempts--
		x := margin + rng.Intn(maxInt(1, cols-2*margin))
		y := margin + rng.Intn(maxInt(1, rows-2*margin))

		f := g.FlagsAt(x, y)
		if f.Blocking() || f.Water() {
			continue
		}
		if g.LevelIDAt(x, y) > walkableCap {
			continue
		}

		tooClose := false
		for _, p := range placed {
			if dist(x, y, p.X, p.Y) < minDistance {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		poi := model.POI{ID: *nextID, X: x, Y: y, LevelID: g.LevelIDAt(x, y), Type: model.POITown}
		*nextID++
		placed = append(placed, poi)
		out = append(out, poi)
	}

	return out
}

func dist(x1, y1, x2, y2 int) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return math.Sqrt(dx*dx + dy*dy)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// sortedByID returns pois sorted by ID, for deterministic iteration order
// downstream.
func sortedByID(pois []model.POI) []model.POI {
	out := append([]model.POI(nil), pois...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
