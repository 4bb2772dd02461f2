package roads

import (
	"container/heap"
	"math"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
	"github.com/ridgeline-games/terrain-builder/pkg/grid"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

// coord is a plain grid coordinate, used as a map key throughout the
// pathfinder.
type coord struct{ x, y int }

// astarNode is one entry in the open-set priority queue.
type astarNode struct {
	x, y     int
	g, f     float64
	h        float64
	pushSeq  int
	index    int
}

type nodeHeap []*astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].h != h[j].h {
		return h[i].h < h[j].h
	}
	return h[i].pushSeq < h[j].pushSeq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// cellCost is the A* cost multiplier table from §4.9.3, evaluated in
// priority order so an exit cell (boundary + road + playable, per the
// border pass) resolves as passable rather than infinite: boundary only
// blocks when neither road nor playable overrides it.
func cellCost(g *grid.Grid, x, y int, walkableCap int8) float64 {
	f := g.FlagsAt(x, y)
	if f.Blocked() {
		return math.Inf(1)
	}
	if f.VisualOnly() || f.Water() {
		return math.Inf(1)
	}
	if g.LevelIDAt(x, y) > walkableCap {
		return math.Inf(1)
	}
	if f.Boundary() && !f.Playable() && !f.Road() {
		return math.Inf(1)
	}
	switch {
	case f.Ramp():
		return 0.1
	case f.Road():
		return 0.2
	case f.Playable():
		return 0.5
	default:
		return 1.0
	}
}

// FindPath runs A* on the grid's 8-neighbourhood from (fromX,fromY) to
// (toX,toY) using the §4.9.3 cost table. step controls the coarseness of
// the search for large maps (1 for small grids); the final hop always
// snaps to the exact goal. Returns common.PathNotFound when no walkable
// route exists within the iteration budget.
func FindPath(g *grid.Grid, fromX, fromY, toX, toY int, cfg model.AStarConfig, walkableCap int8) ([][2]int, error) {
	cols, rows := g.Cols(), g.Rows()
	step := 1
	if m := maxInt(cols, rows); m > 1024 {
		step = 8
	} else if m > 512 {
		step = 4
	} else if m > 256 {
		step = 2
	}

	budget := cfg.MaxStepBudget
	maxBudget := minInt(50000, cols*rows/4)
	if budget <= 0 || budget > maxBudget {
		budget = maxBudget
	}
	if budget <= 0 {
		budget = 1
	}

	heightCap := cfg.HeightDiffCap
	if heightCap <= 0 {
		heightCap = 30
	}

	if !g.InBounds(fromX, fromY) || !g.InBounds(toX, toY) {
		return nil, common.NewError(common.PathNotFound, "roads.astar", "endpoint outside grid bounds", nil)
	}

	start := coord{fromX, fromY}
	goal := coord{toX, toY}

	gScore := map[coord]float64{start: 0}
	cameFrom := map[coord]coord{}
	open := &nodeHeap{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &astarNode{x: start.x, y: start.y, g: 0, f: heuristic(start.x, start.y, goal.x, goal.y), pushSeq: seq})
	visited := map[coord]bool{}

	iterations := 0
	for open.Len() > 0 {
		iterations++
		if iterations > budget {
			break
		}
		current := heap.Pop(open).(*astarNode)
		cur := coord{current.x, current.y}
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if cur == goal {
			return reconstructPath(cameFrom, goal, start), nil
		}

		neighbors := stepNeighbors(g, cur.x, cur.y, step)
		// Always allow a direct hop to the exact goal once within range, so
		// the final step snaps to the endpoint even under a coarse step.
		if dist(cur.x, cur.y, goal.x, goal.y) <= float64(step)*1.5 {
			neighbors = append(neighbors, [2]int{goal.x, goal.y})
		}

		for _, nb := range neighbors {
			nx, ny := nb[0], nb[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			cost := cellCost(g, nx, ny, walkableCap)
			if math.IsInf(cost, 1) {
				continue
			}

			diagonal := nx != cur.x && ny != cur.y
			stepCost := dist(cur.x, cur.y, nx, ny) * cost
			if diagonal {
				stepCost *= 1.2
			}

			curLevel, nLevel := g.LevelIDAt(cur.x, cur.y), g.LevelIDAt(nx, ny)
			rampNearby := g.FlagsAt(cur.x, cur.y).Ramp() || g.FlagsAt(nx, ny).Ramp()
			heightDiff := math.Abs(float64(g.HeightAt(nx, ny) - g.HeightAt(cur.x, cur.y)))

			if heightDiff > heightCap && !rampNearby {
				continue
			}
			if nLevel != curLevel && !rampNearby {
				continue
			}
			if heightDiff > 5 {
				stepCost += heightDiff / 100
			}
			stepCost += proximityPenalty(g, nx, ny)

			tentativeG := current.g + stepCost
			nc := coord{nx, ny}
			if existing, ok := gScore[nc]; !ok || tentativeG < existing {
				gScore[nc] = tentativeG
				cameFrom[nc] = cur
				seq++
				heap.Push(open, &astarNode{
					x: nx, y: ny, g: tentativeG,
					f:       tentativeG + heuristic(nx, ny, goal.x, goal.y),
					h:       heuristic(nx, ny, goal.x, goal.y),
					pushSeq: seq,
				})
			}
		}
	}

	return nil, common.NewError(common.PathNotFound, "roads.astar", "no walkable path found within the iteration budget", nil)
}

func heuristic(x1, y1, x2, y2 int) float64 { return dist(x1, y1, x2, y2) }

func stepNeighbors(g *grid.Grid, x, y, step int) [][2]int {
	cand := [][2]int{
		{x, y - step}, {x, y + step}, {x - step, y}, {x + step, y},
		{x - step, y - step}, {x + step, y - step}, {x - step, y + step}, {x + step, y + step},
	}
	out := cand[:0:0]
	for _, n := range cand {
		if g.InBounds(n[0], n[1]) {
			out = append(out, n)
		}
	}
	return out
}

// proximityPenalty adds +20/distance for nearby visualOnly or cliff
// cells, per §4.9.3's penalty table, checked over a small 3-cell radius.
func proximityPenalty(g *grid.Grid, x, y int) float64 {
	penalty := 0.0
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !g.InBounds(nx, ny) {
				continue
			}
			f := g.FlagsAt(nx, ny)
			if f.VisualOnly() || f.Cliff() {
				d := math.Hypot(float64(dx), float64(dy))
				penalty += 20 / d
			}
		}
	}
	return penalty
}

// reconstructPath walks cameFrom backward from goal to start and returns
// the path in forward (start -> goal) order.
func reconstructPath(cameFrom map[coord]coord, goal, start coord) [][2]int {
	path := [][2]int{{goal.x, goal.y}}
	cur := goal
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, [2]int{prev.x, prev.y})
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
