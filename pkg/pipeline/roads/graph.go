package roads

import (
	"sort"

	"github.com/ridgeline-games/terrain-builder/pkg/model"
)

// edge is a candidate connection between two POIs by index into the POI
// slice, weighted per §4.9.2: euclideanDistance + levelPenalty*|Δlevel|.
type edge struct {
	a, b   int
	weight float64
}

const levelPenalty = 40.0

func edgeWeight(pois []model.POI, a, b int) float64 {
	d := dist(pois[a].X, pois[a].Y, pois[b].X, pois[b].Y)
	levelDiff := int(pois[a].LevelID) - int(pois[b].LevelID)
	if levelDiff < 0 {
		levelDiff = -levelDiff
	}
	return d + levelPenalty*float64(levelDiff)
}

// unionFind is the standard disjoint-set structure used by Kruskal's MST.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
	return true
}

// buildGraph constructs the §4.9.2 connectivity graph: a dedicated edge
// per ramp entry/exit pair, a Kruskal MST over the complete POI graph,
// then up to maxExtraEdges additional shortest non-MST edges, followed by
// the two repair passes (every exit connected, every ramp waypoint with
// >= 2 connections).
func buildGraph(pois []model.POI, maxExtraEdges int) []edge {
	n := len(pois)
	if n < 2 {
		return nil
	}

	var chosen []edge
	uf := newUnionFind(n)

	// Dedicated ramp entry/exit segments, added before the general MST
	// step so every ramp is used at least once.
	rampEntry := map[int]int{}
	rampExit := map[int]int{}
	for i, p := range pois {
		if p.Type != model.POIRampWaypoint {
			continue
		}
		if p.RampSide == model.RampEntry {
			rampEntry[p.RampCluster] = i
		} else {
			rampExit[p.RampCluster] = i
		}
	}
	// Map iteration order is randomized per run; sort cluster ids so the
	// dedicated ramp edges (and everything ordered off `chosen` downstream)
	// come out the same way for a fixed seed (§4.11, §8 S5).
	clusterIDs := make([]int, 0, len(rampEntry))
	for cluster := range rampEntry {
		clusterIDs = append(clusterIDs, cluster)
	}
	sort.Ints(clusterIDs)
	for _, cluster := range clusterIDs {
		a := rampEntry[cluster]
		b, ok := rampExit[cluster]
		if !ok {
			continue
		}
		chosen = append(chosen, edge{a: a, b: b, weight: edgeWeight(pois, a, b)})
		uf.union(a, b)
	}

	var all []edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			all = append(all, edge{a: i, b: j, weight: edgeWeight(pois, i, j)})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].weight < all[j].weight })

	mstEdges := map[[2]int]bool{}
	for _, e := range all {
		if uf.union(e.a, e.b) {
			chosen = append(chosen, e)
			mstEdges[[2]int{e.a, e.b}] = true
		}
	}

	extras := 0
	for _, e := range all {
		if extras >= maxExtraEdges {
			break
		}
		if mstEdges[[2]int{e.a, e.b}] {
			continue
		}
		chosen = append(chosen, e)
		extras++
	}

	chosen = repairConnectivity(pois, chosen)
	return chosen
}

// repairConnectivity runs the two repair passes from §4.9.2: every exit
// POI must have >= 1 connection, and every ramp waypoint must have >= 2.
func repairConnectivity(pois []model.POI, edges []edge) []edge {
	degree := make([]int, len(pois))
	for _, e := range edges {
		degree[e.a]++
		degree[e.b]++
	}

	nearestOther := func(i int, preferRamp bool) int {
		best, bestDist := -1, 0.0
		for j := range pois {
			if j == i {
				continue
			}
			if preferRamp && pois[j].Type != model.POIRampWaypoint {
				continue
			}
			d := dist(pois[i].X, pois[i].Y, pois[j].X, pois[j].Y)
			if best == -1 || d < bestDist {
				best, bestDist = j, d
			}
		}
		return best
	}

	for i, p := range pois {
		if p.Type != model.POIExit || degree[i] >= 1 {
			continue
		}
		target := nearestOther(i, true)
		if target == -1 {
			target = nearestOther(i, false)
		}
		if target == -1 {
			continue
		}
		edges = append(edges, edge{a: i, b: target, weight: edgeWeight(pois, i, target)})
		degree[i]++
		degree[target]++
	}

	for i, p := range pois {
		if p.Type != model.POIRampWaypoint || degree[i] >= 2 {
			continue
		}
		target := nearestOther(i, false)
		if target == -1 || target == i {
			continue
		}
		edges = append(edges, edge{a: i, b: target, weight: edgeWeight(pois, i, target)})
		degree[i]++
		degree[target]++
	}

	return edges
}
