package roads

import (
	"math"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
)

// simplifyPath is Douglas-Peucker simplification with a level-id-change
// preserving variant (§4.9.4): any point where the level id changes from
// its predecessor is treated as a mandatory split point, so a ramp
// transition never gets simplified away.
func simplifyPath(g *grid.Grid, path [][2]int, epsilon float64) [][2]int {
	if len(path) < 3 {
		return path
	}

	splits := mandatorySplits(g, path)
	var out [][2]int
	start := 0
	for _, s := range splits {
		segment := douglasPeucker(path[start:s+1], epsilon)
		if len(out) > 0 {
			segment = segment[1:]
		}
		out = append(out, segment...)
		start = s
	}
	tail := douglasPeucker(path[start:], epsilon)
	if len(out) > 0 {
		tail = tail[1:]
	}
	out = append(out, tail...)
	return out
}

// mandatorySplits returns the indices (excluding 0) where the level id
// changes relative to the previous point, plus the final index.
func mandatorySplits(g *grid.Grid, path [][2]int) []int {
	var splits []int
	prevLevel := g.LevelIDAt(path[0][0], path[0][1])
	for i := 1; i < len(path); i++ {
		level := g.LevelIDAt(path[i][0], path[i][1])
		if level != prevLevel {
			splits = append(splits, i)
			prevLevel = level
		}
	}
	if len(splits) == 0 || splits[len(splits)-1] != len(path)-1 {
		splits = append(splits, len(path)-1)
	}
	return splits
}

func douglasPeucker(points [][2]int, epsilon float64) [][2]int {
	if len(points) < 3 {
		return points
	}

	maxDist := 0.0
	index := 0
	first, last := points[0], points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], first, last)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}

	if maxDist <= epsilon {
		return [][2]int{first, last}
	}

	left := douglasPeucker(points[:index+1], epsilon)
	right := douglasPeucker(points[index:], epsilon)
	return append(left[:len(left)-1], right...)
}

func perpendicularDistance(p, a, b [2]int) float64 {
	ax, ay := float64(a[0]), float64(a[1])
	bx, by := float64(b[0]), float64(b[1])
	px, py := float64(p[0]), float64(p[1])

	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	return math.Abs(dy*px-dx*py+bx*ay-by*ax) / length
}
