package roads

import (
	"github.com/ridgeline-games/terrain-builder/pkg/grid"
)

// chaikinSmooth runs Chaikin corner-cutting for the configured number of
// passes (§4.9.4): each pass replaces every interior edge with two points
// at the 1/4 and 3/4 marks. Generated intermediate points are validated
// against the walkability predicate and rejected (the original vertex is
// kept instead) if they land on a blocked cell.
func chaikinSmooth(g *grid.Grid, path [][2]int, passes int) [][2]int {
	if passes <= 0 || len(path) < 3 {
		return path
	}

	current := path
	for p := 0; p < passes; p++ {
		next := make([][2]int, 0, len(current)*2)
		next = append(next, current[0])
		for i := 0; i < len(current)-1; i++ {
			a, b := current[i], current[i+1]
			q := lerpPoint(a, b, 0.25)
			r := lerpPoint(a, b, 0.75)
			if walkable(g, q) {
				next = append(next, q)
			} else {
				next = append(next, a)
			}
			if walkable(g, r) {
				next = append(next, r)
			} else {
				next = append(next, b)
			}
		}
		next = append(next, current[len(current)-1])
		current = next
	}
	return current
}

func lerpPoint(a, b [2]int, t float64) [2]int {
	x := float64(a[0]) + (float64(b[0])-float64(a[0]))*t
	y := float64(a[1]) + (float64(b[1])-float64(a[1]))*t
	return [2]int{int(x + 0.5), int(y + 0.5)}
}

func walkable(g *grid.Grid, p [2]int) bool {
	if !g.InBounds(p[0], p[1]) {
		return false
	}
	return !g.FlagsAt(p[0], p[1]).Blocking()
}

// blurPath applies a (0.25, 0.5, 0.25) window along the path for rounded
// curves (§4.9.4), leaving the endpoints untouched.
func blurPath(path [][2]int) [][2]int {
	if len(path) < 3 {
		return path
	}
	out := make([][2]int, len(path))
	out[0] = path[0]
	out[len(path)-1] = path[len(path)-1]
	for i := 1; i < len(path)-1; i++ {
		x := 0.25*float64(path[i-1][0]) + 0.5*float64(path[i][0]) + 0.25*float64(path[i+1][0])
		y := 0.25*float64(path[i-1][1]) + 0.5*float64(path[i][1]) + 0.25*float64(path[i+1][1])
		out[i] = [2]int{int(x + 0.5), int(y + 0.5)}
	}
	return out
}
