package noise

import "math"

// cellPoint returns the jittered feature point for lattice cell (cx, cy).
func cellPoint(cx, cy int64, seed int64) (float64, float64) {
	jx := hash3(cx, cy, 1, seed)
	jy := hash3(cx, cy, 2, seed)
	return float64(cx) + jx, float64(cy) + jy
}

// nearestTwo searches the 3x3 lattice neighbourhood around (x, y) for the
// two closest jittered feature points, returning their squared Euclidean
// distances as (f1, f2) with f1 <= f2.
func nearestTwo(x, y float64, seed int64) (f1, f2 float64) {
	cx := floorInt(x)
	cy := floorInt(y)

	f1, f2 = math.MaxFloat64, math.MaxFloat64
	for oy := int64(-1); oy <= 1; oy++ {
		for ox := int64(-1); ox <= 1; ox++ {
			px, py := cellPoint(cx+ox, cy+oy, seed)
			dx := px - x
			dy := py - y
			d := dx*dx + dy*dy
			if d < f1 {
				f2 = f1
				f1 = d
			} else if d < f2 {
				f2 = d
			}
		}
	}
	return f1, f2
}

// Voronoi is F1: the Euclidean distance from (x, y) to the nearest
// lattice-jittered feature point, searched over the 3x3 neighbourhood.
// The result is not normalized to [0, 1] by construction (distances can
// exceed 1 for jitter near cell corners), so callers that need a bounded
// signal should pass it through smoothstep as heightmap synthesis does.
func Voronoi(x, y float64, seed int64) float64 {
	f1, _ := nearestTwo(x, y, seed)
	return math.Sqrt(f1)
}

// VoronoiEdges is F2-F1: the gap between the nearest and second-nearest
// feature point distances, which is near zero along cell boundaries and
// grows toward cell interiors — used as a ridge/crack mask.
func VoronoiEdges(x, y float64, seed int64) float64 {
	f1, f2 := nearestTwo(x, y, seed)
	return math.Sqrt(f2) - math.Sqrt(f1)
}
