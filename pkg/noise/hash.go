// Package noise is a deterministic, seedable set of 2D noise primitives:
// a lattice hash, quintic gradient noise, fractal Brownian motion, ridged
// and billow multifractals, Voronoi F1/F2-F1, and a cascade domain warp.
// Every primitive is a pure function of its arguments — no global state,
// no RNG drift between calls — so that two calls with identical inputs
// always agree, on any target.
package noise

import "math"

// hash2 is a three-component fractional-scramble hash over an integer
// lattice point plus a seed, returning a value in [0, 1). It is the
// foundation every other primitive in this package builds on.
func hash2(ix, iy int64, seed int64) float64 {
	x := float64(ix)*127.1 + float64(iy)*311.7 + float64(seed)*74.7
	y := float64(ix)*269.5 + float64(iy)*183.3 + float64(seed)*113.5
	z := float64(ix)*419.2 + float64(iy)*371.9 + float64(seed)*57.3

	fx := math.Sin(x) * 43758.5453123
	fy := math.Sin(y) * 22578.1459123
	fz := math.Sin(z) * 19642.3490917

	frac := fx + fy + fz
	frac -= math.Floor(frac)
	return frac
}

// hash3 extends hash2 with a third integer lattice coordinate, used by
// primitives that jitter points within a 3x3x... neighbourhood search
// (Voronoi) where a plain 2-component hash would alias between cells.
func hash3(ix, iy, iz int64, seed int64) float64 {
	x := float64(ix)*127.1 + float64(iy)*311.7 + float64(iz)*191.9 + float64(seed)*74.7
	y := float64(ix)*269.5 + float64(iy)*183.3 + float64(iz)*246.1 + float64(seed)*113.5
	z := float64(ix)*419.2 + float64(iy)*371.9 + float64(iz)*135.7 + float64(seed)*57.3

	fx := math.Sin(x) * 43758.5453123
	fy := math.Sin(y) * 22578.1459123
	fz := math.Sin(z) * 19642.3490917

	frac := fx + fy + fz
	frac -= math.Floor(frac)
	return frac
}

// Hash2 exposes hash2 for callers outside this package that need the same
// deterministic per-pixel scramble (the anti-banding dither in heightmap
// synthesis).
func Hash2(ix, iy int64, seed int64) float64 { return hash2(ix, iy, seed) }

func floorInt(v float64) int64 { return int64(math.Floor(v)) }

func quintic(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
