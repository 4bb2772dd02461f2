package noise

// GradientNoise is quintic-interpolated value noise over the integer
// lattice, returning a value in [0, 1]. Each lattice corner's scalar value
// comes from hash2; the quintic (6t^5-15t^4+10t^3) interpolant gives it
// continuous first and second derivatives, which keeps the fbm/ridged/
// billow composites free of grid-aligned creases.
func GradientNoise(x, y float64, seed int64) float64 {
	x0 := floorInt(x)
	y0 := floorInt(y)
	x1 := x0 + 1
	y1 := y0 + 1

	tx := quintic(x - float64(x0))
	ty := quintic(y - float64(y0))

	v00 := hash2(x0, y0, seed)
	v10 := hash2(x1, y0, seed)
	v01 := hash2(x0, y1, seed)
	v11 := hash2(x1, y1, seed)

	ix0 := lerp(v00, v10, tx)
	ix1 := lerp(v01, v11, tx)
	return clamp01(lerp(ix0, ix1, ty))
}
