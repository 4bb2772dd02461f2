package noise

// Warp is a two-pass cascade domain warp: sample FBM of (x+seed, y) and
// (x, y+seed+100) to build an offset vector, displace (x, y) by it scaled
// by strength, then repeat the same sampling on the displaced point. Two
// passes compose into the organic, non-grid-aligned coastlines the
// heightmap synthesis pass relies on; a single pass still reads as
// lattice-aligned at a glance.
func Warp(x, y float64, strength float64, seed int64) (float64, float64) {
	wx, wy := warpOnce(x, y, strength, seed)
	return warpOnce(wx, wy, strength, seed)
}

func warpOnce(x, y float64, strength float64, seed int64) (float64, float64) {
	offX := FBM(x+float64(seed), y, 4, 0.5, 2.0, seed+501)
	offY := FBM(x, y+float64(seed)+100, 4, 0.5, 2.0, seed+907)
	return x + (offX*2-1)*strength, y + (offY*2-1)*strength
}
