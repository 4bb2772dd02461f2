// Package mask projects a finished Grid to the export products a game
// engine's landscape/material system consumes: a 16-bit heightmap plus a
// family of coregistered 8-bit masks, and metadata describing the
// quantization (§4.10). It never re-runs any pipeline pass.
package mask

import (
	"time"

	"github.com/ridgeline-games/terrain-builder/pkg/grid"
)

// Metadata describes the quantization applied to produce heightmap16, so
// a consumer can invert it exactly.
type Metadata struct {
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	MinHeight float64   `json:"min_height"`
	MaxHeight float64   `json:"max_height"`
	Scale     float64   `json:"scale"`
	Offset    float64   `json:"offset"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// Export is the full set of projected outputs for one grid.
type Export struct {
	Heightmap16  []uint16
	LevelMask    []uint8
	RoadMask     []uint8
	CliffMask    []uint8
	PlayableMask []uint8
	WaterMask    []uint8
	Metadata     Metadata
}

// exportVersion is the fixed schema version stamped into Metadata; bump
// it if the export layout changes.
const exportVersion = "1.0"

// Build projects g into an Export. scale and offset apply to the
// heightmap16 quantization normalized*65535*scale + offset - 32768,
// clamped to [0, 65535]. With (1, 0) the lower half of the observed height
// range clamps to 0; (1, 32768) maps the observed range onto the full
// [0, 65535].
func Build(g *grid.Grid, maxLevel int8, scale, offset float64, now time.Time) *Export {
	cols, rows := g.Cols(), g.Rows()
	n := cols * rows

	heights := g.HeightPlane()
	minHeight, maxHeight := float64(heights[0]), float64(heights[0])
	for _, h := range heights {
		v := float64(h)
		if v < minHeight {
			minHeight = v
		}
		if v > maxHeight {
			maxHeight = v
		}
	}
	heightRange := maxHeight - minHeight
	if heightRange == 0 {
		heightRange = 1
	}

	ex := &Export{
		Heightmap16:  make([]uint16, n),
		LevelMask:    make([]uint8, n),
		RoadMask:     make([]uint8, n),
		CliffMask:    make([]uint8, n),
		PlayableMask: make([]uint8, n),
		WaterMask:    make([]uint8, n),
		Metadata: Metadata{
			Rows: rows, Cols: cols,
			MinHeight: minHeight, MaxHeight: maxHeight,
			Scale: scale, Offset: offset,
			Version: exportVersion, Timestamp: now,
		},
	}

	levelSpan := float64(maxLevel)
	if levelSpan <= 0 {
		levelSpan = 1
	}

	g.ForEachCell(func(c grid.Cell, x, y int) {
		idx := g.Index(x, y)
		h := float64(g.Height(c))

		normalized := (h - minHeight) / heightRange
		raw := normalized*65535*scale + offset - 32768
		ex.Heightmap16[idx] = clampU16(raw)

		level := float64(g.LevelID(c))
		levelNorm := level / levelSpan
		if levelNorm < 0 {
			levelNorm = 0
		}
		if levelNorm > 1 {
			levelNorm = 1
		}
		ex.LevelMask[idx] = uint8(levelNorm * 255)

		f := g.Flags(c)
		ex.RoadMask[idx] = boolByte(f.Road())
		ex.CliffMask[idx] = boolByte(f.Cliff())
		ex.PlayableMask[idx] = boolByte(f.Playable())
		ex.WaterMask[idx] = boolByte(f.Water())
	})

	return ex
}

func clampU16(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

func boolByte(v bool) uint8 {
	if v {
		return 255
	}
	return 0
}

// PackRGBA packs each heightmap16 sample's low/high byte into the R/G
// channels of an RGBA buffer, leaving B/A at 0. Consumers that want 16-bit
// height stored visually (e.g. for inspection in an image viewer) can use
// this instead of a raw u16 buffer. It embeds no pass-specific parameter.
func PackRGBA(heightmap16 []uint16) []byte {
	out := make([]byte, len(heightmap16)*4)
	for i, v := range heightmap16 {
		out[i*4+0] = byte(v & 0xFF)
		out[i*4+1] = byte(v >> 8)
		out[i*4+2] = 0
		out[i*4+3] = 0
	}
	return out
}
