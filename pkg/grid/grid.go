// Package grid is the dense 2D storage at the base of the terrain
// pipeline: three coregistered planes (height, levelId, flags) addressed
// by a single row-major index, plus a thin cell-view handle. There is no
// per-cell object graph and no hidden padding — every pass reads and
// writes these same three slices.
package grid

import (
	"github.com/ridgeline-games/terrain-builder/pkg/common"
)

// Grid owns the three mutable planes for the lifetime of one generation.
type Grid struct {
	cols, rows int
	height     []float32
	levelID    []int8
	flags      []Flags

	// LevelStep is the nominal vertical spacing between adjacent levels,
	// in engine units; baseHeight(level) = level * LevelStep.
	LevelStep float32
	// MaxWalkableLevel is the highest level id still eligible for
	// "playable"; levels above it are visual-only.
	MaxWalkableLevel int8
}

// New constructs an all-zero grid of cols x rows cells.
func New(cols, rows int) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, common.NewError(common.InvalidDimensions, "grid.New",
			"cols and rows must both be > 0", nil)
	}
	n := cols * rows
	return &Grid{
		cols:             cols,
		rows:             rows,
		height:           make([]float32, n),
		levelID:          make([]int8, n),
		flags:            make([]Flags, n),
		LevelStep:        270,
		MaxWalkableLevel: 3,
	}, nil
}

// Cols and Rows report the grid's fixed dimensions.
func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) index(x, y int) (int, error) {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return 0, common.NewCellError(common.OutOfBounds, "grid", x, y,
			"cell outside grid bounds", nil)
	}
	return y*g.cols + x, nil
}

// InBounds reports whether (x, y) is a valid cell without allocating an error.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// Index computes the row-major index for (x, y). Callers that have already
// bounds-checked (e.g. via InBounds or a row-major loop) can use this to
// avoid repeated bounds checks on hot paths.
func (g *Grid) Index(x, y int) int { return y*g.cols + x }

// BaseHeight returns the canonical height of a level: level * LevelStep.
func (g *Grid) BaseHeight(level int8) float32 {
	return float32(level) * g.LevelStep
}

// Cell is a thin index handle into the grid's planes; it carries no data of
// its own beyond the coordinates and the index, so copying it is cheap and
// there is no aliasing hazard across passes.
type Cell struct {
	X, Y int
	idx  int
}

// At returns a handle to the cell at (x, y).
func (g *Grid) At(x, y int) (Cell, error) {
	idx, err := g.index(x, y)
	if err != nil {
		return Cell{}, err
	}
	return Cell{X: x, Y: y, idx: idx}, nil
}

// Height reads the cell's current height.
func (g *Grid) Height(c Cell) float32 { return g.height[c.idx] }

// HeightAt reads height at raw coordinates without constructing a Cell.
func (g *Grid) HeightAt(x, y int) float32 { return g.height[g.Index(x, y)] }

// LevelID reads the cell's current level id.
func (g *Grid) LevelID(c Cell) int8 { return g.levelID[c.idx] }

// LevelIDAt reads level id at raw coordinates.
func (g *Grid) LevelIDAt(x, y int) int8 { return g.levelID[g.Index(x, y)] }

// FlagsAt reads the flags record at raw coordinates.
func (g *Grid) FlagsAt(x, y int) Flags { return g.flags[g.Index(x, y)] }

// Flags reads the cell's current flags record.
func (g *Grid) Flags(c Cell) Flags { return g.flags[c.idx] }

// SetHeight mutates a cell's height directly. Used by the passes that
// decouple height from level id (ramp cutter, road ramp interpolation,
// erosion, detail stamps); see invariant §3.2.
func (g *Grid) SetHeight(c Cell, h float32) { g.height[c.idx] = h }

// SetHeightAt is SetHeight addressed by raw coordinates.
func (g *Grid) SetHeightAt(x, y int, h float32) { g.height[g.Index(x, y)] = h }

// SetLevelIDOpt selects whether SetLevelID bypasses the level-reset rule.
// It distinguishes "plain" callers (level assignment pass) from the ramp
// cutter and road builder, which are allowed to decouple height from
// level id per invariant §3.2.
type SetLevelIDOpt int

const (
	// ResetHeight resets height to baseHeight(levelID) — the default for
	// the level-assignment pass.
	ResetHeight SetLevelIDOpt = iota
	// KeepHeight leaves height untouched — used by the ramp cutter and
	// road builder, whose cells are allowed to decouple height from level.
	KeepHeight
)

// SetLevelID mutates a cell's level id. Per contract, this also resets
// height to baseHeight(levelID) unless opt is KeepHeight.
func (g *Grid) SetLevelID(c Cell, level int8, opt SetLevelIDOpt) {
	g.levelID[c.idx] = level
	if opt == ResetHeight {
		g.height[c.idx] = g.BaseHeight(level)
	}
}

// SetFlags replaces a cell's flags record outright.
func (g *Grid) SetFlags(c Cell, f Flags) { g.flags[c.idx] = f }

// SetFlagsAt is SetFlags addressed by raw coordinates.
func (g *Grid) SetFlagsAt(x, y int, f Flags) { g.flags[g.Index(x, y)] = f }

// MutateFlags applies fn to the cell's current flags and stores the result;
// a convenience for the common read-modify-write pattern.
func (g *Grid) MutateFlags(c Cell, fn func(Flags) Flags) {
	g.flags[c.idx] = fn(g.flags[c.idx])
}

// ForEachCell performs a row-major traversal, calling f with each cell and
// its coordinates. f must not mutate the grid's dimensions (it may freely
// mutate height/levelID/flags at the visited cell or elsewhere).
func (g *Grid) ForEachCell(f func(c Cell, x, y int)) {
	for y := 0; y < g.rows; y++ {
		base := y * g.cols
		for x := 0; x < g.cols; x++ {
			f(Cell{X: x, Y: y, idx: base + x}, x, y)
		}
	}
}

// HeightPlane returns an immutable snapshot view of the height plane, in
// row-major order. Bulk readers (export, noise feedback) use this instead
// of iterating cell-by-cell.
func (g *Grid) HeightPlane() []float32 {
	out := make([]float32, len(g.height))
	copy(out, g.height)
	return out
}

// LevelPlane returns an immutable snapshot view of the level id plane.
func (g *Grid) LevelPlane() []int8 {
	out := make([]int8, len(g.levelID))
	copy(out, g.levelID)
	return out
}

// HeightPlaneRef exposes the live height slice for double-buffered passes
// that need to read a stable snapshot (thermal/hydraulic erosion, ramp
// cutter) without per-cell copy overhead. Callers must treat the result as
// read-only; write through SetHeight/SetHeightAt instead.
func (g *Grid) HeightPlaneRef() []float32 { return g.height }

// Neighbors4 returns the up-to-4 orthogonal neighbor coordinates of (x, y)
// that lie within the grid.
func (g *Grid) Neighbors4(x, y int) [][2]int {
	cand := [][2]int{{x, y - 1}, {x, y + 1}, {x - 1, y}, {x + 1, y}}
	out := cand[:0:0]
	for _, n := range cand {
		if g.InBounds(n[0], n[1]) {
			out = append(out, n)
		}
	}
	return out
}

// Neighbors8 returns the up-to-8 neighbor coordinates (orthogonal +
// diagonal) of (x, y) that lie within the grid.
func (g *Grid) Neighbors8(x, y int) [][2]int {
	out := make([][2]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if g.InBounds(nx, ny) {
				out = append(out, [2]int{nx, ny})
			}
		}
	}
	return out
}
