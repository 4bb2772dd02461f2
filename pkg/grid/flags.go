package grid

// BoundaryType classifies why a cell is flagged boundary.
type BoundaryType int

const (
	// BoundaryNone means the cell has no boundary classification.
	BoundaryNone BoundaryType = iota
	// BoundaryEdge is owned exclusively by the border pass: the outermost
	// edge band enforcing map impassability.
	BoundaryEdge
	// BoundaryInterior marks an interior barrier not tied to the map edge.
	BoundaryInterior
	// BoundaryOcean marks a water-barrier cell.
	BoundaryOcean
	// BoundaryCustom is reserved for caller-defined boundary semantics.
	BoundaryCustom
)

// bit positions within the packed Flags integer.
const (
	bitRoad = 1 << iota
	bitRamp
	bitWater
	bitUnderwater
	bitBlocked
	bitCliff
	bitPlayable
	bitVisualOnly
	bitBoundary
)

// Flags is the packed per-cell bit record plus the two small side fields
// (BoundaryType, RoadID) the spec calls out separately. It is kept as a
// value type, not a pointer graph: cells are distinguished by their index,
// not by object identity (see §9's re-architecture guidance against
// per-cell object graphs).
type Flags struct {
	bits         uint16
	BoundaryType BoundaryType
	RoadID       int
}

func (f Flags) has(bit uint16) bool { return f.bits&bit != 0 }

func (f Flags) set(bit uint16, v bool) Flags {
	if v {
		f.bits |= bit
	} else {
		f.bits &^= bit
	}
	return f
}

func (f Flags) Road() bool       { return f.has(bitRoad) }
func (f Flags) Ramp() bool       { return f.has(bitRamp) }
func (f Flags) Water() bool      { return f.has(bitWater) }
func (f Flags) Underwater() bool { return f.has(bitUnderwater) }
func (f Flags) Blocked() bool    { return f.has(bitBlocked) }
func (f Flags) Cliff() bool      { return f.has(bitCliff) }
func (f Flags) Playable() bool   { return f.has(bitPlayable) }
func (f Flags) VisualOnly() bool { return f.has(bitVisualOnly) }
func (f Flags) Boundary() bool   { return f.has(bitBoundary) }

func (f Flags) WithRoad(v bool) Flags       { return f.set(bitRoad, v) }
func (f Flags) WithRamp(v bool) Flags       { return f.set(bitRamp, v) }
func (f Flags) WithWater(v bool) Flags      { return f.set(bitWater, v) }
func (f Flags) WithUnderwater(v bool) Flags { return f.set(bitUnderwater, v) }
func (f Flags) WithBlocked(v bool) Flags    { return f.set(bitBlocked, v) }
func (f Flags) WithCliff(v bool) Flags      { return f.set(bitCliff, v) }
func (f Flags) WithPlayable(v bool) Flags   { return f.set(bitPlayable, v) }
func (f Flags) WithVisualOnly(v bool) Flags { return f.set(bitVisualOnly, v) }
func (f Flags) WithBoundary(v bool) Flags   { return f.set(bitBoundary, v) }

// Blocking reports whether a cell is impassable to generic (non-road-aware)
// traversal: blocked outright, visual-only, or open water. Boundary is
// deliberately excluded here — an exit cut-through keeps flags.boundary set
// while being explicitly playable/road, so boundary-as-blocker is evaluated
// by the road A* cost function instead, where it can be overridden by
// road/playable state. See DESIGN.md for the reasoning.
func (f Flags) Blocking() bool {
	return f.Blocked() || f.VisualOnly() || f.Water()
}
