package model

import "time"

// Warning is a non-fatal condition surfaced on a Result rather than
// failing the generation: GpuUnavailable (always, since this
// implementation is CPU-only), a dropped PathNotFound road segment, or a
// skipped StampDataMissing placement (§7).
type Warning struct {
	Kind    string
	Message string
}

// Stats accumulates per-pass timing and counts, grounded on the teacher's
// GenerationStats/ValidationResult pattern of a stats struct threaded
// through a multi-stage algorithm.
type Stats struct {
	PassDurations   map[string]time.Duration
	LevelCounts     map[int8]int
	RampCellCount   int
	RoadCellCount   int
	SegmentsRouted  int
	SegmentsDropped int
	StampsApplied   int
	StampsSkipped   int
}

// NewStats returns a zero-valued Stats with its maps initialised.
func NewStats() *Stats {
	return &Stats{
		PassDurations: make(map[string]time.Duration),
		LevelCounts:   make(map[int8]int),
	}
}
