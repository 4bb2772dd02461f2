package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
)

// DetailStamp is a pre-authored normalized height patch overlaid on
// plateaus (§4.8). Values are in [0, 1]; MaxAmplitude is a fraction of
// the level height difference, bounded by a hard 1% ceiling.
type DetailStamp struct {
	ID            string      `json:"id"`
	CategoryTag   string      `json:"category_tag"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	Values        []float64   `json:"values"` // row-major, len == width*height
	Tileable      bool        `json:"tileable"`
	MaxAmplitude  float64     `json:"max_amplitude"`
}

// At bilinearly samples the stamp's normalized height field at continuous
// stamp-local coordinates (u, v) in [0, width) x [0, height). Out-of-stamp
// samples return (0, false).
func (s *DetailStamp) At(u, v float64) (float64, bool) {
	if u < 0 || v < 0 || u >= float64(s.Width) || v >= float64(s.Height) {
		return 0, false
	}
	x0 := int(u)
	y0 := int(v)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= s.Width {
		x1 = s.Width - 1
	}
	if y1 >= s.Height {
		y1 = s.Height - 1
	}
	tx := u - float64(x0)
	ty := v - float64(y0)

	v00 := s.Values[y0*s.Width+x0]
	v10 := s.Values[y0*s.Width+x1]
	v01 := s.Values[y1*s.Width+x0]
	v11 := s.Values[y1*s.Width+x1]

	ix0 := v00 + (v10-v00)*tx
	ix1 := v01 + (v11-v01)*tx
	return ix0 + (ix1-ix0)*ty, true
}

// Validate enforces the hard amplitude ceiling from §4.8: a stamp whose
// author set MaxAmplitude above 1% of the level height difference is
// rejected at load time rather than silently clamped later.
func (s *DetailStamp) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return common.NewError(common.InvalidDimensions, "stamp.Validate",
			fmt.Sprintf("stamp %q has non-positive dimensions", s.ID), nil)
	}
	if len(s.Values) != s.Width*s.Height {
		return common.NewError(common.InvalidParameter, "stamp.Validate",
			fmt.Sprintf("stamp %q values length %d != width*height %d", s.ID, len(s.Values), s.Width*s.Height), nil)
	}
	if s.MaxAmplitude > 0.01 {
		return common.NewError(common.InvalidParameter, "stamp.Validate",
			fmt.Sprintf("stamp %q max_amplitude %v exceeds the 1%% ceiling", s.ID, s.MaxAmplitude), nil)
	}
	return nil
}

// StampCatalog is the library of loaded detail stamps, keyed by ID. It
// outlives any single generation (§3 Ownership) — a Pipeline only borrows
// it for the duration of a run.
type StampCatalog struct {
	stamps map[string]*DetailStamp
}

// NewStampCatalog returns an empty catalog.
func NewStampCatalog() *StampCatalog {
	return &StampCatalog{stamps: make(map[string]*DetailStamp)}
}

// Add registers a stamp, validating it first.
func (c *StampCatalog) Add(s *DetailStamp) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.stamps[s.ID] = s
	return nil
}

// Get returns the stamp with the given ID, or (nil, false) if absent —
// callers surface this as StampDataMissing and skip the placement (§7).
func (c *StampCatalog) Get(id string) (*DetailStamp, bool) {
	s, ok := c.stamps[id]
	return s, ok
}

// LoadStampCatalogDir loads every *.json file in dir as a DetailStamp,
// grounded on the common package's JSON-file catalog conventions. A
// missing directory is not an error — it just yields an empty catalog,
// since stamps are an optional decoration layer.
func LoadStampCatalogDir(dir string) (*StampCatalog, error) {
	catalog := NewStampCatalog()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, fmt.Errorf("failed to read stamp catalog directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read stamp %s: %w", path, err)
		}
		var stamp DetailStamp
		if err := json.Unmarshal(data, &stamp); err != nil {
			return nil, fmt.Errorf("failed to parse stamp %s: %w", path, err)
		}
		if err := catalog.Add(&stamp); err != nil {
			return nil, err
		}
		common.Verbose("Loaded stamp %q from %s", stamp.ID, path)
	}
	return catalog, nil
}
