// Package model holds the data shared across pipeline passes: the
// parameter record (gridConfig..roadConfig per spec §6), POIs and road
// segments, and the detail-stamp catalog. Configuration is a set of
// explicit structs, not a dynamic property bag — an unknown key simply
// can't be expressed, and Validate rejects inconsistent values before the
// pipeline ever touches the grid.
package model

import (
	"fmt"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
)

// BarrierKind selects which of the three border-barrier behaviours
// (§4.5) is applied at the map edge.
type BarrierKind string

const (
	BarrierNone     BarrierKind = "none"
	BarrierMountain BarrierKind = "mountain"
	BarrierCliff    BarrierKind = "cliff"
	BarrierWater    BarrierKind = "water"
)

// SlopeCurve selects the interpolation curve used when a road ramp
// segment blends height between two level steps (§4.9.5).
type SlopeCurve string

const (
	SlopeLinear     SlopeCurve = "linear"
	SlopeEaseIn     SlopeCurve = "ease-in"
	SlopeEaseOut    SlopeCurve = "ease-out"
	SlopeEaseInOut  SlopeCurve = "ease-in-out"
	SlopeExponential SlopeCurve = "exponential"
)

// GridConfig fixes the grid's physical dimensions.
type GridConfig struct {
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	CellSizeUnits float64 `json:"cell_size_units"`
}

// NoiseConfig tunes the base-height synthesis pass (§4.3).
type NoiseConfig struct {
	Seed          int64   `json:"seed"`
	NoiseScale    float64 `json:"noise_scale"`
	Octaves       int     `json:"octaves"`
	Persistence   float64 `json:"persistence"`
	Lacunarity    float64 `json:"lacunarity"`
	WarpStrength  float64 `json:"warp_strength"`
	RidgeStrength float64 `json:"ridge_strength"`
	HillStrength  float64 `json:"hill_strength"`
	SlopeWeight   float64 `json:"slope_weight"`
	SeaLevel      float64 `json:"sea_level"`
	HeightScale   float64 `json:"height_scale"`
	PlainsFlat    float64 `json:"plains_flat"`
}

// LevelConfig controls the height->level bucketing of §4.4.
type LevelConfig struct {
	MinLevel         int8    `json:"min_level"`
	MaxLevel         int8    `json:"max_level"`
	MaxWalkableLevel int8    `json:"max_walkable_level"`
	TransitionWidth  float64 `json:"transition_width"`
	WaterThreshold   float64 `json:"water_threshold"`
	LowlandThreshold float64 `json:"lowland_threshold"`
	HillThreshold    float64 `json:"hill_threshold"`
	MountainThreshold float64 `json:"mountain_threshold"`
}

// BorderConfig controls the edge-barrier pass (§4.5).
type BorderConfig struct {
	Enabled       bool        `json:"enabled"`
	Type          BarrierKind `json:"type"`
	Height        float64     `json:"height"`
	Width         int         `json:"width"`
	Smoothness    float64     `json:"smoothness"`
	ExitCount     int         `json:"exit_count"`
	ExitWidth     int         `json:"exit_width"`
	ExitPositions []int       `json:"exit_positions,omitempty"`
	NoiseScale    float64     `json:"noise_scale"`
}

// RampConfig controls the iterative ramp cutter (§4.6).
type RampConfig struct {
	RampWidth        int     `json:"ramp_width"`
	MaxAngleDeg      float64 `json:"max_angle_deg"`
	MinAngleDeg      float64 `json:"min_angle_deg"`
	NoiseAmplitude   float64 `json:"noise_amplitude"`
	RampsPerTransition int   `json:"ramps_per_transition"`
	Iterations       int     `json:"iterations"`
}

// ErosionConfig controls the thermal + hydraulic passes (§4.7).
type ErosionConfig struct {
	ThermalEnabled    bool    `json:"thermal_enabled"`
	ThermalIterations int     `json:"thermal_iterations"`
	TalusAngle        float64 `json:"talus_angle"`
	ErosionStrength   float64 `json:"erosion_strength"`

	HydraulicEnabled    bool    `json:"hydraulic_enabled"`
	HydraulicIterations int     `json:"hydraulic_iterations"`
	RainAmount          float64 `json:"rain_amount"`
	EvaporationRate     float64 `json:"evaporation_rate"`
}

// DetailLayer is one entry in DetailConfig's per-layer stamp list (§4.8).
type DetailLayer struct {
	StampID   string         `json:"stamp_id"`
	Mode      string         `json:"mode"` // single, tile-level, tile-all, scatter, paint
	X         int            `json:"x,omitempty"`
	Y         int            `json:"y,omitempty"`
	Scale     float64        `json:"scale,omitempty"`
	RotateDeg float64        `json:"rotate_deg,omitempty"`
	LevelID   int8           `json:"level_id,omitempty"`
	Count     int            `json:"count,omitempty"`
	Seed      int64          `json:"seed,omitempty"`
	Intensity float64        `json:"intensity"`
	Path      [][2]int       `json:"path,omitempty"`
	BrushSize int            `json:"brush_size,omitempty"`
}

// DetailConfig is the full set of stamp placements for a generation, plus
// a global intensity knob.
type DetailConfig struct {
	Layers    []DetailLayer `json:"layers"`
	Intensity float64       `json:"intensity"`
}

// AStarConfig tunes the road pathfinder (§4.9.3).
type AStarConfig struct {
	MaxStepBudget    int `json:"max_step_budget"`
	HeightDiffCap    float64 `json:"height_diff_cap"`
}

// RoadConfig controls the road network pass (§4.9).
type RoadConfig struct {
	RoadWidth             float64     `json:"road_width"`
	SimplificationEpsilon float64     `json:"simplification_epsilon"`
	MaxExtraEdges         int         `json:"max_extra_edges"`
	SmoothingPasses       int         `json:"smoothing_passes"`
	SlopeCurve            SlopeCurve  `json:"slope_curve"`
	AStar                 AStarConfig `json:"astar"`
	RandomPOICount        int         `json:"random_poi_count"`
	MinPOIDistance        float64     `json:"min_poi_distance"`
}

// Params aggregates the whole parameter record §6 describes as a single
// "partitioned" input.
type Params struct {
	Grid    GridConfig    `json:"grid"`
	Noise   NoiseConfig   `json:"noise"`
	Level   LevelConfig   `json:"level"`
	Border  BorderConfig  `json:"border"`
	Ramp    RampConfig    `json:"ramp"`
	Erosion ErosionConfig `json:"erosion"`
	Detail  DetailConfig  `json:"detail"`
	Road    RoadConfig    `json:"road"`
}

// Validate rejects parameter combinations the spec calls out as fatal
// (§7 InvalidParameter). Unknown-key rejection for JSON-decoded configs
// is the caller's responsibility (via json.Decoder.DisallowUnknownFields)
// before Validate is ever invoked — see cmd/generate.
func (p *Params) Validate() error {
	if p.Grid.Cols <= 0 || p.Grid.Rows <= 0 {
		return common.NewError(common.InvalidDimensions, "params.Validate",
			fmt.Sprintf("grid dimensions must be > 0, got %dx%d", p.Grid.Cols, p.Grid.Rows), nil)
	}
	if p.Grid.Cols == 1 && p.Grid.Rows == 1 {
		return common.NewError(common.InvalidDimensions, "params.Validate",
			"a 1x1 grid is rejected", nil)
	}
	if p.Level.MaxLevel < p.Level.MinLevel {
		return common.NewError(common.InvalidParameter, "params.Validate",
			fmt.Sprintf("maxLevel (%d) < minLevel (%d)", p.Level.MaxLevel, p.Level.MinLevel), nil)
	}
	if p.Noise.Persistence <= 0 {
		return common.NewError(common.InvalidParameter, "params.Validate",
			"noise.persistence must be > 0", nil)
	}
	if p.Noise.Octaves <= 0 || p.Noise.Octaves > 12 {
		return common.NewError(common.InvalidParameter, "params.Validate",
			"noise.octaves must be in [1, 12]", nil)
	}
	if p.Noise.HeightScale <= 0 {
		return common.NewError(common.InvalidParameter, "params.Validate",
			"noise.height_scale must be > 0", nil)
	}
	if p.Noise.PlainsFlat < 0 || p.Noise.PlainsFlat > 1 {
		return common.NewError(common.InvalidParameter, "params.Validate",
			"noise.plains_flat must be in [0, 1]", nil)
	}
	switch p.Border.Type {
	case BarrierNone, BarrierMountain, BarrierCliff, BarrierWater, "":
	default:
		return common.NewError(common.InvalidParameter, "params.Validate",
			fmt.Sprintf("unknown border type %q", p.Border.Type), nil)
	}
	if p.Border.Enabled && p.Border.Width <= 0 {
		return common.NewError(common.InvalidParameter, "params.Validate",
			"border.width must be > 0 when border.enabled", nil)
	}
	switch p.Road.SlopeCurve {
	case SlopeLinear, SlopeEaseIn, SlopeEaseOut, SlopeEaseInOut, SlopeExponential, "":
	default:
		return common.NewError(common.InvalidParameter, "params.Validate",
			fmt.Sprintf("unknown slope curve %q", p.Road.SlopeCurve), nil)
	}
	for _, layer := range p.Detail.Layers {
		if layer.Intensity < 0 || layer.Intensity > 1 {
			return common.NewError(common.InvalidParameter, "params.Validate",
				fmt.Sprintf("detail layer %q intensity must be in [0,1]", layer.StampID), nil)
		}
	}
	return nil
}

// Defaults returns a Params populated with the numeric defaults named
// throughout spec.md (thresholds in §4.4, iteration counts in §4.6/§4.7,
// etc.), suitable as a starting point for CLI flags to override.
func Defaults() Params {
	return Params{
		Grid: GridConfig{Rows: 256, Cols: 256, CellSizeUnits: 100},
		Noise: NoiseConfig{
			Seed: 1, NoiseScale: 1, Octaves: 6, Persistence: 0.5, Lacunarity: 2.0,
			WarpStrength: 1, RidgeStrength: 1, HillStrength: 1, SlopeWeight: 1,
			SeaLevel: 0.3, HeightScale: 1000, PlainsFlat: 0.3,
		},
		Level: LevelConfig{
			MinLevel: 0, MaxLevel: 3, MaxWalkableLevel: 3, TransitionWidth: 0.05,
			WaterThreshold: 0.02, LowlandThreshold: 0.25, HillThreshold: 0.5, MountainThreshold: 0.75,
		},
		Border: BorderConfig{
			Enabled: true, Type: BarrierMountain, Height: 1, Width: 16,
			Smoothness: 0.5, ExitCount: 2, ExitWidth: 6, NoiseScale: 0.05,
		},
		Ramp: RampConfig{
			RampWidth: 6, MaxAngleDeg: 35, MinAngleDeg: 5, NoiseAmplitude: 4,
			RampsPerTransition: 2, Iterations: 12,
		},
		Erosion: ErosionConfig{
			ThermalEnabled: true, ThermalIterations: 3, TalusAngle: 0.05, ErosionStrength: 0.5,
			HydraulicEnabled: true, HydraulicIterations: 4, RainAmount: 0.1, EvaporationRate: 0.02,
		},
		Detail: DetailConfig{Intensity: 1},
		Road: RoadConfig{
			RoadWidth: 3, SimplificationEpsilon: 1.0, MaxExtraEdges: 3,
			SmoothingPasses: 2, SlopeCurve: SlopeEaseInOut,
			AStar: AStarConfig{MaxStepBudget: 50000, HeightDiffCap: 30},
			RandomPOICount: 0, MinPOIDistance: 8,
		},
	}
}
