package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
	"github.com/ridgeline-games/terrain-builder/pkg/pipeline"
	"github.com/ridgeline-games/terrain-builder/pkg/validator"
)

var (
	configPath       string
	walkableSlopeMax float64
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run a generation and check it against the quantified invariants",
	Long: `Validate runs the full pipeline for a given parameter record and
checks the resulting grid against the invariants: finite/bounded heights,
road/blocking exclusivity, walkable-slope continuity, border playability,
the stamp-amplitude ceiling, and POI connectivity (every exit reachable,
every two-sided ramp waypoint doubly connected).

Exits 0 with no violations, 1 on a parameter-validation failure, 2 on an
internal pass failure, 3 if any invariant is violated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParams(configPath)
		if err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			common.Error("invalid parameters: %v", err)
			os.Exit(1)
		}

		catalogDir, _ := common.StampCatalogDir()
		catalog, err := model.LoadStampCatalogDir(catalogDir)
		if err != nil {
			return fmt.Errorf("failed to load stamp catalog: %w", err)
		}

		p, err := pipeline.New(params, catalog)
		if err != nil {
			return fmt.Errorf("failed to construct pipeline: %w", err)
		}
		defer p.Dispose()

		result, err := p.Run(context.Background())
		if err != nil {
			common.Error("generation failed: %v", err)
			os.Exit(2)
		}

		opts := validator.Options{
			MinHeight:        float32(-params.Noise.HeightScale),
			MaxHeight:        float32(2 * params.Noise.HeightScale),
			WalkableSlopeMax: float32(walkableSlopeMax),
			LevelHeightDiff:  float32(result.Grid.LevelStep),
			PreStampHeight:   result.PreStampHeight,
			PostStampHeight:  result.Grid.HeightPlane(),
		}

		gridReport := validator.CheckGrid(result.Grid, opts)
		poiReport := validator.CheckPOIConnectivity(result.POIs, result.Roads)

		total := len(gridReport.Violations) + len(poiReport.Violations)
		for _, v := range gridReport.Violations {
			common.Warning("%s", v.String())
		}
		for _, v := range poiReport.Violations {
			common.Warning("%s", v.String())
		}

		if total == 0 {
			common.Info("all invariants satisfied")
			return nil
		}
		common.Error("%d invariant violation(s) found", total)
		os.Exit(3)
		return nil
	},
}

func loadParams(path string) (model.Params, error) {
	if path == "" {
		return model.Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Params{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	params := model.Defaults()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return model.Params{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return params, nil
}

func init() {
	validateCmd.Flags().StringVar(&configPath, "config", "", "path to a JSON parameter record (defaults are used if omitted)")
	validateCmd.Flags().Float64Var(&walkableSlopeMax, "walkable-slope-max", 30, "maximum per-cell height difference between playable neighbors")
}

// GetCommand returns the validate command for registration with root.
func GetCommand() *cobra.Command {
	return validateCmd
}
