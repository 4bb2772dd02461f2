package applystamp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridgeline-games/terrain-builder/pkg/common"
	"github.com/ridgeline-games/terrain-builder/pkg/mask"
	"github.com/ridgeline-games/terrain-builder/pkg/model"
	"github.com/ridgeline-games/terrain-builder/pkg/pipeline"
)

var (
	configPath string
	stampsDir  string
	outDir     string

	stampID   string
	x, y      int
	scale     float64
	rotateDeg float64
	intensity float64
)

var applyStampCmd = &cobra.Command{
	Use:   "apply-stamp",
	Short: "Generate terrain and overlay a single ad hoc detail stamp",
	Long: `apply-stamp runs the full pipeline, then applies one additional
detail-stamp placement on top of the result, outside of detailConfig's
layer list. Useful for previewing a stamp's amplitude and footprint
before committing it to a generation's parameter record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParams(configPath)
		if err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			common.Error("invalid parameters: %v", err)
			os.Exit(1)
		}

		catalogDir := stampsDir
		if catalogDir == "" {
			if d, err := common.StampCatalogDir(); err == nil {
				catalogDir = d
			}
		}
		catalog, err := model.LoadStampCatalogDir(catalogDir)
		if err != nil {
			return fmt.Errorf("failed to load stamp catalog: %w", err)
		}
		stamp, ok := catalog.Get(stampID)
		if !ok {
			common.Error("stamp %q not found in %s", stampID, catalogDir)
			os.Exit(1)
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

		pipeline.ApplyStandalonePlacement(result.Grid, stamp, x, y, scale, rotateDeg, intensity)

		target := outDir
		if target == "" {
			if d, err := common.OutputDir(); err == nil {
				target = d
			} else {
				target = "out"
			}
		}
		ex := mask.Build(result.Grid, params.Level.MaxLevel, 1, 0, time.Now())
		if err := mask.WriteAll(ex, target); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		if err := mask.WritePreviewPNG(ex, 1024, filepath.Join(target, "preview.png")); err != nil {
			common.Warning("failed to write preview: %v", err)
		}
		common.Info("applied stamp %q at (%d,%d), wrote export to %s", stampID, x, y, target)
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
	applyStampCmd.Flags().StringVar(&configPath, "config", "", "path to a JSON parameter record (defaults are used if omitted)")
	applyStampCmd.Flags().StringVar(&stampsDir, "stamps-dir", "", "directory of detail-stamp JSON files (default: <project root>/stamps)")
	applyStampCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for the export (default: <project root>/out)")

	applyStampCmd.Flags().StringVar(&stampID, "stamp-id", "", "ID of the stamp to apply (required)")
	applyStampCmd.Flags().IntVar(&x, "x", 0, "placement center x")
	applyStampCmd.Flags().IntVar(&y, "y", 0, "placement center y")
	applyStampCmd.Flags().Float64Var(&scale, "scale", 1, "placement scale")
	applyStampCmd.Flags().Float64Var(&rotateDeg, "rotate", 0, "placement rotation in degrees")
	applyStampCmd.Flags().Float64Var(&intensity, "intensity", 1, "placement intensity in [0,1]")
	applyStampCmd.MarkFlagRequired("stamp-id")
}

// GetCommand returns the apply-stamp command for registration with root.
func GetCommand() *cobra.Command {
	return applyStampCmd
}
