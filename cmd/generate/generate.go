package generate

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
	"github.com/ridgeline-games/terrain-builder/pkg/ui"
)

var (
	configPath string
	outDir     string
	stampsDir  string

	rows, cols int
	seed       int64
	noiseScale float64
	octaves    int
	heightScale float64
	seaLevel   float64
	borderType string
	exitCount  int
	preview    bool
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "g"},
	Short:   "Generate a terrain grid and export its masks",
	Long: `Generate runs the full terrain pipeline (synthesis, level assignment,
borders, ramps, erosion, detail stamps, road network) against a parameter
record and writes the resulting heightmap/mask family to disk.

The parameter record can be supplied wholesale via --config (a JSON file
matching model.Params), with individual flags overriding specific fields.

Examples:
  terrain-builder generate --rows 256 --cols 256 --seed 12345
  terrain-builder generate --config params.json --out ./out
  terrain-builder gen -c 512 -r 512 --border-type cliff`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := loadParams()
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, &params)

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

		p, err := pipeline.New(params, catalog)
		if err != nil {
			return fmt.Errorf("failed to construct pipeline: %w", err)
		}
		defer p.Dispose()

		spin := ui.NewSpinner("generating terrain...")
		spin.Start()
		result, err := p.Run(context.Background())
		spin.Stop()
		if err != nil {
			common.Error("generation failed: %v", err)
			os.Exit(2)
		}

		for _, w := range result.Warnings {
			common.Warning("%s: %s", w.Kind, w.Message)
		}
		common.Info("generated %dx%d grid: %d road segments routed, %d dropped, %d stamps applied",
			params.Grid.Cols, params.Grid.Rows, result.Stats.SegmentsRouted, result.Stats.SegmentsDropped, result.Stats.StampsApplied)

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
		if preview {
			if err := mask.WritePreviewPNG(ex, 1024, filepath.Join(target, "preview.png")); err != nil {
				common.Warning("failed to write preview: %v", err)
			}
		}

		common.Info("wrote export to %s", target)
		return nil
	},
}

func loadParams() (model.Params, error) {
	if configPath == "" {
		return model.Defaults(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return model.Params{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	params := model.Defaults()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return model.Params{}, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}
	return params, nil
}

func applyFlagOverrides(cmd *cobra.Command, params *model.Params) {
	if cmd.Flags().Changed("rows") {
		params.Grid.Rows = rows
	}
	if cmd.Flags().Changed("cols") {
		params.Grid.Cols = cols
	}
	if cmd.Flags().Changed("seed") {
		params.Noise.Seed = seed
	}
	if cmd.Flags().Changed("noise-scale") {
		params.Noise.NoiseScale = noiseScale
	}
	if cmd.Flags().Changed("octaves") {
		params.Noise.Octaves = octaves
	}
	if cmd.Flags().Changed("height-scale") {
		params.Noise.HeightScale = heightScale
	}
	if cmd.Flags().Changed("sea-level") {
		params.Noise.SeaLevel = seaLevel
	}
	if cmd.Flags().Changed("border-type") {
		params.Border.Type = model.BarrierKind(borderType)
	}
	if cmd.Flags().Changed("exit-count") {
		params.Border.ExitCount = exitCount
	}
}

func init() {
	generateCmd.Flags().StringVar(&configPath, "config", "", "path to a JSON parameter record (defaults are used if omitted)")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for the export (default: <project root>/out)")
	generateCmd.Flags().StringVar(&stampsDir, "stamps-dir", "", "directory of detail-stamp JSON files (default: <project root>/stamps)")

	generateCmd.Flags().IntVarP(&rows, "rows", "r", 256, "grid row count")
	generateCmd.Flags().IntVarP(&cols, "cols", "c", 256, "grid column count")
	generateCmd.Flags().Int64VarP(&seed, "seed", "s", 1, "noise seed")
	generateCmd.Flags().Float64Var(&noiseScale, "noise-scale", 1, "base noise frequency scale")
	generateCmd.Flags().IntVar(&octaves, "octaves", 6, "fbm octave count (1-12)")
	generateCmd.Flags().Float64Var(&heightScale, "height-scale", 1000, "height scale in engine units")
	generateCmd.Flags().Float64Var(&seaLevel, "sea-level", 0.3, "normalized sea level")
	generateCmd.Flags().StringVar(&borderType, "border-type", "mountain", "border barrier kind: none, mountain, cliff, water")
	generateCmd.Flags().IntVar(&exitCount, "exit-count", 2, "number of border exits")
	generateCmd.Flags().BoolVar(&preview, "preview", false, "also write a downscaled PNG preview of the level mask")
}

// GetCommand returns the generate command for registration with root.
func GetCommand() *cobra.Command {
	return generateCmd
}
