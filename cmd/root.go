package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridgeline-games/terrain-builder/cmd/applystamp"
	"github.com/ridgeline-games/terrain-builder/cmd/export"
	"github.com/ridgeline-games/terrain-builder/cmd/generate"
	"github.com/ridgeline-games/terrain-builder/cmd/validate"
	"github.com/ridgeline-games/terrain-builder/pkg/common"
)

var (
	// Global flags
	verbose    bool
	workingDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "terrain-builder",
	Short: "Procedural terrain generation and export tool",
	Long: `terrain-builder is a CLI tool for generating multi-level procedural
terrain grids and exporting them as heightmap/mask files for consumption
by a game engine.

It provides commands for:
  - Generating new terrain grids end to end (synthesis, levels, borders,
    ramps, erosion, detail stamps, roads) and exporting their masks
  - Re-exporting a deterministic generation's masks without re-describing
    generation stats
  - Applying one ad hoc detail-stamp placement on top of a generation
  - Validating a generation against its quantified invariants`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		common.VerboseEnabled = verbose

		if workingDir != "" {
			common.Verbose("changing working directory to: %s", workingDir)
			if err := os.Chdir(workingDir); err != nil {
				return fmt.Errorf("failed to change working directory: %w", err)
			}
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output for debugging")
	rootCmd.PersistentFlags().StringVarP(&workingDir, "working-dir", "w", "", "working directory for stamp catalog and output paths (default: current directory)")

	rootCmd.AddCommand(generate.GetCommand())
	rootCmd.AddCommand(export.GetCommand())
	rootCmd.AddCommand(applystamp.GetCommand())
	rootCmd.AddCommand(validate.GetCommand())
}
