package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/samples"
	"github.com/sells-group/zonemesh/internal/synth"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic Medellín sample set as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")
		points, _ := cmd.Flags().GetInt("points")
		seed, _ := cmd.Flags().GetUint64("seed")
		if !cmd.Flags().Changed("points") {
			points = cfg.Synth.Points
		}
		if !cmd.Flags().Changed("seed") {
			seed = cfg.Synth.Seed
		}
		if points <= 0 {
			return eris.Errorf("generate: points must be positive (got %d)", points)
		}

		pts := synth.New(seed).Generate(points)
		if err := samples.WriteFile(out, pts); err != nil {
			return eris.Wrap(err, "generate")
		}

		zap.L().Info("samples written",
			zap.String("path", out),
			zap.Int("samples", len(pts)),
			zap.Uint64("seed", seed),
		)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("out", "samples.csv", "output CSV path")
	generateCmd.Flags().Int("points", synth.DefaultPoints, "approximate number of samples (default from config)")
	generateCmd.Flags().Uint64("seed", 1, "random seed (default from config)")
	rootCmd.AddCommand(generateCmd)
}
