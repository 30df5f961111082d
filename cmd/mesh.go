package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/zonemesh/internal/export"
	"github.com/sells-group/zonemesh/internal/mesh"
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/samples"
	"github.com/sells-group/zonemesh/internal/synth"
	"github.com/sells-group/zonemesh/internal/workflow"
)

// Export formats accepted by --format.
const (
	formatGeoJSON   = "geojson"
	formatShapefile = "shp"
	formatXLSX      = "xlsx"
)

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Build a zone mesh and export it",
	Long:  "Builds a population-balanced zone mesh from a sample CSV (or a synthetic population), writes the requested exports, and optionally saves the run.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		opts, err := meshOptions()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("depth") {
			opts.Depth, _ = cmd.Flags().GetInt("depth")
		}
		if cmd.Flags().Changed("padding") {
			opts.Padding, _ = cmd.Flags().GetFloat64("padding")
		}
		if err := opts.Validate(); err != nil {
			return eris.Wrap(err, "mesh")
		}

		samplesPath, _ := cmd.Flags().GetString("samples")
		points, seed := cfg.Synth.Points, cfg.Synth.Seed
		if cmd.Flags().Changed("points") {
			points, _ = cmd.Flags().GetInt("points")
		}
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetUint64("seed")
		}

		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			return submitRemote(ctx, workflow.MeshInput{
				Depth:       opts.Depth,
				Padding:     opts.Padding,
				Points:      points,
				Seed:        seed,
				SamplesPath: samplesPath,
			})
		}

		var pts []model.Sample
		if samplesPath != "" {
			pts, err = samples.ReadFile(samplesPath)
			if err != nil {
				return eris.Wrap(err, "mesh")
			}
		} else {
			pts = synth.New(seed).Generate(points)
		}

		res, err := mesh.Build(pts, opts)
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		if !cmd.Flags().Changed("out") {
			outDir = cfg.Export.Dir
		}
		formats, _ := cmd.Flags().GetStringSlice("format")
		if err := writeExports(ctx, outDir, formats, res.Zones); err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.SaveRun(ctx, res.Run, res.Zones); err != nil {
				return eris.Wrap(err, "mesh: save run")
			}
		}

		formatBalance(os.Stdout, res)
		return nil
	},
}

func init() {
	meshCmd.Flags().String("samples", "", "sample CSV path (default: synthetic population)")
	meshCmd.Flags().Int("points", synth.DefaultPoints, "synthetic sample count when --samples is unset")
	meshCmd.Flags().Uint64("seed", 1, "synthetic sample seed")
	meshCmd.Flags().Int("depth", mesh.DefaultDepth, "partition depth; the mesh has 2^depth zones")
	meshCmd.Flags().Float64("padding", 0.01, "bounding box padding in degrees")
	meshCmd.Flags().String("out", "out", "export directory (default from config)")
	meshCmd.Flags().StringSlice("format", []string{formatGeoJSON, formatShapefile, formatXLSX}, "export formats: geojson, shp, xlsx")
	meshCmd.Flags().Bool("save", false, "save the run to the configured store")
	meshCmd.Flags().Bool("remote", false, "submit the build to a Temporal worker instead of running it here")
	rootCmd.AddCommand(meshCmd)
}

// writeExports writes each requested format to dir concurrently.
func writeExports(ctx context.Context, dir string, formats []string, zones []model.Zone) error {
	for _, format := range formats {
		switch format {
		case formatGeoJSON, formatShapefile, formatXLSX:
		default:
			return eris.Errorf("unknown export format: %s", format)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create export dir %s", dir)
	}

	g, _ := errgroup.WithContext(ctx)
	for _, format := range formats {
		switch format {
		case formatGeoJSON:
			g.Go(func() error {
				return writeGeoJSONFile(filepath.Join(dir, "zones.geojson"), zones)
			})
		case formatShapefile:
			g.Go(func() error {
				return export.WriteShapefile(filepath.Join(dir, "zones.shp"), zones)
			})
		case formatXLSX:
			g.Go(func() error {
				return export.WriteXLSX(filepath.Join(dir, "zones.xlsx"), zones)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "write exports")
	}

	zap.L().Info("exports written",
		zap.String("dir", dir),
		zap.Strings("formats", formats),
		zap.Int("zones", len(zones)),
	)
	return nil
}

func writeGeoJSONFile(path string, zones []model.Zone) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := export.WriteGeoJSON(f, zones); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}

func submitRemote(ctx context.Context, in workflow.MeshInput) error {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return eris.Wrap(err, "temporal: dial")
	}
	defer c.Close()

	run, err := workflow.Start(ctx, c, cfg.Temporal.TaskQueue, in)
	if err != nil {
		return err
	}
	zap.L().Info("mesh workflow started",
		zap.String("workflow_id", run.GetID()),
		zap.String("run_id", run.GetRunID()),
	)

	var out workflow.MeshOutput
	if err := run.Get(ctx, &out); err != nil {
		return eris.Wrap(err, "mesh workflow")
	}
	fmt.Fprintf(os.Stdout, "run %s: %d zones, population %d\n", out.RunID, out.ZoneCount, out.Population)
	return nil
}

// formatBalance writes a run summary to w.
func formatBalance(out io.Writer, res *mesh.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Run:\t%s\n", res.Run.ID)
	_, _ = fmt.Fprintf(w, "Samples:\t%d\n", res.Run.SampleCount)
	_, _ = fmt.Fprintf(w, "Population:\t%d\n", res.Run.Population)
	_, _ = fmt.Fprintf(w, "Zones:\t%d\n", res.Balance.Zones)
	_, _ = fmt.Fprintf(w, "Zone population:\tmin %.0f  max %.0f  mean %.1f\n", res.Balance.Min, res.Balance.Max, res.Balance.Mean)
	_, _ = fmt.Fprintf(w, "Std dev:\t%.2f\n", res.Balance.StdDev)
	_, _ = fmt.Fprintf(w, "CV:\t%.4f\n", res.Balance.CV)
	_ = w.Flush()
}
