package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/nstar/internal/config"
	"github.com/san-kum/nstar/internal/curvecache"
	"github.com/san-kum/nstar/internal/dynamo"
	"github.com/san-kum/nstar/internal/experiment"
	"github.com/san-kum/nstar/internal/physics"
	"github.com/san-kum/nstar/internal/star"
	"github.com/san-kum/nstar/internal/storage"
	"github.com/san-kum/nstar/internal/viz"
)

var (
	save      bool
	showPlot  bool
	pressure  bool
	outPath   string
	sweepFrom float64
	sweepTo   float64
	steps     int
	workers   int
	cachePath string
	vary      string
	orderEnd  float64
	orderPts  int
)

func quantity() viz.Quantity {
	if pressure {
		return viz.Pressure
	}
	return viz.Mass
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate one star (classical or relativistic)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStar,
	}
	addStarFlags(cmd)
	cmd.Flags().BoolVar(&save, "save", true, "store the run under the data directory")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "print the mass profile")
	return cmd
}

func runStar(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, err := starOptions(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := star.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	logger.Debug("run complete", "elapsed", time.Since(start))

	fmt.Println(viz.Summary(res))

	if showPlot {
		graph, err := viz.PlotProfile(res.Profile(), viz.Mass, 80, 12)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(graph)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Integrator, opts, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if err := res.Err(); err != nil {
		logger.Warn("result truncated", "err", err)
	}
	return nil
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "mass-radius curve over particle mass or central density",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepStars,
	}
	addStarFlags(cmd)
	cmd.Flags().StringVar(&vary, "vary", "mass", "swept parameter: mass or density")
	cmd.Flags().Float64Var(&sweepFrom, "from", 500, "first value")
	cmd.Flags().Float64Var(&sweepTo, "to", 1500, "last value")
	cmd.Flags().IntVar(&steps, "steps", 11, "number of points")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&cachePath, "cache", "", "sqlite curve cache (mass sweeps only)")
	cmd.Flags().StringVar(&outPath, "png", "", "write the mass-radius diagram to this file")
	return cmd
}

func sweepStars(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, err := starOptions(cfg)
	if err != nil {
		return err
	}
	values := star.Linspace(sweepFrom, sweepTo, steps)
	if len(values) == 0 {
		return fmt.Errorf("%w: --steps must be positive", dynamo.ErrInvalidInput)
	}

	ctx := cmd.Context()
	var points []star.Point
	switch vary {
	case "mass":
		if cachePath != "" {
			cache, err := curvecache.Open(cachePath)
			if err != nil {
				return err
			}
			defer cache.Close()

			var stats curvecache.Stats
			points, stats, err = curvecache.Sweep(ctx, cache, cfg.Integrator, opts, values, workers)
			if err != nil {
				return err
			}
			logger.Info("curve cache", "hits", stats.Hits, "misses", stats.Misses)
		} else {
			points, err = star.Sweep(ctx, opts, values, workers)
		}
	case "density":
		points, err = star.SweepDensities(ctx, opts, values, workers)
	default:
		return fmt.Errorf("%w: --vary must be mass or density, got %q", dynamo.ErrInvalidInput, vary)
	}
	if err != nil {
		return err
	}

	fmt.Print(viz.CurveTable(points))
	if graph, err := viz.PlotCurve(points, 80, 12); err == nil {
		fmt.Println()
		fmt.Println(graph)
	}

	if outPath != "" {
		if err := viz.SaveCurvePNG(outPath, points); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", outPath)
	}
	return nil
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "both models side by side, for each integrator (default rk4)",
		RunE:  compareModels,
	}
	addStarFlags(cmd)
	return cmd
}

func compareModels(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = []string{cfg.Integrator}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tINTEG\tM (Msun)\tR (km)\tSTOP\tSTATUS\tTIME")

	var profiles []star.Profile
	var labels []string
	for _, name := range names {
		for _, model := range physics.Models() {
			c := *cfg
			c.Model = model.String()
			c.Integrator = name
			opts, err := starOptions(&c)
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\terror: %v\n", model, name, err)
				continue
			}

			start := time.Now()
			res, err := star.Run(cmd.Context(), opts)
			elapsed := time.Since(start)
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\terror: %v\n", model, name, err)
				continue
			}

			fmt.Fprintf(w, "%s\t%s\t%.6f\t%.6f\t%d\t%s\t%.2fms\n",
				model, name, res.SurfaceMassSolar, res.SurfaceRadiusKm, res.StopIndex, res.Status,
				float64(elapsed.Microseconds())/1000)
			profiles = append(profiles, res.Profile())
			labels = append(labels, fmt.Sprintf("%s/%s", model, name))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if graph, err := viz.PlotComparison(profiles, labels, viz.Mass, 80, 12); err == nil {
		fmt.Println()
		fmt.Println(graph)
	}
	return nil
}

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order [integrator] ...",
		Short: "observed convergence order on the stellar interior",
		RunE:  orderStudy,
	}
	addStarFlags(cmd)
	grid := star.DefaultOrderGrid()
	cmd.Flags().Float64Var(&orderEnd, "rend", grid.End, "outer radius of the study grid (inside the star)")
	cmd.Flags().IntVar(&orderPts, "grid-points", grid.Points, "points on the coarsest study grid")
	return cmd
}

func orderStudy(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = experiment.NewRegistry().ListIntegrators()
	}
	grid := dynamo.Grid{Start: 0, End: orderEnd, Points: orderPts}

	fmt.Printf("%s model, r in [0, %g], %d/%d/%d points\n\n", cfg.Model, grid.End, grid.Points, grid.Refine(2).Points, grid.Refine(4).Points)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tORDER(m)\tORDER(p)")
	for _, name := range names {
		c := *cfg
		c.Integrator = name
		opts, err := starOptions(&c)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		study, err := star.OrderStudy(cmd.Context(), opts, grid)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\n", name, study.Orders[0], study.Orders[1])
	}
	return w.Flush()
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tMN\tRHO_S\tM (Msun)\tR (km)\tSTATUS\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.1f\t%.6f\t%.6f\t%s\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.ParticleMass,
			run.CentralDensity,
			run.MassSolar,
			run.RadiusKm,
			run.Status,
			run.Integrator,
		)
	}

	return w.Flush()
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored profile in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().BoolVar(&pressure, "pressure", false, "plot pressure instead of mass")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profile, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(profile.RadiusKm))

	graph, err := viz.PlotProfile(profile, quantity(), 80, 12)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func newPNGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "png [run_id]",
		Short: "render a stored profile to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  pngRun,
	}
	cmd.Flags().BoolVar(&pressure, "pressure", false, "plot pressure instead of mass")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>_<quantity>.png)")
	return cmd
}

func pngRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	profile, err := storage.New(dataDir).LoadProfile(runID)
	if err != nil {
		return err
	}

	q := quantity()
	path := outPath
	if path == "" {
		path = fmt.Sprintf("%s_%s.png", runID, q)
	}
	if err := viz.SaveProfilePNG(path, profile, q); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", path)
	return nil
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored profile as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := storage.New(dataDir).LoadProfile(args[0])
			if err != nil {
				return err
			}
			if len(profile.RadiusKm) == 0 {
				return fmt.Errorf("no data to export")
			}
			return storage.WriteProfileCSV(os.Stdout, profile)
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profile, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	data := storage.NewExportData(*meta, profile)
	if outPath == "" {
		return storage.ExportJSONStdout(data)
	}
	return storage.ExportJSON(outPath, data)
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [group]",
		Short: "list presets, optionally for one group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := config.ListGroups()
			if len(args) > 0 {
				groups = args
			}
			for _, group := range groups {
				names := config.ListPresets(group)
				if len(names) == 0 {
					return fmt.Errorf("no presets for group: %s", group)
				}
				fmt.Printf("%s:\n", group)
				for _, name := range names {
					p, _ := config.GetPreset(group, name)
					fmt.Printf("  %-10s %s\n", name, p.Description)
				}
			}
			return nil
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "list structure models and integrators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "models:")
			for _, name := range reg.ListModels() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintln(out, "integrators:")
			for _, name := range reg.ListIntegrators() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}

func newExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore [model]",
		Short: "interactive explorer: change parameters and re-run live",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			opts, err := starOptions(cfg)
			if err != nil {
				return err
			}
			// slog output would tear the alternate screen
			opts.Logger = nil
			if err := viz.RunExplorer(cmd.Context(), opts); err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		},
	}
	addStarFlags(cmd)
	return cmd
}
