package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/nstar/internal/config"
	"github.com/san-kum/nstar/internal/experiment"
	"github.com/san-kum/nstar/internal/star"
	"github.com/san-kum/nstar/internal/viz"
)

var (
	dataDir string
	verbose bool
	theme   string

	particleMass   float64
	centralDensity float64
	points         int
	rMax           float64
	surfaceTol     float64
	integrator     string
	configFile     string
	preset         string

	logger = slog.New(slog.DiscardHandler)
)

// main wires the cobra command tree and exits non-zero when a command fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nstar",
		Short: "neutron star structure integrator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			viz.SetTheme(theme)

			if !cmd.Flags().Changed("data") {
				e, err := config.ParseEnv()
				if err != nil {
					return err
				}
				if e.DataDir != "" {
					dataDir = e.DataDir
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nstar", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemePulsar.Name, fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newCompareCmd(),
		newOrderCmd(),
		newListCmd(),
		newPlotCmd(),
		newPNGCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
		newModelsCmd(),
		newExploreCmd(),
		newScenarioCmd(),
		newMonteCarloCmd(),
	)
	return rootCmd
}

// addStarFlags registers the physical and numerical parameters shared by
// every command that integrates a star.
func addStarFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	cmd.Flags().Float64Var(&particleMass, "mass", defaults.ParticleMass, "particle mass (MeV)")
	cmd.Flags().Float64Var(&centralDensity, "rho", defaults.Constants.CentralDensity, "central energy density (MeV/fm^3)")
	cmd.Flags().IntVar(&points, "points", defaults.Grid.Points, "radial grid points")
	cmd.Flags().Float64Var(&rMax, "rmax", defaults.Grid.RMax, "outer edge of the dimensionless radial grid")
	cmd.Flags().Float64Var(&surfaceTol, "tol", defaults.Grid.SurfaceTolerance, "surface pressure tolerance")
	cmd.Flags().StringVar(&integrator, "integrator", defaults.Integrator, "integrator")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as group/name, may be repeated with commas")
}

// resolveConfig layers defaults, config file, presets, NSTAR_* variables and
// finally the flags the user actually set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		for _, ref := range strings.Split(preset, ",") {
			group, name, ok := strings.Cut(strings.TrimSpace(ref), "/")
			if !ok {
				return nil, fmt.Errorf("preset %q: want group/name", ref)
			}
			p, found := config.GetPreset(group, name)
			if !found {
				return nil, fmt.Errorf("unknown preset: %s (available in %s: %v)", ref, group, config.ListPresets(group))
			}
			p.Apply(cfg)
		}
	}

	e, err := config.ParseEnv()
	if err != nil {
		return nil, err
	}
	e.Apply(cfg)

	if len(args) > 0 {
		cfg.Model = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.ParticleMass = particleMass
	}
	if flags.Changed("rho") {
		cfg.Constants.CentralDensity = centralDensity
	}
	if flags.Changed("points") {
		cfg.Grid.Points = points
	}
	if flags.Changed("rmax") {
		cfg.Grid.RMax = rMax
	}
	if flags.Changed("tol") {
		cfg.Grid.SurfaceTolerance = surfaceTol
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	return cfg, nil
}

// starOptions turns the resolved config into run options with the named
// integrator and the CLI logger attached.
func starOptions(cfg *config.Config) (star.Options, error) {
	opts, err := cfg.Options()
	if err != nil {
		return star.Options{}, err
	}
	factory, err := experiment.NewRegistry().IntegratorFactory(cfg.Integrator)
	if err != nil {
		return star.Options{}, err
	}
	opts.NewIntegrator = factory
	opts.Logger = logger
	return opts, nil
}
