package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/nstar/internal/automation"
	"github.com/san-kum/nstar/internal/experiment"
	"github.com/san-kum/nstar/internal/storage"
)

var (
	trials        int
	massSpread    float64
	densitySpread float64
	seed          int64
	saveSteps     bool
)

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario in order",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addStarFlags(cmd)
	cmd.Flags().BoolVar(&saveSteps, "save", false, "store every step under the data directory")
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}

	var st *storage.Store
	if saveSteps {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	fmt.Printf("scenario %s: %s\n\n", sc.Name, sc.Description)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tINTEG\tM (Msun)\tR (km)\tSTATUS\tRUN")

	var saveErr error
	_, err = automation.RunScenario(cmd.Context(), sc, base, experiment.NewRegistry(), func(i int, r automation.StepResult) {
		runID := "-"
		if st != nil && saveErr == nil {
			runID, saveErr = st.Save(r.Integrator, r.Options, r.Result)
		}
		name := r.Step.Name
		if name == "" {
			name = fmt.Sprintf("%d", i+1)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.6f\t%.6f\t%s\t%s\n",
			name, r.Result.Model, r.Integrator, r.Result.SurfaceMassSolar, r.Result.SurfaceRadiusKm, r.Result.Status, runID)
		logger.Debug("scenario step", "step", i+1, "stop_index", r.Result.StopIndex)
	})
	if flushErr := w.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	return saveErr
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "spread of mass and radius under perturbed particle mass and central density",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addStarFlags(cmd)
	cmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	cmd.Flags().Float64Var(&massSpread, "mass-spread", 0.05, "relative particle mass perturbation")
	cmd.Flags().Float64Var(&densitySpread, "density-spread", 0.05, "relative central density perturbation")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	return cmd
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, err := starOptions(cfg)
	if err != nil {
		return err
	}
	opts.Logger = nil

	results, err := automation.RunMonteCarlo(cmd.Context(), automation.MonteCarloConfig{
		Base:          opts,
		MassSpread:    massSpread,
		DensitySpread: densitySpread,
		NumTrials:     trials,
		Workers:       workers,
		Seed:          seed,
	})
	if err != nil {
		return err
	}

	s := automation.MonteCarloStats(results)
	fmt.Printf("%s model, %d trials (converged %d, truncated %d, failed %d)\n",
		cfg.Model, len(results), s.Converged, s.Truncated, s.Failed)
	if s.Converged > 0 {
		fmt.Printf("M = %.6f ± %.6f Msun\n", s.MeanMass, s.StdMass)
		fmt.Printf("R = %.6f ± %.6f km\n", s.MeanRadius, s.StdRadius)
	}
	return nil
}
