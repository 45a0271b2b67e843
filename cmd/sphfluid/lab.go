package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sphfluid/internal/analysis"
	"github.com/san-kum/sphfluid/internal/automation"
	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/gui"
	"github.com/san-kum/sphfluid/internal/optim"
	"github.com/san-kum/sphfluid/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	gridSpecs  []string
	objective  string
	saveRuns   bool
)

// labCommands are the commands built on top of experiments: windowed
// view, scripted scenarios, sweeps and the sloshing analysis.
func labCommands() []*cobra.Command {
	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run a simulation in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}
	scenarioFlags(guiCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", false, "store every step as a run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run across a range of one physics parameter",
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "viscosity_sigma", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search physics parameters to minimise a metric",
		RunE:  runOptimize,
	}
	scenarioFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&objective, "metric", "max_speed", "metric to minimise")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "sloshing frequency of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	return []*cobra.Command{guiCmd, scenarioCmd, sweepCmd, optimizeCmd, analyzeCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Description != "" {
		fmt.Printf("%s: %s\n", sc.Name, sc.Description)
	}

	results, err := automation.RunScenario(context.Background(), sc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	for _, r := range results {
		fmt.Printf("\n%s (%d frames)\n", r.Config.Name, r.Result.StepsTaken)
		printMetrics(os.Stdout, r.Result.Metrics)
		if !saveRuns {
			continue
		}
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Preset:         r.Config.Name,
			Seed:           r.Config.Run.Seed,
			NeighborSearch: r.Config.Search().String(),
			Params:         r.Config.Physics,
		}, r.Result)
		if err != nil {
			return err
		}
		fmt.Printf("  run id: %s\n", runID)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, reg)
	if err != nil {
		return err
	}

	names := reg.ListMetrics()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweepParam)+"\t"+strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		row := []string{fmt.Sprintf("%.4g", r.ParamValue)}
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.4g", r.Metrics[name]))
		}
		if r.Diverged {
			row = append(row, "diverged")
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// parseGrid turns "name=v1,v2" specs into the grid search inputs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, entry := range specs {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad grid %q, want name=v1,v2", entry)
		}
		var vals []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}

	g := optim.NewGridSearch(names, ranges)
	best, val, err := g.Search(context.Background(), cfg, experiment.NewRegistry(), objective)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no combination produced a usable %s", objective)
	}

	fmt.Printf("best %s: %.6g\n", objective, val)
	for _, name := range names {
		fmt.Printf("  %-18s %g\n", name, best[name])
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("need at least 4 samples, have %d", len(samples))
	}

	framesPerSample := float64(samples[1].Index - samples[0].Index)
	com := analysis.CenterOfMass(samples)
	xs := analysis.Xs(com)

	ps := analysis.PowerSpectrum(xs)
	graph := asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (centre of mass x)"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Printf("run: %s\n", meta.ID)
	freq := analysis.DominantFrequency(xs, framesPerSample)
	fmt.Printf("dominant frequency: %.5f cycles/frame\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.1f frames\n", 1.0/freq)
	}

	return nil
}
