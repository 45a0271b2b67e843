package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/export"
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
	"github.com/san-kum/sphfluid/internal/storage"
	"github.com/san-kum/sphfluid/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	// Scenario selection
	configFile string
	preset     string
	// Run overrides
	frames      int
	seed        int64
	workers     int
	search      string
	count       int
	dam         bool
	sampleEvery int
	metricNames []string
	// Ensemble and bench
	runs        int
	benchFrames int
	// Serve
	addr string
	fps  int
	// Plot and export
	particle int
	frameIdx int
	size     int
	outFile  string
	track    bool
)

// main registers the sphfluid commands and runs the root command. With no
// subcommand it opens the interactive preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:          "sphfluid",
		Short:        "2d particle fluid in a circular container",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sphfluid", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store sampled frames",
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "store every n-th frame")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to record (default all)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation in the terminal",
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames to websocket clients",
		RunE:  serve,
	}
	scenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", 60, "frames per second")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same scenario under several seeds",
		RunE:  runEnsemble,
	}
	scenarioFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 4, "number of runs")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare neighbor search strategies",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 100, "frames per measurement")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a particle track and the fluid's mean height",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&particle, "particle", 0, "particle index to track")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored frame or particle track as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "sample to render (default last)")
	exportSVGCmd.Flags().IntVar(&size, "size", 512, "image size in pixels")
	exportSVGCmd.Flags().BoolVar(&track, "track", false, "draw the path of --particle instead of a frame")
	exportSVGCmd.Flags().IntVar(&particle, "particle", 0, "particle index for --track")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-12s %s fill, %d particles, %d frames\n", name, cfg.Fill.Shape, cfg.Fill.Count, cfg.Run.Frames)
			}
			return nil
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initConfigCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, ensembleCmd, benchCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initConfigCmd)
	rootCmd.AddCommand(labCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scenarioFlags adds the flags every simulating command shares.
func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for fill jitter")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines for per-particle passes")
	cmd.Flags().StringVar(&search, "search", "grid", "neighbor search (grid|naive)")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "particle count (0 fills the shape)")
	cmd.Flags().BoolVar(&dam, "dam", false, "start with the dam up")
}

// loadConfig resolves preset, then config file, then any flag the user set
// explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Run.Workers = workers
	}
	if flags.Changed("search") {
		cfg.Run.NeighborSearch = search
	}
	if flags.Changed("count") {
		cfg.Fill.Count = count
	}
	if flags.Changed("dam") {
		cfg.Run.Dam = dam
	}
	if flags.Changed("sample") {
		cfg.Run.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// progress prints a status line every tenth of the run.
type progress struct {
	total int
	every int
}

func newProgress(total int) *progress {
	every := total / 10
	if every < 1 {
		every = 1
	}
	return &progress{total: total, every: every}
}

func (p *progress) OnFrame(frame int, fluid *sph.Simulation) {
	if frame%p.every == 0 || frame == p.total {
		fmt.Printf("\rframe %d/%d  particles %d", frame, p.total, fluid.Len())
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ms, err := experiment.NewRegistry().Metrics(metricNames, cfg.Physics)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(ms); err != nil {
		return err
	}
	exp.GetSimulator().AddObserver(newProgress(cfg.Run.Frames))

	name := cfg.Name
	if name == "" {
		name = "custom"
	}
	fmt.Printf("running %s with %d particles...\n", name, exp.GetSimulator().Fluid().Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := exp.Run(ctx)
	fmt.Println()
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Preset:         name,
		Seed:           cfg.Run.Seed,
		NeighborSearch: cfg.Search().String(),
		Params:         cfg.Physics,
	}
	runID, saveErr := st.Save(meta, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d (%d stored)\n", result.StepsTaken, len(result.Frames))
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)

	return err
}

func printMetrics(w io.Writer, m map[string]float64) {
	for _, name := range experiment.NewRegistry().ListMetrics() {
		if v, ok := m[name]; ok {
			fmt.Fprintf(w, "  %-16s %.6g\n", name, v)
		}
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}

	reg := experiment.NewRegistry()
	ens := sim.NewEnsemble(experiment.Builder(cfg), func() []sim.Metric { return reg.DefaultMetrics(cfg.Physics) }, runs, cfg.Run.Seed)

	fmt.Printf("running %d seeds from %d...\n", runs, cfg.Run.Seed)
	start := time.Now()
	results, err := ens.Run(context.Background(), experiment.SimConfig(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	names := reg.ListMetrics()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))
	for i, r := range results {
		row := []string{fmt.Sprintf("%d", cfg.Run.Seed+int64(i))}
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.4g", r.Metrics[name]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	counts := []int{100, 250, 500}
	strategies := []sph.NeighborSearch{sph.SearchNaive, sph.SearchGrid}

	fmt.Printf("benchmarking %d frames per case\n\n", benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSEARCH\tTIME\tFRAMES/SEC")

	for _, n := range counts {
		for _, s := range strategies {
			cfg := config.DefaultConfig()
			cfg.Fill.Count = n
			cfg.Fill.Top = cfg.Physics.BoundaryRadius
			cfg.Fill.Spacing = 0.02
			cfg.Run.NeighborSearch = s.String()

			fluid, err := experiment.Build(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchFrames; i++ {
				fluid.Step(false)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%s\t%v\t%.1f\n", fluid.Len(), s, elapsed.Round(time.Microsecond), float64(benchFrames)/elapsed.Seconds())
		}
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tPARTICLES\tSEARCH\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Particles,
			run.NeighborSearch,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
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
	if len(samples) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}
	if particle < 0 || particle >= len(samples[0].Positions) {
		return fmt.Errorf("particle %d out of range (have %d)", particle, len(samples[0].Positions))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	xs := make([]float64, 0, len(samples))
	ys := make([]float64, 0, len(samples))
	mean := make([]float64, 0, len(samples))
	for _, f := range samples {
		if particle < len(f.Positions) {
			xs = append(xs, f.Positions[particle].X)
			ys = append(ys, f.Positions[particle].Y)
		}
		if len(f.Positions) == 0 {
			continue
		}
		sum := 0.0
		for _, p := range f.Positions {
			sum += p.Y
		}
		mean = append(mean, sum/float64(len(f.Positions)))
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{xs, fmt.Sprintf("particle %d x", particle)},
		{ys, fmt.Sprintf("particle %d y", particle)},
		{mean, "mean height"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// output returns stdout or the --out file.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
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

	w, err := output()
	if err != nil {
		return err
	}
	if err := export.WriteJSON(w, *meta, samples); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportSVG(cmd *cobra.Command, args []string) error {
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
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", runID)
	}

	var svg string
	if track {
		points := make([]sph.Vec2, 0, len(samples))
		for _, f := range samples {
			if particle >= 0 && particle < len(f.Positions) {
				points = append(points, f.Positions[particle])
			}
		}
		svg = export.TrackToSVG(points, size, size, "#00a8cc")
		if svg == "" {
			return fmt.Errorf("particle %d has fewer than two samples", particle)
		}
	} else {
		idx := frameIdx
		if idx < 0 {
			idx = len(samples) - 1
		}
		if idx >= len(samples) {
			return fmt.Errorf("sample %d out of range (have %d)", idx, len(samples))
		}
		svg = export.FrameToSVG(samples[idx].Positions, meta.Params, size)
	}

	w, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg+"\n"); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
