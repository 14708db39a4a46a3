package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravlab/gravlab/internal/analysis"
	"github.com/gravlab/gravlab/internal/config"
	"github.com/gravlab/gravlab/internal/export"
	"github.com/gravlab/gravlab/internal/physics"
	"github.com/gravlab/gravlab/internal/sim"
	"github.com/gravlab/gravlab/internal/store"
	"github.com/gravlab/gravlab/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	duration   float64
	gravity    float64
	minDist    float64
	configFile string
	preset     string
	// Predictor overrides
	bodyIdx int
	horizon int
	sample  float64
	// SVG output path
	svgOut string
)

// main is the entry point for the gravlab CLI; it registers commands
// and flags and opens the live view of the default scenario when no
// subcommand is given. It exits with status 1 if command execution
// returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gravlab",
		Short: "2d gravity sandbox with trajectory prediction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return launchLive(config.DefaultScenario())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", store.DefaultBaseDir, "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario headless and record it",
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario with live visualization",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			return launchLive(sc)
		},
	}
	addScenarioFlags(liveCmd)

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "sample a body's predicted trajectory",
		RunE:  predictPath,
	}
	addScenarioFlags(predictCmd)
	predictCmd.Flags().IntVar(&bodyIdx, "body", 0, "body index to predict")
	predictCmd.Flags().IntVar(&horizon, "horizon", 0, "prediction steps (0 = scenario value)")
	predictCmd.Flags().Float64Var(&sample, "sample", 0, "path distance between samples (0 = scenario value)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the pair separation",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run trajectories to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output path (default <run_id>.svg)")

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run presets side by side and compare drift metrics",
		RunE:  comparePresets,
	}
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration for every run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenario presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a starter scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  initScenario,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "base the file on a preset")

	rootCmd.AddCommand(runCmd, liveCmd, predictCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, compareCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&minDist, "min-distance", physics.DefaultMinDistance, "force clamp distance")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset scenario")
}

// loadScenario resolves the scenario for a command: preset first, then
// config file, then explicit flag overrides on top.
func loadScenario(cmd *cobra.Command) (*config.Scenario, error) {
	sc := config.DefaultScenario()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		sc = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		sc = loaded
	}

	if cmd.Flags().Changed("dt") {
		sc.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		sc.Duration = duration
	}
	if cmd.Flags().Changed("g") {
		sc.G = gravity
	}
	if cmd.Flags().Changed("min-distance") {
		sc.MinDistance = minDist
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func launchLive(sc *config.Scenario) error {
	m, err := viz.NewModel(sc)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	logger := newLogger()
	defer logger.Sync()

	st := store.New(dataDir, logger)
	if err := st.Init(); err != nil {
		return err
	}

	w, _, err := sc.BuildWorld()
	if err != nil {
		return err
	}

	runner := sim.NewRunner(sc.Law(), logger)

	fmt.Printf("running %s scenario...\n", sc.Name)
	start := time.Now()

	result, err := runner.Run(context.Background(), w, sim.Config{Dt: sc.Dt, Duration: sc.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(sc, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Times))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func predictPath(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	w, handles, err := sc.BuildWorld()
	if err != nil {
		return err
	}
	if bodyIdx < 0 || bodyIdx >= len(handles) {
		return fmt.Errorf("body index %d out of range (scenario has %d bodies)", bodyIdx, len(handles))
	}

	pred := sc.BuildPredictor()
	if horizon > 0 {
		pred.Horizon = horizon
	}
	if sample > 0 {
		pred.SampleDistance = sample
	}

	before := w.Tick()
	pts, err := pred.Trajectory(w, handles[bodyIdx])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	fmt.Printf("body: %d\n", bodyIdx)
	fmt.Printf("samples: %d\n", len(pts))
	fmt.Printf("world tick before: %d, after: %d\n\n", before, w.Tick())

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
	}

	fmt.Println(asciigraph.Plot(xs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("predicted x"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(ys,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("predicted y"),
	))

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir, newLogger())
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tBODIES\tTICKS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Bodies,
			run.Ticks,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir, newLogger())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(traj.Times))

	bodies := traj.BodyCount()
	if bodies > 3 {
		bodies = 3
	}
	for i := 0; i < bodies; i++ {
		path := traj.Body(i)
		xs := make([]float64, len(path))
		ys := make([]float64, len(path))
		for j, p := range path {
			xs[j] = p.X
			ys[j] = p.Y
		}

		fmt.Println(asciigraph.Plot(xs,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d x", i)),
		))
		fmt.Println()
		fmt.Println(asciigraph.Plot(ys,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d y", i)),
		))
		fmt.Println()
	}

	if traj.BodyCount() >= 2 {
		sep := traj.Separation(0, 1)
		fmt.Println(asciigraph.Plot(sep,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("separation bodies 0-1"),
		))
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir, newLogger())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if traj.BodyCount() < 2 {
		return fmt.Errorf("analysis needs at least two bodies")
	}

	sep := traj.Separation(0, 1)
	if len(sep) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	n := 1
	for n*2 <= len(sep) {
		n *= 2
	}
	ps := analysis.PowerSpectrum(sep[:n])

	// Skip the DC bin so the orbital peak is visible.
	plotData := ps[1 : len(ps)/4]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("separation power spectrum"),
	))
	fmt.Println()

	period := analysis.DominantPeriod(sep, meta.Dt)
	if period > 0 {
		fmt.Printf("dominant period: %.3f s\n", period)
		fmt.Printf("frequency: %.3f hz\n", 1.0/period)
	} else {
		fmt.Println("no dominant period found")
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir, newLogger())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir, newLogger())
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj.Times) == 0 {
		return fmt.Errorf("no data to export")
	}

	return store.ExportCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir, newLogger())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	sc := &config.Scenario{
		Name:     meta.Scenario,
		G:        meta.G,
		Dt:       meta.Dt,
		Duration: meta.Duration,
	}
	result := &sim.Result{
		Times:     traj.Times,
		Positions: traj.Positions,
		Metrics:   meta.Metrics,
	}

	return store.ExportJSONStdout(sc, result)
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	scenarios := make([]*config.Scenario, len(names))
	for i, name := range names {
		sc := config.GetPreset(name)
		if sc == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		if cmd.Flags().Changed("time") {
			sc.Duration = duration
		}
		scenarios[i] = sc
	}

	logger := newLogger()
	defer logger.Sync()

	start := time.Now()
	results, err := sim.NewBatch(logger).Run(context.Background(), scenarios)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSAMPLES\tENERGY_DRIFT\tMOMENTUM_DRIFT\tPERIOD")
	for i, r := range results {
		period := "-"
		if len(r.Positions) > 0 && len(r.Positions[0]) >= 2 {
			sep := make([]float64, len(r.Positions))
			for j, row := range r.Positions {
				sep[j] = row[0].Dist(row[1])
			}
			if p := analysis.DominantPeriod(sep, scenarios[i].Dt); p > 0 {
				period = fmt.Sprintf("%.3fs", p)
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%.2e\t%.2e\t%s\n",
			names[i], len(r.Times), r.Metrics["energy_drift"], r.Metrics["momentum_drift"], period)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted %d runs in %v\n", len(results), elapsed.Round(time.Millisecond))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir, newLogger())
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}

	if err := export.WriteSVG(out, traj, 800, 600); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	if len(names) == 0 {
		fmt.Println("no presets available")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tG\tDT\tBODIES")
	for _, name := range names {
		sc := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.0f\t%.4fs\t%d\n", name, sc.G, sc.Dt, len(sc.Bodies))
	}
	return w.Flush()
}

func initScenario(cmd *cobra.Command, args []string) error {
	sc := config.DefaultScenario()
	if preset != "" {
		sc = config.GetPreset(preset)
		if sc == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if err := config.Save(args[0], sc); err != nil {
		return err
	}
	fmt.Printf("wrote %s scenario to %s\n", sc.Name, args[0])
	return nil
}
