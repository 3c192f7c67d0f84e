package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/juju/loggo"
	"github.com/san-kum/turingsim/internal/analysis"
	"github.com/san-kum/turingsim/internal/automation"
	"github.com/san-kum/turingsim/internal/config"
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/experiment"
	"github.com/san-kum/turingsim/internal/export"
	"github.com/san-kum/turingsim/internal/grid"
	"github.com/san-kum/turingsim/internal/optim"
	"github.com/san-kum/turingsim/internal/physics"
	"github.com/san-kum/turingsim/internal/storage"
	"github.com/san-kum/turingsim/internal/viz"
	"github.com/spf13/cobra"
)

var logger = loggo.GetLogger("turingsim.cmd")

var (
	dataDir string
	logSpec string
	// Simulation parameters
	configFile string
	preset     string
	runName    string
	a          float64
	b          float64
	tau        float64
	k          float64
	size       int
	halfWidth  float64
	totalTime  float64
	safety     float64
	seed       int64
	workers    int
	initName   string
	noValidate bool
	// Rendering
	fieldName string
	width     int
	palette   string
	cellSize  float64
	outPath   string
	asHistory bool
	// Sweep and ensemble
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	numRuns    int
	saveRuns   bool
	// Grid search
	searchAxes   []string
	searchMetric string
	minimize     bool
)

// main registers the turingsim commands and exits with status 1 if the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "turingsim",
		Short: "reaction-diffusion turing pattern simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loggo.ConfigureLoggers(logSpec)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".turingsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logSpec, "log", "<root>=WARNING", "logging configuration, e.g. turingsim.dynamo=DEBUG")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save the final fields",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset name)")
	runCmd.Flags().IntVar(&width, "show", 0, "print a heatmap of U this many columns wide")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "render a saved field as a heatmap",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&fieldName, "field", "u", "field to render (u or v)")
	showCmd.Flags().IntVar(&width, "width", 64, "heatmap width in columns")
	showCmd.Flags().StringVar(&palette, "palette", "viridis", "palette: "+strings.Join(viz.PaletteNames(), ", "))

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the recorded history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spatial power spectrum and dominant wavelength",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&fieldName, "field", "u", "field to analyse (u or v)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved field to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&fieldName, "field", "u", "field to export (u or v)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and both fields as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a saved field as an SVG heatmap, or its mean-U history as a line plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&fieldName, "field", "u", "field to export (u or v)")
	exportSVGCmd.Flags().Float64Var(&cellSize, "cell", 4, "pixels per grid cell")
	exportSVGCmd.Flags().StringVar(&palette, "palette", "viridis", "palette: "+strings.Join(viz.PaletteNames(), ", "))
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>_<field>.svg)")
	exportSVGCmd.Flags().BoolVar(&asHistory, "history", false, "plot the recorded mean-U history instead of a field")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets and initial conditions",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&outPath, "gif", viz.DefaultGIFPath, "recording output path")
	liveCmd.Flags().StringVar(&palette, "palette", "viridis", "palette: "+strings.Join(viz.PaletteNames(), ", "))

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the stepper across grid sizes and worker counts",
		RunE:  benchStepper,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report pattern contrast and wavelength",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "k", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", -0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.05, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a run from consecutive seeds and summarise contrast",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid-search parameters for the best value of a metric",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	addSimFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&searchAxes, "axis", nil, "searched parameter, name=min:max:n or name=v1,v2 (repeatable)")
	searchCmd.Flags().StringVar(&searchMetric, "metric", "contrast", "metric to optimise")
	searchCmd.Flags().BoolVar(&minimize, "minimize", false, "minimise instead of maximise")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", true, "save runs that set save_as")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, presetsCmd, liveCmd, benchCmd, sweepCmd, ensembleCmd, searchCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&a, "a", d.A, "U diffusion coefficient")
	f.Float64Var(&b, "b", d.B, "V diffusion coefficient")
	f.Float64Var(&tau, "tau", d.Tau, "V time scale")
	f.Float64Var(&k, "k", d.K, "U source term")
	f.IntVar(&size, "size", d.Size, "grid cells per side")
	f.Float64Var(&halfWidth, "half-width", d.HalfWidth, "domain is [-L, L] squared")
	f.Float64Var(&totalTime, "time", d.TotalTime, "simulated time")
	f.Float64Var(&safety, "safety", d.SafetyFactor, "fraction of the stability bound used for dt")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	f.IntVar(&workers, "workers", 0, "laplacian goroutines (0 = serial)")
	f.StringVar(&initName, "init", config.DefaultInit, "initial condition")
	f.BoolVar(&noValidate, "no-validate", false, "skip the per-step finiteness check")
}

// resolveConfig applies defaults < preset < config file < explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if fileCfg.Name == "" {
			fileCfg.Name = cfg.Name
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("a") {
		cfg.A = a
	}
	if flags.Changed("b") {
		cfg.B = b
	}
	if flags.Changed("tau") {
		cfg.Tau = tau
	}
	if flags.Changed("k") {
		cfg.K = k
	}
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("half-width") {
		cfg.HalfWidth = halfWidth
	}
	if flags.Changed("time") {
		cfg.TotalTime = totalTime
	}
	if flags.Changed("safety") {
		cfg.SafetyFactor = safety
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("init") {
		cfg.Init = initName
	}
	if flags.Changed("no-validate") {
		cfg.Validate = !noValidate
	}
	if flags.Changed("seed") || !cfg.SeedSet {
		cfg.Seed = seed
	}
	if cfg.Name == "" {
		cfg.Name = "turing"
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if runName != "" {
		cfg.Name = runName
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	p := exp.Params()
	exp.GetSimulator().AddObserver(newProgressLogger(p.Steps))

	fmt.Printf("running %s: %dx%d grid, dt=%.3g, %d steps...\n", cfg.Name, p.Size, p.Size, p.Dt, p.Steps)

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) && errors.Is(err, dynamo.ErrNumericInstability) {
			return fmt.Errorf("%w (dt=%.3g, bound=%.3g)", err, p.Dt, p.StabilityBound())
		}
		return err
	}

	runID, err := st.Save(cfg.Name, p, result, exp.History())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if width > 0 {
		fmt.Println()
		fmt.Print(viz.Heatmap(result.U, width))
	}
	return nil
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSIZE\tSTEPS\tK\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%g\t%.0fms\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Size,
			run.StepsTaken,
			run.Steps,
			run.K,
			run.ElapsedMs,
		)
	}

	return w.Flush()
}

func pickField(u, v *grid.Field) (*grid.Field, error) {
	switch strings.ToLower(fieldName) {
	case "u":
		return u, nil
	case "v":
		return v, nil
	}
	return nil, fmt.Errorf("unknown field %q (want u or v)", fieldName)
}

func loadField(runID string) (*storage.RunMetadata, *grid.Field, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	u, v, err := st.LoadFields(runID)
	if err != nil {
		return nil, nil, err
	}
	f, err := pickField(u, v)
	if err != nil {
		return nil, nil, err
	}
	return meta, f, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, f, err := loadField(args[0])
	if err != nil {
		return err
	}
	viz.SetPalette(palette)

	st := f.Stats()
	summary := fmt.Sprintf("%s  t=%.3f  steps=%d  a=%g b=%g tau=%g k=%g\nmin=%.4f max=%.4f mean=%.4f",
		meta.Name, float64(meta.StepsTaken)*meta.Dt, meta.StepsTaken, meta.A, meta.B, meta.Tau, meta.K,
		st.Min, st.Max, st.Mean)
	fmt.Println(viz.BoxWithTitle(strings.ToUpper(fieldName)+" "+meta.ID, summary, 0))
	fmt.Print(viz.Heatmap(f, width))
	return nil
}

// progressLogger reports run progress at debug level every tenth of the run.
type progressLogger struct {
	total int
	every int
}

func newProgressLogger(total int) *progressLogger {
	return &progressLogger{total: total, every: max(total/10, 1)}
}

func (pl *progressLogger) OnStep(step int, t float64, s *dynamo.State) {
	if step%pl.every != 0 && step != pl.total {
		return
	}
	st := s.U.Stats()
	logger.Debugf("step %d/%d t=%.4f mean u=%.6f contrast=%.6f", step, pl.total, t, st.Mean, st.Range())
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(history) < 2 {
		return fmt.Errorf("not enough history to plot (%d samples)", len(history))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(history))

	series := []struct {
		caption string
		value   func(i int) float64
	}{
		{"mean U", func(i int) float64 { return history[i].MeanU }},
		{"mean V", func(i int) float64 { return history[i].MeanV }},
		{"contrast (max U - min U)", func(i int) float64 { return history[i].Contrast }},
	}
	for _, s := range series {
		data := make([]float64, len(history))
		for i := range history {
			data[i] = s.value(i)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println(viz.Separator(88))
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, f, err := loadField(args[0])
	if err != nil {
		return err
	}

	spec, err := analysis.FieldSpectrum(f, meta.Dx)
	if err != nil {
		return err
	}

	fmt.Printf("spatial spectrum: %s (%s)\n\n", meta.ID, fieldName)

	if len(spec.Power) > 2 {
		graph := asciigraph.Plot(spec.Power[1:],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power by wavenumber (k >= 1)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	kDom := spec.Dominant()
	if kDom == 0 {
		fmt.Println("no dominant wavenumber: field is homogeneous")
		return nil
	}
	fmt.Printf("dominant wavenumber: %d (of %d samples)\n", kDom, spec.Samples)
	fmt.Printf("wavelength: %.4f\n", spec.Wavelength(kDom))
	fmt.Printf("domain width: %.4f\n", 2*meta.HalfWidth)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, f, err := loadField(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := storage.WriteFieldCSV(w, f); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	u, v, err := st.LoadFields(runID)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := storage.ExportJSONFile(outPath, *meta, u, v); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
		return nil
	}
	return storage.ExportJSON(os.Stdout, *meta, u, v)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if asHistory {
		return exportHistorySVG(runID)
	}
	_, f, err := loadField(runID)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = fmt.Sprintf("%s_%s.svg", runID, strings.ToLower(fieldName))
	}
	svg := export.FieldToSVG(f, cellSize, viz.GetPalette(palette))
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportHistorySVG(runID string) error {
	history, err := storage.New(dataDir).LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(history) < 2 {
		return fmt.Errorf("not enough history to plot (%d samples)", len(history))
	}

	values := make([]float64, len(history))
	for i, smp := range history {
		values[i] = smp.MeanU
	}

	path := outPath
	if path == "" {
		path = runID + "_history.svg"
	}
	stroke := string(viz.GetPalette(palette).Color(0.8))
	svg := export.SeriesToSVG(values, 800, 240, stroke)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSIZE\tTIME\tK\tINIT")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		initial := p.Init
		if initial == "" {
			initial = config.DefaultInit
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%s\n", name, p.Size, p.TotalTime, p.K, initial)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ninitial conditions: %s\n", strings.Join(experiment.NewRegistry().ListInitializers(), ", "))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	viz.SetPalette(palette)

	m := viz.NewModel(cfg.Name, exp.Params(), exp.Stepper(), exp.InitialState())
	m.GIFPath = outPath

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

const benchSteps = 200

func benchStepper(cmd *cobra.Command, args []string) error {
	sizes := []int{32, 64, 128, 256}
	workerCounts := []int{0, runtime.NumCPU()}

	fmt.Printf("benchmarking %d steps per run\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tWORKERS\tSTEPS\tTIME\tSTEPS/SEC\tCELLS/SEC")

	for _, n := range sizes {
		for _, wk := range workerCounts {
			cfg := config.DefaultConfig()
			cfg.Size = n
			cfg.Workers = wk
			cfg.Seed = 42
			p, err := cfg.Params()
			if err != nil {
				return err
			}
			p.Steps = benchSteps

			sim := dynamo.New(p, physics.NewTuring(p))
			state := dynamo.NewState(n, grid.NewRNG(p.Seed))

			result, err := sim.Run(context.Background(), state)
			if err != nil {
				return err
			}

			stepsPerSec := float64(result.StepsTaken) / result.Elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.3g\n",
				n, wk, result.StepsTaken, result.Elapsed.Round(time.Microsecond), stepsPerSec,
				stepsPerSec*float64(n*n))
		}
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}
	fmt.Printf("sweeping %s from %g to %g (%d values)...\n\n", sweepParam, sweepMin, sweepMax, sweepSteps)
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTABLE\tSTEPS\tCONTRAST\tMEAN_U\tK\tWAVELENGTH\n", strings.ToUpper(sweepParam))
	contrast := make([]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%v\t%d\t%.4f\t%.4f\t%d\t%.4f\n",
			r.Value, r.Stable, r.StepsTaken, r.Contrast, r.MeanU, r.Wavenumber, r.Wavelength)
		contrast = append(contrast, r.Contrast)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(contrast) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(contrast,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("contrast vs "+sweepParam),
		))
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d seeds from %d...\n", numRuns, cfg.Seed)
	sum, err := automation.RunEnsemble(ctx, cfg, numRuns)
	if err != nil {
		return err
	}

	fmt.Printf("stable: %d/%d\n", sum.Stable, sum.Runs)
	fmt.Printf("contrast: %.4f ± %.4f\n", sum.MeanContrast, sum.StdContrast)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(searchAxes) == 0 {
		return fmt.Errorf("at least one --axis is required")
	}
	axes := make([]optim.Axis, 0, len(searchAxes))
	combos := 1
	for _, s := range searchAxes {
		ax, err := optim.ParseAxis(s)
		if err != nil {
			return err
		}
		axes = append(axes, ax)
		combos *= len(ax.Values)
	}

	ctx, cancel := signalContext()
	defer cancel()

	goal := "max"
	if minimize {
		goal = "min"
	}
	fmt.Printf("searching %d combinations for %s %s...\n", combos, goal, searchMetric)
	out, err := optim.NewGridSearch(cfg, axes, searchMetric, !minimize).Search(ctx, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("evaluated: %d, skipped: %d\n", out.Evaluated, out.Skipped)
	fmt.Printf("best %s: %.6f\n", searchMetric, out.Value)
	for _, ax := range axes {
		fmt.Printf("  %s = %g\n", ax.Name, out.Params[ax.Name])
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if saveRuns {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	outcomes, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st)
	if err != nil {
		logger.Errorf("scenario stopped after %d runs: %v", len(outcomes), err)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTEPS\tCONTRAST\tELAPSED\tSAVED AS")
	for _, o := range outcomes {
		saved := o.RunID
		if saved == "" {
			saved = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%v\t%s\n",
			o.Name, o.Result.StepsTaken, o.Result.Metrics["contrast"], o.Result.Elapsed.Round(time.Millisecond), saved)
	}
	return w.Flush()
}
