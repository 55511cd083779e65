package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dropsim/internal/batch"
	"github.com/san-kum/dropsim/internal/config"
	"github.com/san-kum/dropsim/internal/export"
	"github.com/san-kum/dropsim/internal/gui"
	"github.com/san-kum/dropsim/internal/input"
	"github.com/san-kum/dropsim/internal/logging"
	"github.com/san-kum/dropsim/internal/metrics"
	"github.com/san-kum/dropsim/internal/render"
	"github.com/san-kum/dropsim/internal/scene"
	"github.com/san-kum/dropsim/internal/storage"
	"github.com/san-kum/dropsim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	frames     int
	svgOut     string
	outFile    string
	cols       int
	rows       int
	noSave     bool
	workers    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dropsim",
		Short: "rain drops into a bottle",
		RunE:  runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dropsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and record it",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the last frame as svg")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot live bodies and primary height",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the live-count series as svg")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run with its frames as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-10s interval=%v mode=%s primary=%s frames=%d\n",
					name, cfg.Spawn.MinInterval, cfg.Stepper.Mode, cfg.Primary.Type, cfg.Run.Frames)
			}
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scene in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&cols, "cols", 48, "canvas columns")
	liveCmd.Flags().IntVar(&rows, "rows", 30, "canvas rows")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run a scene in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scenario, or every preset, concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent scenes (default GOMAXPROCS)")
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, liveCmd, guiCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (logging.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewText(os.Stderr, level), nil
}

// loadConfig resolves defaults, then a preset, then a config file.
func loadConfig() (*config.Config, error) {
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
	return cfg, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("frames") {
		cfg.Run.Frames = frames
	}

	s, err := scene.New(cfg, scene.Deps{Textures: render.NewMemoryTextures(), Logger: log})
	if err != nil {
		return err
	}
	defer s.Close()

	set := metrics.Standard()
	s.AddObserver(set)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	clock := input.NewManualClock(input.SystemClock{}.Now())
	rec := render.NewRecorder()
	trace, err := s.Run(ctx, scene.RunOptions{
		Frames:        cfg.Run.Frames,
		FrameInterval: cfg.Run.FrameInterval,
		Clock:         clock,
		Trigger:       input.NewScript(cfg.Run.Triggers, clock.Elapsed),
		Renderer:      rec,
	})
	if err != nil {
		log.Error("run stopped", "frames", len(trace), "err", err)
		return err
	}

	values := set.Values()
	printMetrics(values)

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.FrameToSVG(rec.Sprites(), s.Camera())), 0644); err != nil {
			return err
		}
		fmt.Printf("frame written to %s\n", svgOut)
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, trace, values)
	if err != nil {
		return err
	}
	fmt.Printf("saved run %s\n", runID)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	var cfgs []*config.Config
	if len(args) == 1 {
		sc, err := batch.LoadScenario(args[0])
		if err != nil {
			return err
		}
		if cfgs, err = sc.Configs(); err != nil {
			return err
		}
		log.Info("scenario loaded", "name", sc.Name, "runs", len(cfgs))
	} else {
		for _, name := range config.ListPresets() {
			cfgs = append(cfgs, config.GetPreset(name))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results := batch.Run(ctx, cfgs, batch.Options{Workers: workers, Logger: log})

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFRAMES\tSPAWNED\tRECLAIMED\tPEAK\tRUN")
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\n", r.Config.Name, r.Err)
			continue
		}
		runID := "-"
		if !noSave {
			if runID, err = st.Save(r.Config, r.Trace, r.Metrics); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.0f\t%.0f\t%s\n",
			r.Config.Name, len(r.Trace), r.Metrics["spawned"], r.Metrics["reclaimed"], r.Metrics["peak_live"], runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(results))
	}
	return nil
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %.3f\n", name, values[name])
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tFRAMES\tMODE\tPEAK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.0f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Mode,
			run.Metrics["peak_live"],
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
	trace, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Name)
	fmt.Printf("frames: %d\n\n", len(trace))

	live := make([]float64, len(trace))
	primaryY := make([]float64, len(trace))
	for i, f := range trace {
		live[i] = float64(f.Live)
		primaryY[i] = f.PrimaryY
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{live, "live bodies"},
		{primaryY, "primary height"},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}

	if svgOut != "" {
		return os.WriteFile(svgOut, []byte(export.SeriesToSVG(live, 800, 200, "#00ff88")), 0644)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, *meta, trace)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ExportJSON(f, *meta, trace); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Log lines would tear the alt screen.
	s, err := scene.New(cfg, scene.Deps{Textures: render.NewMemoryTextures(), Logger: logging.Nop()})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return tui.Run(ctx, s, cols, rows, cfg.Run.FrameInterval)
}

func runGUI(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return gui.Run(cfg, log)
}
