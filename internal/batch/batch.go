// Package batch runs many headless scenes side by side, either from a list
// of configs or from a YAML scenario file.
package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/san-kum/dropsim/internal/config"
	"github.com/san-kum/dropsim/internal/input"
	"github.com/san-kum/dropsim/internal/logging"
	"github.com/san-kum/dropsim/internal/metrics"
	"github.com/san-kum/dropsim/internal/render"
	"github.com/san-kum/dropsim/internal/scene"
	"gopkg.in/yaml.v3"
)

// Epoch is the manual clock start for every batch run, so a config always
// produces the same trace.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Scenario is a named list of runs.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Runs        []Entry `yaml:"runs"`
}

// Entry names a preset or a config file. Frames overrides the run length
// when positive.
type Entry struct {
	Preset string `yaml:"preset"`
	Config string `yaml:"config"`
	Frames int    `yaml:"frames"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(sc.Runs) == 0 {
		return nil, fmt.Errorf("%s: scenario has no runs", path)
	}
	return &sc, nil
}

func (e Entry) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case e.Config != "":
		loaded, err := config.Load(e.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case e.Preset != "":
		cfg = config.GetPreset(e.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", e.Preset)
		}
	default:
		return nil, fmt.Errorf("run needs a preset or a config")
	}
	if e.Frames > 0 {
		cfg.Run.Frames = e.Frames
	}
	return cfg, nil
}

// Configs resolves every entry, failing on the first bad one.
func (sc *Scenario) Configs() ([]*config.Config, error) {
	out := make([]*config.Config, 0, len(sc.Runs))
	for i, e := range sc.Runs {
		cfg, err := e.Resolve()
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		out = append(out, cfg)
	}
	return out, nil
}

type Result struct {
	Config  *config.Config
	Trace   []scene.FrameStats
	Metrics map[string]float64
	Err     error
}

type Options struct {
	// Workers bounds concurrent scenes; zero means GOMAXPROCS.
	Workers int
	Logger  logging.Logger
}

// Run executes every config on its own scene and returns results in input
// order. A failing run records its error and does not stop the others.
func Run(ctx context.Context, cfgs []*config.Config, opts Options) []Result {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	results := make([]Result, len(cfgs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = runOne(ctx, cfg, log)
		}()
	}
	wg.Wait()
	return results
}

func runOne(ctx context.Context, cfg *config.Config, log logging.Logger) Result {
	res := Result{Config: cfg}
	s, err := scene.New(cfg, scene.Deps{Textures: render.NewMemoryTextures(), Logger: log})
	if err != nil {
		res.Err = err
		return res
	}
	defer s.Close()

	set := metrics.Standard()
	s.AddObserver(set)

	clock := input.NewManualClock(Epoch)
	res.Trace, res.Err = s.Run(ctx, scene.RunOptions{
		Frames:        cfg.Run.Frames,
		FrameInterval: cfg.Run.FrameInterval,
		Clock:         clock,
		Trigger:       input.NewScript(cfg.Run.Triggers, clock.Elapsed),
	})
	res.Metrics = set.Values()
	if res.Err != nil {
		log.Warn("batch run failed", "name", cfg.Name, "err", res.Err)
	}
	return res
}
