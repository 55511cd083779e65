// Package storage keeps recorded runs on disk, one directory per run
// holding metadata.json, config.yaml and frames.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/dropsim/internal/config"
	"github.com/san-kum/dropsim/internal/scene"
)

var ErrRunNotFound = errors.New("storage: run not found")

var frameHeader = []string{
	"frame", "time", "spawned", "steps", "retained", "reclaimed", "live", "primary_alive", "primary_y",
}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Frames        int                `json:"frames"`
	FrameInterval float64            `json:"frame_interval"`
	Dt            float64            `json:"dt"`
	Mode          string             `json:"mode"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its ID.
func (s *Store) Save(cfg *config.Config, trace []scene.FrameStats, metrics map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%s", cfg.Name, uuid.NewString())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Name:          cfg.Name,
		Timestamp:     s.now(),
		Frames:        len(trace),
		FrameInterval: cfg.Run.FrameInterval.Seconds(),
		Dt:            cfg.Stepper.Dt,
		Mode:          cfg.Stepper.Mode,
		Metrics:       metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, "config.yaml"), cfg); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, "frames.csv"), trace); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, trace []scene.FrameStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, st := range trace {
		row := []string{
			strconv.FormatUint(st.Frame, 10),
			strconv.FormatFloat(st.Time.Seconds(), 'f', 6, 64),
			strconv.FormatBool(st.Spawned),
			strconv.Itoa(st.Steps),
			strconv.Itoa(st.Retained),
			strconv.Itoa(st.Reclaimed),
			strconv.Itoa(st.Live),
			strconv.FormatBool(st.PrimaryAlive),
			strconv.FormatFloat(st.PrimaryY, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without
// valid metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	slices.SortFunc(runs, func(a, b RunMetadata) int { return a.Timestamp.Compare(b.Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// LoadConfig returns the configuration a run was recorded with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	path := filepath.Join(s.baseDir, runID, "config.yaml")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	return config.Load(path)
}

func (s *Store) LoadFrames(runID string) ([]scene.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []scene.FrameStats{}, nil
	}

	trace := make([]scene.FrameStats, 0, len(records)-1)
	for i, rec := range records[1:] {
		st, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", runID, i+1, err)
		}
		trace = append(trace, st)
	}
	return trace, nil
}

func parseFrame(rec []string) (scene.FrameStats, error) {
	var (
		st   scene.FrameStats
		errs []error
	)
	frame, err := strconv.ParseUint(rec[0], 10, 64)
	errs = append(errs, err)
	secs, err := strconv.ParseFloat(rec[1], 64)
	errs = append(errs, err)
	st.Spawned, err = strconv.ParseBool(rec[2])
	errs = append(errs, err)
	st.Steps, err = strconv.Atoi(rec[3])
	errs = append(errs, err)
	st.Retained, err = strconv.Atoi(rec[4])
	errs = append(errs, err)
	st.Reclaimed, err = strconv.Atoi(rec[5])
	errs = append(errs, err)
	st.Live, err = strconv.Atoi(rec[6])
	errs = append(errs, err)
	st.PrimaryAlive, err = strconv.ParseBool(rec[7])
	errs = append(errs, err)
	st.PrimaryY, err = strconv.ParseFloat(rec[8], 64)
	errs = append(errs, err)

	st.Frame = frame
	st.Time = time.Duration(secs * float64(time.Second)).Round(time.Microsecond)
	return st, errors.Join(errs...)
}
