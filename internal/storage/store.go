package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/magphyx/internal/config"
	"github.com/san-kum/magphyx/internal/event"
	"github.com/san-kum/magphyx/internal/sim"
)

const (
	MetadataFile = "metadata.json"
	EventsFile   = "events.csv"
)

const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string                   `json:"id"`
	Preset     string                   `json:"preset,omitempty"`
	Timestamp  time.Time                `json:"timestamp"`
	Initial    config.InitialConditions `json:"initial"`
	H          float64                  `json:"h"`
	Eps        float64                  `json:"eps"`
	Fixed      bool                     `json:"fixed"`
	NumEvents  int                      `json:"num_events"`
	NumSteps   int                      `json:"num_steps"`
	Status     string                   `json:"status"`
	Error      string                   `json:"error,omitempty"`
	Records    int                      `json:"records"`
	Steps      int                      `json:"steps"`
	Collisions int                      `json:"collisions"`
	T          float64                  `json:"t"`
	Metrics    map[string]float64       `json:"metrics,omitempty"`
}

// MetadataFromConfig fills the input half of the metadata.
func MetadataFromConfig(cfg config.Config, preset string) RunMetadata {
	return RunMetadata{
		Preset:    preset,
		Initial:   cfg.Initial,
		H:         cfg.H,
		Eps:       cfg.Eps,
		Fixed:     cfg.Fixed,
		NumEvents: cfg.Budget().NumEvents,
		NumSteps:  cfg.Budget().NumSteps,
	}
}

// Run is an open run directory. The event log stays open until Finish.
type Run struct {
	store *Store
	meta  RunMetadata
	file  *os.File
}

// Create makes a new run directory with a fresh ID and opens its event log.
func (s *Store) Create(meta RunMetadata) (*Run, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now().UTC()
	meta.Status = StatusRunning

	dir := s.runDir(meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if err := s.SaveMetadata(meta); err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(dir, EventsFile))
	if err != nil {
		return nil, err
	}
	return &Run{store: s, meta: meta, file: f}, nil
}

func (r *Run) ID() string         { return r.meta.ID }
func (r *Run) Events() io.Writer  { return r.file }
func (r *Run) EventsPath() string { return r.file.Name() }

// Finish records the outcome and closes the event log. It is safe to call
// with a nil result when the run failed before producing one.
func (r *Run) Finish(res *sim.Result, runErr error) error {
	if res != nil {
		r.meta.Records = res.Records
		r.meta.Steps = res.Steps
		r.meta.Collisions = res.Collisions
		r.meta.T = res.T
		r.meta.Metrics = res.Metrics
	}
	r.meta.Status = StatusComplete
	if runErr != nil {
		r.meta.Status = StatusFailed
		r.meta.Error = runErr.Error()
	}

	closeErr := r.file.Close()
	if err := r.store.SaveMetadata(r.meta); err != nil {
		return err
	}
	return closeErr
}

func (s *Store) SaveMetadata(meta RunMetadata) error {
	f, err := os.Create(filepath.Join(s.runDir(meta.ID), MetadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), MetadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadEvents(runID string) ([]event.Row, error) {
	f, err := os.Open(filepath.Join(s.runDir(runID), EventsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := event.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return rows, nil
}

func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
