// Package experiment implements the file-backed experiment tracking store
// the training pipeline records runs into: per-run parameters, metrics,
// tags, a dataset reference, and an artifact directory holding the model
// and the frozen feature schema.
package experiment

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/churnpipe/pkg/errors"
	"github.com/YuminosukeSato/churnpipe/pkg/log"
)

// Run is one recorded training run.
type Run struct {
	ID         string             `json:"id"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time,omitempty"`
	Params     map[string]any     `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
	Tags       map[string]string  `json:"tags"`
	DatasetRef string             `json:"dataset_ref,omitempty"`

	// ArtifactDir is the directory artifacts for this run are written to.
	ArtifactDir string `json:"artifact_dir"`

	tracker *Tracker
	ended   bool
}

// Tracker is a file-backed run store. Each run lives under
// <root>/<run-id>/ with a run.json record and an artifacts/ directory.
type Tracker struct {
	root string
}

// NewTracker opens (creating if needed) a store rooted at dir.
func NewTracker(dir string) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating tracking root")
	}
	return &Tracker{root: dir}, nil
}

// Root returns the store's root directory.
func (t *Tracker) Root() string { return t.root }

// StartRun opens a new run with a fresh ID and its artifact directory
// already created.
func (t *Tracker) StartRun() (*Run, error) {
	id := uuid.NewString()
	artifactDir := filepath.Join(t.root, id, "artifacts")
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating artifact dir")
	}

	run := &Run{
		ID:          id,
		StartTime:   time.Now().UTC(),
		Params:      make(map[string]any),
		Metrics:     make(map[string]float64),
		Tags:        make(map[string]string),
		ArtifactDir: artifactDir,
		tracker:     t,
	}
	slog.Info("experiment run started", log.RunIDKey, id)
	return run, nil
}

// LoadRun reads a persisted run record.
func (t *Tracker) LoadRun(id string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(t.root, id, "run.json"))
	if err != nil {
		return nil, errors.Wrap(err, "reading run record")
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Wrap(err, "decoding run record")
	}
	run.tracker = t
	run.ended = true
	return &run, nil
}

// ListRuns returns the IDs of all persisted runs.
func (t *Tracker) ListRuns() ([]string, error) {
	entries, err := os.ReadDir(t.root)
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(t.root, e.Name(), "run.json")); err == nil {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// LogParam records one parameter.
func (r *Run) LogParam(key string, value any) {
	r.Params[key] = value
}

// LogParams records a parameter map.
func (r *Run) LogParams(params map[string]any) {
	for k, v := range params {
		r.Params[k] = v
	}
}

// LogMetric records one metric.
func (r *Run) LogMetric(key string, value float64) {
	r.Metrics[key] = value
}

// SetTag records one tag.
func (r *Run) SetTag(key, value string) {
	r.Tags[key] = value
}

// LogInput records a reference to the dataset the run trained on.
func (r *Run) LogInput(ref string) {
	r.DatasetRef = ref
}

// ArtifactPath returns the path an artifact with the given name should be
// written to.
func (r *Run) ArtifactPath(name string) string {
	return filepath.Join(r.ArtifactDir, name)
}

// LogArtifact copies a local file into the run's artifact directory and
// returns the stored path.
func (r *Run) LogArtifact(src string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", errors.Wrap(err, "reading artifact")
	}
	dst := r.ArtifactPath(filepath.Base(src))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", errors.Wrap(err, "storing artifact")
	}
	return dst, nil
}

// End closes the run and persists its record. Calling End twice is an
// error.
func (r *Run) End() error {
	if r.ended {
		return errors.NewValueError("Run.End", "run already ended")
	}
	r.EndTime = time.Now().UTC()
	r.ended = true

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding run record")
	}
	path := filepath.Join(r.tracker.root, r.ID, "run.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing run record")
	}

	slog.Info("experiment run recorded",
		log.RunIDKey, r.ID,
		"metrics", r.Metrics,
	)
	return nil
}
