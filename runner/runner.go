// ABOUTME: Run orchestrator: accepts scripts, drives each run through the stage pipeline
// ABOUTME: on its own worker goroutine, and publishes progress events to the event channel.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2389-research/qaforge/store"
)

var (
	// ErrDuplicateRun is returned when a run id is already registered.
	ErrDuplicateRun = errors.New("duplicate run id")
	// ErrRunNotFound is returned when a run id is unknown.
	ErrRunNotFound = errors.New("run not found")
)

const cancelMessage = "run cancelled by user"

// Publisher receives progress events for a run. Implementations must not
// block; the event channel drops rather than stalls.
type Publisher interface {
	Publish(runID string, ev Event)
}

// Config holds the runner's dependencies. Stages defaults to the full
// pipeline; Publisher and Index are optional.
type Config struct {
	DataDir   string
	Publisher Publisher
	Index     *store.Index
	Stages    *StageRegistry
}

// Runner orchestrates analysis runs. Each run gets a dedicated worker
// goroutine that is the sole mutator of its state.
type Runner struct {
	cfg  Config
	mu   sync.RWMutex
	runs map[string]*runEntry
}

type runEntry struct {
	mu        sync.Mutex
	state     *RunState
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// New creates a runner with the given configuration.
func New(cfg Config) *Runner {
	if cfg.Stages == nil {
		cfg.Stages = DefaultStageRegistry()
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	return &Runner{cfg: cfg, runs: make(map[string]*runEntry)}
}

// Start registers a run and launches its worker. The run directory is
// created synchronously so infrastructure failures surface to the caller.
func (r *Runner) Start(runID, code, filename string) error {
	r.mu.Lock()
	if _, exists := r.runs[runID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateRun, runID)
	}
	ctx, cancel := context.WithCancel(context.Background())
	entry := &runEntry{
		state:  NewRunState(runID, code, filename),
		cancel: cancel,
	}
	r.runs[runID] = entry
	r.mu.Unlock()

	dir, err := store.NewRunDirectory(r.cfg.DataDir, runID)
	if err != nil {
		cancel()
		r.mu.Lock()
		delete(r.runs, runID)
		r.mu.Unlock()
		return fmt.Errorf("create run directory: %w", err)
	}

	go r.work(ctx, entry, dir)
	return nil
}

// Cancel requests cooperative cancellation of a run. Returns false when the
// run is unknown or already terminal. The cancellation takes effect at the
// next stage boundary.
func (r *Runner) Cancel(runID string) bool {
	r.mu.RLock()
	entry, ok := r.runs[runID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	entry.mu.Lock()
	terminal := entry.state.Status.Terminal()
	entry.mu.Unlock()
	if terminal {
		return false
	}

	entry.cancelled.Store(true)
	entry.cancel()
	return true
}

// Get returns a snapshot of a run's state.
func (r *Runner) Get(runID string) (*RunState, bool) {
	r.mu.RLock()
	entry, ok := r.runs[runID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state.Snapshot(), true
}

// List returns snapshots of all known runs, newest first.
func (r *Runner) List() []*RunState {
	r.mu.RLock()
	entries := make([]*runEntry, 0, len(r.runs))
	for _, e := range r.runs {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	snaps := make([]*RunState, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		snaps = append(snaps, e.state.Snapshot())
		e.mu.Unlock()
	}
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
		}
		return snaps[i].RunID > snaps[j].RunID
	})
	return snaps
}

// work drives one run through the pipeline. It is the only goroutine that
// mutates the run's state.
func (r *Runner) work(ctx context.Context, entry *runEntry, dir *store.RunDirectory) {
	runID := entry.state.RunID

	entry.mu.Lock()
	entry.state.Status = StatusRunning
	entry.state.StartedAt = time.Now().UTC()
	snap := entry.state.Snapshot()
	entry.mu.Unlock()
	r.indexUpsert(snap)

	started := NewEvent(EventRunStarted, runID)
	started.Status = string(StatusRunning)
	started.Message = "Run started"
	r.publish(runID, started)

	for _, stage := range r.cfg.Stages.Stages() {
		if entry.cancelled.Load() {
			r.finish(entry, StatusFailed, cancelMessage)
			return
		}

		entry.mu.Lock()
		entry.state.CurrentStage = stage.Name()
		work := entry.state.Snapshot()
		entry.mu.Unlock()

		running := NewEvent(EventStageRunning, runID)
		running.Stage = stage.Name()
		running.Status = "running"
		running.Message = stage.Label()
		r.publish(runID, running)

		// The stage runs against its own copy so Get, List, and Cancel stay
		// responsive for its whole duration. Mutations are committed below.
		res, err := safeExecute(ctx, stage, work, dir)

		entry.mu.Lock()
		entry.state.Analysis = work.Analysis
		for k, v := range work.StageOutputs {
			entry.state.StageOutputs[k] = v
		}
		for k, v := range work.Artifacts {
			entry.state.Artifacts[k] = v
		}
		if err != nil {
			entry.state.Errors = append(entry.state.Errors, fmt.Sprintf("%s: %v", stage.Name(), err))
		}
		entry.mu.Unlock()

		if err != nil {
			failed := NewEvent(EventStageFailed, runID)
			failed.Stage = stage.Name()
			failed.Status = "error"
			failed.Message = err.Error()
			r.publish(runID, failed)

			if errors.Is(err, ErrInfrastructure) {
				r.finish(entry, StatusFailed, fmt.Sprintf("%s: %v", stage.Name(), err))
				return
			}
			// Stage errors are recorded and the pipeline continues.
			continue
		}

		completed := NewEvent(EventStageCompleted, runID)
		completed.Stage = stage.Name()
		completed.Status = "completed"
		completed.Message = stage.Label()
		if res != nil {
			completed.Data = res.Summary
		}
		r.publish(runID, completed)
	}

	if entry.cancelled.Load() {
		r.finish(entry, StatusFailed, cancelMessage)
		return
	}
	r.finish(entry, StatusCompleted, "All stages completed")
}

// finish marks the run terminal, updates the index, and publishes the
// terminal event followed by stream_end.
func (r *Runner) finish(entry *runEntry, status Status, message string) {
	runID := entry.state.RunID

	entry.mu.Lock()
	if status == StatusFailed && message == cancelMessage {
		entry.state.Errors = append(entry.state.Errors, cancelMessage)
	}
	entry.state.Status = status
	entry.state.CurrentStage = ""
	entry.state.FinishedAt = time.Now().UTC()
	snap := entry.state.Snapshot()
	entry.mu.Unlock()
	r.indexUpsert(snap)

	typ := EventRunCompleted
	if status == StatusFailed {
		typ = EventRunFailed
	}
	terminal := NewEvent(typ, runID)
	terminal.Status = string(status)
	terminal.Message = message
	r.publish(runID, terminal)

	end := NewEvent(EventStreamEnd, runID)
	end.Status = string(status)
	r.publish(runID, end)
}

func (r *Runner) publish(runID string, ev Event) {
	if r.cfg.Publisher != nil {
		r.cfg.Publisher.Publish(runID, ev)
	}
}

// indexUpsert records the run in the SQLite index, best effort.
func (r *Runner) indexUpsert(snap *RunState) {
	if r.cfg.Index == nil {
		return
	}

	rec := store.RunRecord{
		RunID:     snap.RunID,
		Filename:  snap.Filename,
		Status:    string(snap.Status),
		CreatedAt: snap.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if snap.Analysis != nil {
		rec.Complexity = snap.Analysis.ComplexityScore
		if _, ok := snap.StageOutputs[StageCoverage]; ok {
			rec.Coverage = SimulateCoverage(snap.Analysis.ComplexityScore).Overall
		}
	}
	if err := r.cfg.Index.UpsertRun(rec); err != nil {
		fmt.Fprintf(os.Stderr, "[runner] index upsert for %s failed: %v\n", snap.RunID, err)
	}
}
