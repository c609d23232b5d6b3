// ABOUTME: RunState holds the full mutable state of one analysis run.
// ABOUTME: Only the run's worker goroutine mutates it; readers get deep-copy snapshots.
package runner

import (
	"fmt"
	"time"

	"github.com/2389-research/qaforge/analyzer"
	"github.com/google/uuid"
)

// Status is the lifecycle status of a run.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// RunState is the state of one run. The Analysis pointer is written once by
// the code_analysis stage and treated as immutable afterwards.
type RunState struct {
	RunID        string            `json:"run_id"`
	Filename     string            `json:"filename"`
	Code         string            `json:"-"`
	Analysis     *analyzer.Result  `json:"analysis,omitempty"`
	Status       Status            `json:"status"`
	CurrentStage string            `json:"current_stage,omitempty"`
	StageOutputs map[string]string `json:"stage_outputs,omitempty"`
	Artifacts    map[string]string `json:"artifacts,omitempty"`
	Errors       []string          `json:"errors,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	StartedAt    time.Time         `json:"started_at,omitzero"`
	FinishedAt   time.Time         `json:"finished_at,omitzero"`
}

// NewRunState creates a queued run state for the given input.
func NewRunState(runID, code, filename string) *RunState {
	return &RunState{
		RunID:        runID,
		Filename:     filename,
		Code:         code,
		Status:       StatusQueued,
		StageOutputs: make(map[string]string),
		Artifacts:    make(map[string]string),
		Errors:       make([]string, 0),
		CreatedAt:    time.Now().UTC(),
	}
}

// Snapshot returns a deep copy safe to hand to concurrent readers.
// The Analysis pointer is shared; it is immutable once set.
func (s *RunState) Snapshot() *RunState {
	cp := *s
	cp.StageOutputs = make(map[string]string, len(s.StageOutputs))
	for k, v := range s.StageOutputs {
		cp.StageOutputs[k] = v
	}
	cp.Artifacts = make(map[string]string, len(s.Artifacts))
	for k, v := range s.Artifacts {
		cp.Artifacts[k] = v
	}
	cp.Errors = append(make([]string, 0, len(s.Errors)), s.Errors...)
	return &cp
}

// NewRunID generates a run identifier of the form run-<uuid8>-<unix-millis>.
func NewRunID() string {
	return fmt.Sprintf("run-%s-%d", uuid.NewString()[:8], time.Now().UnixMilli())
}
