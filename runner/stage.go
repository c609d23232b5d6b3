// ABOUTME: Stage interface, explicit ordered registry, and panic-safe stage execution.
// ABOUTME: A panicking stage becomes a stage error instead of crashing the run worker.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/2389-research/qaforge/store"
)

// ErrInfrastructure marks errors that must fail the run (persistence,
// filesystem) as opposed to stage errors, which are recorded and skipped.
var ErrInfrastructure = errors.New("infrastructure error")

// StageResult carries the summary counts a stage reports in its completion
// event. Full artifact payloads never travel on events.
type StageResult struct {
	Summary map[string]any
}

// Stage is one step of the analysis pipeline. Execute receives a private
// copy of the run state and persists artifacts through the run directory.
// Only mutations to Analysis, StageOutputs, and Artifacts are committed back
// by the worker; Errors is appended by the worker itself.
type Stage interface {
	Name() string
	Label() string
	Execute(ctx context.Context, state *RunState, dir *store.RunDirectory) (*StageResult, error)
}

// StageRegistry holds stages in their fixed execution order.
type StageRegistry struct {
	stages []Stage
}

// NewStageRegistry creates a registry executing stages in the given order.
func NewStageRegistry(stages ...Stage) *StageRegistry {
	return &StageRegistry{stages: stages}
}

// Stages returns the ordered stage list.
func (r *StageRegistry) Stages() []Stage {
	return r.stages
}

// Get returns the stage with the given name, or nil.
func (r *StageRegistry) Get(name string) Stage {
	for _, s := range r.stages {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// safeExecute wraps stage.Execute with panic recovery, converting panics
// into errors. The stack trace is included to aid debugging.
func safeExecute(ctx context.Context, stage Stage, state *RunState, dir *store.RunDirectory) (res *StageResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			err = fmt.Errorf("stage panic in %q: %v\n%s", stage.Name(), r, stack)
			res = nil
		}
	}()
	return stage.Execute(ctx, state, dir)
}

// saveArtifact persists one artifact and records its location on the state.
// Failure here is an infrastructure error.
func saveArtifact(state *RunState, dir *store.RunDirectory, name, content string) error {
	path, err := dir.SaveArtifact(name, []byte(content))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInfrastructure, err)
	}
	state.Artifacts[name] = path
	return nil
}
