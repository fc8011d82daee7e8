// Package pipeline sequences the report run: fetch the board snapshot,
// render both reports, upload them. Steps run strictly in order; the first
// failure aborts the run and earlier outputs stay on disk.
package pipeline

import (
	"context"
	"fmt"

	"github.com/studioops/boardpulse/internal/runlog"
)

// Status is the outcome of one step.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusFailed
)

// Result is the typed step outcome the orchestrator branches on. Reason
// explains a skip; Err explains a failure.
type Result struct {
	Status Status
	Reason string
	Err    error
}

func OK() Result                { return Result{Status: StatusOK} }
func Skip(reason string) Result { return Result{Status: StatusSkipped, Reason: reason} }
func Fail(err error) Result     { return Result{Status: StatusFailed, Err: err} }

// Step is one named unit of work in the run.
type Step struct {
	Name string
	Run  func(ctx context.Context) Result
}

// UploadMode is resolved once at startup from every recognized flag.
type UploadMode int

const (
	UploadEnabled UploadMode = iota
	UploadDisabled
)

// ResolveUploadMode folds the current --no-upload flag and the legacy
// --upload flag into one mode. Upload is on by default, so the legacy enable
// flag is a no-op; the disable flag always wins.
func ResolveUploadMode(legacyEnable, disable bool) UploadMode {
	_ = legacyEnable
	if disable {
		return UploadDisabled
	}
	return UploadEnabled
}

// Pipeline runs steps in order against a shared run log.
type Pipeline struct {
	Log   *runlog.Log
	Steps []Step
}

// Run executes every step in sequence, writing one log line per transition.
// It stops at the first failure and returns that step's error; skipped steps
// are logged and do not affect the outcome.
func (p *Pipeline) Run(ctx context.Context) error {
	p.Log.Info("run started")

	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			p.Log.Error("run aborted: %v", err)
			return err
		}

		p.Log.Info("step %s: started", step.Name)
		res := step.Run(ctx)

		switch res.Status {
		case StatusOK:
			p.Log.Info("step %s: ok", step.Name)
		case StatusSkipped:
			p.Log.Warn("step %s: skipped (%s)", step.Name, res.Reason)
		case StatusFailed:
			p.Log.Error("step %s: failed: %v", step.Name, res.Err)
			return fmt.Errorf("step %s failed: %w", step.Name, res.Err)
		}
	}

	p.Log.Info("run completed successfully")
	return nil
}
