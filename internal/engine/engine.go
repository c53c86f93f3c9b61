// Package engine executes pipelines and workflows against the
// registry: fail-fast pipelines, workflows with fatal and non-fatal
// step semantics, and an optional terminal deployment-status check.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haatos/deckhand/internal/executor"
	"github.com/haatos/deckhand/internal/registry"
	"github.com/haatos/deckhand/internal/status"
)

// StatusSource provides one set of reconciliation signals on demand.
// *status.Collector satisfies it.
type StatusSource interface {
	Collect(ctx context.Context) status.Signals
}

// StepOutcome records one executed workflow step. Steps after a fatal
// failure never execute, so they never appear in a report.
type StepOutcome struct {
	Name    string
	Kind    registry.StepKind
	Fatal   bool
	Success bool
	Elapsed time.Duration
}

// Report is the aggregate outcome of one workflow run. Status is only
// set for workflows that declare a terminal status check; it is
// informational and never alters Success.
type Report struct {
	RunID   uuid.UUID
	Key     string
	Success bool
	Elapsed time.Duration
	Steps   []StepOutcome
	Status  status.Label
}

type Engine struct {
	registry *registry.Registry
	executor executor.Executor
	status   StatusSource
	logger   *slog.Logger
}

// New builds an Engine over an immutable registry. The status source
// may be nil when no deployment platform is configured.
func New(
	reg *registry.Registry,
	exec executor.Executor,
	statusSource StatusSource,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: reg,
		executor: exec,
		status:   statusSource,
		logger:   logger,
	}
}

// RunPipeline executes the named pipeline's commands in declaration
// order, stopping at the first failure; commands after the failure
// point are never invoked. An unknown key is a configuration error.
// The returned elapsed time spans pipeline start to stop point,
// independent of per-command timings.
func (e *Engine) RunPipeline(ctx context.Context, key string) (executor.Result, error) {
	p, err := e.registry.Pipeline(key)
	if err != nil {
		return executor.Result{}, err
	}

	e.logger.Info("pipeline started", "pipeline", key, "commands", len(p.Commands))
	started := time.Now()

	success := true
	for _, c := range p.Commands {
		res := e.executor.Execute(ctx, c.Run, c.Name, executor.Options{Silent: c.Silent})
		if !res.Success {
			success = false
			break
		}
	}

	elapsed := time.Since(started)
	if success {
		e.logger.Info("pipeline passed", "pipeline", key, "elapsed", elapsed.Round(time.Millisecond))
	} else {
		e.logger.Error("pipeline failed", "pipeline", key, "elapsed", elapsed.Round(time.Millisecond))
	}
	return executor.Result{Success: success, Elapsed: elapsed}, nil
}

// RunWorkflow executes the named workflow's steps in declaration
// order. A failing fatal step aborts the run; a failing non-fatal
// step is logged and execution continues, without by itself flipping
// the overall result. An unknown key is a configuration error.
func (e *Engine) RunWorkflow(ctx context.Context, key string) (Report, error) {
	w, err := e.registry.Workflow(key)
	if err != nil {
		return Report{}, err
	}

	report := Report{RunID: uuid.New(), Key: key}
	e.logger.Info("workflow started", "workflow", key, "run_id", report.RunID, "steps", len(w.Steps))
	started := time.Now()

	m := newMachine()
	m.begin()

	for _, step := range w.Steps {
		outcome := e.runStep(ctx, step)
		report.Steps = append(report.Steps, outcome)

		via := m.step(outcome.Success, step.Fatal)
		switch via {
		case StateStepFailedFatal:
			e.logger.Error("fatal step failed, aborting workflow",
				"workflow", key,
				"step", outcome.Name,
			)
		case StateStepFailedNonFatal:
			e.logger.Warn("non-fatal step failed, continuing",
				"workflow", key,
				"step", outcome.Name,
			)
		}

		if m.state.Terminal() {
			break
		}
	}
	m.finish()

	report.Success = m.state == StateCompleted
	report.Elapsed = time.Since(started)

	if w.StatusCheck && e.status != nil {
		// one reconciliation query per run, after the final step;
		// the label never overrides the workflow's own result
		report.Status = status.Reconcile(e.status.Collect(ctx))
	}

	e.logger.Info("workflow finished",
		"workflow", key,
		"run_id", report.RunID,
		"state", m.state.String(),
		"success", report.Success,
		"elapsed", report.Elapsed.Round(time.Millisecond),
	)
	return report, nil
}

func (e *Engine) runStep(ctx context.Context, step registry.WorkflowStep) StepOutcome {
	switch step.Kind {
	case registry.StepKindPipeline:
		// validated at registry construction, lookup cannot fail here
		res, _ := e.RunPipeline(ctx, step.Pipeline)
		return StepOutcome{
			Name:    step.Pipeline,
			Kind:    registry.StepKindPipeline,
			Fatal:   step.Fatal,
			Success: res.Success,
			Elapsed: res.Elapsed,
		}
	default:
		res := e.executor.Execute(
			ctx,
			step.Command.Run,
			step.Command.Name,
			executor.Options{Silent: step.Command.Silent},
		)
		return StepOutcome{
			Name:    step.Command.Name,
			Kind:    registry.StepKindCommand,
			Fatal:   step.Fatal,
			Success: res.Success,
			Elapsed: res.Elapsed,
		}
	}
}
