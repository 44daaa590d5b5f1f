// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gage-technologies/gigo-ws/lib/clock"
	"github.com/gage-technologies/gigo-ws/lib/controlplane"
	"github.com/gage-technologies/gigo-ws/lib/logging"
	"github.com/gage-technologies/gigo-ws/lib/plan"
	"github.com/gage-technologies/gigo-ws/lib/workspace"
)

// Config holds the collaborators of a Pipeline.
type Config struct {
	// CoderID identifies the workspace to the control plane.
	CoderID string

	Plan         *plan.Plan
	Executor     Executor
	ControlPlane ControlPlane
	State        StateStore

	// Clock times steps for the journal. Nil means the real clock.
	Clock clock.Clock

	// Journal records run progress. Nil disables it.
	Journal *Journal

	Logger *slog.Logger
}

// Pipeline provisions one workspace. A Pipeline runs once.
type Pipeline struct {
	coderID      string
	plan         *plan.Plan
	executor     Executor
	controlPlane ControlPlane
	state        StateStore
	clock        clock.Clock
	journal      *Journal
	logger       *slog.Logger

	// Established during the run.
	initialized bool
	secret      string
	config      *workspace.Config
	identity    *workspace.GitConfig
}

// New validates config and returns a Pipeline.
func New(config Config) (*Pipeline, error) {
	var missing []string
	if config.CoderID == "" {
		missing = append(missing, "coder id")
	}
	if config.Plan == nil {
		missing = append(missing, "plan")
	}
	if config.Executor == nil {
		missing = append(missing, "executor")
	}
	if config.ControlPlane == nil {
		missing = append(missing, "control plane")
	}
	if config.State == nil {
		missing = append(missing, "state store")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("provision: missing %v", missing)
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Pipeline{
		coderID:      config.CoderID,
		plan:         config.Plan,
		executor:     config.Executor,
		controlPlane: config.ControlPlane,
		state:        config.State,
		clock:        clk,
		journal:      config.Journal,
		logger:       logging.Component(config.Logger, "provision"),
	}, nil
}

// Run executes the provisioning sequence. It returns nil when every
// applicable step succeeded (including the editor exiting cleanly),
// *StepError when a step failed and a report was attempted, and
// *UnrelayableError when a step failed before the secret was known.
func (p *Pipeline) Run(ctx context.Context) error {
	started := p.clock.Now()
	err := p.run(ctx)

	if closeErr := p.identity.Close(); closeErr != nil {
		p.logger.Warn("releasing git token", "error", closeErr)
	}
	p.identity = nil

	duration := p.clock.Since(started)
	if err != nil {
		p.journal.failed(failedStep(err), err, duration)
		return err
	}
	p.journal.complete(duration)
	p.logger.Info("provisioning complete", "duration", duration)
	return nil
}

func (p *Pipeline) run(ctx context.Context) error {
	initialized, err := p.state.Initialized()
	if err != nil {
		p.journal.step(StepMarker, labelCheckMarker, outcomeFailed, 0, errorFailure(KindIO, labelCheckMarker, err))
		return &UnrelayableError{Step: StepMarker, Err: err}
	}
	p.initialized = initialized
	p.journal.start(p.coderID, initialized)
	p.logger.Info("provisioning workspace", "initialized", initialized)

	if initialized {
		if err := p.reload(ctx); err != nil {
			return err
		}
	} else {
		if err := p.initialize(ctx); err != nil {
			return err
		}
		if err := p.runStep(ctx, StepGitConfig, labelGitConfig, p.writeGitConfig); err != nil {
			return err
		}
		if err := p.runStep(ctx, StepWorkspaceConfig, labelWorkspaceConfig, p.saveConfig); err != nil {
			return err
		}
		if err := p.runCommandStep(ctx, StepClone, p.cloneCommand()); err != nil {
			return err
		}
		if err := p.runCommandStep(ctx, StepCheckout, p.checkoutCommand()); err != nil {
			return err
		}
	}

	if err := p.containers(ctx); err != nil {
		return err
	}
	if err := p.userCommands(ctx); err != nil {
		return err
	}
	return p.editor(ctx)
}

// runStep runs work and, when it succeeds, reports step as complete.
func (p *Pipeline) runStep(ctx context.Context, step Step, label string, work func(context.Context) *Failure) error {
	started := p.clock.Now()
	p.logger.Info("step started", "step", int(step), "label", label)

	failure := work(ctx)
	if failure == nil {
		failure = p.advance(ctx, step)
	}
	return p.finish(ctx, step, label, started, failure)
}

// runCommandStep runs a step consisting of one shell command whose
// text is also its label.
func (p *Pipeline) runCommandStep(ctx context.Context, step Step, command string) error {
	return p.runStep(ctx, step, command, func(ctx context.Context) *Failure {
		return p.command(ctx, command, command)
	})
}

// finish records the outcome of step and, on failure, reports it.
func (p *Pipeline) finish(ctx context.Context, step Step, label string, started time.Time, failure *Failure) error {
	duration := p.clock.Since(started)
	if failure != nil {
		p.journal.step(step, label, outcomeFailed, duration, failure)
		return p.fail(ctx, step, failure)
	}
	p.journal.step(step, label, outcomeOK, duration, nil)
	p.logger.Info("step complete", "step", int(step), "label", label, "duration", duration)
	return nil
}

// advance reports step as complete. A failed report is itself a
// failure of step.
func (p *Pipeline) advance(ctx context.Context, step Step) *Failure {
	if err := p.controlPlane.AdvanceStep(ctx, p.coderID, p.secret, int(step)); err != nil {
		return errorFailure(KindTransport, labelAdvance, err)
	}
	return nil
}

// fail sends the single failure report for step and returns the
// terminal error. A failed report is logged, not retried.
func (p *Pipeline) fail(ctx context.Context, step Step, failure *Failure) error {
	report := controlplane.FailureReport{
		CoderID: p.coderID,
		Secret:  p.secret,
		Step:    int(step),
		Command: failure.Label,
		Status:  failure.Status,
	}
	if failure.Kind == KindCommand {
		report.Stdout = failure.Stdout
		report.Stderr = failure.Stderr
	} else {
		report.Status = -1
		report.Stderr = failure.Trace
	}

	p.logger.Error("step failed",
		"step", int(step),
		"label", failure.Label,
		"kind", string(failure.Kind),
		"status", report.Status,
		"error", failure,
	)

	relayErr := p.controlPlane.RelayFailure(ctx, report)
	if relayErr != nil {
		p.logger.Error("failure report not delivered", "step", int(step), "error", relayErr)
	}
	return &StepError{Step: step, Failure: failure, RelayErr: relayErr}
}

// command runs a shell command, mapping a non-zero exit or a launch
// error to a failure labelled label.
func (p *Pipeline) command(ctx context.Context, label, command string) *Failure {
	result, err := p.executor.Execute(ctx, command, "")
	if err != nil {
		return errorFailure(KindIO, label, err)
	}
	if result.Status != 0 {
		return commandFailure(label, result)
	}
	return nil
}

// skip records steps that the plan does not call for.
func (p *Pipeline) skip(reason string, steps ...Step) {
	for _, step := range steps {
		p.journal.step(step, reason, outcomeSkipped, 0, nil)
	}
	p.logger.Info("steps skipped", "steps", steps, "reason", reason)
}

// failedStep extracts the step number from a terminal error.
func failedStep(err error) Step {
	var stepError *StepError
	if errors.As(err, &stepError) {
		return stepError.Step
	}
	var unrelayable *UnrelayableError
	if errors.As(err, &unrelayable) {
		return unrelayable.Step
	}
	return StepMarker
}
