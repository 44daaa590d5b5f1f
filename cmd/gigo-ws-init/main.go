// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/gage-technologies/gigo-ws/lib/clock"
	"github.com/gage-technologies/gigo-ws/lib/controlplane"
	"github.com/gage-technologies/gigo-ws/lib/logging"
	"github.com/gage-technologies/gigo-ws/lib/plan"
	"github.com/gage-technologies/gigo-ws/lib/process"
	"github.com/gage-technologies/gigo-ws/lib/provision"
	"github.com/gage-technologies/gigo-ws/lib/shell"
	"github.com/gage-technologies/gigo-ws/lib/version"
	"github.com/gage-technologies/gigo-ws/lib/wsstate"
)

const binaryName = "gigo-ws-init"

// errHelp is returned by parseArguments when usage was requested.
var errHelp = errors.New("help requested")

func main() {
	// Handle --version before anything else.
	for _, argument := range os.Args[1:] {
		if argument == "--version" {
			version.Print(binaryName)
			return
		}
	}

	arguments, err := parseArguments(os.Args[1:], os.Stderr)
	if errors.Is(err, errHelp) {
		return
	}
	if err != nil {
		process.Fatal(err)
	}

	process.Exit(run(arguments))
}

// arguments holds the parsed command line.
type arguments struct {
	workspaceID string
}

func parseArguments(args []string, output io.Writer) (*arguments, error) {
	flags := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {
		fmt.Fprintf(output, "Usage: %s --workspace-id <id>\n\nProvisions this workspace.\n\nFlags:\n", binaryName)
		flags.PrintDefaults()
	}

	var parsed arguments
	flags.StringVar(&parsed.workspaceID, "workspace-id", "", "workspace id registered with the control plane (required)")
	showHelp := flags.BoolP("help", "h", false, "show this help")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, errHelp
		}
		return nil, err
	}
	if *showHelp {
		flags.Usage()
		return nil, errHelp
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}
	parsed.workspaceID = strings.TrimSpace(parsed.workspaceID)
	if parsed.workspaceID == "" {
		return nil, fmt.Errorf("--workspace-id is required")
	}
	return &parsed, nil
}

func run(arguments *arguments) error {
	provisioningPlan, err := plan.Load()
	if err != nil {
		return err
	}
	if issues := provisioningPlan.Validate(); len(issues) > 0 {
		return fmt.Errorf("%w: %s", plan.ErrInvalid, strings.Join(issues, "; "))
	}
	timeout, err := provisioningPlan.RequestTimeout()
	if err != nil {
		return err
	}

	baseLogger, logCloser, err := logging.New(logging.Options{
		Level: provisioningPlan.Log.Level,
		File:  provisioningPlan.Log.File,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	runID := uuid.NewString()
	logger := baseLogger.With("run_id", runID, "workspace", arguments.workspaceID)
	logger.Info("starting", "version", version.Info(), "control_plane", provisioningPlan.ControlPlane.URL)

	realClock := clock.Real()
	journal, err := provision.OpenJournal(provisioningPlan.JournalPath(), runID, realClock, logger)
	if err != nil {
		logger.Warn("run journal disabled", "error", err)
	}
	defer journal.Close()

	pipeline, err := provision.New(provision.Config{
		CoderID:  arguments.workspaceID,
		Plan:     provisioningPlan,
		Executor: &shell.Executor{
			LogDir: provisioningPlan.Paths.CommandLogs,
			Logger: logging.Component(logger, "shell"),
		},
		ControlPlane: controlplane.New(provisioningPlan.ControlPlane.URL, controlplane.Options{Timeout: timeout}),
		State:        wsstate.New(provisioningPlan.ConfigPath()),
		Clock:        realClock,
		Journal:      journal,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	err = pipeline.Run(context.Background())
	logOutcome(logger, err)
	return err
}

// logOutcome writes the final record of a run.
func logOutcome(logger *slog.Logger, err error) {
	var stepError *provision.StepError
	var unrelayable *provision.UnrelayableError
	switch {
	case err == nil:
		logger.Info("workspace provisioned")
	case errors.As(err, &stepError):
		logger.Error("provisioning failed", "step", int(stepError.Step), "reported", stepError.RelayErr == nil)
	case errors.As(err, &unrelayable):
		logger.Error("provisioning failed before the control plane issued a secret", "step", int(unrelayable.Step), "error", unrelayable.Err)
	default:
		logger.Error("provisioning failed", "error", err)
	}
}
