// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package provision

// Step is a provisioning step number as reported to the control plane.
// Numbers are part of the wire contract and never change.
type Step int

const (
	// StepMarker is the initialization check that precedes every run.
	// It is never reported.
	StepMarker Step = 0

	StepRemoteInit      Step = 1
	StepGitConfig       Step = 2
	StepWorkspaceConfig Step = 3
	StepClone           Step = 4
	StepCheckout        Step = 5
	StepContainerDir    Step = 6
	StepCompose         Step = 7
	StepContainersUp    Step = 8
	StepUserCommands    Step = 9
	StepEditorInstall   Step = 10
	StepExtensions      Step = 11
	StepEditorLaunch    Step = 12
	StepReload          Step = 14
)

// Labels reported for steps that do not run a command.
const (
	labelRemoteInit      = "remote initialization"
	labelGitConfig       = "write git config"
	labelWorkspaceConfig = "write workspace config"
	labelContainerDir    = "create container directory"
	labelCompose         = "write container compose"
	labelLoadExecutions  = "load shell executions"
	labelVendorDownload  = "download vendor extension"
	labelReload          = "read workspace config"
	labelCheckMarker     = "check workspace initialization"
	labelUserCommands    = "run shell executions"
	labelExtensions      = "install editor extensions"

	// labelAdvance is reported when the step itself succeeded but the
	// progress report for it did not.
	labelAdvance = "update remote server"
)

const composeFileName = "docker-compose.yml"
