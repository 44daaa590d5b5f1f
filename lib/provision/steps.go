// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gage-technologies/gigo-ws/lib/git"
	"github.com/gage-technologies/gigo-ws/lib/shell"
	"github.com/gage-technologies/gigo-ws/lib/workspace"
)

// initialize registers the workspace (step 1). Until the response
// yields a secret, failures cannot be reported.
func (p *Pipeline) initialize(ctx context.Context) error {
	started := p.clock.Now()
	p.logger.Info("step started", "step", int(StepRemoteInit), "label", labelRemoteInit)

	fields, err := p.controlPlane.Initialize(ctx, p.coderID)
	if err == nil {
		p.secret, err = workspace.SecretOf(fields)
	}
	if err != nil {
		p.journal.step(StepRemoteInit, labelRemoteInit, outcomeFailed, p.clock.Since(started),
			errorFailure(KindTransport, labelRemoteInit, err))
		return &UnrelayableError{Step: StepRemoteInit, Err: err}
	}

	failure := p.splitInit(fields)
	if failure == nil {
		failure = p.advance(ctx, StepRemoteInit)
	}
	return p.finish(ctx, StepRemoteInit, labelRemoteInit, started, failure)
}

// splitInit separates the initialization response into the config to
// persist and the git identity to write.
func (p *Pipeline) splitInit(fields map[string]json.RawMessage) *Failure {
	config, identity, err := workspace.SplitInit(fields)
	if err != nil {
		return errorFailure(KindData, labelRemoteInit, err)
	}
	if !identity.Token.Locked() {
		p.logger.Warn("git token memory could not be locked and may be swapped")
	}
	p.config = config
	p.identity = identity
	return nil
}

// reload reads the persisted config in place of steps 1-5 (step 14).
// Without the config there is no secret, so failures to load it cannot
// be reported.
func (p *Pipeline) reload(ctx context.Context) error {
	started := p.clock.Now()
	p.logger.Info("step started", "step", int(StepReload), "label", labelReload)

	config, err := p.state.Load()
	if err == nil && config.Secret == "" {
		err = fmt.Errorf("persisted workspace config has no secret")
	}
	if err != nil {
		p.journal.step(StepReload, labelReload, outcomeFailed, p.clock.Since(started),
			errorFailure(KindIO, labelReload, err))
		return &UnrelayableError{Step: StepReload, Err: err}
	}
	p.config = config
	p.secret = config.Secret

	return p.finish(ctx, StepReload, labelReload, started, p.advance(ctx, StepReload))
}

// writeGitConfig writes the credential file (step 2) and releases the
// token.
func (p *Pipeline) writeGitConfig(context.Context) *Failure {
	err := git.WriteConfig(p.plan.Paths.GitConfig, p.plan.Git.Host, p.identity)
	if closeErr := p.identity.Close(); closeErr != nil {
		p.logger.Warn("releasing git token", "error", closeErr)
	}
	p.identity = nil
	if err != nil {
		return errorFailure(KindIO, labelGitConfig, err)
	}
	return nil
}

// saveConfig persists the workspace config (step 3). From here on the
// workspace counts as initialized.
func (p *Pipeline) saveConfig(context.Context) *Failure {
	if err := p.state.Save(p.config); err != nil {
		return errorFailure(KindIO, labelWorkspaceConfig, err)
	}
	return nil
}

func (p *Pipeline) cloneCommand() string {
	return git.CloneCommand(p.config.Repo, p.plan.WorkingDirectory)
}

func (p *Pipeline) checkoutCommand() string {
	return git.CheckoutCommand(p.plan.WorkingDirectory, p.config.Commit)
}

// containers brings up the workspace's container services (steps 6-8)
// when the plan defines any.
func (p *Pipeline) containers(ctx context.Context) error {
	if !p.plan.ContainersConfigured() {
		p.skip("containers not configured", StepContainerDir, StepCompose, StepContainersUp)
		return nil
	}

	directory := p.plan.Paths.ContainerDir
	if err := p.runStep(ctx, StepContainerDir, labelContainerDir, func(context.Context) *Failure {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return errorFailure(KindIO, labelContainerDir, err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := p.runStep(ctx, StepCompose, labelCompose, p.writeCompose); err != nil {
		return err
	}

	return p.runCommandStep(ctx, StepContainersUp, "cd "+shell.Quote(directory)+" && sudo docker-compose up -d")
}

// writeCompose validates the container definition and writes it as
// docker-compose.yml (step 7).
func (p *Pipeline) writeCompose(context.Context) *Failure {
	var document map[string]any
	if err := yaml.Unmarshal([]byte(p.plan.Containers), &document); err != nil {
		return errorFailure(KindData, labelCompose, fmt.Errorf("container definition is not valid YAML: %w", err))
	}
	if len(document) == 0 {
		return errorFailure(KindData, labelCompose, fmt.Errorf("container definition is empty"))
	}

	path := filepath.Join(p.plan.Paths.ContainerDir, composeFileName)
	if err := os.WriteFile(path, []byte(p.plan.Containers), 0o644); err != nil {
		return errorFailure(KindIO, labelCompose, err)
	}
	return nil
}

// userCommands runs the plan's shell executions in order (step 9).
// Init-only executions are skipped when the workspace was already
// initialized at the start of the run. The first failure aborts.
func (p *Pipeline) userCommands(ctx context.Context) error {
	started := p.clock.Now()
	p.logger.Info("step started", "step", int(StepUserCommands), "label", labelUserCommands)

	executions, err := p.plan.ParseExecutions()
	if err != nil {
		return p.finish(ctx, StepUserCommands, labelLoadExecutions, started,
			errorFailure(KindData, labelLoadExecutions, err))
	}

	var failure *Failure
	for _, execution := range executions {
		if execution.Init && p.initialized {
			p.logger.Info("skipping init-only command", "name", execution.Name)
			continue
		}
		p.logger.Info("running command", "name", execution.Name)
		if failure = p.command(ctx, execution.Name, execution.Command); failure != nil {
			break
		}
	}
	if failure == nil {
		failure = p.advance(ctx, StepUserCommands)
	}
	return p.finish(ctx, StepUserCommands, labelUserCommands, started, failure)
}

// editor installs the editor and its extensions and then runs it
// (steps 10-12). The launch blocks until the editor exits, so steps 11
// and 12 are both reported complete before it starts.
func (p *Pipeline) editor(ctx context.Context) error {
	if !p.plan.Editor.Enabled {
		p.skip("editor disabled", StepEditorInstall, StepExtensions, StepEditorLaunch)
		return nil
	}

	if err := p.runCommandStep(ctx, StepEditorInstall, p.plan.Editor.InstallCommand); err != nil {
		return err
	}
	if err := p.runStep(ctx, StepExtensions, labelExtensions, p.installExtensions); err != nil {
		return err
	}

	launch := shell.Quote(p.plan.Editor.Binary) + " --auth none --port " + strconv.Itoa(p.plan.Editor.Port)
	started := p.clock.Now()
	p.logger.Info("step started", "step", int(StepEditorLaunch), "label", launch)

	failure := p.advance(ctx, StepEditorLaunch)
	if failure == nil {
		failure = p.command(ctx, launch, launch)
	}
	return p.finish(ctx, StepEditorLaunch, launch, started, failure)
}

// installExtensions installs each configured extension, then downloads
// and installs the vendor extension (step 11).
func (p *Pipeline) installExtensions(ctx context.Context) *Failure {
	binary := shell.Quote(p.plan.Editor.Binary)
	for _, extension := range p.plan.Editor.Extensions {
		command := binary + " --install-extension " + shell.Quote(extension)
		if failure := p.command(ctx, command, command); failure != nil {
			return failure
		}
	}

	destination := p.plan.Paths.VendorExtension
	if err := p.controlPlane.FetchExtension(ctx, p.config.WorkspaceIDString, p.secret, destination); err != nil {
		return errorFailure(KindTransport, labelVendorDownload, err)
	}
	command := binary + " --install-extension " + shell.Quote(destination)
	return p.command(ctx, command, command)
}
