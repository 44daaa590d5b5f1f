// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gage-technologies/gigo-ws/lib/controlplane"
	"github.com/gage-technologies/gigo-ws/lib/git"
)

// DefaultPath is the plan location when GIGO_WS_PLAN is unset.
const DefaultPath = "/home/gigo/.gigo/ws-plan.yaml"

// Environment variables read by Load.
const (
	PathEnv         = "GIGO_WS_PLAN"
	ControlPlaneEnv = "GIGO_WS_CONTROL_PLANE"
	LogLevelEnv     = "GIGO_WS_LOG_LEVEL"
)

// ContainersSentinel is the value the templating step leaves in the
// containers field when the workspace has no container definition.
const ContainersSentinel = "<containers>"

// ErrInvalid wraps the issues reported by Validate.
var ErrInvalid = errors.New("invalid plan")

// Plan is the provisioning plan for one workspace.
type Plan struct {
	// WorkingDirectory is where the repository is cloned and where user
	// commands are expected to operate.
	WorkingDirectory string `yaml:"working_directory"`

	// Containers is the docker-compose definition, or ContainersSentinel.
	Containers string `yaml:"containers"`

	// Exec is the JSONC list of user commands. See ParseExecutions.
	Exec string `yaml:"exec"`

	Editor       EditorConfig       `yaml:"editor"`
	ControlPlane ControlPlaneConfig `yaml:"control_plane"`
	Git          GitConfig          `yaml:"git"`
	Paths        PathsConfig        `yaml:"paths"`
	Log          LogConfig          `yaml:"log"`
}

// EditorConfig configures the browser-accessible editor.
type EditorConfig struct {
	Enabled bool `yaml:"enabled"`

	// Extensions are marketplace identifiers installed in order before
	// the vendor extension.
	Extensions []string `yaml:"extensions"`

	// Port the editor listens on.
	// Default: 13337
	Port int `yaml:"port"`

	// InstallCommand installs the editor runtime.
	// Default: curl -fsSL https://code-server.dev/install.sh | sh
	InstallCommand string `yaml:"install_command"`

	// Binary is the editor executable.
	// Default: code-server
	Binary string `yaml:"binary"`
}

// ControlPlaneConfig configures the control-plane client.
type ControlPlaneConfig struct {
	// URL is the base address. Overridden by GIGO_WS_CONTROL_PLANE.
	// Default: http://gigo.gage.intranet
	URL string `yaml:"url"`

	// Timeout bounds each request, as a Go duration. Empty means no
	// timeout.
	Timeout string `yaml:"timeout"`
}

// GitConfig configures source control.
type GitConfig struct {
	// Host is the internal git host whose URLs carry credentials.
	// Default: git.gage.intranet
	Host string `yaml:"host"`
}

// PathsConfig configures file locations. ${HOME} and ${VAR:-default}
// are expanded.
type PathsConfig struct {
	// StateDir holds the workspace config file and the run journal.
	StateDir string `yaml:"state_dir"`

	// GitConfig is the credential file.
	GitConfig string `yaml:"git_config"`

	// ContainerDir receives docker-compose.yml.
	ContainerDir string `yaml:"container_dir"`

	// CommandLogs receives per-command stdout/stderr files.
	CommandLogs string `yaml:"command_logs"`

	// VendorExtension is where the vendor extension is downloaded.
	VendorExtension string `yaml:"vendor_extension"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Overridden by
	// GIGO_WS_LOG_LEVEL.
	Level string `yaml:"level"`

	// File is an optional rotating log file, in addition to stderr.
	File string `yaml:"file"`
}

// Default returns a plan with every non-templated field set.
func Default() *Plan {
	return &Plan{
		Containers: ContainersSentinel,
		Editor: EditorConfig{
			Port:           13337,
			InstallCommand: "curl -fsSL https://code-server.dev/install.sh | sh",
			Binary:         "code-server",
		},
		ControlPlane: ControlPlaneConfig{
			URL: controlplane.DefaultBaseURL,
		},
		Git: GitConfig{
			Host: git.DefaultHost,
		},
		Paths: PathsConfig{
			StateDir:        "/home/gigo/.gigo",
			GitConfig:       git.DefaultConfigPath,
			ContainerDir:    "/home/gigo/.gigo/containers",
			CommandLogs:     "/tmp",
			VendorExtension: "/tmp/gigo-developer.vsix",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the plan from GIGO_WS_PLAN, or DefaultPath when unset.
func Load() (*Plan, error) {
	path := os.Getenv(PathEnv)
	if path == "" {
		path = DefaultPath
	}
	return LoadFile(path)
}

// LoadFile loads the plan at path over Default and applies environment
// overrides. A missing file is an error.
func LoadFile(path string) (*Plan, error) {
	plan := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}

	plan.applyEnvironment()
	plan.expandVariables()
	return plan, nil
}

func (p *Plan) applyEnvironment() {
	if value := os.Getenv(ControlPlaneEnv); value != "" {
		p.ControlPlane.URL = value
	}
	if value := os.Getenv(LogLevelEnv); value != "" {
		p.Log.Level = value
	}
}

func (p *Plan) expandVariables() {
	p.WorkingDirectory = expandVars(p.WorkingDirectory)
	p.Paths.StateDir = expandVars(p.Paths.StateDir)
	p.Paths.GitConfig = expandVars(p.Paths.GitConfig)
	p.Paths.ContainerDir = expandVars(p.Paths.ContainerDir)
	p.Paths.CommandLogs = expandVars(p.Paths.CommandLogs)
	p.Paths.VendorExtension = expandVars(p.Paths.VendorExtension)
	p.Log.File = expandVars(p.Log.File)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default} with environment
// values.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// ContainersConfigured reports whether the plan carries a container
// definition. The sentinel and an all-whitespace value both mean none.
func (p *Plan) ContainersConfigured() bool {
	trimmed := strings.TrimSpace(p.Containers)
	return trimmed != "" && trimmed != ContainersSentinel
}

// RequestTimeout returns the control-plane request timeout, zero when
// unset.
func (p *Plan) RequestTimeout() (time.Duration, error) {
	if p.ControlPlane.Timeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(p.ControlPlane.Timeout)
	if err != nil {
		return 0, fmt.Errorf("control_plane.timeout: %w", err)
	}
	return timeout, nil
}

// ConfigPath returns the workspace config file inside StateDir.
func (p *Plan) ConfigPath() string {
	return filepath.Join(p.Paths.StateDir, "ws-config.json")
}

// JournalPath returns the run journal inside StateDir.
func (p *Plan) JournalPath() string {
	return filepath.Join(p.Paths.StateDir, "logs", "ws-init-results.jsonl")
}

// Validate checks the plan for structural problems and returns one
// message per issue. An empty result means the plan is usable. The exec
// list is not checked; it is parsed when the command step runs.
func (p *Plan) Validate() []string {
	var issues []string

	if p.WorkingDirectory == "" {
		issues = append(issues, "working_directory is required")
	} else if !filepath.IsAbs(p.WorkingDirectory) {
		issues = append(issues, fmt.Sprintf("working_directory %q must be absolute", p.WorkingDirectory))
	}

	if p.ControlPlane.URL == "" {
		issues = append(issues, "control_plane.url is required")
	}
	if _, err := p.RequestTimeout(); err != nil {
		issues = append(issues, err.Error())
	} else if strings.HasPrefix(p.ControlPlane.Timeout, "-") {
		issues = append(issues, fmt.Sprintf("control_plane.timeout %q must not be negative", p.ControlPlane.Timeout))
	}

	if p.Git.Host == "" {
		issues = append(issues, "git.host is required")
	}

	if p.Editor.Enabled {
		if p.Editor.Port <= 0 || p.Editor.Port > 65535 {
			issues = append(issues, fmt.Sprintf("editor.port %d is out of range", p.Editor.Port))
		}
		if p.Editor.Binary == "" {
			issues = append(issues, "editor.binary is required when the editor is enabled")
		}
		if p.Editor.InstallCommand == "" {
			issues = append(issues, "editor.install_command is required when the editor is enabled")
		}
		for index, extension := range p.Editor.Extensions {
			if strings.TrimSpace(extension) == "" {
				issues = append(issues, fmt.Sprintf("editor.extensions[%d] is empty", index))
			}
		}
	}

	for _, path := range []struct{ name, value string }{
		{"paths.state_dir", p.Paths.StateDir},
		{"paths.git_config", p.Paths.GitConfig},
		{"paths.container_dir", p.Paths.ContainerDir},
		{"paths.command_logs", p.Paths.CommandLogs},
		{"paths.vendor_extension", p.Paths.VendorExtension},
	} {
		if path.value == "" {
			issues = append(issues, path.name+" is required")
		} else if !filepath.IsAbs(path.value) {
			issues = append(issues, fmt.Sprintf("%s %q must be absolute", path.name, path.value))
		}
	}

	if p.Log.File != "" && !filepath.IsAbs(p.Log.File) {
		issues = append(issues, fmt.Sprintf("log.file %q must be absolute", p.Log.File))
	}

	return issues
}
