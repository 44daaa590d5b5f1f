// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package wsstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gage-technologies/gigo-ws/lib/workspace"
)

// DefaultPath is the config file location inside a workspace.
const DefaultPath = "/home/gigo/.gigo/ws-config.json"

// ErrNotInitialized is returned by Load when no config has been saved.
var ErrNotInitialized = errors.New("workspace is not initialized")

// Store reads and writes the config file at Path.
type Store struct {
	Path string
}

// New returns a Store for path. An empty path uses DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: path}
}

// Initialized reports whether the config file exists. Stat errors other
// than non-existence are returned rather than treated as "not
// initialized", since re-running initialization against an existing
// workspace would clobber it.
func (s *Store) Initialized() (bool, error) {
	_, err := os.Stat(s.Path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking workspace config %s: %w", s.Path, err)
}

// Load reads and decodes the config file.
func (s *Store) Load() (*workspace.Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", s.Path, ErrNotInitialized)
		}
		return nil, fmt.Errorf("reading workspace config: %w", err)
	}
	var config workspace.Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("decoding workspace config %s: %w", s.Path, err)
	}
	return &config, nil
}

// Save writes config atomically, creating the parent directory if
// needed.
func (s *Store) Save(config *workspace.Config) error {
	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding workspace config: %w", err)
	}

	directory := filepath.Dir(s.Path)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	temporary, err := os.CreateTemp(directory, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary config file: %w", err)
	}
	temporaryPath := temporary.Name()
	committed := false
	defer func() {
		if !committed {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	if _, err := temporary.Write(data); err != nil {
		return fmt.Errorf("writing temporary config file: %w", err)
	}
	if err := temporary.Sync(); err != nil {
		return fmt.Errorf("syncing temporary config file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing temporary config file: %w", err)
	}
	if err := os.Chmod(temporaryPath, 0o600); err != nil {
		return fmt.Errorf("setting config file mode: %w", err)
	}
	if err := os.Rename(temporaryPath, s.Path); err != nil {
		return fmt.Errorf("installing workspace config: %w", err)
	}
	committed = true
	return nil
}
