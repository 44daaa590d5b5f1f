// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"fmt"
	"os"
	"strings"

	"github.com/gage-technologies/gigo-ws/lib/secret"
	"github.com/gage-technologies/gigo-ws/lib/workspace"
)

// DefaultHost is the internal git host whose URLs are rewritten to carry
// credentials.
const DefaultHost = "git.gage.intranet"

// DefaultConfigPath is the credential file location inside a workspace.
const DefaultConfigPath = "/home/gigo/.gitconfig"

// WriteConfig writes the user's global git config to path with mode
// 0600. The file sets the commit identity and rewrites every
// http://<host> URL to embed the user's name and token. An existing file
// is replaced.
//
// The token is copied out of its secret buffer only into a scratch
// slice that is zeroed before WriteConfig returns.
func WriteConfig(path, host string, identity *workspace.GitConfig) error {
	if identity == nil || identity.Token == nil {
		return fmt.Errorf("git identity has no token")
	}
	if host == "" {
		host = DefaultHost
	}
	for _, field := range []struct{ name, value string }{
		{"email", identity.Email},
		{"name", identity.Name},
		{"host", host},
	} {
		if strings.ContainsAny(field.value, "\n\"") {
			return fmt.Errorf("git %s %q contains a newline or quote", field.name, field.value)
		}
	}

	content := renderConfig(host, identity)
	defer secret.Zero(content)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("opening git config: %w", err)
	}
	if err := file.Chmod(0o600); err != nil {
		file.Close()
		return fmt.Errorf("setting git config mode: %w", err)
	}
	if _, err := file.Write(content); err != nil {
		file.Close()
		return fmt.Errorf("writing git config: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing git config: %w", err)
	}
	return nil
}

// renderConfig returns the credential file contents in one exactly
// sized allocation. The result holds the token; the caller zeroes it.
func renderConfig(host string, identity *workspace.GitConfig) []byte {
	header := fmt.Sprintf("[user]\n\temail = %s\n\tname = %s\n[url \"http://%s:", identity.Email, identity.Name, identity.Name)
	trailer := fmt.Sprintf("@%s\"]\n\tinsteadOf = http://%s\n", host, host)

	content := make([]byte, 0, len(header)+identity.Token.Len()+len(trailer))
	content = append(content, header...)
	content = append(content, identity.Token.Bytes()...)
	content = append(content, trailer...)
	return content
}
