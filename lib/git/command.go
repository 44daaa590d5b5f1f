// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package git

import "github.com/gage-technologies/gigo-ws/lib/shell"

// CloneCommand returns the shell command that recursively clones repo
// into directory.
func CloneCommand(repo, directory string) string {
	return "git clone --recursive " + shell.Quote(repo) + " " + shell.Quote(directory)
}

// CheckoutCommand returns the shell command that checks out commit in
// directory.
func CheckoutCommand(directory, commit string) string {
	return "cd " + shell.Quote(directory) + " && git checkout " + shell.Quote(commit)
}
