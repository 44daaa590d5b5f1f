// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package shell

import "strings"

// Quote returns value unchanged when it consists only of characters that
// are safe unquoted in sh (the common case for URLs, paths, commit
// hashes, and extension identifiers), and single-quoted otherwise. The
// unquoted form keeps command text readable in failure reports.
func Quote(value string) string {
	if value == "" {
		return "''"
	}
	if strings.IndexFunc(value, func(r rune) bool { return !isSafe(r) }) < 0 {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

func isSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("@%+=:,./-_~", r)
}
