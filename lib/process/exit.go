// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit status.
type exitCoder interface {
	ExitCode() int
}

// ExitCode returns the process exit status for err: 0 for nil, the
// error's own code when it (or anything it wraps) implements
// ExitCode() int, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// Report writes "error: err" to w. Nil errors write nothing.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

// Exit reports err to stderr and exits with ExitCode(err). A nil error
// exits 0 silently. This is the standard entrypoint tail:
//
//	func main() { process.Exit(run()) }
func Exit(err error) {
	Report(os.Stderr, err)
	os.Exit(ExitCode(err))
}

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
