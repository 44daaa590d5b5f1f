// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/zeebo/blake3"
)

// TailSize is the maximum number of bytes of each output stream kept in
// a Result.
const TailSize = 64 * 1024

// logNameHashLength is the number of hex characters of the command hash
// used in derived log file names.
const logNameHashLength = 12

// Result is the outcome of one command.
type Result struct {
	// Status is the process exit code. A process killed by a signal
	// reports -1.
	Status int

	// Stdout and Stderr hold at most the last TailSize bytes written to
	// each stream. A multi-byte rune cut at the start of the window is
	// replaced with U+FFFD.
	Stdout string
	Stderr string
}

// Executor runs shell commands. The zero value writes derived log files
// to os.TempDir and discards log output.
type Executor struct {
	// LogDir is where derived log files are created when Execute is
	// called without an explicit path.
	LogDir string

	Logger *slog.Logger
}

// LogPath returns the stdout log path derived for command: the first
// twelve hex characters of the BLAKE3 hash of the command text under
// LogDir. The same command always maps to the same file.
func (e *Executor) LogPath(command string) string {
	digest := blake3.Sum256([]byte(command))
	name := "gigo-ws-init-cmd-" + hex.EncodeToString(digest[:])[:logNameHashLength] + ".log"
	directory := e.LogDir
	if directory == "" {
		directory = os.TempDir()
	}
	return filepath.Join(directory, name)
}

// Execute runs "sh -c command" in its own process group. Stdout streams
// to logPath and stderr to logPath+".err"; an empty logPath uses
// LogPath(command). A non-zero exit is reported through Result.Status,
// not as an error. The error return is reserved for failures to create
// the log files, start the process, or read the captured output back.
func (e *Executor) Execute(ctx context.Context, command, logPath string) (Result, error) {
	if logPath == "" {
		logPath = e.LogPath(command)
	}
	errPath := logPath + ".err"

	status, err := e.run(ctx, command, logPath, errPath)
	if err != nil {
		return Result{Status: -1}, err
	}

	stdout, err := readTail(logPath, TailSize)
	if err != nil {
		return Result{Status: status}, fmt.Errorf("reading stdout of %q: %w", command, err)
	}
	stderr, err := readTail(errPath, TailSize)
	if err != nil {
		return Result{Status: status, Stdout: stdout}, fmt.Errorf("reading stderr of %q: %w", command, err)
	}

	e.logger().Debug("command finished",
		"command", command,
		"status", status,
		"stdout_log", logPath,
		"stderr_log", errPath,
	)
	return Result{Status: status, Stdout: stdout, Stderr: stderr}, nil
}

// run executes the command with both log files open, closing them on
// every path before returning.
func (e *Executor) run(ctx context.Context, command, logPath, errPath string) (int, error) {
	stdoutFile, err := os.Create(logPath)
	if err != nil {
		return -1, fmt.Errorf("creating stdout log: %w", err)
	}
	defer stdoutFile.Close()

	stderrFile, err := os.Create(errPath)
	if err != nil {
		return -1, fmt.Errorf("creating stderr log: %w", err)
	}
	defer stderrFile.Close()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	e.logger().Debug("running command", "command", command)
	runErr := cmd.Run()

	if err := stdoutFile.Close(); err != nil {
		return -1, fmt.Errorf("closing stdout log: %w", err)
	}
	if err := stderrFile.Close(); err != nil {
		return -1, fmt.Errorf("closing stderr log: %w", err)
	}

	if runErr == nil {
		return 0, nil
	}
	var exitError *exec.ExitError
	if errors.As(runErr, &exitError) {
		return exitError.ExitCode(), nil
	}
	return -1, fmt.Errorf("running %q: %w", command, runErr)
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// readTail returns the last limit bytes of the file at path as valid
// UTF-8 text.
func readTail(path string, limit int64) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}
	offset := max(0, info.Size()-limit)
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		return "", err
	}
	return tailText(data, int(limit)), nil
}

// tailText converts the tail of a stream to valid UTF-8 of at most limit
// bytes. Continuation bytes left over from a rune cut by the window are
// dropped. Other invalid sequences become U+FFFD, and if that grows the
// text past limit its front is trimmed on a rune boundary.
func tailText(data []byte, limit int) string {
	for skipped := 0; skipped < utf8.UTFMax-1 && len(data) > 0 && !utf8.RuneStart(data[0]); skipped++ {
		data = data[1:]
	}
	text := strings.ToValidUTF8(string(data), string(utf8.RuneError))
	if len(text) <= limit {
		return text
	}
	cut := len(text) - limit
	for cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut++
	}
	return text[cut:]
}
