// Package shell runs blocks of shell script on behalf of cell commands.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// DefaultShell is the interpreter used when none is configured.
const DefaultShell = "/bin/sh"

const waitDelay = time.Second

// Executor runs blocks through "<shell> -c <block>".
type Executor struct {
	Shell  string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor creates an executor using shellPath (DefaultShell if empty)
// with output forwarded to the process stdout and stderr.
func NewExecutor(shellPath string) *Executor {
	if shellPath == "" {
		shellPath = DefaultShell
	}
	return &Executor{
		Shell:  shellPath,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes block and waits for it to finish.
// A non-zero exit status is returned as an error wrapping *exec.ExitError.
func (e *Executor) Run(ctx context.Context, block string) error {
	cmd := exec.CommandContext(ctx, e.Shell, "-c", block)
	cmd.Dir = e.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	// Children of the shell may keep the output pipes open after it is killed.
	cmd.WaitDelay = waitDelay

	slog.Debug("running block", "shell", e.Shell, "dir", e.Dir, "bytes", len(block))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("block exited with status %d: %w", exitErr.ExitCode(), err)
		}
		return fmt.Errorf("failed to run block: %w", err)
	}
	return nil
}
