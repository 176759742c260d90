// Package runner abstracts external process invocation behind a narrow
// interface so callers can be tested without real binaries.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes an external command and reports its exit status as an error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive the command's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner that forwards command output to the
// process's own stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// NewQuietRunner returns a runner that discards all command output.
func NewQuietRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns an error on a non-zero exit.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("%s exited with code %d", name, exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s: %w", name, err)
	}

	return nil
}
