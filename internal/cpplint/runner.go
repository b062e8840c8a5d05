package cpplint

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// CommandRunner executes external commands with their output attached to the
// given writers.
type CommandRunner interface {
	RunContext(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
	LookPath(file string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// RunContext runs name with args and waits for it to exit.
func (r *ExecRunner) RunContext(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run command %s: %w", name, err)
	}
	return nil
}

// LookPath searches for an executable named file in PATH.
func (r *ExecRunner) LookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	if err != nil {
		return "", fmt.Errorf("look path %s: %w", file, err)
	}
	return path, nil
}
