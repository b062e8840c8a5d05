// Package cpplint invokes Google's cpplint and captures what it reports.
//
// cpplint is treated as a black box: it takes a --filter argument and a list
// of files, prints diagnostics to stderr and finishes with a line of the form
// "Total errors found: N".
package cpplint

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/mesos-style/internal/ctxlog"
)

// Checker is anything that can style check files. Output goes to the given
// writers rather than the process streams, so callers decide where it ends up.
type Checker interface {
	Check(ctx context.Context, filter string, paths []string, stdout, stderr io.Writer) (int, error)
}

// RuleFilter builds the cpplint filter argument that disables every check
// and then enables only rules.
func RuleFilter(rules []string) string {
	if len(rules) == 0 {
		return "--filter=-"
	}
	return "--filter=-,+" + strings.Join(rules, ",+")
}

var totalErrors = regexp.MustCompile(`^Total errors found: (\d+)\s*$`)

// ScriptChecker runs cpplint.py through a Python interpreter.
type ScriptChecker struct {
	python string
	script string
	runner CommandRunner
}

// NewScriptChecker creates a checker that runs script with python.
func NewScriptChecker(python, script string, runner CommandRunner) *ScriptChecker {
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &ScriptChecker{python: python, script: script, runner: runner}
}

// Check lints paths and returns the number of errors cpplint found. cpplint
// exits with status 1 whenever it reports errors, which is not a failure of
// the call itself.
func (c *ScriptChecker) Check(
	ctx context.Context,
	filter string,
	paths []string,
	stdout, stderr io.Writer,
) (int, error) {
	python, err := c.runner.LookPath(c.python)
	if err != nil {
		return 0, fmt.Errorf("find python interpreter: %w", err)
	}

	args := make([]string, 0, len(paths)+2)
	args = append(args, c.script, filter)
	args = append(args, paths...)

	var seen bytes.Buffer
	runErr := c.runner.RunContext(ctx, stdout, io.MultiWriter(stderr, &seen), python, args...)

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return 0, fmt.Errorf("run cpplint: %w", runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	if total, ok := parseTotal(seen.Bytes()); ok {
		return total, nil
	}
	if exitCode != 0 {
		return 0, fmt.Errorf("cpplint exited with status %d: %s", exitCode, lastLine(seen.Bytes()))
	}
	// Quiet cpplint builds print no total when nothing was found.
	return 0, nil
}

func parseTotal(stderr []byte) (int, bool) {
	total, found := 0, false
	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	for scanner.Scan() {
		m := totalErrors.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		total, found = n, true
	}
	return total, found
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimRight(string(b), "\r\n"), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// LintAndCapture runs checker with both output streams captured in memory
// and returns the error count together with the captured stderr split into
// lines. Each call gets its own buffers, so nothing process-wide is touched.
func LintAndCapture(ctx context.Context, checker Checker, filter string, paths []string) (int, []string, error) {
	var stdout, stderr bytes.Buffer

	count, err := checker.Check(ctx, filter, paths, &stdout, &stderr)

	if stdout.Len() > 0 {
		ctxlog.FromContext(ctx).Debug("cpplint stdout", "output", stdout.String())
	}
	if err != nil {
		return 0, nil, err
	}

	// stderr may come through a tty layer that adds carriage returns
	lines := strings.Split(stderr.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return count, lines, nil
}
