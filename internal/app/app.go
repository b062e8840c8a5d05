// Package app runs one style check from discovery to exit code.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/afero"

	"github.com/Veraticus/mesos-style/internal/config"
	"github.com/Veraticus/mesos-style/internal/cpplint"
	"github.com/Veraticus/mesos-style/internal/ctxlog"
	"github.com/Veraticus/mesos-style/internal/discovery"
	"github.com/Veraticus/mesos-style/internal/output"
	"github.com/Veraticus/mesos-style/internal/report"
	"github.com/Veraticus/mesos-style/internal/selection"
	"github.com/Veraticus/mesos-style/internal/shared"
)

// Exit codes. A run with findings exits with the number of errors found,
// capped at MaxExitCode so large counts never wrap around to success.
const (
	ExitSuccess = 0
	ExitFailure = 1
	MaxExitCode = 255
)

// Options selects what to check.
type Options struct {
	Roots   []string
	Rules   []string
	Files   []string
	Verbose bool
}

// DefaultOptions checks the given files (all candidates when empty) with
// the fixed mesos roots and rules.
func DefaultOptions(files []string) Options {
	return Options{
		Roots: slices.Clone(config.SourceDirs),
		Rules: slices.Clone(config.ActiveRules),
		Files: files,
	}
}

// Dependencies holds all external dependencies.
type Dependencies struct {
	FS           afero.Fs
	Checker      cpplint.Checker
	Stdout       io.Writer
	Stderr       io.Writer
	Styles       shared.Styles
	StderrStyles shared.Styles
}

// NewDefaultDependencies creates production dependencies for cfg.
func NewDefaultDependencies(cfg *config.Config) *Dependencies {
	return &Dependencies{
		FS:           afero.NewOsFs(),
		Checker:      cpplint.NewScriptChecker(cfg.Linter.Python, cfg.Linter.Script, nil),
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Styles:       shared.NewStyles(shared.NewRenderer(os.Stdout, cfg.Output.Color)),
		StderrStyles: shared.NewStyles(shared.NewRenderer(os.Stderr, cfg.Output.Color)),
	}
}

// ExitCode maps an error count to a process exit code.
func ExitCode(errorsFound int) int {
	switch {
	case errorsFound <= 0:
		return ExitSuccess
	case errorsFound > MaxExitCode:
		return MaxExitCode
	default:
		return errorsFound
	}
}

// Run performs the check and returns the process exit code.
func Run(ctx context.Context, opts Options, deps *Dependencies) int {
	logger := ctxlog.FromContext(ctx)
	reporter := report.NewReporter(deps.Stdout, deps.Styles)
	finder := discovery.NewFinder(deps.FS)

	if err := finder.CheckRoots(opts.Roots); err != nil {
		var missing *discovery.MissingRootError
		if errors.As(err, &missing) {
			reporter.MissingRoot(missing.Root)
		} else {
			printError(deps, err)
		}
		return ExitFailure
	}

	candidates := finder.CandidateSet(ctx, opts.Roots)
	selected := selection.Reduce(candidates, opts.Files, finder)
	reportDropped(ctx, selected.Dropped, opts.Verbose, deps)

	if len(selected.Targets) == 0 {
		reporter.NoFiles()
		return ExitSuccess
	}

	filter := cpplint.RuleFilter(opts.Rules)
	reporter.Summary(len(selected.Targets), filter)

	errorsFound, captured, err := cpplint.LintAndCapture(ctx, deps.Checker, filter, selected.Targets)
	if err != nil {
		printError(deps, err)
		return ExitFailure
	}

	reporter.Diagnostics(report.FilterDiagnostics(captured))
	if errorsFound == 0 {
		reporter.Clean()
	}
	logger.Debug("lint finished", "files", len(selected.Targets), "errors", errorsFound)

	return ExitCode(errorsFound)
}

// reportDropped explains requested paths that were not linted. Standard
// output stays quiet about them; the reasons go to the log and, in verbose
// mode, to a list on stderr.
func reportDropped(ctx context.Context, dropped []selection.Dropped, verbose bool, deps *Dependencies) {
	if len(dropped) == 0 {
		return
	}

	logger := ctxlog.FromContext(ctx)
	groups := make(map[string][]string)
	for _, d := range dropped {
		logger.Debug("not linting requested path", "path", d.Path, "reason", d.Reason)
		groups[string(d.Reason)] = append(groups[string(d.Reason)], d.Path)
	}

	if verbose {
		list := output.NewListRenderer(deps.StderrStyles)
		_, _ = fmt.Fprint(deps.Stderr, list.RenderGrouped("Skipped paths", groups))
	}
}

func printError(deps *Dependencies, err error) {
	_, _ = fmt.Fprintln(deps.Stderr, deps.StderrStyles.Error.Render("Error: "+err.Error()))
}
