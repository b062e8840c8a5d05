// Package discovery finds the C++ sources that should be style checked.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/Veraticus/mesos-style/internal/config"
	"github.com/Veraticus/mesos-style/internal/ctxlog"
)

// Reason explains why a path is not a lint candidate.
type Reason string

// Reasons reported by Classify.
const (
	ReasonMissing      Reason = "missing"
	ReasonExcluded     Reason = "excluded"
	ReasonNotSource    Reason = "not-source"
	ReasonOutsideRoots Reason = "outside-roots"
)

// MissingRootError reports a source root that cannot be found from the
// current working directory.
type MissingRootError struct {
	Root string
}

func (e *MissingRootError) Error() string {
	return fmt.Sprintf("could not find %q", e.Root)
}

// errStop ends a walk early when the consumer stops iterating.
var errStop = errors.New("stop walking")

// Finder walks source roots and selects candidate files.
type Finder struct {
	fs      afero.Fs
	exclude *regexp.Regexp
	source  *regexp.Regexp
}

// NewFinder creates a finder over fs using the fixed mesos exclusion and
// source patterns.
func NewFinder(fs afero.Fs) *Finder {
	return NewFinderWithPatterns(fs, config.ExcludeFiles, config.SourceFiles)
}

// NewFinderWithPatterns creates a finder with explicit patterns. exclude is
// matched against the whole slash-separated path, source against the base
// name only.
func NewFinderWithPatterns(fs afero.Fs, exclude, source *regexp.Regexp) *Finder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Finder{fs: fs, exclude: exclude, source: source}
}

// CheckRoots verifies every root is reachable. Roots are resolved against
// the working directory, so running from anywhere but the top of the source
// tree fails here.
func (f *Finder) CheckRoots(roots []string) error {
	for _, root := range roots {
		exists, err := afero.Exists(f.fs, root)
		if err != nil {
			return fmt.Errorf("stat %s: %w", root, err)
		}
		if !exists {
			return &MissingRootError{Root: root}
		}
	}
	return nil
}

// Candidates lazily yields the absolute path of every candidate file under
// root. The order follows the walk and carries no meaning.
func (f *Finder) Candidates(ctx context.Context, root string) iter.Seq[string] {
	logger := ctxlog.FromContext(ctx)

	return func(yield func(string) bool) {
		err := afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				logger.Debug("skipping unreadable path", "path", path, "error", err)
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() || !f.matches(path) {
				return nil
			}

			abs, absErr := filepath.Abs(path)
			if absErr != nil {
				logger.Debug("skipping path", "path", path, "error", absErr)
				return nil
			}
			if !yield(abs) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			logger.Debug("walk ended early", "root", root, "error", err)
		}
	}
}

// CandidateSet collects the candidates of all roots, without duplicates, in
// sorted order.
func (f *Finder) CandidateSet(ctx context.Context, roots []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, root := range roots {
		for path := range f.Candidates(ctx, root) {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}
	slices.Sort(out)

	ctxlog.FromContext(ctx).Debug("discovered candidates", "roots", roots, "count", len(out))
	return out
}

// Classify reports why path would not be a candidate. It is meant for paths
// already known to be outside the candidate set; a path that passes every
// filter is reported as lying outside the source roots.
func (f *Finder) Classify(path string) Reason {
	info, err := f.fs.Stat(path)
	if err != nil {
		return ReasonMissing
	}
	if f.excluded(relativeToWorkDir(path)) {
		return ReasonExcluded
	}
	if info.IsDir() || !f.source.MatchString(filepath.Base(path)) {
		return ReasonNotSource
	}
	return ReasonOutsideRoots
}

// relativeToWorkDir returns path as a walk from the working directory would
// see it, so directories above the source tree never match the exclusions.
// Paths outside the working directory are returned unchanged.
func relativeToWorkDir(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func (f *Finder) matches(path string) bool {
	return !f.excluded(path) && f.source.MatchString(filepath.Base(path))
}

// excluded matches on slash separators so patterns such as java/jni work on
// every OS.
func (f *Finder) excluded(path string) bool {
	return f.exclude.MatchString(filepath.ToSlash(path))
}
