// Package selection narrows the discovered candidates to the files a caller
// asked for.
package selection

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/Veraticus/mesos-style/internal/discovery"
)

// Classifier explains why a path is not a candidate.
type Classifier interface {
	Classify(path string) discovery.Reason
}

// Dropped is a requested path that will not be linted.
type Dropped struct {
	Path   string
	Reason discovery.Reason
}

// Result is the outcome of Reduce.
type Result struct {
	// Targets are the files to lint, sorted.
	Targets []string
	// Dropped lists requested paths that are not candidates.
	Dropped []Dropped
}

// Reduce intersects the requested paths with candidates. With no requested
// paths every candidate is a target. Requested paths are made absolute so
// they compare equal to discovered ones regardless of OS separators; paths
// outside the intersection are dropped silently except for the reason
// recorded in Result.Dropped. classifier may be nil.
func Reduce(candidates, requested []string, classifier Classifier) Result {
	if len(requested) == 0 {
		targets := slices.Clone(candidates)
		slices.Sort(targets)
		return Result{Targets: targets}
	}

	candidateSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[c] = struct{}{}
	}

	var result Result
	seen := make(map[string]struct{}, len(requested))
	for _, arg := range requested {
		path, ok := normalize(arg)
		if !ok {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		if _, ok := candidateSet[path]; ok {
			result.Targets = append(result.Targets, path)
			continue
		}

		reason := discovery.ReasonOutsideRoots
		if classifier != nil {
			reason = classifier.Classify(path)
		}
		result.Dropped = append(result.Dropped, Dropped{Path: path, Reason: reason})
	}

	slices.Sort(result.Targets)
	return result
}

// normalize trims trailing whitespace, which file lists piped from other
// tools tend to carry, and makes the path absolute.
func normalize(arg string) (string, bool) {
	arg = strings.TrimRight(arg, " \t\r\n")
	if arg == "" {
		return "", false
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", false
	}
	return abs, true
}
