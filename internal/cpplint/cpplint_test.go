package cpplint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"testing"
)

// helperRunner re-executes the test binary as a fake cpplint.
type helperRunner struct{}

func (helperRunner) RunContext(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	helperArgs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
	return (&ExecRunner{}).RunContext(ctx, stdout, stderr, os.Args[0], helperArgs...)
}

func (helperRunner) LookPath(file string) (string, error) {
	return file, nil
}

// TestHelperProcess is not a real test. It stands in for cpplint when
// GO_WANT_HELPER_PROCESS is set.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	fmt.Fprintln(os.Stdout, strings.Join(args, " "))

	switch os.Getenv("HELPER_MODE") {
	case "findings":
		fmt.Fprintln(os.Stderr, "/repo/src/a.cc:3:  Line ends in whitespace.  [whitespace/end_of_line] [4]")
		fmt.Fprintln(os.Stderr, "Done processing /repo/src/a.cc")
		fmt.Fprintln(os.Stderr, "/repo/src/b.cc:10:  Tab found; better to use spaces  [whitespace/tab] [1]")
		fmt.Fprintln(os.Stderr, "Done processing /repo/src/b.cc")
		fmt.Fprintln(os.Stderr, "Total errors found: 2")
		os.Exit(1)
	case "clean":
		fmt.Fprintln(os.Stderr, "Done processing /repo/src/a.cc")
		fmt.Fprintln(os.Stderr, "Total errors found: 0")
		os.Exit(0)
	case "quiet":
		os.Exit(0)
	case "broken":
		fmt.Fprintln(os.Stderr, "python: can't open file 'support/cpplint.py'")
		os.Exit(2)
	}
	os.Exit(0)
}

type mockRunner struct {
	runFunc      func(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
	lookPathFunc func(file string) (string, error)
}

func (m *mockRunner) RunContext(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, stdout, stderr, name, args...)
	}
	return nil
}

func (m *mockRunner) LookPath(file string) (string, error) {
	if m.lookPathFunc != nil {
		return m.lookPathFunc(file)
	}
	return file, nil
}

func TestRuleFilter(t *testing.T) {
	tests := []struct {
		name  string
		rules []string
		want  string
	}{
		{"no rules", nil, "--filter=-"},
		{"one rule", []string{"whitespace/tab"}, "--filter=-,+whitespace/tab"},
		{"several rules", []string{"build/class", "runtime/vlog", "whitespace/todo"},
			"--filter=-,+build/class,+runtime/vlog,+whitespace/todo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RuleFilter(tt.rules); got != tt.want {
				t.Errorf("RuleFilter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScriptChecker(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")

	t.Run("findings are counted", func(t *testing.T) {
		t.Setenv("HELPER_MODE", "findings")
		checker := NewScriptChecker("python", "support/cpplint.py", helperRunner{})

		var stdout, stderr bytes.Buffer
		count, err := checker.Check(context.Background(), "--filter=-,+whitespace/tab",
			[]string{"/repo/src/a.cc", "/repo/src/b.cc"}, &stdout, &stderr)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected 2 errors, got %d", count)
		}
		wantArgs := "python support/cpplint.py --filter=-,+whitespace/tab /repo/src/a.cc /repo/src/b.cc"
		if !strings.Contains(stdout.String(), wantArgs) {
			t.Errorf("Expected args %q, got %q", wantArgs, stdout.String())
		}
		if !strings.Contains(stderr.String(), "Done processing /repo/src/b.cc") {
			t.Errorf("Expected stderr to be forwarded, got %q", stderr.String())
		}
	})

	t.Run("clean run", func(t *testing.T) {
		t.Setenv("HELPER_MODE", "clean")
		checker := NewScriptChecker("python", "cpplint.py", helperRunner{})

		count, err := checker.Check(context.Background(), "--filter=-", []string{"/repo/src/a.cc"},
			io.Discard, io.Discard)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected 0 errors, got %d", count)
		}
	})

	t.Run("no total on success", func(t *testing.T) {
		t.Setenv("HELPER_MODE", "quiet")
		checker := NewScriptChecker("python", "cpplint.py", helperRunner{})

		count, err := checker.Check(context.Background(), "--filter=-", nil, io.Discard, io.Discard)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected 0 errors, got %d", count)
		}
	})

	t.Run("failing script is an error", func(t *testing.T) {
		t.Setenv("HELPER_MODE", "broken")
		checker := NewScriptChecker("python", "support/cpplint.py", helperRunner{})

		_, err := checker.Check(context.Background(), "--filter=-", nil, io.Discard, io.Discard)
		if err == nil {
			t.Fatal("Expected error")
		}
		if !strings.Contains(err.Error(), "status 2") || !strings.Contains(err.Error(), "can't open file") {
			t.Errorf("Unexpected error message: %v", err)
		}
	})
}

func TestScriptCheckerRunnerErrors(t *testing.T) {
	t.Run("interpreter missing", func(t *testing.T) {
		runner := &mockRunner{
			lookPathFunc: func(file string) (string, error) {
				return "", fmt.Errorf("look path %s: not found", file)
			},
			runFunc: func(context.Context, io.Writer, io.Writer, string, ...string) error {
				t.Fatal("Should not run without an interpreter")
				return nil
			},
		}

		_, err := NewScriptChecker("python9", "cpplint.py", runner).Check(
			context.Background(), "--filter=-", nil, io.Discard, io.Discard)
		if err == nil || !strings.Contains(err.Error(), "python9") {
			t.Errorf("Expected interpreter error, got %v", err)
		}
	})

	t.Run("start failure", func(t *testing.T) {
		startErr := errors.New("exec format error")
		runner := &mockRunner{
			runFunc: func(context.Context, io.Writer, io.Writer, string, ...string) error {
				return startErr
			},
		}

		_, err := NewScriptChecker("python", "cpplint.py", runner).Check(
			context.Background(), "--filter=-", nil, io.Discard, io.Discard)
		if !errors.Is(err, startErr) {
			t.Errorf("Expected wrapped start error, got %v", err)
		}
	})
}

type mockChecker struct {
	checkFunc func(ctx context.Context, filter string, paths []string, stdout, stderr io.Writer) (int, error)
}

func (m *mockChecker) Check(ctx context.Context, filter string, paths []string, stdout, stderr io.Writer) (int, error) {
	return m.checkFunc(ctx, filter, paths, stdout, stderr)
}

func TestLintAndCapture(t *testing.T) {
	t.Run("captures stderr lines", func(t *testing.T) {
		var gotFilter string
		var gotPaths []string
		checker := &mockChecker{
			checkFunc: func(_ context.Context, filter string, paths []string, stdout, stderr io.Writer) (int, error) {
				gotFilter, gotPaths = filter, paths
				fmt.Fprint(stdout, "progress\n")
				fmt.Fprint(stderr, "a.cc:1:  bad  [whitespace/tab] [1]\r\nDone processing a.cc\n")
				return 1, nil
			},
		}

		count, lines, err := LintAndCapture(context.Background(), checker, "--filter=-,+whitespace/tab", []string{"a.cc"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected count 1, got %d", count)
		}
		if gotFilter != "--filter=-,+whitespace/tab" || !slices.Equal(gotPaths, []string{"a.cc"}) {
			t.Errorf("Checker called with %q %v", gotFilter, gotPaths)
		}
		want := []string{"a.cc:1:  bad  [whitespace/tab] [1]", "Done processing a.cc", ""}
		if !slices.Equal(lines, want) {
			t.Errorf("Lines = %q, want %q", lines, want)
		}
	})

	t.Run("propagates checker error", func(t *testing.T) {
		checker := &mockChecker{
			checkFunc: func(context.Context, string, []string, io.Writer, io.Writer) (int, error) {
				return 0, errors.New("boom")
			},
		}

		if _, _, err := LintAndCapture(context.Background(), checker, "--filter=-", nil); err == nil {
			t.Fatal("Expected error")
		}
	})
}
