// Package report filters captured cpplint output and prints what matters.
package report

import (
	"fmt"
	"io"
	"regexp"

	"github.com/Veraticus/mesos-style/internal/shared"
)

// diagnosticLine matches the path:line: prefix cpplint puts on every finding.
var diagnosticLine = regexp.MustCompile(`:\d+:`)

// FilterDiagnostics keeps the lines that are findings, dropping progress
// noise such as "Done processing foo.cc" which would otherwise dominate.
func FilterDiagnostics(lines []string) []string {
	var out []string
	for _, line := range lines {
		if diagnosticLine.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}

// Reporter writes user facing output.
type Reporter struct {
	out    io.Writer
	styles shared.Styles
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, styles shared.Styles) *Reporter {
	return &Reporter{out: out, styles: styles}
}

// Summary announces how many files are checked and with which filter.
func (r *Reporter) Summary(files int, filter string) {
	r.println(r.styles.Info.Render(fmt.Sprintf("Checking %d files using filter %s", files, filter)))
}

// NoFiles reports an empty selection.
func (r *Reporter) NoFiles() {
	r.println(r.styles.Warning.Render("No files to lint"))
}

// Diagnostics prints each finding verbatim.
func (r *Reporter) Diagnostics(lines []string) {
	for _, line := range lines {
		r.println(line)
	}
}

// Clean reports a run without findings.
func (r *Reporter) Clean() {
	r.println(r.styles.Success.Render("No errors found"))
}

// MissingRoot tells the user the tool was started from the wrong directory.
func (r *Reporter) MissingRoot(root string) {
	r.println(r.styles.Error.Render(fmt.Sprintf("Could not find %q", root)))
	r.println("Please run from the root of the mesos source directory")
}

func (r *Reporter) println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}
