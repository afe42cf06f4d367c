// Package observability provides formatted console output for validation reports, builds and searches.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/resume-vault/internal/pipeline"
	"github.com/jonathan/resume-vault/internal/search"
	"github.com/jonathan/resume-vault/internal/validation"
	"github.com/muesli/termenv"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// ColorMode selects when ANSI colours are emitted
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Printer handles formatted output. Successes go to out, failures to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	pass   lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
	dim    lipgloss.Style
}

// NewPrinter creates a Printer. In auto mode colour is used only when the writer is a terminal.
func NewPrinter(out, errOut io.Writer, mode ColorMode) *Printer {
	r := lipgloss.NewRenderer(errOut)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		out:    out,
		errOut: errOut,
		pass:   r.NewStyle().Foreground(lipgloss.Color("2")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("1")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("3")),
		dim:    r.NewStyle().Faint(true),
	}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(w io.Writer, title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(w, "┌%s┐\n", border)
	fmt.Fprintf(w, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(w, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(w, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(w, "└%s┘\n", border)
}

// PrintReport outputs a validation report: grouped [FAIL] lines and a footer on failure,
// a single [PASS] line otherwise.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReport(r *validation.Report) {
	if r == nil {
		return
	}
	if r.Passed() {
		fmt.Fprintf(p.out, "%s %d files checked, 0 errors found.\n", p.pass.Render("[PASS]"), r.FilesChecked)
		return
	}

	for _, g := range r.ByFile() {
		fmt.Fprintf(p.errOut, "\n%s:\n", g.File)
		for _, v := range g.Violations {
			loc := ""
			if v.Line != nil {
				loc = fmt.Sprintf(" (line %d)", *v.Line)
			}
			if v.Field != "" {
				fmt.Fprintf(p.errOut, "  %s %s - %s%s\n", p.fail.Render("[FAIL]"), v.Field, v.Message, loc)
			} else {
				fmt.Fprintf(p.errOut, "  %s %s%s\n", p.fail.Render("[FAIL]"), v.Message, loc)
			}
		}
	}
	fmt.Fprintf(p.errOut, "\n%d files checked, %d errors found.\n", r.FilesChecked, len(r.Violations))
}

// PrintInternalError outputs an environment failure that prevented validation or a build.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintInternalError(err error) {
	fmt.Fprintf(p.errOut, "%s %v\n", p.fail.Render("[ERROR]"), err)
}

// PrintProgress outputs one build step event.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(e pipeline.ProgressEvent) {
	if e.Message == "failed" {
		fmt.Fprintf(p.errOut, "  %-18s %s\n", e.Step, p.fail.Render("failed"))
		return
	}
	fmt.Fprintf(p.out, "  %-18s %s\n", e.Step, p.dim.Render(fmt.Sprintf("%dms", e.DurationMS)))
}

// PrintBuildSummary outputs the artifacts and warnings of a finished build.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBuildSummary(res *pipeline.Result) {
	if res == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Manifest: %s\n", res.Manifest))
	sb.WriteString(fmt.Sprintf("Template: %s (%s)\n", res.Template, res.Format))
	sb.WriteString(fmt.Sprintf("Output:   %s\n", res.OutputPath))
	sb.WriteString(fmt.Sprintf("Context:  %s\n", res.ContextPath))
	if res.PDFPath != "" {
		sb.WriteString(fmt.Sprintf("PDF:      %s\n", res.PDFPath))
	}
	sb.WriteString(fmt.Sprintf("Revision: %s\n", res.Meta.Revision))
	sb.WriteString(fmt.Sprintf("Total:    %.1fms", float64(res.Total.Microseconds())/1000))
	p.printBox(p.out, "BUILD COMPLETE", sb.String())

	for _, w := range res.Warnings {
		p.PrintWarning(w)
	}
}

// PrintWarning outputs a non-fatal problem.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintWarning(msg string) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.warn.Render("[WARN]"), msg)
}

// PrintBuildFailure outputs the single error that stopped a build.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintBuildFailure(err error) {
	fmt.Fprintf(p.errOut, "%s Build failed: %v\n", p.fail.Render("[FAIL]"), err)
}

// PrintSearchResults outputs scored search hits.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSearchResults(query string, hits []search.Hit) {
	if len(hits) == 0 {
		fmt.Fprintf(p.out, "No matches for %q.\n", query)
		return
	}
	fmt.Fprintf(p.out, "%d matches for %q:\n\n", len(hits), query)
	for _, h := range hits {
		id := h.ID
		if h.Parent != "" {
			id = h.Parent + "/" + h.ID
		}
		fmt.Fprintf(p.out, "%4d  %-8s %s\n", h.Score, h.Type, id)
		fmt.Fprintf(p.out, "      %s\n", p.dim.Render(h.File))
		fmt.Fprintf(p.out, "      %s\n", h.Snippet)
	}
}
