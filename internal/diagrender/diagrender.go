// Package diagrender renders a compilation's diagnostics and summary
// counts for a terminal, the way the teacher's evaluator package detects
// color support (internal/evaluator/builtins_term.go's detectColorLevel)
// before deciding whether to decorate output, and renders counts with
// github.com/dustin/go-humanize instead of raw integers.
package diagrender

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// colorSupported mirrors detectColorLevel's terminal/NO_COLOR checks,
// collapsed to a boolean since this renderer only ever bolds or doesn't.
func colorSupported(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	bold  = "\x1b[1m"
	red   = "\x1b[31m"
	green = "\x1b[32m"
	reset = "\x1b[0m"
)

// Renderer writes run summaries and errors to an output stream, decorating
// with color only when that stream is a real terminal.
type Renderer struct {
	out   io.Writer
	color bool
}

// New builds a Renderer writing to out. Color is auto-detected when out is
// an *os.File; any other io.Writer (a buffer, a log file) never gets color.
func New(out io.Writer) *Renderer {
	r := &Renderer{out: out}
	if f, ok := out.(*os.File); ok {
		r.color = colorSupported(f)
	}
	return r
}

func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + reset
}

// Failure reports a fatal compilation error, with the run ID (if any) for
// correlating against logs.
func (r *Renderer) Failure(runID string, err error) {
	prefix := r.paint(bold+red, "FAIL")
	if runID != "" {
		fmt.Fprintf(r.out, "%s [%s]: %v\n", prefix, runID, err)
		return
	}
	fmt.Fprintf(r.out, "%s: %v\n", prefix, err)
}

// Summary reports successful completion with label/constraint/dynamic-label
// counts, humanized with thousands separators ("12,345" rather than a bare
// "12345") since counts grow large once programs do.
func (r *Renderer) Summary(runID string, nLabels, nConstraints, nDynamic int) {
	ok := r.paint(bold+green, "OK")
	var run string
	if runID != "" {
		run = fmt.Sprintf(" [%s]", runID)
	}
	fmt.Fprintf(r.out, "%s%s: %s labels, %s constraints, %s dynamic\n",
		ok, run,
		humanize.Comma(int64(nLabels)),
		humanize.Comma(int64(nConstraints)),
		humanize.Comma(int64(nDynamic)),
	)
}

// CountDynamic counts the set bits of a Mark array, used by Summary's
// caller; kept here since it's purely a rendering-input computation.
func CountDynamic(mark []bool) int {
	n := 0
	for _, b := range mark {
		if b {
			n++
		}
	}
	return n
}
