// Package diff renders unified diffs between two serialized kubeconfigs.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Result is a computed unified diff.
type Result struct {
	Unified string
	Changed bool
	Hunks   int
}

// Options configures diff computation.
type Options struct {
	FromLabel string
	ToLabel   string
	Context   int
}

// DefaultOptions labels the sides original and normalized with three lines
// of context.
func DefaultOptions() Options {
	return Options{
		FromLabel: "original",
		ToLabel:   "normalized",
		Context:   3,
	}
}

// Compute returns the unified diff of from against to.
func Compute(from, to string, opts Options) (*Result, error) {
	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(from),
		B:        lines(to),
		FromFile: opts.FromLabel,
		ToFile:   opts.ToLabel,
		Context:  opts.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	return &Result{
		Unified: unified,
		Changed: unified != "",
		Hunks:   strings.Count(unified, "\n@@"),
	}, nil
}

// Write prints r to w, colorizing added and removed lines when color is set.
func Write(w io.Writer, r *Result, color bool) {
	if !r.Changed {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(r.Unified, "\n"), "\n") {
		if !color {
			_, _ = fmt.Fprintln(w, line)
			continue
		}

		_, _ = fmt.Fprintln(w, colorize(line))
	}
}

func colorize(line string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		return bold + line + reset
	case strings.HasPrefix(line, "@@"):
		return cyan + line + reset
	case strings.HasPrefix(line, "-"):
		return red + line + reset
	case strings.HasPrefix(line, "+"):
		return green + line + reset
	default:
		return line
	}
}

// lines keeps trailing newlines, as difflib expects.
func lines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.SplitAfter(s, "\n")
}
