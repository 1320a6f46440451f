package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// writeDiff prints a line diff of before and after, prefixing added lines
// with "+" and removed lines with "-". Nothing is printed when they match.
func writeDiff(w io.Writer, path, before, after string) {
	if before == after {
		return
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	fmt.Fprintf(w, "%s\n%s\n",
		color.New(color.Bold).Sprint("--- "+path),
		color.New(color.Bold).Sprint("+++ "+path))

	for _, d := range diffs {
		var prefix string
		var c *color.Color
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, c = "+", color.New(color.FgGreen)
		case diffmatchpatch.DiffDelete:
			prefix, c = "-", color.New(color.FgRed)
		default:
			prefix, c = " ", color.New(color.Faint)
		}
		for _, line := range splitLines(d.Text) {
			fmt.Fprintln(w, c.Sprint(prefix+line))
		}
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
