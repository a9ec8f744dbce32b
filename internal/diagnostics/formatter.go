package diagnostics

import (
	"fmt"
	"io"
	"strings"
)

// Formatter formats diagnostics for terminal display.
type Formatter struct {
	// ShowContext controls whether source excerpts are printed.
	ShowContext bool
}

// Format formats a single diagnostic.
func (f Formatter) Format(d Diagnostic) string {
	var b strings.Builder
	b.WriteString(d.String())
	if f.ShowContext && d.Context != "" {
		for _, line := range strings.Split(d.Context, "\n") {
			b.WriteString("\n    ")
			b.WriteString(line)
		}
	}
	return b.String()
}

// WriteAll writes every diagnostic of c followed by a newline.
func (f Formatter) WriteAll(w io.Writer, c *Collection) error {
	for _, d := range c.All() {
		if _, err := fmt.Fprintln(w, f.Format(d)); err != nil {
			return err
		}
	}
	return nil
}

// PrintSummary prints a one-line summary when c holds any diagnostics.
func (f Formatter) PrintSummary(w io.Writer, c *Collection) {
	s := c.Summary()
	if s.Total == 0 {
		return
	}
	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", s.Errors, s.Warnings)
}
