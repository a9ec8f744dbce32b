package diagnostics

import (
	"fmt"
	"strings"
)

// Excerpt returns the line of content at line (1-based) with a caret under
// column, prefixed by the line number. It returns "" when line is out of
// range.
func Excerpt(content []byte, line, column int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	if line > len(lines) {
		return ""
	}
	text := lines[line-1]
	prefix := fmt.Sprintf("%d | ", line)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(text)
	if column > 0 {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", len(prefix)))
		for i := 0; i < column-1 && i < len(text); i++ {
			if text[i] == '\t' {
				b.WriteByte('\t')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('^')
	}
	return b.String()
}
