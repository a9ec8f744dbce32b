package render

import (
	"bytes"
	"strings"
)

// textWriter tracks indentation and defers list separators until the next
// element actually produces output, so elements that render nothing leave
// no stray separators behind.
type textWriter struct {
	buf         bytes.Buffer
	tab         string
	depth       int
	atLineStart bool
	pending     string
}

func newTextWriter(tab string) *textWriter {
	return &textWriter{tab: tab, atLineStart: true}
}

func (w *textWriter) write(s string) {
	if s == "" {
		return
	}
	if w.pending != "" {
		pending := w.pending
		w.pending = ""
		w.write(pending)
	}
	for s != "" {
		line, rest, hasNewline := strings.Cut(s, "\n")
		if line != "" {
			if w.atLineStart {
				w.buf.WriteString(strings.Repeat(w.tab, w.depth))
			}
			w.buf.WriteString(line)
			w.atLineStart = false
		}
		if !hasNewline {
			break
		}
		w.buf.WriteByte('\n')
		w.atLineStart = true
		s = rest
	}
}

func (w *textWriter) line(s string) {
	w.write(s)
	w.write("\n")
}

// separate queues sep to be written before the next non-empty write.
func (w *textWriter) separate(sep string) { w.pending = sep }

func (w *textWriter) dropSeparator() { w.pending = "" }

func (w *textWriter) indent()  { w.depth++ }
func (w *textWriter) outdent() { w.depth-- }

func (w *textWriter) len() int { return w.buf.Len() }

func (w *textWriter) bytes() []byte { return w.buf.Bytes() }
