package highlight

import (
	"bytes"
	"context"
	"io"

	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdrender/internal/grammar"
)

const (
	spanOpen  = `<span class="`
	spanMid   = `">`
	spanClose = "</span>"
)

// errWriter remembers the first write error so a render loop can stay flat.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(p []byte) {
	if ew.err != nil || len(p) == 0 {
		return
	}
	_, ew.err = ew.w.Write(p)
}

func (ew *errWriter) writeString(s string) {
	ew.write([]byte(s))
}

// RenderHTML writes src with events applied as nested spans. Text between
// events is escaped exactly once; spans left open at the end are closed.
func RenderHTML(w io.Writer, src []byte, events []Event) error {
	ew := &errWriter{w: w}
	cursor, depth := 0, 0

	for _, ev := range events {
		off := min(max(ev.Offset, cursor), len(src))
		ew.write(util.EscapeHTML(src[cursor:off]))
		cursor = off

		switch ev.Kind {
		case EventPush:
			ew.writeString(spanOpen)
			ew.writeString(ev.Category.Class())
			ew.writeString(spanMid)
			depth++
		case EventPop:
			if depth > 0 {
				ew.writeString(spanClose)
				depth--
			}
		}
	}

	ew.write(util.EscapeHTML(src[cursor:]))
	for ; depth > 0; depth-- {
		ew.writeString(spanClose)
	}
	return ew.err
}

// EscapeText escapes &, <, > and " for use in HTML text and attributes.
func EscapeText(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// HTML highlights src and renders it. On fallback it returns the escaped
// source together with the error, so callers can log and carry on.
func (h *Highlighter) HTML(ctx context.Context, lang grammar.Language, src []byte) (string, error) {
	events, err := h.Highlight(ctx, lang, src)
	if err != nil {
		return string(util.EscapeHTML(src)), err
	}
	var buf bytes.Buffer
	buf.Grow(len(src) + len(events)*16)
	if err := RenderHTML(&buf, src, events); err != nil {
		return "", err
	}
	return buf.String(), nil
}
