package pipeline

import (
	"strings"
	"unicode"
)

// Slugify lowercases s and collapses every run of characters that are
// neither letters nor digits into a single dash, trimming dashes at both
// ends. Duplicate headings get duplicate slugs.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
