package pipeline

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

// Heading level bounds.
const (
	minHeadingLevel = 1
	maxHeadingLevel = 6
)

// depthState tracks the nesting depth of TOC entries.
// Supports normalization (first heading becomes depth 1) and gap skipping.
type depthState struct {
	minLevelSeen int // for normalization (0 = not set)
	lastDepth    int // for tracking parent relationships
}

// next returns the effective depth for the given heading level.
func (d *depthState) next(level int) int {
	// Initialize minLevelSeen on first heading
	if d.minLevelSeen == 0 {
		d.minLevelSeen = level
	}

	// Calculate effective depth (1-based, normalized)
	depth := level - d.minLevelSeen + 1
	if depth < 1 {
		depth = 1
	}

	// Handle gap skipping: if we jump levels, treat as direct child
	// E.g., H2 -> H4 becomes depth 1 -> depth 2 (not depth 3)
	if d.lastDepth > 0 && depth > d.lastDepth+1 {
		depth = d.lastDepth + 1
	}
	d.lastDepth = depth
	return depth
}

// BuildTOC renders anchors with minLevel <= Level <= maxLevel as nested
// lists inside <nav class="toc">. It returns "" when no anchor qualifies.
func BuildTOC(anchors []Anchor, minLevel, maxLevel int) string {
	minLevel = max(minLevel, minHeadingLevel)
	maxLevel = min(maxLevel, maxHeadingLevel)

	var buf strings.Builder
	var depths depthState
	cur := 0

	for _, a := range anchors {
		if a.Level < minLevel || a.Level > maxLevel {
			continue
		}
		if cur == 0 {
			buf.WriteString(`<nav class="toc">` + "\n")
		}

		depth := depths.next(a.Level)
		if depth > cur {
			buf.WriteString("<ul>\n")
			cur = depth
		} else {
			buf.WriteString("</li>\n")
			for ; cur > depth; cur-- {
				buf.WriteString("</ul>\n</li>\n")
			}
		}

		buf.WriteString(`<li><a href="#`)
		buf.Write(util.EscapeHTML([]byte(a.ID)))
		buf.WriteString(`">`)
		buf.Write(util.EscapeHTML([]byte(a.Text)))
		buf.WriteString("</a>")
	}

	if cur == 0 {
		return ""
	}
	for ; cur > 0; cur-- {
		buf.WriteString("</li>\n</ul>\n")
	}
	buf.WriteString("</nav>")
	return buf.String()
}
