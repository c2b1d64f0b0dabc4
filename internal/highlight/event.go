package highlight

import (
	"cmp"
	"slices"

	"github.com/alnah/go-mdrender/internal/scope"
)

// EventKind tells a span opening from a span closing.
type EventKind uint8

const (
	// EventPush opens a span of Category at Offset.
	EventPush EventKind = iota + 1
	// EventPop closes the innermost open span at Offset.
	EventPop
)

func (k EventKind) String() string {
	switch k {
	case EventPush:
		return "push"
	case EventPop:
		return "pop"
	default:
		return "invalid"
	}
}

// Event is one entry of a highlight stream. Offsets are byte offsets into
// the highlighted source and never decrease along a stream; pushes and pops
// are balanced.
type Event struct {
	Offset   int
	Kind     EventKind
	Category scope.Category
}

// interval is a categorised byte range collected before nesting.
// order breaks ties between intervals with the same bounds.
type interval struct {
	start, end int
	cat        scope.Category
	order      int
}

// nest sorts intervals and sweeps them into a balanced event stream over
// [0, n). A child crossing its parent's end is clipped to the parent.
func nest(ivs []interval, n int) []Event {
	kept := ivs[:0]
	for _, iv := range ivs {
		iv.start = max(iv.start, 0)
		iv.end = min(iv.end, n)
		if iv.start < iv.end {
			kept = append(kept, iv)
		}
	}
	slices.SortStableFunc(kept, func(a, b interval) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		if c := cmp.Compare(b.end, a.end); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	events := make([]Event, 0, 2*len(kept))
	var stack []interval
	for _, iv := range kept {
		for len(stack) > 0 && stack[len(stack)-1].end <= iv.start {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			events = append(events, Event{Offset: top.end, Kind: EventPop, Category: top.cat})
		}
		if len(stack) > 0 {
			iv.end = min(iv.end, stack[len(stack)-1].end)
		}
		events = append(events, Event{Offset: iv.start, Kind: EventPush, Category: iv.cat})
		stack = append(stack, iv)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		events = append(events, Event{Offset: stack[i].end, Kind: EventPop, Category: stack[i].cat})
	}
	return events
}

// claim gives a resolved injection exclusive ownership of [start, end).
// Parent intervals strictly inside are dropped, crossing ones are clipped
// and enclosing ones are kept.
func claim(ivs []interval, start, end int) []interval {
	out := ivs[:0]
	for _, iv := range ivs {
		switch {
		case iv.end <= start || iv.start >= end:
		case iv.start <= start && iv.end >= end:
		case iv.start >= start && iv.end <= end:
			continue
		case iv.start < start:
			iv.end = start
		default:
			iv.start = end
		}
		out = append(out, iv)
	}
	return out
}
