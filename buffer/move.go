package buffer

import "github.com/iw2rmb/textexpand/internal/grapheme"

// Step is how far one caret motion travels.
type Step uint8

const (
	StepCluster  Step = iota // one grapheme cluster
	StepWord                 // to the next word edge, across line breaks
	StepRow                  // to the row above or below, keeping the column
	StepLineEdge             // to the start or end of the current row
	StepValue                // to the start or end of the whole value
)

// Direction of a caret motion through the value.
type Direction uint8

const (
	Backward Direction = iota
	Forward
)

// Motion is one caret movement, as produced by an arrow, Home or End key.
//
// Without Extend a selection collapses first. A cluster step stops at the
// selection edge it points to; longer steps continue from that edge.
// With Extend the selection anchor stays put and the caret moves.
type Motion struct {
	By     Step
	Toward Direction
	Extend bool
}

// Move applies m and reports whether the caret or selection changed.
func (b *Buffer) Move(m Motion) bool {
	from := b.cursor
	anchor := b.cursor
	if b.sel.active {
		anchor = b.sel.anchor
	}

	if !m.Extend {
		if r, ok := b.Selection(); ok {
			edge := r.Start
			if m.Toward == Forward {
				edge = r.End
			}
			if m.By == StepCluster {
				return b.place(edge, selectionState{})
			}
			from = edge
		}
		return b.place(b.step(from, m), selectionState{})
	}

	to := b.step(from, m)
	if to == anchor {
		return b.place(to, selectionState{})
	}
	return b.place(to, selectionState{active: true, anchor: anchor, end: to})
}

func (b *Buffer) place(caret Pos, sel selectionState) bool {
	caret = b.clampPos(caret)
	if caret == b.cursor && sel == b.sel {
		return false
	}
	b.cursor = caret
	b.sel = sel
	b.version++
	return true
}

func (b *Buffer) step(p Pos, m Motion) Pos {
	last := len(b.lines) - 1
	back := m.Toward == Backward

	switch m.By {
	case StepCluster:
		if back {
			return b.retreat(p)
		}
		return b.advance(p)

	case StepWord:
		if back {
			return b.wordStart(p)
		}
		return b.wordEnd(p)

	case StepRow:
		// A single-line input has no rows to move to; browsers send the
		// caret to the matching end of the value instead.
		switch {
		case b.opt.SingleLine || (back && p.Row == 0) || (!back && p.Row == last):
			return b.step(p, Motion{By: StepValue, Toward: m.Toward})
		case back:
			return Pos{Row: p.Row - 1, GraphemeCol: min(p.GraphemeCol, len(b.lines[p.Row-1]))}
		default:
			return Pos{Row: p.Row + 1, GraphemeCol: min(p.GraphemeCol, len(b.lines[p.Row+1]))}
		}

	case StepLineEdge:
		if back {
			return Pos{Row: p.Row}
		}
		return Pos{Row: p.Row, GraphemeCol: len(b.lines[p.Row])}

	case StepValue:
		if back {
			return Pos{}
		}
		return Pos{Row: last, GraphemeCol: len(b.lines[last])}
	}
	return p
}

// retreat returns the boundary one cluster before p. A line break counts
// as one cluster.
func (b *Buffer) retreat(p Pos) Pos {
	switch {
	case p.GraphemeCol > 0:
		return Pos{Row: p.Row, GraphemeCol: p.GraphemeCol - 1}
	case p.Row > 0:
		return Pos{Row: p.Row - 1, GraphemeCol: len(b.lines[p.Row-1])}
	}
	return p
}

func (b *Buffer) advance(p Pos) Pos {
	switch {
	case p.GraphemeCol < len(b.lines[p.Row]):
		return Pos{Row: p.Row, GraphemeCol: p.GraphemeCol + 1}
	case p.Row < len(b.lines)-1:
		return Pos{Row: p.Row + 1}
	}
	return p
}

// cluster returns the cluster just after p, with line breaks as "\n" and
// "" at the end of the value.
func (b *Buffer) cluster(p Pos) string {
	if p.GraphemeCol < len(b.lines[p.Row]) {
		return b.lines[p.Row][p.GraphemeCol]
	}
	if p.Row < len(b.lines)-1 {
		return "\n"
	}
	return ""
}

// wordStart skips the whitespace and line breaks before p, then the word
// before that.
func (b *Buffer) wordStart(p Pos) Pos {
	for p != (Pos{}) && grapheme.IsSpace(b.cluster(b.retreat(p))) {
		p = b.retreat(p)
	}
	for p != (Pos{}) && !grapheme.IsSpace(b.cluster(b.retreat(p))) {
		p = b.retreat(p)
	}
	return p
}

// wordEnd skips the whitespace and line breaks after p, then the word
// after that.
func (b *Buffer) wordEnd(p Pos) Pos {
	for c := b.cluster(p); c != "" && grapheme.IsSpace(c); c = b.cluster(p) {
		p = b.advance(p)
	}
	for c := b.cluster(p); c != "" && !grapheme.IsSpace(c); c = b.cluster(p) {
		p = b.advance(p)
	}
	return p
}
