package buffer

// Pos is a caret position: a row and a grapheme column within it.
type Pos struct {
	Row         int
	GraphemeCol int
}

// Before reports whether p comes before q in the text.
func (p Pos) Before(q Pos) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.GraphemeCol < q.GraphemeCol
}

// Range is the half-open span [Start, End).
type Range struct {
	Start Pos
	End   Pos
}

// TextEdit replaces the text in Range with Text, which may hold '\n'.
type TextEdit struct {
	Range Range
	Text  string
}

// NormalizeRange orders r so that Start is not after End.
func NormalizeRange(r Range) Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// clampPos moves p onto the nearest position inside the text.
func (b *Buffer) clampPos(p Pos) Pos {
	p.Row = clampInt(p.Row, 0, len(b.lines)-1)
	p.GraphemeCol = clampInt(p.GraphemeCol, 0, len(b.lines[p.Row]))
	return p
}

func (b *Buffer) clampRange(r Range) Range {
	return NormalizeRange(Range{Start: b.clampPos(r.Start), End: b.clampPos(r.End)})
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
