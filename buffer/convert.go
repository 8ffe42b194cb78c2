package buffer

// Len returns the document length as a flat offset.
func (b *Buffer) Len() int {
	total := 0
	for _, line := range b.lines {
		total += len(line)
	}
	return total + len(b.lines) - 1
}

// OffsetFromPos converts p (clamped into bounds) to a flat grapheme offset.
func (b *Buffer) OffsetFromPos(p Pos) int {
	p = b.clampPos(p)
	off := 0
	for row := 0; row < p.Row; row++ {
		off += len(b.lines[row]) + 1
	}
	return off + p.GraphemeCol
}

// PosFromOffset converts a flat grapheme offset to a position, clamping
// out-of-range offsets to the document bounds.
func (b *Buffer) PosFromOffset(off int) Pos {
	if off <= 0 {
		return Pos{}
	}
	for row, line := range b.lines {
		if off <= len(line) {
			return Pos{Row: row, GraphemeCol: off}
		}
		off -= len(line) + 1
	}
	lastRow := len(b.lines) - 1
	return Pos{Row: lastRow, GraphemeCol: len(b.lines[lastRow])}
}

// PosFromByteOffset converts a byte offset into Text() to a position.
// ok is false when off is out of range or falls inside a grapheme cluster.
func (b *Buffer) PosFromByteOffset(off int) (Pos, bool) {
	p, inside, ok := b.ClusterAtByteOffset(off)
	return p, ok && inside == 0
}

// ClusterAtByteOffset returns the position of the grapheme boundary at or
// before byte offset off into Text(), and how many bytes of the following
// cluster lie between that boundary and off.
func (b *Buffer) ClusterAtByteOffset(off int) (p Pos, inside int, ok bool) {
	if off < 0 {
		return Pos{}, 0, false
	}
	cur := 0
	for row, line := range b.lines {
		if off == cur {
			return Pos{Row: row}, 0, true
		}
		for col, cluster := range line {
			next := cur + len(cluster)
			if off < next {
				return Pos{Row: row, GraphemeCol: col}, off - cur, true
			}
			cur = next
			if off == cur {
				return Pos{Row: row, GraphemeCol: col + 1}, 0, true
			}
		}
		if row < len(b.lines)-1 {
			cur++
		}
	}
	return Pos{}, 0, false
}

// TextBefore returns the document text from the start up to p.
func (b *Buffer) TextBefore(p Pos) string {
	return b.TextInRange(Range{End: p})
}
