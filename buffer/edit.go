package buffer

import (
	"strings"

	"github.com/iw2rmb/textexpand/internal/grapheme"
)

// InsertText types s at the caret, replacing the selection if there is one.
func (b *Buffer) InsertText(s string) {
	if b.opt.SingleLine {
		s = stripNewlines(s)
	}
	if s == "" {
		b.DeleteSelection()
		return
	}

	r, ok := b.Selection()
	if !ok {
		r = Range{Start: b.cursor, End: b.cursor}
	}
	typ := InputInsertText
	if s == "\n" {
		typ = InputInsertLineBreak
	}
	b.edit(typ, r, s)
}

// DeleteBackward applies backspace semantics.
func (b *Buffer) DeleteBackward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}

	row, col := b.cursor.Row, b.cursor.GraphemeCol
	var start Pos
	switch {
	case row == 0 && col == 0:
		return
	case col > 0:
		start = Pos{Row: row, GraphemeCol: col - 1}
	default:
		start = Pos{Row: row - 1, GraphemeCol: len(b.lines[row-1])}
	}
	b.edit(InputDeleteContentBackward, Range{Start: start, End: b.cursor}, "")
}

// DeleteForward applies delete-key semantics.
func (b *Buffer) DeleteForward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}

	row, col := b.cursor.Row, b.cursor.GraphemeCol
	last := len(b.lines) - 1
	var end Pos
	switch {
	case row == last && col == len(b.lines[last]):
		return
	case col < len(b.lines[row]):
		end = Pos{Row: row, GraphemeCol: col + 1}
	default:
		end = Pos{Row: row + 1}
	}
	b.edit(InputDeleteContentForward, Range{Start: b.cursor, End: end}, "")
}

// DeleteSelection deletes the active selection, if any.
func (b *Buffer) DeleteSelection() {
	if r, ok := b.Selection(); ok {
		b.edit(InputDeleteContent, r, "")
	}
}

// Apply replaces ranges of text the way script edits a control, for
// example with setRangeText. Edits apply in order, each against the text
// left by the previous one. Ranges are clamped into bounds. The caret ends
// after the last effective edit and the selection is cleared.
//
// Apply reports whether the text changed.
func (b *Buffer) Apply(edits ...TextEdit) bool {
	return b.apply(InputInsertReplacementText, edits...)
}

func (b *Buffer) apply(typ InputType, edits ...TextEdit) bool {
	ch := b.beginChange(typ)
	for _, e := range edits {
		text := e.Text
		if b.opt.SingleLine {
			text = stripNewlines(text)
		}
		if ed, ok := b.replaceRange(e.Range, text); ok {
			ch.Edits = append(ch.Edits, ed)
		}
	}
	b.cursor = b.clampPos(b.cursor)
	return b.commit(ch)
}

// TextInRange returns the text covered by r.
func (b *Buffer) TextInRange(r Range) string {
	return joinRange(b.lines, b.clampRange(r))
}

func (b *Buffer) edit(typ InputType, r Range, text string) {
	ch := b.beginChange(typ)
	if ed, ok := b.replaceRange(r, text); ok {
		ch.Edits = append(ch.Edits, ed)
	}
	b.commit(ch)
}

// replaceRange swaps the clusters in r for text and leaves the caret after
// the inserted text. It does nothing when the text would not change.
func (b *Buffer) replaceRange(r Range, text string) (Edit, bool) {
	r = b.clampRange(r)
	deleted := joinRange(b.lines, r)
	if deleted == text {
		return Edit{}, false
	}

	start, end := r.Start, r.End
	head := b.lines[start.Row][:start.GraphemeCol]
	tail := b.lines[end.Row][end.GraphemeCol:]

	ins := splitLines(text)
	repl := make([][]string, len(ins))
	for i, line := range ins {
		var row []string
		if i == 0 {
			row = append(row, head...)
		}
		row = append(row, line...)
		if i == len(ins)-1 {
			b.cursor = Pos{Row: start.Row + i, GraphemeCol: len(row)}
			row = append(row, tail...)
		}
		repl[i] = row
	}

	out := make([][]string, 0, len(b.lines)-(end.Row-start.Row)+len(repl)-1)
	out = append(out, b.lines[:start.Row]...)
	out = append(out, repl...)
	out = append(out, b.lines[end.Row+1:]...)
	b.lines = out

	return Edit{Start: start, Deleted: deleted, Inserted: text}, true
}

func joinRange(lines [][]string, r Range) string {
	if r.IsEmpty() {
		return ""
	}
	start, end := r.Start, r.End
	if start.Row == end.Row {
		return grapheme.Join(lines[start.Row][start.GraphemeCol:end.GraphemeCol])
	}

	var sb strings.Builder
	sb.WriteString(grapheme.Join(lines[start.Row][start.GraphemeCol:]))
	for row := start.Row + 1; row < end.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(grapheme.Join(lines[row]))
	}
	sb.WriteByte('\n')
	sb.WriteString(grapheme.Join(lines[end.Row][:end.GraphemeCol]))
	return sb.String()
}
