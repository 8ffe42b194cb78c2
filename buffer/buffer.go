package buffer

import (
	"strings"

	"github.com/iw2rmb/textexpand/internal/grapheme"
)

type Options struct {
	// SingleLine strips line breaks from inserted text, matching the value
	// sanitization of single-line inputs.
	SingleLine bool
}

type selectionState struct {
	active bool
	anchor Pos
	end    Pos
}

// Buffer is the pure value state of a form control: text, caret, and selection.
type Buffer struct {
	lines       [][]string
	version     uint64
	textVersion uint64

	cursor Pos
	sel    selectionState

	opt Options

	last *Change
}

func New(text string, opt Options) *Buffer {
	if opt.SingleLine {
		text = stripNewlines(text)
	}
	return &Buffer{
		lines: splitLines(text),
		opt:   opt,
	}
}

func (b *Buffer) Text() string {
	if len(b.lines) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(grapheme.Join(line))
	}
	return sb.String()
}

// Version increments on every effective change, including caret moves.
func (b *Buffer) Version() uint64 { return b.version }

// TextVersion increments only when the text changes.
func (b *Buffer) TextVersion() uint64 { return b.textVersion }

func (b *Buffer) Options() Options { return b.opt }

func (b *Buffer) LineCount() int { return len(b.lines) }

func (b *Buffer) LineLen(row int) int { return b.lineLen(row) }

// Line returns the text of a single logical line.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return grapheme.Join(b.lines[row])
}

func (b *Buffer) Cursor() Pos { return b.cursor }

func (b *Buffer) SetCursor(p Pos) {
	next := b.clampPos(p)
	if next == b.cursor && !b.sel.active {
		return
	}
	b.cursor = next
	b.sel = selectionState{}
	b.version++
}

func (b *Buffer) Selection() (Range, bool) {
	if !b.sel.active {
		return Range{}, false
	}
	r := NormalizeRange(Range{Start: b.sel.anchor, End: b.sel.end})
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

// SelectionStart is the start of the active selection, or the caret when
// nothing is selected.
func (b *Buffer) SelectionStart() Pos {
	if r, ok := b.Selection(); ok {
		return r.Start
	}
	return b.cursor
}

// SetSelection selects r and places the caret at r.End.
func (b *Buffer) SetSelection(r Range) {
	clamped := Range{Start: b.clampPos(r.Start), End: b.clampPos(r.End)}
	next := selectionState{
		active: true,
		anchor: clamped.Start,
		end:    clamped.End,
	}
	if clamped.Start == clamped.End {
		next = selectionState{}
	}

	prevRange, prevOK := b.Selection()
	nextRange, nextOK := Range{}, false
	if next.active {
		nextRange, nextOK = NormalizeRange(clamped), true
	}

	b.sel = next
	if next.active {
		b.cursor = next.end
	}
	if prevOK == nextOK && (!prevOK || prevRange == nextRange) {
		return
	}
	b.version++
}

func (b *Buffer) ClearSelection() {
	if !b.sel.active {
		return
	}
	if _, ok := b.Selection(); !ok {
		b.sel = selectionState{}
		return
	}
	b.sel = selectionState{}
	b.version++
}

// SetText replaces the whole value and moves the caret to the end, the way
// assigning a control's value does.
func (b *Buffer) SetText(text string) {
	last := len(b.lines) - 1
	end := Pos{Row: last, GraphemeCol: len(b.lines[last])}
	b.apply(InputSetValue, TextEdit{Range: Range{Start: Pos{}, End: end}, Text: text})
}

func (b *Buffer) lineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

func splitLines(text string) [][]string {
	parts := strings.Split(text, "\n")
	lines := make([][]string, 0, len(parts))
	for _, s := range parts {
		lines = append(lines, grapheme.Split(s))
	}
	if len(lines) == 0 {
		lines = append(lines, nil)
	}
	return lines
}

func stripNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
