package buffer

// InputType names an edit the way InputEvent.inputType does in browsers.
type InputType string

const (
	InputInsertText            InputType = "insertText"
	InputInsertLineBreak       InputType = "insertLineBreak"
	InputInsertReplacementText InputType = "insertReplacementText"
	InputDeleteContentBackward InputType = "deleteContentBackward"
	InputDeleteContentForward  InputType = "deleteContentForward"
	InputDeleteContent         InputType = "deleteContent"

	// InputSetValue marks a wholesale value assignment. Browsers fire no
	// input event for it.
	InputSetValue InputType = ""
)

// Edit is one effective replacement inside a Change.
type Edit struct {
	// Start is where the replaced text began. It is valid both before and
	// after the edit.
	Start    Pos
	Deleted  string
	Inserted string
}

// Change is the most recent text mutation of a Buffer.
type Change struct {
	InputType InputType

	// TextVersion is the buffer's text version after the change.
	TextVersion uint64

	CaretBefore Pos
	CaretAfter  Pos

	// HadSelection reports whether a selection was replaced.
	HadSelection bool

	Edits []Edit
}

// LastChange returns the most recent text change.
func (b *Buffer) LastChange() (Change, bool) {
	if b.last == nil {
		return Change{}, false
	}
	out := *b.last
	out.Edits = append([]Edit(nil), b.last.Edits...)
	return out, true
}

// beginChange snapshots caret and selection before a mutation.
func (b *Buffer) beginChange(typ InputType) *Change {
	_, sel := b.Selection()
	return &Change{InputType: typ, CaretBefore: b.cursor, HadSelection: sel}
}

// commit records ch when at least one edit took effect.
func (b *Buffer) commit(ch *Change) bool {
	if len(ch.Edits) == 0 {
		return false
	}
	b.sel = selectionState{}
	b.version++
	b.textVersion++
	ch.TextVersion = b.textVersion
	ch.CaretAfter = b.cursor
	b.last = ch
	return true
}
