package surface

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/iw2rmb/textexpand/buffer"
	"github.com/iw2rmb/textexpand/dom"
)

// FormControl is an input or textarea whose value lives in a buffer.
type FormControl struct {
	doc *dom.Document
	el  *html.Node
	buf *buffer.Buffer
}

func (f *FormControl) Kind() Kind { return KindFormControl }

func (f *FormControl) Element() *html.Node { return f.el }

// TextBeforeCaret returns the value up to the selection start.
func (f *FormControl) TextBeforeCaret() (string, bool) {
	return f.buf.TextBefore(f.buf.SelectionStart()), true
}

// Caret returns the selection start as a flat offset.
func (f *FormControl) Caret() int {
	return f.buf.OffsetFromPos(f.buf.SelectionStart())
}

func (f *FormControl) Replace(trigger, expansion string) bool {
	if trigger == "" {
		return false
	}
	caret := f.buf.SelectionStart()
	before := f.buf.TextBefore(caret)
	if !strings.HasSuffix(before, trigger) {
		return false
	}
	// A trigger may begin inside a cluster, e.g. a combining mark after a
	// space. The part of the cluster before it is written back.
	at := len(before) - len(trigger)
	start, inside, ok := f.buf.ClusterAtByteOffset(at)
	if !ok {
		return false
	}

	text := before[at-inside:at] + expansion
	edit := buffer.TextEdit{Range: buffer.Range{Start: start, End: caret}, Text: text}
	if !f.buf.Apply(edit) {
		// Expansion equals the trigger: nothing moved, the caret already
		// sits after it.
		f.buf.SetCursor(caret)
	}
	notifyChanged(f.doc, f.el)
	return true
}

func (*FormControl) sealed() {}
