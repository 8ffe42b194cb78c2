// Package surface adapts editable elements to the two operations the
// expander needs: read the text before the caret, and replace a trigger
// that ends at the caret.
package surface

import (
	"golang.org/x/net/html"

	"github.com/iw2rmb/textexpand/buffer"
	"github.com/iw2rmb/textexpand/dom"
)

// Kind classifies an editable surface.
type Kind uint8

const (
	KindFormControl Kind = iota + 1
	KindRichText
)

func (k Kind) String() string {
	switch k {
	case KindFormControl:
		return "form-control"
	case KindRichText:
		return "rich-text"
	default:
		return "unknown"
	}
}

// Surface is implemented by FormControl and RichText only.
type Surface interface {
	Kind() Kind

	// Element is the node that receives the change notification.
	Element() *html.Node

	// TextBeforeCaret returns the text preceding the caret. ok is false
	// when there is no caret to read.
	TextBeforeCaret() (text string, ok bool)

	// Replace swaps trigger, which must end at the caret, for expansion and
	// leaves the caret right after it. It dispatches one bubbling input
	// event on success and nothing when the trigger is no longer there.
	Replace(trigger, expansion string) bool

	sealed()
}

// Editable reports whether n may be expanded into: a writable text form
// control, or a node inside a contenteditable region.
func Editable(doc *dom.Document, n *html.Node) bool {
	_, ok := Resolve(doc, n)
	return ok
}

// Resolve classifies n. Anything that is neither a writable text form
// control nor part of an editable region is rejected.
func Resolve(doc *dom.Document, n *html.Node) (Surface, bool) {
	if doc == nil || n == nil {
		return nil, false
	}
	if buf, ok := doc.Control(n); ok {
		if dom.Disabled(n) || dom.ReadOnly(n) {
			return nil, false
		}
		return &FormControl{doc: doc, el: n, buf: buf}, true
	}
	if host := dom.EditingHost(n); host != nil {
		return &RichText{doc: doc, host: host}, true
	}
	return nil, false
}

func notifyChanged(doc *dom.Document, n *html.Node) {
	doc.DispatchInput(n, buffer.InputInsertReplacementText, false)
}
