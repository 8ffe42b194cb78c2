package surface

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/iw2rmb/textexpand/dom"
)

// RichText is a contenteditable region; its caret is the document
// selection.
type RichText struct {
	doc  *dom.Document
	host *html.Node
}

func (r *RichText) Kind() Kind { return KindRichText }

func (r *RichText) Element() *html.Node { return r.host }

// TextBeforeCaret flattens the host's text up to the selection end.
func (r *RichText) TextBeforeCaret() (string, bool) {
	caret, ok := r.caret()
	if !ok {
		return "", false
	}
	return dom.TextBefore(r.host, caret)
}

func (r *RichText) Replace(trigger, expansion string) bool {
	if trigger == "" {
		return false
	}
	caret, ok := r.caret()
	if !ok {
		return false
	}
	before, ok := dom.TextBefore(r.host, caret)
	if !ok || !strings.HasSuffix(before, trigger) {
		return false
	}

	inserted, ok := dom.ReplaceTextBefore(r.host, caret, len(trigger), expansion)
	if !ok {
		return false
	}
	r.doc.Selection().Collapse(dom.After(inserted))
	notifyChanged(r.doc, r.host)
	return true
}

func (r *RichText) caret() (dom.Point, bool) {
	sel := r.doc.Selection()
	if sel.RangeCount() == 0 {
		return dom.Point{}, false
	}
	rng, _ := sel.RangeAt(0)
	if !dom.Contains(r.host, rng.End.Node) {
		return dom.Point{}, false
	}
	return rng.End, true
}

func (*RichText) sealed() {}
