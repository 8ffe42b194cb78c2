package dom

import (
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/iw2rmb/textexpand/buffer"
)

// Focus makes n the active element. Focusing an editing host places the
// caret at the end of its text when the selection is elsewhere.
func (d *Document) Focus(n *html.Node) bool {
	if n == nil {
		return false
	}
	if _, ok := d.controls[n]; ok {
		d.active = n
		return true
	}
	host := EditingHost(n)
	if host == nil {
		return false
	}
	d.active = host
	if r, ok := d.sel.RangeAt(0); !ok || !Contains(host, r.End.Node) {
		d.sel.Collapse(endPoint(host))
	}
	return true
}

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *html.Node { return d.active }

// Blur clears focus.
func (d *Document) Blur() { d.active = nil }

// TypeText inserts s at the caret of the active element as if typed, then
// dispatches a trusted input event. It reports whether text was inserted.
func (d *Document) TypeText(s string) bool {
	if s == "" {
		return false
	}
	target, typ, ok := d.typeInto(s)
	if !ok {
		return false
	}
	d.DispatchInput(target, typ, true)
	return true
}

// DeleteBackward removes the character before the caret of the active
// element and dispatches a trusted input event.
func (d *Document) DeleteBackward() bool {
	n := d.active
	if n == nil {
		return false
	}
	if b, ok := d.controls[n]; ok {
		if Disabled(n) || ReadOnly(n) {
			return false
		}
		v := b.TextVersion()
		b.DeleteBackward()
		if b.TextVersion() == v {
			return false
		}
		d.DispatchInput(n, buffer.InputDeleteContentBackward, true)
		return true
	}

	r, ok := d.sel.RangeAt(0)
	if !ok {
		return false
	}
	before, ok := TextBefore(n, r.End)
	if !ok || before == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(before)
	spans, ok := spansBefore(n, r.End, size)
	if !ok {
		return false
	}
	s := spans[0]
	s.node.Data = s.node.Data[:s.from] + s.node.Data[s.to:]
	d.sel.Collapse(Point{Node: s.node, Offset: s.from})
	d.DispatchInput(n, buffer.InputDeleteContentBackward, true)
	return true
}

// DispatchInput fires a bubbling input event at target.
func (d *Document) DispatchInput(target *html.Node, typ buffer.InputType, trusted bool) {
	d.Dispatch(&Event{Type: EventInput, Target: target, Bubbles: true, Trusted: trusted, InputType: typ})
}

// KeyUp dispatches a trusted keyup event on the active element.
func (d *Document) KeyUp(key string) {
	if d.active == nil {
		return
	}
	d.Dispatch(&Event{Type: EventKeyUp, Target: d.active, Bubbles: true, Trusted: true, Key: key})
}

func (d *Document) typeInto(s string) (*html.Node, buffer.InputType, bool) {
	n := d.active
	if n == nil {
		return nil, "", false
	}
	if b, ok := d.controls[n]; ok {
		if Disabled(n) || ReadOnly(n) {
			return nil, "", false
		}
		v := b.TextVersion()
		b.InsertText(s)
		if b.TextVersion() == v {
			return nil, "", false
		}
		ch, _ := b.LastChange()
		return n, ch.InputType, true
	}

	r, ok := d.sel.RangeAt(0)
	if !ok || !Contains(n, r.End.Node) {
		return nil, "", false
	}
	typ := buffer.InputInsertText
	if s == "\n" {
		typ = buffer.InputInsertLineBreak
	}
	p := r.End
	if p.Node.Type == html.TextNode {
		off := clampTextOffset(p.Node.Data, p.Offset)
		p.Node.Data = p.Node.Data[:off] + s + p.Node.Data[off:]
		d.sel.Collapse(Point{Node: p.Node, Offset: off + len(s)})
		return n, typ, true
	}

	// Element point: extend the text node just before the caret, or start one.
	var before *html.Node
	i := 0
	for c := p.Node.FirstChild; c != nil && i < p.Offset; c = c.NextSibling {
		before = c
		i++
	}
	if before != nil && before.Type == html.TextNode {
		before.Data += s
		d.sel.Collapse(Point{Node: before, Offset: len(before.Data)})
		return n, typ, true
	}
	t := &html.Node{Type: html.TextNode, Data: s}
	if before != nil && before.NextSibling != nil {
		p.Node.InsertBefore(t, before.NextSibling)
	} else if before == nil && p.Node.FirstChild != nil {
		p.Node.InsertBefore(t, p.Node.FirstChild)
	} else {
		p.Node.AppendChild(t)
	}
	d.sel.Collapse(Point{Node: t, Offset: len(s)})
	return n, typ, true
}

// endPoint is the caret position after the last text in n.
func endPoint(n *html.Node) Point {
	var last *html.Node
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			last = c
		}
	})
	if last != nil {
		return Point{Node: last, Offset: len(last.Data)}
	}
	return Point{Node: n, Offset: childCount(n)}
}
