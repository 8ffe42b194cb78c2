package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iw2rmb/textexpand/buffer"
)

// Input types whose value is free text.
var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"search":   true,
	"email":    true,
	"url":      true,
	"tel":      true,
	"password": true,
}

func isTextControlElement(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Textarea:
		return true
	case atom.Input:
		typ, _ := Attr(n, "type")
		return textInputTypes[strings.ToLower(strings.TrimSpace(typ))]
	default:
		return false
	}
}

func (d *Document) adoptControl(n *html.Node) {
	if n.DataAtom == atom.Input {
		v, _ := Attr(n, "value")
		d.controls[n] = buffer.New(v, buffer.Options{SingleLine: true})
		return
	}
	text := TextContent(n)
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	// The parser drops one leading newline; keep the rest of the value as is.
	d.controls[n] = buffer.New(text, buffer.Options{})
}

// Control returns the value buffer of a text form control.
func (d *Document) Control(n *html.Node) (*buffer.Buffer, bool) {
	b, ok := d.controls[n]
	return b, ok
}

// Value returns the current value of a text form control.
func (d *Document) Value(n *html.Node) string {
	if b, ok := d.controls[n]; ok {
		return b.Text()
	}
	return ""
}

// Disabled reports whether the element carries the disabled attribute.
func Disabled(n *html.Node) bool {
	_, ok := Attr(n, "disabled")
	return ok
}

// ReadOnly reports whether the element carries the readonly attribute.
func ReadOnly(n *html.Node) bool {
	_, ok := Attr(n, "readonly")
	return ok
}

// IsContentEditable reports whether n is inside an editable region. The
// contenteditable attribute is inherited; "false" switches it off again.
func IsContentEditable(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		v, ok := Attr(n, "contenteditable")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "true", "plaintext-only":
			return true
		case "false":
			return false
		}
	}
	return false
}

// EditingHost returns the outermost contenteditable element containing n,
// or nil when n is not editable.
func EditingHost(n *html.Node) *html.Node {
	for n != nil && n.Type != html.ElementNode {
		n = n.Parent
	}
	if !IsContentEditable(n) {
		return nil
	}
	host := n
	for p := n.Parent; p != nil && p.Type == html.ElementNode && IsContentEditable(p); p = p.Parent {
		host = p
	}
	return host
}
