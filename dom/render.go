package dom

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes the document as HTML with current control values.
func (d *Document) Render(w io.Writer) error {
	d.syncControls()
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

// syncControls mirrors buffer values back into the tree.
func (d *Document) syncControls() {
	for n, b := range d.controls {
		if n.DataAtom == atom.Input {
			SetAttr(n, "value", b.Text())
			continue
		}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		if v := b.Text(); v != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: v})
		}
	}
}
