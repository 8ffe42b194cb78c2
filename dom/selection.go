package dom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Point is a boundary point: a byte offset in a text node, or a child
// index in an element.
type Point struct {
	Node   *html.Node
	Offset int
}

// Range spans two boundary points.
type Range struct {
	Start Point
	End   Point
}

// Collapsed reports whether the range is a caret.
func (r Range) Collapsed() bool { return r.Start == r.End }

// Selection holds at most one range.
type Selection struct {
	r     Range
	valid bool
}

// Selection returns the document selection.
func (d *Document) Selection() *Selection { return &d.sel }

// RangeCount is 0 or 1.
func (s *Selection) RangeCount() int {
	if s.valid {
		return 1
	}
	return 0
}

// RangeAt returns the range at index i.
func (s *Selection) RangeAt(i int) (Range, bool) {
	if i != 0 || !s.valid {
		return Range{}, false
	}
	return s.r, true
}

// RemoveAllRanges clears the selection.
func (s *Selection) RemoveAllRanges() {
	s.r = Range{}
	s.valid = false
}

// AddRange sets the selection. Earlier ranges are replaced.
func (s *Selection) AddRange(r Range) {
	if r.Start.Node == nil || r.End.Node == nil {
		s.RemoveAllRanges()
		return
	}
	s.r = r
	s.valid = true
}

// Collapse places a caret at p.
func (s *Selection) Collapse(p Point) {
	s.AddRange(Range{Start: p, End: p})
}

// TextContent returns the concatenated text of n's descendant text nodes.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

// TextBefore returns the text of root's descendants that precede p,
// flattened the way Range.toString does. ok is false when p is outside root.
func TextBefore(root *html.Node, p Point) (string, bool) {
	segs, ok := segmentsBefore(root, p)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.node.Data[s.from:s.to])
	}
	return sb.String(), true
}

// textSpan is the byte range [from, to) of a text node.
type textSpan struct {
	node     *html.Node
	from, to int
}

func segmentsBefore(root *html.Node, p Point) ([]textSpan, bool) {
	if root == nil || p.Node == nil || !Contains(root, p.Node) {
		return nil, false
	}

	var segs []textSpan
	add := func(n *html.Node) {
		walk(n, func(c *html.Node) {
			if c.Type == html.TextNode && c.Data != "" {
				segs = append(segs, textSpan{node: c, from: 0, to: len(c.Data)})
			}
		})
	}

	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		if n == p.Node {
			if n.Type == html.TextNode {
				off := clampTextOffset(n.Data, p.Offset)
				if off > 0 {
					segs = append(segs, textSpan{node: n, from: 0, to: off})
				}
				return true
			}
			i := 0
			for c := n.FirstChild; c != nil && i < p.Offset; c = c.NextSibling {
				add(c)
				i++
			}
			return true
		}
		if n.Type == html.TextNode {
			if n.Data != "" {
				segs = append(segs, textSpan{node: n, from: 0, to: len(n.Data)})
			}
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if visit(c) {
				return true
			}
		}
		return false
	}
	visit(root)
	return segs, true
}

// spansBefore returns, in document order, the text spans covering the n
// bytes of root's text that end at p. ok is false when there is not enough
// text or the start would split a rune.
func spansBefore(root *html.Node, p Point, n int) ([]textSpan, bool) {
	segs, ok := segmentsBefore(root, p)
	if !ok || n <= 0 {
		return nil, false
	}

	var out []textSpan
	remaining := n
	for i := len(segs) - 1; i >= 0 && remaining > 0; i-- {
		s := segs[i]
		avail := s.to - s.from
		if avail >= remaining {
			s.from = s.to - remaining
			remaining = 0
		} else {
			remaining -= avail
		}
		out = append(out, s)
	}
	if remaining > 0 {
		return nil, false
	}
	first := out[len(out)-1]
	if !utf8.RuneStart(first.node.Data[first.from]) {
		return nil, false
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, true
}

// ReplaceTextBefore replaces the n bytes of root's text ending at p with a
// new text node holding text and returns that node. The removed spans may
// cross node boundaries; text nodes emptied by the removal are detached.
func ReplaceTextBefore(root *html.Node, p Point, n int, text string) (*html.Node, bool) {
	spans, ok := spansBefore(root, p, n)
	if !ok {
		return nil, false
	}

	anchor := spans[0].node
	if spans[0].from > 0 {
		tail := splitText(anchor, spans[0].from)
		spans[0] = textSpan{node: tail, from: 0, to: spans[0].to - spans[0].from}
		anchor = tail
	}

	for _, s := range spans {
		s.node.Data = s.node.Data[:s.from] + s.node.Data[s.to:]
	}

	inserted := &html.Node{Type: html.TextNode, Data: text}
	anchor.Parent.InsertBefore(inserted, anchor)

	for _, s := range spans {
		if s.node.Data == "" && s.node.Parent != nil {
			s.node.Parent.RemoveChild(s.node)
		}
	}
	return inserted, true
}

// After returns the boundary point just past n in its parent.
func After(n *html.Node) Point {
	return Point{Node: n.Parent, Offset: ChildIndex(n) + 1}
}

// splitText splits n at off and returns the new node holding n.Data[off:].
func splitText(n *html.Node, off int) *html.Node {
	tail := &html.Node{Type: html.TextNode, Data: n.Data[off:]}
	n.Data = n.Data[:off]
	if n.NextSibling != nil {
		n.Parent.InsertBefore(tail, n.NextSibling)
	} else {
		n.Parent.AppendChild(tail)
	}
	return tail
}

func clampTextOffset(s string, off int) int {
	if off <= 0 {
		return 0
	}
	if off >= len(s) {
		return len(s)
	}
	for off > 0 && !utf8.RuneStart(s[off]) {
		off--
	}
	return off
}
