package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iw2rmb/textexpand/buffer"
	"github.com/iw2rmb/textexpand/dom"
	"github.com/iw2rmb/textexpand/expander"
	"github.com/iw2rmb/textexpand/internal/grapheme"
)

const indent = "  "

func (m Model) View() string {
	var sb strings.Builder
	for i, n := range m.fields {
		sb.WriteString(m.renderField(n, i == m.focus))
		sb.WriteByte('\n')
	}
	sb.WriteString(m.renderStatus())
	if v := m.help.View(m.cfg.KeyMap); v != "" {
		sb.WriteByte('\n')
		sb.WriteString(v)
	}
	return m.withNotice(sb.String())
}

func (m Model) fieldWidth() int {
	return max(m.width-len(indent), 1)
}

func (m Model) renderField(n *html.Node, focused bool) string {
	st := m.cfg.Style
	width := m.fieldWidth()

	label := fieldLabel(n)
	switch {
	case dom.Disabled(n):
		label += " (disabled)"
	case dom.ReadOnly(n):
		label += " (read-only)"
	}
	label = runewidth.Truncate(label, width, "…")

	var sb strings.Builder
	if focused {
		sb.WriteString("> ")
		sb.WriteString(st.LabelFocused.Render(label))
	} else {
		sb.WriteString(indent)
		sb.WriteString(st.Label.Render(label))
	}

	text, cur, sel := m.fieldState(n, focused)
	body := st
	if dom.Disabled(n) {
		body.Text = st.Disabled
	}
	for row, line := range strings.Split(text, "\n") {
		sb.WriteByte('\n')
		sb.WriteString(indent)
		sb.WriteString(renderLine(body, line, row, cur, sel, width, isPassword(n)))
	}
	return sb.String()
}

// fieldState returns the text of n with the caret and selection to draw.
func (m Model) fieldState(n *html.Node, focused bool) (string, caret, selection) {
	if b, ok := m.doc.Control(n); ok {
		var cur caret
		if focused {
			p := b.Cursor()
			cur = caret{row: p.Row, col: p.GraphemeCol, ok: true}
		}
		var sel selection
		if r, ok := b.Selection(); ok && focused {
			sel = selection{r: buffer.NormalizeRange(r), ok: true}
		}
		return b.Text(), cur, sel
	}

	text := dom.TextContent(n)
	if !focused {
		return text, caret{}, selection{}
	}
	r, ok := m.doc.Selection().RangeAt(0)
	if !ok {
		return text, caret{}, selection{}
	}
	before, ok := dom.TextBefore(n, r.End)
	if !ok {
		return text, caret{}, selection{}
	}
	row := strings.Count(before, "\n")
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return text, caret{row: row, col: grapheme.Count(before), ok: true}, selection{}
}

type caret struct {
	row, col int
	ok       bool
}

type selection struct {
	r  buffer.Range
	ok bool
}

// cols returns the selected grapheme columns [from, to) on row.
func (s selection) cols(row, lineLen int) (from, to int, ok bool) {
	if !s.ok || s.r.IsEmpty() || row < s.r.Start.Row || row > s.r.End.Row {
		return 0, 0, false
	}
	from, to = 0, lineLen
	if row == s.r.Start.Row {
		from = s.r.Start.GraphemeCol
	}
	if row == s.r.End.Row {
		to = s.r.End.GraphemeCol
	}
	return from, to, from < to
}

type runKind uint8

const (
	runText runKind = iota
	runSelection
	runCursor
)

// renderLine draws one line clipped to width cells, scrolled so the caret
// stays visible.
func renderLine(st Style, line string, row int, cur caret, sel selection, width int, mask bool) string {
	clusters := grapheme.Split(line)
	if mask {
		for i := range clusters {
			clusters[i] = "•"
		}
	}

	hasCursor := cur.ok && cur.row == row
	col := min(max(cur.col, 0), len(clusters))

	start := 0
	if hasCursor {
		// Keep the caret cell (1 wide at end of line) inside the window.
		need := 1
		if col < len(clusters) {
			need = cellWidth(clusters[col])
		}
		for start < col && cells(clusters[start:col])+need > width {
			start++
		}
	}
	selFrom, selTo, hasSel := sel.cols(row, len(clusters))

	var sb strings.Builder
	var run strings.Builder
	kind := runText
	flush := func() {
		if run.Len() == 0 {
			return
		}
		sb.WriteString(styleFor(st, kind).Render(run.String()))
		run.Reset()
	}

	used := 0
	for i := start; i < len(clusters); i++ {
		w := cellWidth(clusters[i])
		if used+w > width {
			break
		}
		k := runText
		switch {
		case hasCursor && i == col:
			k = runCursor
		case hasSel && i >= selFrom && i < selTo:
			k = runSelection
		}
		if k != kind || k == runCursor {
			flush()
			kind = k
		}
		run.WriteString(clusters[i])
		used += w
	}
	flush()

	if hasCursor && col == len(clusters) && used < width {
		sb.WriteString(st.Cursor.Render(" "))
	}
	return sb.String()
}

func styleFor(st Style, k runKind) lipgloss.Style {
	switch k {
	case runCursor:
		return st.Cursor
	case runSelection:
		return st.Selection
	default:
		return st.Text
	}
}

func cellWidth(cluster string) int {
	return max(runewidth.StringWidth(cluster), 1)
}

func cells(clusters []string) int {
	n := 0
	for _, c := range clusters {
		n += cellWidth(c)
	}
	return n
}

func (m Model) renderStatus() string {
	st := m.cfg.Style
	var parts []string
	if m.engine.Pending() {
		parts = append(parts, "waiting for pause")
	}
	if m.res.has {
		r := m.res.last
		switch r.Outcome {
		case expander.OutcomeReplaced:
			parts = append(parts, st.Expanded.Render(fmt.Sprintf("expanded %q", r.Match.Trigger)))
		case expander.OutcomeStale:
			parts = append(parts, fmt.Sprintf("%q moved before it could expand", r.Match.Trigger))
		default:
			parts = append(parts, r.Outcome.String())
		}
	}
	parts = append(parts, fmt.Sprintf("%d expanded", m.res.replaced))
	return st.Status.Render(strings.Join(parts, " · "))
}

// fieldLabel names a field by aria-label, placeholder, name or id, falling
// back to its tag.
func fieldLabel(n *html.Node) string {
	for _, k := range []string{"aria-label", "placeholder", "name", "id"} {
		if v, ok := dom.Attr(n, k); ok && v != "" {
			return v
		}
	}
	return n.Data
}

func isPassword(n *html.Node) bool {
	if n.DataAtom != atom.Input {
		return false
	}
	t, _ := dom.Attr(n, "type")
	return strings.EqualFold(t, "password")
}
