package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iw2rmb/textexpand/buffer"
	"github.com/iw2rmb/textexpand/dom"
)

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case timerMsg:
		m.clock.fire(msg.id)
		return m, m.clock.drain()

	case settingsMsg:
		if !msg.ok {
			m.log.Debug("settings channel closed")
			return m, nil
		}
		m.engine.ApplySettingsUpdate(msg.update)
		return m, waitForSettings(m.cfg.Updates)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.updateKey(msg)
		return m, tea.Batch(cmd, m.clock.drain())
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := m.cfg.KeyMap
	m.res.notice = false

	if key.Matches(msg, km.Quit) {
		m.Close()
		return m, tea.Quit
	}

	// Paste events insert literal text and never trigger bindings.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		m.doc.TypeText(normalizeNewlines(string(msg.Runes)))
		return m, nil
	}

	switch {
	case key.Matches(msg, km.Next):
		m = m.focusField(m.focus+1, 1)
	case key.Matches(msg, km.Prev):
		m = m.focusField(m.focus-1, -1)

	case key.Matches(msg, km.Expand):
		// Skip the debounce and evaluate the focused field now.
		m.engine.CancelPending()
		m.engine.Evaluate(m.doc, m.Focused())
		return m, nil

	case key.Matches(msg, km.Left):
		m.move(buffer.Motion{By: buffer.StepCluster, Toward: buffer.Backward})
	case key.Matches(msg, km.Right):
		m.move(buffer.Motion{By: buffer.StepCluster, Toward: buffer.Forward})
	case key.Matches(msg, km.ShiftLeft):
		m.move(buffer.Motion{By: buffer.StepCluster, Toward: buffer.Backward, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		m.move(buffer.Motion{By: buffer.StepCluster, Toward: buffer.Forward, Extend: true})
	case key.Matches(msg, km.WordLeft):
		m.move(buffer.Motion{By: buffer.StepWord, Toward: buffer.Backward})
	case key.Matches(msg, km.WordRight):
		m.move(buffer.Motion{By: buffer.StepWord, Toward: buffer.Forward})
	case key.Matches(msg, km.Home):
		m.move(buffer.Motion{By: buffer.StepLineEdge, Toward: buffer.Backward})
	case key.Matches(msg, km.End):
		m.move(buffer.Motion{By: buffer.StepLineEdge, Toward: buffer.Forward})
	case key.Matches(msg, km.Up):
		m.move(buffer.Motion{By: buffer.StepRow, Toward: buffer.Backward})
	case key.Matches(msg, km.Down):
		m.move(buffer.Motion{By: buffer.StepRow, Toward: buffer.Forward})

	case key.Matches(msg, km.Backspace):
		m.doc.DeleteBackward()
	case key.Matches(msg, km.Delete):
		m.deleteForward()
	case key.Matches(msg, km.Enter):
		if multiline(m.Focused()) {
			m.doc.TypeText("\n")
		}

	case key.Matches(msg, km.Copy):
		m.copyField()
	case key.Matches(msg, km.Paste):
		m.pasteClipboard()

	default:
		switch {
		case msg.Type == tea.KeySpace:
			m.doc.TypeText(" ")
		case msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt:
			m.doc.TypeText(string(msg.Runes))
		default:
			return m, nil
		}
	}

	// Every handled key is released on whatever now has focus.
	m.doc.KeyUp(msg.String())
	return m, nil
}

// move moves the caret of a focused form control. Rich-text carets only
// follow typing.
func (m Model) move(mv buffer.Motion) {
	if b, ok := m.doc.Control(m.Focused()); ok {
		b.Move(mv)
	}
}

func (m Model) deleteForward() {
	n := m.Focused()
	b, ok := m.doc.Control(n)
	if !ok || dom.Disabled(n) || dom.ReadOnly(n) {
		return
	}
	v := b.TextVersion()
	b.DeleteForward()
	if b.TextVersion() != v {
		m.doc.DispatchInput(n, buffer.InputDeleteContentForward, true)
	}
}

func (m Model) copyField() {
	if m.cfg.Clipboard == nil {
		return
	}
	if err := m.cfg.Clipboard.WriteText(fieldText(m.doc, m.Focused())); err != nil {
		m.log.Debug("clipboard write failed", zap.Error(err))
	}
}

func (m Model) pasteClipboard() {
	if m.cfg.Clipboard == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.log.Debug("clipboard read failed", zap.Error(err))
		return
	}
	if s == "" {
		return
	}
	m.doc.TypeText(normalizeNewlines(s))
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func multiline(n *html.Node) bool {
	return n.DataAtom == atom.Textarea || dom.IsContentEditable(n)
}

func fieldText(doc *dom.Document, n *html.Node) string {
	if _, ok := doc.Control(n); ok {
		return doc.Value(n)
	}
	return dom.TextContent(n)
}
