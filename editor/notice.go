package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

const minNoticeWidth = 12

// withNotice draws the last expansion in a box over the top right corner
// of view. It stays until the next key press.
func (m Model) withNotice(view string) string {
	if !m.res.notice {
		return view
	}
	mt := m.res.last.Match
	text := fmt.Sprintf("%s → %s", mt.Trigger, strings.ReplaceAll(mt.Expansion, "\n", "⏎"))
	text = runewidth.Truncate(text, max(m.width/2, minNoticeWidth), "…")
	return overlay.Composite(m.cfg.Style.Notice.Render(text), view, overlay.Right, overlay.Top, 0, 0)
}
