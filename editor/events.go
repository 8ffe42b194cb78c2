package editor

import (
	"github.com/iw2rmb/textexpand/expander"
)

// resultLog keeps the latest evaluation for the status line and the
// expansion notice. The engine writes it from inside Update, through the
// clock.
type resultLog struct {
	last     expander.Result
	has      bool
	replaced int

	// notice is set by a replacement and cleared by the next key press.
	notice bool
}

func (l *resultLog) record(r expander.Result) {
	if r.Outcome == expander.OutcomeIgnored {
		return
	}
	l.last = r
	l.has = true
	l.notice = r.Outcome == expander.OutcomeReplaced
	if r.Outcome == expander.OutcomeReplaced {
		l.replaced++
	}
}

// settingsMsg carries one update from Config.Updates.
type settingsMsg struct {
	update expander.Update
	ok     bool
}
