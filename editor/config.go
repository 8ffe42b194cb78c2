package editor

import (
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/textexpand/dom"
	"github.com/iw2rmb/textexpand/expander"
	"github.com/iw2rmb/textexpand/match"
)

// Config configures the editor Model.
type Config struct {
	// Doc is the page being edited. Its text controls and editing hosts
	// become the fields, in document order.
	Doc *dom.Document

	Triggers match.TriggerMap
	Delay    time.Duration

	// Updates, when non-nil, is read for settings changes while the
	// program runs.
	Updates <-chan expander.Update

	// OnResult observes every evaluation.
	OnResult func(expander.Result)

	// Width is the field width in cells before the first WindowSizeMsg.
	// Zero selects 40.
	Width int

	KeyMap    KeyMap
	Style     Style
	Clipboard Clipboard
	Logger    *zap.Logger
}
