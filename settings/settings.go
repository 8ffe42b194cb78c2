// Package settings persists the trigger map and debounce delay, and
// reports out-of-band edits to a running expander.
package settings

import (
	"errors"
	"maps"
	"math"
	"strings"
	"time"

	"github.com/iw2rmb/textexpand/expander"
	"github.com/iw2rmb/textexpand/match"
)

const (
	// DefaultDelayMS is the delay used when none is stored.
	DefaultDelayMS = int64(expander.DefaultDelay / time.Millisecond)
	// MaxDelayMS is the largest delay that still fits a time.Duration.
	MaxDelayMS = int64(math.MaxInt64 / int64(time.Millisecond))
)

var (
	ErrEmptyTrigger     = match.ErrEmptyTrigger
	ErrEmptyExpansion   = errors.New("expansion must not be empty")
	ErrInvalidDelay     = errors.New("delay must be a non-negative number of milliseconds")
	ErrInvalidShortcuts = errors.New("shortcuts must be an object of strings")
	ErrUnknownTrigger   = errors.New("unknown trigger")
)

// Settings is the persisted document.
type Settings struct {
	Shortcuts match.TriggerMap `json:"shortcuts" yaml:"shortcuts"`
	DelayMS   int64            `json:"delay" yaml:"delay"`
}

// Defaults returns the settings used when nothing is stored.
func Defaults() Settings {
	return Settings{
		Shortcuts: match.TriggerMap{"brb": "be right back"},
		DelayMS:   DefaultDelayMS,
	}
}

// Delay returns DelayMS as a duration.
func (s Settings) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	if s.Shortcuts != nil {
		out.Shortcuts = maps.Clone(s.Shortcuts)
	}
	return out
}

// Validate checks that s could be loaded back.
func (s Settings) Validate() error {
	if s.DelayMS < 0 || s.DelayMS > MaxDelayMS {
		return ErrInvalidDelay
	}
	return match.Validate(s.Shortcuts)
}

// Diff returns an expander.Update carrying the fields that differ between
// prev and next.
func Diff(prev, next Settings) expander.Update {
	var u expander.Update
	if !maps.Equal(prev.Shortcuts, next.Shortcuts) {
		u.Triggers = maps.Clone(next.Shortcuts)
		if u.Triggers == nil {
			u.Triggers = match.TriggerMap{}
		}
	}
	if prev.DelayMS != next.DelayMS {
		d := next.Delay()
		u.Delay = &d
	}
	return u
}

func normalizeEntry(trigger, expansion string) (string, string, error) {
	trigger = strings.TrimSpace(trigger)
	expansion = strings.TrimSpace(expansion)
	if trigger == "" {
		return "", "", ErrEmptyTrigger
	}
	if expansion == "" {
		return "", "", ErrEmptyExpansion
	}
	return trigger, expansion, nil
}
