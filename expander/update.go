package expander

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/textexpand/match"
)

// Update carries out-of-band settings changes. Nil fields are unchanged.
type Update struct {
	Triggers match.TriggerMap
	Delay    *time.Duration
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool { return u.Triggers == nil && u.Delay == nil }

// ApplySettingsUpdate swaps in a new trigger snapshot and delay. The
// pending evaluation, if any, keeps its deadline. Negative delays are
// ignored.
func (e *Engine) ApplySettingsUpdate(u Update) {
	if u.Triggers != nil {
		t := match.Compile(u.Triggers)
		e.table.Store(t)
		e.log.Info("triggers updated", zap.Int("count", t.Len()))
	}
	if u.Delay != nil {
		if *u.Delay < 0 {
			e.log.Warn("ignoring negative delay", zap.Duration("delay", *u.Delay))
			return
		}
		e.delay.Store(int64(*u.Delay))
		e.log.Info("delay updated", zap.Duration("delay", *u.Delay))
	}
}

// Watch applies updates from ch until it is closed or ctx is done.
// It returns ctx.Err() in the latter case.
func (e *Engine) Watch(ctx context.Context, ch <-chan Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-ch:
			if !ok {
				return nil
			}
			e.ApplySettingsUpdate(u)
		}
	}
}
