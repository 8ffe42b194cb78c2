package editor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/textexpand/expander"
)

// timerMsg fires the engine timer with the given id.
type timerMsg struct{ id int }

// teaClock hands engine timers to Bubble Tea as Tick commands. Callbacks
// run inside Update, never on a runtime timer goroutine.
type teaClock struct {
	now    func() time.Time
	nextID int
	timers map[int]*teaTimer
	queued []*teaTimer
}

type teaTimer struct {
	c       *teaClock
	id      int
	d       time.Duration
	fn      func()
	stopped bool
}

func newTeaClock() *teaClock {
	return &teaClock{now: time.Now, timers: map[int]*teaTimer{}}
}

func (t *teaTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	delete(t.c.timers, t.id)
	return true
}

func (c *teaClock) Now() time.Time { return c.now() }

func (c *teaClock) AfterFunc(d time.Duration, f func()) expander.Timer {
	c.nextID++
	t := &teaTimer{c: c, id: c.nextID, d: d, fn: f}
	c.timers[t.id] = t
	c.queued = append(c.queued, t)
	return t
}

// drain returns Tick commands for timers scheduled since the last call.
// Timers already stopped are skipped.
func (c *teaClock) drain() tea.Cmd {
	var cmds []tea.Cmd
	for _, t := range c.queued {
		if t.stopped {
			continue
		}
		id := t.id
		cmds = append(cmds, tea.Tick(t.d, func(time.Time) tea.Msg { return timerMsg{id: id} }))
	}
	c.queued = c.queued[:0]
	return tea.Batch(cmds...)
}

// fire runs timer id unless it was stopped. It reports whether it ran.
func (c *teaClock) fire(id int) bool {
	t, ok := c.timers[id]
	if !ok {
		return false
	}
	delete(c.timers, id)
	t.stopped = true
	t.fn()
	return true
}

func (c *teaClock) pending() []int {
	ids := make([]int, 0, len(c.timers))
	for id := range c.timers {
		ids = append(ids, id)
	}
	return ids
}
