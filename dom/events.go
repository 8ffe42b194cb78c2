package dom

import (
	"golang.org/x/net/html"

	"github.com/iw2rmb/textexpand/buffer"
)

// Event types dispatched by the document.
const (
	EventInput = "input"
	EventKeyUp = "keyup"
)

type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseCapture
	PhaseTarget
	PhaseBubble
)

// Event is a dispatched notification.
type Event struct {
	Type    string
	Target  *html.Node
	Bubbles bool

	// Trusted is false for events created by script rather than by the user.
	Trusted bool

	// Key names the released key for keyup events.
	Key string

	// InputType classifies input events, as in InputEvent.inputType.
	InputType buffer.InputType

	CurrentTarget *html.Node
	Phase         Phase

	stopped bool
}

// StopPropagation prevents the event from reaching further nodes.
func (e *Event) StopPropagation() { e.stopped = true }

func (e *Event) Stopped() bool { return e.stopped }

// Listener handles a dispatched event.
type Listener func(*Event)

type registration struct {
	id      uint64
	typ     string
	capture bool
	fn      Listener
}

// AddEventListener registers fn on node n. Capture listeners run on the way
// down to the target, the others at the target and while bubbling.
// The returned func removes the registration.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener, capture bool) (remove func()) {
	d.nextReg++
	id := d.nextReg
	d.listeners[n] = append(d.listeners[n], registration{id: id, typ: typ, capture: capture, fn: fn})
	return func() {
		regs := d.listeners[n]
		for i, r := range regs {
			if r.id == id {
				d.listeners[n] = append(regs[:i:i], regs[i+1:]...)
				break
			}
		}
		if len(d.listeners[n]) == 0 {
			delete(d.listeners, n)
		}
	}
}

// Dispatch delivers ev along the path from the document root to its target.
func (d *Document) Dispatch(ev *Event) {
	if ev == nil || ev.Target == nil {
		return
	}

	var path []*html.Node
	for n := ev.Target; n != nil; n = n.Parent {
		path = append(path, n)
	}
	// path[0] is the target, path[len-1] the root.

	for i := len(path) - 1; i > 0 && !ev.stopped; i-- {
		d.invoke(path[i], ev, PhaseCapture, func(r registration) bool { return r.capture })
	}
	if !ev.stopped {
		d.invoke(path[0], ev, PhaseTarget, func(r registration) bool { return r.capture })
		d.invoke(path[0], ev, PhaseTarget, func(r registration) bool { return !r.capture })
	}
	if ev.Bubbles {
		for i := 1; i < len(path) && !ev.stopped; i++ {
			d.invoke(path[i], ev, PhaseBubble, func(r registration) bool { return !r.capture })
		}
	}

	ev.CurrentTarget = nil
	ev.Phase = PhaseNone
}

func (d *Document) invoke(n *html.Node, ev *Event, phase Phase, accept func(registration) bool) {
	regs := d.listeners[n]
	if len(regs) == 0 {
		return
	}
	regs = append([]registration(nil), regs...)

	ev.CurrentTarget = n
	ev.Phase = phase
	for _, r := range regs {
		if r.typ != ev.Type || !accept(r) {
			continue
		}
		r.fn(ev)
	}
}
