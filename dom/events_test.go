package dom

import (
	"strings"
	"testing"
)

func TestDispatch_CaptureTargetBubbleOrder(t *testing.T) {
	d := mustParse(t, `<body><div id="outer"><input id="in"></div></body>`)
	outer := d.ElementByID("outer")
	in := d.ElementByID("in")

	var log []string
	rec := func(name string) Listener {
		return func(ev *Event) { log = append(log, name) }
	}
	d.AddEventListener(d.Root(), EventInput, rec("doc-bubble"), false)
	d.AddEventListener(d.Root(), EventInput, rec("doc-capture"), true)
	d.AddEventListener(outer, EventInput, rec("outer-capture"), true)
	d.AddEventListener(outer, EventInput, rec("outer-bubble"), false)
	d.AddEventListener(in, EventInput, rec("target"), false)
	d.AddEventListener(in, EventKeyUp, rec("wrong-type"), false)

	d.Dispatch(&Event{Type: EventInput, Target: in, Bubbles: true})

	got := strings.Join(log, ",")
	want := "doc-capture,outer-capture,target,outer-bubble,doc-bubble"
	if got != want {
		t.Fatalf("order: got %q, want %q", got, want)
	}
}

func TestDispatch_NonBubblingSkipsAncestors(t *testing.T) {
	d := mustParse(t, `<body><input id="in"></body>`)
	in := d.ElementByID("in")

	var bubbled, captured bool
	d.AddEventListener(d.Root(), EventInput, func(*Event) { bubbled = true }, false)
	d.AddEventListener(d.Root(), EventInput, func(*Event) { captured = true }, true)

	d.Dispatch(&Event{Type: EventInput, Target: in})
	if bubbled {
		t.Fatalf("non-bubbling event reached a bubble listener")
	}
	if !captured {
		t.Fatalf("capture listeners run for non-bubbling events")
	}
}

func TestDispatch_StopPropagationInCapture(t *testing.T) {
	d := mustParse(t, `<body><input id="in"></body>`)
	in := d.ElementByID("in")

	var reached bool
	d.AddEventListener(d.Root(), EventInput, func(ev *Event) { ev.StopPropagation() }, true)
	d.AddEventListener(in, EventInput, func(*Event) { reached = true }, false)

	ev := &Event{Type: EventInput, Target: in, Bubbles: true}
	d.Dispatch(ev)
	if reached {
		t.Fatalf("stopped event reached the target")
	}
	if !ev.Stopped() {
		t.Fatalf("expected event to report stopped")
	}
}

func TestAddEventListener_Remove(t *testing.T) {
	d := mustParse(t, `<body><input id="in"></body>`)
	in := d.ElementByID("in")

	calls := 0
	remove := d.AddEventListener(d.Root(), EventInput, func(*Event) { calls++ }, true)
	d.Dispatch(&Event{Type: EventInput, Target: in})
	remove()
	d.Dispatch(&Event{Type: EventInput, Target: in})
	if calls != 1 {
		t.Fatalf("calls: got %d, want 1", calls)
	}
}
