package dom

import (
	"testing"

	"github.com/iw2rmb/textexpand/buffer"
)

func TestTypeText_FormControl(t *testing.T) {
	d := mustParse(t, `<body><input id="in"><input id="ro" readonly></body>`)
	in := d.ElementByID("in")

	var events []*Event
	d.AddEventListener(d.Root(), EventInput, func(ev *Event) { events = append(events, ev) }, true)

	if d.TypeText("x") {
		t.Fatalf("typing without focus should do nothing")
	}
	if !d.Focus(in) {
		t.Fatalf("focus failed")
	}
	if !d.TypeText("brb") {
		t.Fatalf("expected text to be typed")
	}
	if got, want := d.Value(in), "brb"; got != want {
		t.Fatalf("value: got %q, want %q", got, want)
	}
	if len(events) != 1 || !events[0].Trusted || events[0].Target != in {
		t.Fatalf("expected one trusted input event on #in, got %+v", events)
	}

	if !d.DeleteBackward() {
		t.Fatalf("expected backspace to delete")
	}
	if got, want := d.Value(in), "br"; got != want {
		t.Fatalf("value after backspace: got %q, want %q", got, want)
	}

	d.Focus(d.ElementByID("ro"))
	if d.TypeText("no") {
		t.Fatalf("readonly control accepted typing")
	}
}

func TestTypeText_RichText(t *testing.T) {
	d, root := richDoc(t, `<p>Hi</p>`)
	if !d.Focus(root.FirstChild) {
		t.Fatalf("focus inside editable region failed")
	}
	if d.ActiveElement() != root {
		t.Fatalf("active element should be the editing host")
	}

	var got *Event
	d.AddEventListener(d.Root(), EventInput, func(ev *Event) { got = ev }, true)

	d.TypeText(" brb")
	if got == nil || got.Target != root {
		t.Fatalf("expected input event on the editing host")
	}
	if s, want := TextContent(root), "Hi brb"; s != want {
		t.Fatalf("content: got %q, want %q", s, want)
	}
	r, _ := d.Selection().RangeAt(0)
	if before := mustTextBefore(t, root, r.End); before != "Hi brb" {
		t.Fatalf("caret text: got %q", before)
	}

	d.DeleteBackward()
	if s, want := TextContent(root), "Hi br"; s != want {
		t.Fatalf("content after backspace: got %q, want %q", s, want)
	}
}

func TestTypeText_RichTextElementPoint(t *testing.T) {
	d, root := richDoc(t, ``)
	d.Focus(root)
	d.TypeText("a")
	d.TypeText("b")
	if s, want := TextContent(root), "ab"; s != want {
		t.Fatalf("content: got %q, want %q", s, want)
	}
	if root.FirstChild == nil || root.FirstChild.NextSibling != nil {
		t.Fatalf("expected a single text node")
	}
}

func TestKeyUp_Dispatches(t *testing.T) {
	d := mustParse(t, `<body><input id="in"></body>`)
	in := d.ElementByID("in")
	d.Focus(in)

	var key string
	d.AddEventListener(d.Root(), EventKeyUp, func(ev *Event) { key = ev.Key }, true)
	d.KeyUp("b")
	if key != "b" {
		t.Fatalf("key: got %q, want %q", key, "b")
	}
}

func TestInputEvents_CarryInputType(t *testing.T) {
	d := mustParse(t, `<body><textarea id="ta"></textarea><div id="ed" contenteditable="true"></div></body>`)

	var got []buffer.InputType
	d.AddEventListener(d.Root(), EventInput, func(ev *Event) { got = append(got, ev.InputType) }, true)

	d.Focus(d.ElementByID("ta"))
	d.TypeText("a")
	d.TypeText("\n")
	d.DeleteBackward()
	d.DispatchInput(d.ElementByID("ta"), buffer.InputInsertText, false)

	d.Focus(d.ElementByID("ed"))
	d.TypeText("b")
	d.DeleteBackward()
	d.DispatchInput(d.ElementByID("ed"), buffer.InputInsertReplacementText, false)

	want := []buffer.InputType{
		buffer.InputInsertText,
		buffer.InputInsertLineBreak,
		buffer.InputDeleteContentBackward,
		buffer.InputInsertText,
		buffer.InputInsertText,
		buffer.InputDeleteContentBackward,
		buffer.InputInsertReplacementText,
	}
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
