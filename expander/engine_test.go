package expander_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iw2rmb/textexpand/dom"
	"github.com/iw2rmb/textexpand/expander"
	"github.com/iw2rmb/textexpand/expander/expandertest"
	"github.com/iw2rmb/textexpand/match"
	"github.com/iw2rmb/textexpand/surface"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const page = `<body>
<input id="in">
<input id="off" disabled>
<textarea id="ta"></textarea>
<div id="rich" contenteditable></div>
<p id="plain">static</p>
</body>`

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	doc     *dom.Document
	clock   *expandertest.Clock
	engine  *expander.Engine
	results []expander.Result
}

func newHarness(t *testing.T, triggers match.TriggerMap, delay time.Duration) *harness {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h := &harness{doc: doc, clock: expandertest.NewClock(epoch)}
	h.engine = expander.New(expander.Config{
		Triggers: triggers,
		Delay:    delay,
		Clock:    h.clock,
		OnResult: func(r expander.Result) { h.results = append(h.results, r) },
	})
	detach := h.engine.Attach(doc)
	t.Cleanup(detach)
	return h
}

func (h *harness) typeInto(t *testing.T, id, text string) {
	t.Helper()
	if !h.doc.Focus(h.doc.ElementByID(id)) {
		t.Fatalf("focus #%s", id)
	}
	if !h.doc.TypeText(text) {
		t.Fatalf("type %q into #%s", text, id)
	}
}

func (h *harness) caret(t *testing.T, id string) int {
	t.Helper()
	b, ok := h.doc.Control(h.doc.ElementByID(id))
	if !ok {
		t.Fatalf("#%s is not a form control", id)
	}
	return b.OffsetFromPos(b.SelectionStart())
}

func TestEngine_ExpandsAfterPause(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"brb": "be right back"}, 300*time.Millisecond)
	in := h.doc.ElementByID("in")

	for _, r := range []string{"b", "r", "b"} {
		h.typeInto(t, "in", r)
		h.clock.Advance(100 * time.Millisecond)
	}
	if got := h.doc.Value(in); got != "brb" {
		t.Fatalf("expanded before the pause: %q", got)
	}

	h.clock.Advance(199 * time.Millisecond)
	if st := h.engine.Stats(); st.Evaluations != 0 {
		t.Fatalf("evaluations before deadline: got %d, want 0", st.Evaluations)
	}
	h.clock.Advance(time.Millisecond)

	if got, want := h.doc.Value(in), "be right back"; got != want {
		t.Fatalf("value: got %q, want %q", got, want)
	}
	if got, want := h.caret(t, "in"), 13; got != want {
		t.Fatalf("caret: got %d, want %d", got, want)
	}
	if h.engine.Pending() {
		t.Fatalf("the engine's own input event must not reschedule")
	}
	if len(h.results) != 1 || h.results[0].Outcome != expander.OutcomeReplaced {
		t.Fatalf("results: %+v", h.results)
	}
	if got := h.results[0].Match; got != (match.Match{Trigger: "brb", Expansion: "be right back"}) {
		t.Fatalf("match: %+v", got)
	}
	if h.results[0].Kind != surface.KindFormControl {
		t.Fatalf("kind: %v", h.results[0].Kind)
	}
}

func TestEngine_RapidEventsProduceOneEvaluation(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"zz": "sleep"}, 300*time.Millisecond)

	const n = 5
	for i := 0; i < n; i++ {
		h.typeInto(t, "ta", "a")
		h.doc.KeyUp("a")
		h.clock.Advance(50 * time.Millisecond)
	}

	st := h.engine.State()
	if st.Phase != expander.PhasePending {
		t.Fatalf("phase: got %v, want pending", st.Phase)
	}
	// The last keyup happened at 4*50ms.
	if want := epoch.Add(4*50*time.Millisecond + 300*time.Millisecond); !st.Deadline.Equal(want) {
		t.Fatalf("deadline: got %v, want %v", st.Deadline, want)
	}
	if st.Target != h.doc.ElementByID("ta") {
		t.Fatalf("target: got %v", st.Target)
	}

	h.clock.Advance(time.Second)

	stats := h.engine.Stats()
	if stats.Evaluations != 1 {
		t.Fatalf("evaluations: got %d, want 1", stats.Evaluations)
	}
	// Input and keyup per keystroke, each superseding the previous.
	if stats.Scheduled != 2*n || stats.Cancellations != 2*n-1 {
		t.Fatalf("stats: %+v", stats)
	}
	if h.clock.Pending() != 0 {
		t.Fatalf("live timers: %d", h.clock.Pending())
	}
}

func TestEngine_MidWordDoesNotFire(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"ty": "thank you"}, 300*time.Millisecond)
	in := h.doc.ElementByID("in")
	h.typeInto(t, "in", "party")
	h.clock.Advance(300 * time.Millisecond)

	if got := h.doc.Value(in); got != "party" {
		t.Fatalf("value: got %q, want %q", got, "party")
	}
	if len(h.results) != 1 || h.results[0].Outcome != expander.OutcomeNoMatch {
		t.Fatalf("results: %+v", h.results)
	}
}

func TestEngine_EmptyTriggerMapNeverFires(t *testing.T) {
	for _, triggers := range []match.TriggerMap{nil, {}, {"": "boom"}} {
		h := newHarness(t, triggers, 0)
		h.typeInto(t, "in", "anything at all")
		h.clock.Advance(0)

		if got := h.doc.Value(h.doc.ElementByID("in")); got != "anything at all" {
			t.Fatalf("value changed: %q", got)
		}
		if st := h.engine.Stats(); st.Replacements != 0 || st.Evaluations != 1 {
			t.Fatalf("stats: %+v", st)
		}
	}
}

func TestEngine_DelayChangeKeepsPendingDeadline(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"brb": "be right back"}, 300*time.Millisecond)
	in := h.doc.ElementByID("in")
	h.typeInto(t, "in", "brb")

	zero := time.Duration(0)
	h.engine.ApplySettingsUpdate(expander.Update{Delay: &zero})
	if got := h.engine.Delay(); got != 0 {
		t.Fatalf("delay: got %v, want 0", got)
	}

	h.clock.Advance(299 * time.Millisecond)
	if got := h.doc.Value(in); got != "brb" {
		t.Fatalf("pending evaluation fired early: %q", got)
	}
	h.clock.Advance(time.Millisecond)
	if got := h.doc.Value(in); got != "be right back" {
		t.Fatalf("pending evaluation did not fire at its deadline: %q", got)
	}

	// Later scheduling uses the new delay.
	h.doc.TypeText(" brb")
	if st := h.engine.State(); !st.Deadline.Equal(h.clock.Now()) {
		t.Fatalf("deadline: got %v, want %v", st.Deadline, h.clock.Now())
	}
	h.clock.Advance(0)
	if got, want := h.doc.Value(in), "be right back be right back"; got != want {
		t.Fatalf("value: got %q, want %q", got, want)
	}
}

func TestEngine_ApplySettingsUpdate(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"old": "x"}, 300*time.Millisecond)
	in := h.doc.ElementByID("in")
	h.typeInto(t, "in", "new")

	// Triggers are read when the evaluation runs, not when it was scheduled.
	h.engine.ApplySettingsUpdate(expander.Update{Triggers: match.TriggerMap{"new": "fresh"}})
	h.clock.Advance(300 * time.Millisecond)
	if got := h.doc.Value(in); got != "fresh" {
		t.Fatalf("value: got %q, want %q", got, "fresh")
	}

	neg := -time.Second
	h.engine.ApplySettingsUpdate(expander.Update{Delay: &neg})
	if got := h.engine.Delay(); got != 300*time.Millisecond {
		t.Fatalf("negative delay applied: %v", got)
	}

	h.engine.ApplySettingsUpdate(expander.Update{})
	if got := h.engine.Triggers(); len(got) != 1 || got["new"] != "fresh" {
		t.Fatalf("empty update changed triggers: %v", got)
	}
	if !(expander.Update{}).Empty() {
		t.Fatalf("zero update should be empty")
	}
}

func TestEngine_IgnoresUneligibleTargets(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"a": "b"}, 0)

	for _, id := range []string{"off", "plain"} {
		h.engine.OnActivity(h.doc, h.doc.ElementByID(id))
	}
	h.engine.OnActivity(h.doc, nil)
	if h.engine.Pending() {
		t.Fatalf("non-editable targets must not schedule")
	}

	// Synthetic events never schedule.
	h.doc.Dispatch(&dom.Event{Type: dom.EventInput, Target: h.doc.ElementByID("in"), Bubbles: true})
	if h.engine.Pending() {
		t.Fatalf("untrusted event scheduled an evaluation")
	}

	res := h.engine.Evaluate(h.doc, h.doc.ElementByID("plain"))
	if res.Outcome != expander.OutcomeIgnored {
		t.Fatalf("outcome: got %v, want ignored", res.Outcome)
	}
	if st := h.engine.Stats(); st.Evaluations != 0 {
		t.Fatalf("ignored evaluation counted: %+v", st)
	}
}

func TestEngine_CancelPending(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"brb": "be right back"}, 300*time.Millisecond)
	h.typeInto(t, "in", "brb")

	if !h.engine.CancelPending() {
		t.Fatalf("expected a pending evaluation")
	}
	if h.engine.CancelPending() {
		t.Fatalf("second cancel should report nothing pending")
	}
	h.clock.Advance(time.Second)
	if got := h.doc.Value(h.doc.ElementByID("in")); got != "brb" {
		t.Fatalf("cancelled evaluation ran: %q", got)
	}
	if st := h.engine.State(); st.Phase != expander.PhaseIdle {
		t.Fatalf("phase: %v", st.Phase)
	}
}

func TestEngine_RichText(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"sig": "Best,\nSam"}, 300*time.Millisecond)
	rich := h.doc.ElementByID("rich")
	h.typeInto(t, "rich", "thanks! sig")
	h.clock.Advance(300 * time.Millisecond)

	if got, want := dom.TextContent(rich), "thanks! Best,\nSam"; got != want {
		t.Fatalf("content: got %q, want %q", got, want)
	}
	if len(h.results) != 1 || h.results[0].Kind != surface.KindRichText {
		t.Fatalf("results: %+v", h.results)
	}
	if h.results[0].Target != rich {
		t.Fatalf("target should be the editing host")
	}
}

func TestEngine_RichTextWithoutCaret(t *testing.T) {
	h := newHarness(t, match.TriggerMap{"a": "b"}, 0)
	h.typeInto(t, "rich", "a")
	h.doc.Selection().RemoveAllRanges()
	h.clock.Advance(0)

	if len(h.results) != 1 || h.results[0].Outcome != expander.OutcomeNoText {
		t.Fatalf("results: %+v", h.results)
	}
}

func TestEngine_DetachStopsListening(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e := expander.New(expander.Config{Clock: expandertest.NewClock(epoch)})
	detach := e.Attach(doc)
	detach()

	doc.Focus(doc.ElementByID("in"))
	doc.TypeText("x")
	if e.Pending() {
		t.Fatalf("detached engine scheduled an evaluation")
	}
}

func TestEngine_RecoversCallbackPanics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	clock := expandertest.NewClock(epoch)
	e := expander.New(expander.Config{
		Triggers: match.TriggerMap{"x": "y"},
		Clock:    clock,
		Logger:   zap.New(core),
		OnResult: func(expander.Result) { panic("host bug") },
	})
	defer e.Attach(doc)()

	doc.Focus(doc.ElementByID("in"))
	doc.TypeText("x")
	clock.Advance(0)

	if got := doc.Value(doc.ElementByID("in")); got != "y" {
		t.Fatalf("value: got %q, want %q", got, "y")
	}
	if st := e.Stats(); st.Recovered != 1 {
		t.Fatalf("recovered: got %d, want 1", st.Recovered)
	}
	if n := logs.FilterMessage("recovered panic").Len(); n != 1 {
		t.Fatalf("panic log entries: got %d, want 1", n)
	}
	if n := logs.FilterMessage("expanded").Len(); n != 1 {
		t.Fatalf("expansion log entries: got %d, want 1", n)
	}
}

func TestEngine_ConfigDefaults(t *testing.T) {
	e := expander.New(expander.Config{Delay: -1})
	if got := e.Delay(); got != expander.DefaultDelay {
		t.Fatalf("delay: got %v, want %v", got, expander.DefaultDelay)
	}
	if got := e.Triggers(); len(got) != 0 {
		t.Fatalf("triggers: %v", got)
	}
	if e.ID() == "" {
		t.Fatalf("engine id should be set")
	}
}

func TestEngine_ZeroDelayEvaluatesOnNextCallback(t *testing.T) {
	if got := expander.New(expander.Config{}).Delay(); got != 0 {
		t.Fatalf("zero config delay: got %v, want 0", got)
	}

	h := newHarness(t, match.TriggerMap{"brb": "be right back"}, 0)
	h.typeInto(t, "in", "brb")
	if got := h.doc.Value(h.doc.ElementByID("in")); got != "brb" {
		t.Fatalf("expanded inside the event handler: %q", got)
	}
	if !h.engine.Pending() {
		t.Fatalf("zero delay should still schedule")
	}
	h.clock.Advance(0)
	if got, want := h.doc.Value(h.doc.ElementByID("in")), "be right back"; got != want {
		t.Fatalf("value: got %q, want %q", got, want)
	}
}

func TestEngine_SystemClock(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	done := make(chan expander.Result, 1)
	e := expander.New(expander.Config{
		Triggers: match.TriggerMap{"omw": "on my way"},
		Delay:    10 * time.Millisecond,
		OnResult: func(r expander.Result) { done <- r },
	})
	defer e.Attach(doc)()

	doc.Focus(doc.ElementByID("in"))
	doc.TypeText("omw")

	select {
	case r := <-done:
		if r.Outcome != expander.OutcomeReplaced {
			t.Fatalf("outcome: %v", r.Outcome)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timer never fired")
	}
	if got := doc.Value(doc.ElementByID("in")); got != "on my way" {
		t.Fatalf("value: got %q", got)
	}
}

func TestEngine_Watch(t *testing.T) {
	e := expander.New(expander.Config{Clock: expandertest.NewClock(epoch)})

	ch := make(chan expander.Update)
	errc := make(chan error, 1)
	go func() { errc <- e.Watch(context.Background(), ch) }()

	d := 42 * time.Millisecond
	ch <- expander.Update{Triggers: match.TriggerMap{"k": "v"}}
	ch <- expander.Update{Delay: &d}
	close(ch)
	if err := <-errc; err != nil {
		t.Fatalf("watch: %v", err)
	}
	if got := e.Delay(); got != d {
		t.Fatalf("delay: got %v, want %v", got, d)
	}
	if got := e.Triggers(); got["k"] != "v" {
		t.Fatalf("triggers: %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { errc <- e.Watch(ctx, make(chan expander.Update)) }()
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("watch after cancel: got %v, want context.Canceled", err)
	}
}

func TestOutcomeAndPhaseStrings(t *testing.T) {
	cases := map[expander.Outcome]string{
		expander.OutcomeIgnored:  "ignored",
		expander.OutcomeNoText:   "no-text",
		expander.OutcomeNoMatch:  "no-match",
		expander.OutcomeStale:    "stale",
		expander.OutcomeReplaced: "replaced",
		expander.Outcome(99):     "unknown",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Fatalf("%d: got %q, want %q", o, got, want)
		}
	}
	if expander.PhaseIdle.String() != "idle" || expander.PhasePending.String() != "pending" {
		t.Fatalf("phase strings")
	}
}
