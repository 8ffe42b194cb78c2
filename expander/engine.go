package expander

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/iw2rmb/textexpand/dom"
	"github.com/iw2rmb/textexpand/match"
	"github.com/iw2rmb/textexpand/surface"
)

// DefaultDelay is used when Config.Delay is negative. Hosts that load
// settings pass the stored delay, which defaults to this value.
const DefaultDelay = 300 * time.Millisecond

// Config configures an Engine. Zero values are usable: no triggers, an
// immediate (zero) delay, the system clock and a no-op logger.
type Config struct {
	Triggers match.TriggerMap

	// Delay is the pause after the last activity before evaluating. Zero
	// is a stored setting like any other and evaluates on the next clock
	// callback; pass a negative value to get DefaultDelay.
	Delay time.Duration

	Clock  Clock
	Logger *zap.Logger

	// OnResult, when set, is called after every evaluation on the goroutine
	// that ran it.
	OnResult func(Result)
}

// Phase is the debounce state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhasePending
)

func (p Phase) String() string {
	if p == PhasePending {
		return "pending"
	}
	return "idle"
}

// State is a snapshot of the debounce state machine.
type State struct {
	Phase    Phase
	Target   *html.Node
	Deadline time.Time
}

type pending struct {
	seq      uint64
	doc      *dom.Document
	target   *html.Node
	deadline time.Time
	timer    Timer
}

// Engine owns the trigger snapshot, the delay and the pending evaluation.
type Engine struct {
	id       string
	clock    Clock
	log      *zap.Logger
	onResult func(Result)

	table atomic.Pointer[match.Table]
	delay atomic.Int64

	mu      sync.Mutex
	seq     uint64
	pending *pending
	stats   Stats
}

// New returns an idle engine.
func New(cfg Config) *Engine {
	e := &Engine{
		id:       uuid.NewString(),
		clock:    cfg.Clock,
		log:      cfg.Logger,
		onResult: cfg.OnResult,
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	e.log = e.log.With(zap.String("engine", e.id))

	delay := cfg.Delay
	if delay < 0 {
		delay = DefaultDelay
	}
	e.delay.Store(int64(delay))
	e.table.Store(match.Compile(cfg.Triggers))
	return e
}

// ID identifies the engine in logs.
func (e *Engine) ID() string { return e.id }

// Delay returns the delay applied to newly scheduled evaluations.
func (e *Engine) Delay() time.Duration { return time.Duration(e.delay.Load()) }

// Triggers returns a copy of the current trigger snapshot.
func (e *Engine) Triggers() match.TriggerMap { return e.table.Load().Triggers() }

// State returns the current debounce state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return State{Phase: PhaseIdle}
	}
	return State{Phase: PhasePending, Target: e.pending.target, Deadline: e.pending.deadline}
}

// Pending reports whether an evaluation is scheduled.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending != nil
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// OnActivity records typing activity on target. Any pending evaluation is
// dropped and a new one is scheduled Delay from now. Targets that are not
// editable are ignored.
func (e *Engine) OnActivity(doc *dom.Document, target *html.Node) {
	if !surface.Editable(doc, target) {
		return
	}
	delay := e.Delay()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelLocked()
	e.seq++
	seq := e.seq
	p := &pending{
		seq:      seq,
		doc:      doc,
		target:   target,
		deadline: e.clock.Now().Add(delay),
	}
	e.pending = p
	e.stats.Scheduled++
	// The callback takes mu, so it cannot observe the engine before p is
	// installed even when the clock fires immediately on another goroutine.
	p.timer = e.clock.AfterFunc(delay, func() { e.fire(seq) })
}

// CancelPending drops the pending evaluation. It reports whether one was
// pending.
func (e *Engine) CancelPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelLocked()
}

func (e *Engine) cancelLocked() bool {
	p := e.pending
	if p == nil {
		return false
	}
	e.pending = nil
	if p.timer != nil {
		p.timer.Stop()
	}
	e.stats.Cancellations++
	return true
}

func (e *Engine) fire(seq uint64) {
	e.mu.Lock()
	p := e.pending
	if p == nil || p.seq != seq {
		e.mu.Unlock()
		return
	}
	e.pending = nil
	e.mu.Unlock()

	defer e.recoverPanic("timer")
	e.Evaluate(p.doc, p.target)
}

// Evaluate runs the matcher against target now and replaces the first
// match. It does not touch the pending evaluation.
func (e *Engine) Evaluate(doc *dom.Document, target *html.Node) Result {
	res := e.evaluate(doc, target)

	e.mu.Lock()
	if res.Outcome != OutcomeIgnored {
		e.stats.Evaluations++
	}
	switch res.Outcome {
	case OutcomeReplaced:
		e.stats.Replacements++
	case OutcomeStale:
		e.stats.Stale++
	}
	e.mu.Unlock()

	if e.onResult != nil {
		e.onResult(res)
	}
	return res
}

func (e *Engine) evaluate(doc *dom.Document, target *html.Node) Result {
	res := Result{Target: target, Outcome: OutcomeIgnored}
	s, ok := surface.Resolve(doc, target)
	if !ok {
		return res
	}
	res.Kind = s.Kind()

	text, ok := s.TextBeforeCaret()
	if !ok {
		res.Outcome = OutcomeNoText
		return res
	}
	m, ok := e.table.Load().Find(text)
	if !ok {
		res.Outcome = OutcomeNoMatch
		return res
	}
	res.Match = m

	if !s.Replace(m.Trigger, m.Expansion) {
		e.log.Debug("trigger no longer at caret", zap.String("trigger", m.Trigger))
		res.Outcome = OutcomeStale
		return res
	}
	e.log.Debug("expanded",
		zap.String("trigger", m.Trigger),
		zap.Stringer("surface", s.Kind()),
		zap.Int("expansion_len", len(m.Expansion)),
	)
	res.Outcome = OutcomeReplaced
	return res
}

// recoverPanic logs a panic raised by a callback so it never reaches the
// host's dispatch path.
func (e *Engine) recoverPanic(where string) {
	r := recover()
	if r == nil {
		return
	}
	e.mu.Lock()
	e.stats.Recovered++
	e.mu.Unlock()
	e.log.Error("recovered panic", zap.String("in", where), zap.Error(fmt.Errorf("%v", r)))
}
