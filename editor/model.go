package editor

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/iw2rmb/textexpand/dom"
	"github.com/iw2rmb/textexpand/expander"
)

var (
	ErrNoDocument = errors.New("editor: no document")
	ErrNoFields   = errors.New("editor: document has no editable fields")
)

const defaultWidth = 40

// Model is a Bubble Tea component that renders the fields of a document
// and feeds typing into an expander.Engine.
type Model struct {
	cfg    Config
	doc    *dom.Document
	engine *expander.Engine
	clock  *teaClock
	detach func()
	log    *zap.Logger
	res    *resultLog

	fields []*html.Node
	focus  int

	width int
	help  help.Model
}

func New(cfg Config) (Model, error) {
	if cfg.Doc == nil {
		return Model{}, ErrNoDocument
	}
	fields := cfg.Doc.Focusable()
	if len(fields) == 0 {
		return Model{}, ErrNoFields
	}
	if cfg.KeyMap.isZero() {
		cfg.KeyMap = DefaultKeyMap()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	m := Model{
		cfg:    cfg,
		doc:    cfg.Doc,
		clock:  newTeaClock(),
		log:    cfg.Logger.Named("editor"),
		res:    &resultLog{},
		fields: fields,
		width:  cfg.Width,
		help:   help.New(),
	}
	if m.width <= 0 {
		m.width = defaultWidth
	}

	res := m.res
	onResult := cfg.OnResult
	m.engine = expander.New(expander.Config{
		Triggers: cfg.Triggers,
		Delay:    cfg.Delay,
		Clock:    m.clock,
		Logger:   cfg.Logger.Named("expander"),
		OnResult: func(r expander.Result) {
			res.record(r)
			if onResult != nil {
				onResult(r)
			}
		},
	})
	m.detach = m.engine.Attach(m.doc)
	m = m.focusField(0, 1)
	return m, nil
}

func (m Model) Document() *dom.Document { return m.doc }

func (m Model) Engine() *expander.Engine { return m.engine }

// Fields returns the focusable fields in document order.
func (m Model) Fields() []*html.Node { return m.fields }

// Focused returns the field that receives typed text.
func (m Model) Focused() *html.Node { return m.fields[m.focus] }

func (m Model) Init() tea.Cmd { return waitForSettings(m.cfg.Updates) }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if width > 0 {
		m.width = width
	}
	m.help.Width = width
	return m
}

// Close detaches the engine from the document and drops any pending
// evaluation.
func (m Model) Close() {
	if m.detach != nil {
		m.detach()
	}
	m.engine.CancelPending()
}

// focusField moves focus to the first enabled field at or after i in
// direction dir, wrapping around.
func (m Model) focusField(i, dir int) Model {
	n := len(m.fields)
	i = ((i % n) + n) % n
	for step := 0; step < n; step++ {
		j := ((i+step*dir)%n + n) % n
		if !dom.Disabled(m.fields[j]) {
			i = j
			break
		}
	}
	m.focus = i
	m.doc.Focus(m.fields[i])
	m.log.Debug("focus", zap.String("field", fieldLabel(m.fields[i])))
	return m
}

func waitForSettings(ch <-chan expander.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		return settingsMsg{update: u, ok: ok}
	}
}
