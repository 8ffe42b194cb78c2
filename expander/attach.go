package expander

import (
	"go.uber.org/zap"

	"github.com/iw2rmb/textexpand/dom"
)

// Attach registers capture-phase input and keyup listeners on doc's root
// so the engine sees activity before page handlers can stop it. Untrusted
// events are skipped; the engine's own replacements dispatch those.
// The returned func removes the listeners.
func (e *Engine) Attach(doc *dom.Document) (detach func()) {
	handle := func(ev *dom.Event) {
		if !ev.Trusted {
			return
		}
		defer e.recoverPanic("listener")
		if ce := e.log.Check(zap.DebugLevel, "activity"); ce != nil {
			ce.Write(zap.String("event", ev.Type), zap.String("input_type", string(ev.InputType)), zap.String("key", ev.Key))
		}
		e.OnActivity(doc, ev.Target)
	}
	root := doc.Root()
	offInput := doc.AddEventListener(root, dom.EventInput, handle, true)
	offKeyUp := doc.AddEventListener(root, dom.EventKeyUp, handle, true)
	return func() {
		offInput()
		offKeyUp()
	}
}
