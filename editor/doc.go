// Package editor provides a Bubble Tea component that edits the text
// fields of a dom.Document and runs an expander.Engine over them.
//
// The component owns input handling, focus movement between fields,
// grapheme-aware rendering, and the clock that delivers the engine's
// debounce timers as Bubble Tea messages, so evaluations run on the same
// goroutine as key handling.
package editor
