// Package expander watches typing activity on a dom.Document and, once
// typing pauses, replaces a trigger that ends at the caret with its
// expansion.
//
// An Engine holds at most one pending evaluation. Every qualifying input or
// keyup event supersedes the previous one (trailing-edge debounce), so the
// matcher runs once per pause instead of once per keystroke:
//
//	Idle ──activity──▶ Pending(target, deadline)
//	Pending ──activity──▶ Pending(target', now+delay)
//	Pending ──timer──▶ Idle (evaluate target)
//	Pending ──CancelPending──▶ Idle
//
// Settings updates swap the trigger snapshot atomically and change the delay
// used for later scheduling. A pending evaluation keeps its deadline.
package expander
