package expander

import (
	"golang.org/x/net/html"

	"github.com/iw2rmb/textexpand/match"
	"github.com/iw2rmb/textexpand/surface"
)

// Outcome describes how an evaluation ended.
type Outcome uint8

const (
	// OutcomeIgnored means the target is not an editable surface.
	OutcomeIgnored Outcome = iota
	// OutcomeNoText means a rich-text target had no caret to read.
	OutcomeNoText
	OutcomeNoMatch
	// OutcomeStale means a match was found but the trigger was gone by the
	// time the replacement ran.
	OutcomeStale
	OutcomeReplaced
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeNoText:
		return "no-text"
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeStale:
		return "stale"
	case OutcomeReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Result is reported for every evaluation.
type Result struct {
	Target  *html.Node
	Kind    surface.Kind
	Outcome Outcome

	// Match is set for OutcomeStale and OutcomeReplaced.
	Match match.Match
}

// Stats counts engine activity since creation.
type Stats struct {
	Scheduled     int
	Cancellations int
	Evaluations   int
	Replacements  int
	Stale         int
	Recovered     int
}
