// Package match decides whether a trigger is complete at the caret.
//
// Matching is exact and literal: a trigger fires when the text before the
// caret ends with it and the character just before the trigger is a
// boundary (or the trigger starts the text).
package match

import (
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TriggerMap maps trigger literals to their expansions.
type TriggerMap map[string]string

// Match is a trigger that fired, with its expansion.
type Match struct {
	Trigger   string
	Expansion string
}

// ErrEmptyTrigger is returned by Validate for a map holding an empty key.
var ErrEmptyTrigger = errors.New("trigger must not be empty")

const boundaryPunct = ".,;:!?"

// IsBoundary reports whether a trigger preceded by before stands alone:
// before is empty, or it ends in whitespace or one of ". , ; : ! ?".
func IsBoundary(before string) bool {
	if before == "" {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(before)
	return unicode.IsSpace(r) || strings.ContainsRune(boundaryPunct, r)
}

// Find returns the trigger that fires at the end of text, if any.
// Longer triggers are tried first; equal lengths fall back to byte order.
func Find(text string, triggers TriggerMap) (Match, bool) {
	return Compile(triggers).Find(text)
}

// Validate reports the first structural problem in m.
func Validate(m TriggerMap) error {
	if _, ok := m[""]; ok {
		return ErrEmptyTrigger
	}
	return nil
}

// Table is an immutable, ordered snapshot of a TriggerMap.
type Table struct {
	entries []Match
	maxLen  int
}

// Compile snapshots m. Empty triggers are dropped. A nil map compiles to an
// empty table.
func Compile(m TriggerMap) *Table {
	t := &Table{entries: make([]Match, 0, len(m))}
	for trigger, expansion := range m {
		if trigger == "" {
			continue
		}
		t.entries = append(t.entries, Match{Trigger: trigger, Expansion: expansion})
		t.maxLen = max(t.maxLen, len(trigger))
	}
	sort.Slice(t.entries, func(i, j int) bool {
		a, b := t.entries[i].Trigger, t.entries[j].Trigger
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return t
}

// Find returns the first entry, in table order, that fires at the end of text.
func (t *Table) Find(text string) (Match, bool) {
	if t == nil || len(t.entries) == 0 || text == "" {
		return Match{}, false
	}
	for _, e := range t.entries {
		if !strings.HasSuffix(text, e.Trigger) {
			continue
		}
		if IsBoundary(text[:len(text)-len(e.Trigger)]) {
			return e, true
		}
	}
	return Match{}, false
}

// Len returns the number of usable triggers.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// MaxTriggerLen is the byte length of the longest trigger; callers never
// need more than that much text before the caret plus one boundary rune.
func (t *Table) MaxTriggerLen() int {
	if t == nil {
		return 0
	}
	return t.maxLen
}

// Triggers returns a copy of the snapshot as a map.
func (t *Table) Triggers() TriggerMap {
	out := make(TriggerMap, t.Len())
	if t == nil {
		return out
	}
	for _, e := range t.entries {
		out[e.Trigger] = e.Expansion
	}
	return out
}
