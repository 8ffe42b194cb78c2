package match

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsBoundary(t *testing.T) {
	cases := []struct {
		before string
		want   bool
	}{
		{before: "", want: true},
		{before: "hi ", want: true},
		{before: "hi\t", want: true},
		{before: "hi\n", want: true},
		{before: "hi\r", want: true},
		{before: "end.", want: true},
		{before: "a,", want: true},
		{before: "a;", want: true},
		{before: "a:", want: true},
		{before: "a!", want: true},
		{before: "a?", want: true},
		{before: "email", want: false},
		{before: "email-", want: false},
		{before: "(", want: false},
		{before: "é", want: false},
	}
	for _, tc := range cases {
		if got := IsBoundary(tc.before); got != tc.want {
			t.Fatalf("IsBoundary(%q): got %v, want %v", tc.before, got, tc.want)
		}
	}
}

func TestFind_BoundaryPrefixesFireAndWordPrefixesDoNot(t *testing.T) {
	pairs := TriggerMap{
		"brb":   "be right back",
		"ty":    "thank you",
		"-sig":  "Regards",
		"...":   "…",
		"addr:": "",
	}
	prefixes := []string{"", " ", "hello ", "line\n", "tab\t", "cr\r", "end.", "a,", "a;", "a:", "wow!", "what?"}

	for trigger, expansion := range pairs {
		for _, prefix := range prefixes {
			got, ok := Find(prefix+trigger, pairs)
			if !ok {
				t.Fatalf("Find(%q): expected match for %q", prefix+trigger, trigger)
			}
			if diff := cmp.Diff(Match{Trigger: trigger, Expansion: expansion}, got); diff != "" {
				t.Fatalf("Find(%q) mismatch (-want +got):\n%s", prefix+trigger, diff)
			}

			text := prefix + "x" + trigger
			if got, ok := Find(text, TriggerMap{trigger: expansion}); ok {
				t.Fatalf("Find(%q): got %v, want no match", text, got)
			}
		}
	}
}

func TestFind_MidWordDoesNotFire(t *testing.T) {
	if got, ok := Find("party", TriggerMap{"ty": "thank you"}); ok {
		t.Fatalf("got %v, want no match inside a word", got)
	}
}

func TestFind_RequiresSuffix(t *testing.T) {
	if got, ok := Find("brb later", TriggerMap{"brb": "be right back"}); ok {
		t.Fatalf("got %v, want no match when trigger is not at the caret", got)
	}
}

func TestFind_EmptyInputs(t *testing.T) {
	if got, ok := Find("anything", nil); ok {
		t.Fatalf("nil map: got %v, want no match", got)
	}
	if got, ok := Find("anything", TriggerMap{}); ok {
		t.Fatalf("empty map: got %v, want no match", got)
	}
	if got, ok := Find("", TriggerMap{"a": "b"}); ok {
		t.Fatalf("empty text: got %v, want no match", got)
	}
	if got, ok := Find("text ", TriggerMap{"": "boom"}); ok {
		t.Fatalf("empty trigger: got %v, want no match", got)
	}
}

func TestFind_LongestTriggerWins(t *testing.T) {
	triggers := TriggerMap{"rb": "short", "brb": "long"}
	for i := 0; i < 20; i++ {
		got, ok := Find("ok brb", triggers)
		if !ok || got.Trigger != "brb" {
			t.Fatalf("run %d: got (%v,%v), want brb", i, got, ok)
		}
	}

	// The longer trigger fails its boundary check, the shorter one passes.
	got, ok := Find("a-b", TriggerMap{"a-b": "long", "-b": "short"})
	if !ok || got.Trigger != "a-b" {
		t.Fatalf("got (%v,%v), want a-b at text start", got, ok)
	}
	got, ok = Find("za:b", TriggerMap{"a:b": "long", "b": "short"})
	if !ok || got.Trigger != "b" {
		t.Fatalf("got (%v,%v), want b after ':'", got, ok)
	}
}

func TestFind_EqualLengthTieBreakIsLexicographic(t *testing.T) {
	tbl := Compile(TriggerMap{"xb": "2", "ab": "1"})
	want := []Match{{Trigger: "ab", Expansion: "1"}, {Trigger: "xb", Expansion: "2"}}
	if diff := cmp.Diff(want, tbl.entries); diff != "" {
		t.Fatalf("table order mismatch (-want +got):\n%s", diff)
	}
}

func TestFind_PunctuationOnlyTrigger(t *testing.T) {
	got, ok := Find("wait ...", TriggerMap{"...": "…"})
	if !ok || got.Expansion != "…" {
		t.Fatalf("got (%v,%v), want ellipsis expansion", got, ok)
	}
}

func TestTable_Accessors(t *testing.T) {
	var nilTable *Table
	if nilTable.Len() != 0 || nilTable.MaxTriggerLen() != 0 {
		t.Fatalf("nil table should be empty")
	}
	if _, ok := nilTable.Find("x"); ok {
		t.Fatalf("nil table should not match")
	}

	m := TriggerMap{"brb": "be right back", "": "ignored", "sig": "Regards"}
	tbl := Compile(m)
	if got, want := tbl.Len(), 2; got != want {
		t.Fatalf("len: got %d, want %d", got, want)
	}
	if got, want := tbl.MaxTriggerLen(), 3; got != want {
		t.Fatalf("max trigger len: got %d, want %d", got, want)
	}
	want := TriggerMap{"brb": "be right back", "sig": "Regards"}
	if diff := cmp.Diff(want, tbl.Triggers()); diff != "" {
		t.Fatalf("triggers mismatch (-want +got):\n%s", diff)
	}

	// Mutating the source map does not leak into the snapshot.
	m["new"] = "x"
	if tbl.Len() != 2 {
		t.Fatalf("snapshot changed after source mutation")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(TriggerMap{"ok": ""}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(TriggerMap{"": "x"}); !errors.Is(err, ErrEmptyTrigger) {
		t.Fatalf("got %v, want ErrEmptyTrigger", err)
	}
}
