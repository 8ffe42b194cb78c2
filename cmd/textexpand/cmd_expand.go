package main

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iw2rmb/textexpand/dom"
	"github.com/iw2rmb/textexpand/expander"
	"github.com/iw2rmb/textexpand/match"
)

var expandRich bool

var expandCmd = &cobra.Command{
	Use:   "expand [TEXT...]",
	Short: "Type text into a field and print it after expansion",
	Long: `Types TEXT, or standard input when no TEXT is given, into an HTML
textarea one word at a time. The typist pauses after every word, so each
trigger that ends a word is expanded exactly as it would be in a browser.

Examples:
  textexpand expand brb
  echo "ty for the review, brb" | textexpand expand --rich`,
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().BoolVar(&expandRich, "rich", false, "Type into a contenteditable element instead of a textarea")
}

func runExpand(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ") + "\n"
	} else {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		text = string(b)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	out, stats, err := expandText(text, store.TriggerMap(), expandRich, logger.Named("expander"))
	if err != nil {
		return err
	}
	logger.Debug("expand finished",
		zap.Int("evaluations", stats.Evaluations),
		zap.Int("replacements", stats.Replacements))
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

const (
	expandPage     = `<!DOCTYPE html><html><body><textarea id="field"></textarea></body></html>`
	expandRichPage = `<!DOCTYPE html><html><body><div id="field" contenteditable="true"></div></body></html>`
)

// expandText types text word by word and evaluates the field whenever a
// word is complete.
func expandText(text string, triggers match.TriggerMap, rich bool, log *zap.Logger) (string, expander.Stats, error) {
	page := expandPage
	if rich {
		page = expandRichPage
	}
	doc, err := dom.ParseString(page)
	if err != nil {
		return "", expander.Stats{}, err
	}
	field := doc.ElementByID("field")
	if !doc.Focus(field) {
		return "", expander.Stats{}, fmt.Errorf("focus field")
	}

	e := expander.New(expander.Config{Triggers: triggers, Logger: log})

	var word strings.Builder
	pause := func() {
		if word.Len() > 0 {
			doc.TypeText(word.String())
			word.Reset()
		}
		e.Evaluate(doc, field)
	}
	for _, r := range text {
		if !unicode.IsSpace(r) {
			word.WriteRune(r)
			continue
		}
		pause()
		doc.TypeText(string(r))
	}
	pause()

	if rich {
		return dom.TextContent(field), e.Stats(), nil
	}
	return doc.Value(field), e.Stats(), nil
}
