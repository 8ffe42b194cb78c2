package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iw2rmb/textexpand/dom"
	"github.com/iw2rmb/textexpand/editor"
	"github.com/iw2rmb/textexpand/expander"
	"github.com/iw2rmb/textexpand/settings"
)

var (
	demoPage   string
	demoRender bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Fill in an HTML form in the terminal with expansion enabled",
	Long: `Opens a form in the terminal. Type a trigger, pause, and it expands.
Edits to the settings file apply while the form is open.

Logs go to a session file under the user cache directory.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{fileLogAnnotation: ""},
	RunE:        runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoPage, "page", "", "HTML file to edit instead of the built-in form")
	demoCmd.Flags().BoolVar(&demoRender, "render", false, "Print the page as HTML on exit")
}

const demoForm = `<!DOCTYPE html>
<html><body>
<form>
  <input id="subject" aria-label="Subject">
  <input id="to" type="email" placeholder="To">
  <input id="ref" value="TX-1" disabled>
  <textarea id="body" placeholder="Message"></textarea>
  <input id="pin" type="password" aria-label="PIN">
</form>
<div id="notes" contenteditable="true" aria-label="Notes"><p></p></div>
</body></html>`

var demoTitle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

type demoModel struct {
	editor editor.Model
	store  *settings.FileStore
}

func (m demoModel) Init() tea.Cmd { return m.editor.Init() }

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m demoModel) View() string {
	title := demoTitle.Render(fmt.Sprintf("textexpand · %s", m.store.Path()))
	return lipgloss.JoinVertical(lipgloss.Left, title, m.editor.View())
}

func runDemo(cmd *cobra.Command, args []string) error {
	doc, err := loadDemoPage(demoPage)
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o750); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	w, err := settings.NewWatcher(store, logger.Named("watcher"), 0)
	if err != nil {
		return err
	}

	ed, err := editor.New(editor.Config{
		Doc:       doc,
		Triggers:  store.TriggerMap(),
		Delay:     store.Delay(),
		Updates:   w.Updates(),
		Clipboard: editor.NewSystemClipboard(),
		Style:     editor.DefaultStyle(),
		Logger:    logger.Logger,
		OnResult: func(r expander.Result) {
			if r.Outcome == expander.OutcomeReplaced {
				logger.Info("expanded", zap.String("trigger", r.Match.Trigger), zap.Stringer("surface", r.Kind))
			}
		},
	})
	if err != nil {
		return err
	}
	defer ed.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(demoModel{editor: ed, store: store}, tea.WithAltScreen())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The form stays usable without live settings.
		if err := w.Run(ctx); err != nil {
			logger.Warn("settings watcher stopped", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("demo finished", zap.Any("engine", ed.Engine().Stats()), zap.Any("watcher", w.Stats()))
	if demoRender {
		if err := doc.Render(cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if path := logger.Path(); path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Session log: %s\n", path)
	}
	return nil
}

func loadDemoPage(path string) (*dom.Document, error) {
	if path == "" {
		return dom.ParseString(demoForm)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.Parse(f)
}
