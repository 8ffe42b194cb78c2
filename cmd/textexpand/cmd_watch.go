package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iw2rmb/textexpand/expander"
	"github.com/iw2rmb/textexpand/settings"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print settings changes as the file is edited",
	Long: `Watches the settings file and prints every change that a running
expander would pick up. Malformed edits are logged and skipped. Stop with
Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (%d triggers, delay %s)\n",
		store.Path(), len(store.Triggers()), store.Delay())
	return watchSettings(ctx, store, cmd.OutOrStdout())
}

// watchSettings prints updates from a watcher on store until ctx is done.
func watchSettings(ctx context.Context, store *settings.FileStore, out io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o750); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	w, err := settings.NewWatcher(store, logger.Named("watcher"), 0)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(ctx) })
	g.Go(func() error {
		for u := range w.Updates() {
			fmt.Fprintln(out, describeUpdate(u))
		}
		return nil
	})
	err = g.Wait()
	logger.Debug("watch stopped", zap.Any("stats", w.Stats()))
	return err
}

func describeUpdate(u expander.Update) string {
	var parts []string
	if u.Triggers != nil {
		keys := make([]string, 0, len(u.Triggers))
		for k := range u.Triggers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			parts = append(parts, "triggers: none")
		} else {
			parts = append(parts, fmt.Sprintf("triggers: %s", strings.Join(keys, ", ")))
		}
	}
	if u.Delay != nil {
		parts = append(parts, fmt.Sprintf("delay: %s", *u.Delay))
	}
	return strings.Join(parts, "; ")
}
