package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iw2rmb/textexpand/settings"
)

// formatName backs --format on import and export.
var formatName string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List triggers and their expansions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add TRIGGER EXPANSION",
	Short: "Add or replace a trigger",
	Long: `Adds TRIGGER, replacing any expansion it already had. Both values are
trimmed and must not be empty.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:     "remove TRIGGER",
	Aliases: []string{"rm"},
	Short:   "Remove a trigger",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var delayCmd = &cobra.Command{
	Use:   "delay [MILLISECONDS]",
	Short: "Show or set the pause before a trigger expands",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDelay,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace all settings with the contents of FILE",
	Long: `Replaces every trigger and the delay with the document in FILE.
Use - to read standard input. The document must hold a "shortcuts" object
of strings and may hold a non-negative "delay" in milliseconds.

Examples:
  textexpand import backup.json
  textexpand import --format yaml - < shortcuts.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the settings to FILE or standard output",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	importCmd.Flags().StringVarP(&formatName, "format", "f", "", "Document format: json or yaml (default: from file extension)")
	exportCmd.Flags().StringVarP(&formatName, "format", "f", "", "Document format: json or yaml (default: from file extension)")
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	triggers := store.Triggers()
	if len(triggers) == 0 {
		fmt.Fprintln(out, "No triggers defined")
		return nil
	}
	all := store.TriggerMap()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range triggers {
		fmt.Fprintf(tw, "%s\t%s\n", t, strconv.Quote(all[t]))
	}
	return tw.Flush()
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.Add(args[0], args[1]); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	trigger := strings.TrimSpace(args[0])
	logger.Info("trigger added", zap.String("trigger", trigger))
	fmt.Fprintf(cmd.OutOrStdout(), "Added %q\n", trigger)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.Remove(args[0]); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	logger.Info("trigger removed", zap.String("trigger", args[0]))
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
	return nil
}

func runDelay(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), store.Delay())
		return nil
	}

	ms, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", settings.ErrInvalidDelay, args[0])
	}
	if err := store.SetDelay(ms); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Delay set to %s\n", store.Delay())
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := formatFor(args[0])
	if err != nil {
		return err
	}

	var r io.Reader
	if args[0] == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	next, err := store.Import(r, f)
	if err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	logger.Info("settings imported",
		zap.String("from", args[0]),
		zap.Int("shortcuts", len(next.Shortcuts)),
		zap.Int64("delay_ms", next.DelayMS))
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d triggers, delay %s\n", len(next.Shortcuts), next.Delay())
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	if path == "-" {
		return store.Export(cmd.OutOrStdout(), f)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := store.Export(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// formatFor resolves --format, falling back to the extension of path.
// Standard input and output default to JSON.
func formatFor(path string) (settings.Format, error) {
	if formatName != "" {
		return settings.ParseFormat(formatName)
	}
	if path == "-" {
		return settings.FormatJSON, nil
	}
	return settings.FormatForPath(path), nil
}
