// Command textexpand manages text expansion settings and runs the expander
// against HTML forms in the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iw2rmb/textexpand"
	"github.com/iw2rmb/textexpand/internal/logging"
	"github.com/iw2rmb/textexpand/settings"
)

// fileLogAnnotation marks commands that own the terminal and must log to a
// session file.
const fileLogAnnotation = "textexpand/log-to-file"

var (
	// Global flags
	verbose    bool
	configPath string

	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "textexpand",
	Short: "Expand typed shortcuts into longer text",
	Long: `textexpand replaces a trigger with its expansion once typing pauses.

Triggers live in a settings file (JSON or YAML, picked by extension).
Edit them with add/remove/delay or import/export, try them in the
terminal with demo, or pipe text through expand.`,
	Version:       textexpand.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, toFile := cmd.Annotations[fileLogAnnotation]
		l, err := logging.New(logging.Options{Verbose: verbose, File: toFile})
		if l == nil {
			return err
		}
		logger = l
		if p := l.Path(); p != "" {
			logger.Debug("logging to session file", zap.String("path", p))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Settings file (default: user config dir)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(delayCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(demoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "textexpand:", err)
		os.Exit(1)
	}
}

// openStore opens the settings file named by --config, or the default one.
func openStore() (*settings.FileStore, error) {
	return settings.NewFileStore(configPath, logger.Named("settings"))
}
