// Package cli provides the command-line interface for formviz.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dataviz-labs/formviz/internal/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "formviz",
		Short: "formviz - data visualizations for form submission Views",
		Long: `formviz manages saved chart/report definitions attached to a form's
submission View: access-control filtering for the picker dialog, the
client-side form/View lookup index, cascade deletion when a form is
removed, and best-effort snapshot caching.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./formviz.yaml)")
	rootCmd.PersistentFlags().Int("server.port", 0, "HTTP port to listen on")
	rootCmd.PersistentFlags().String("store.driver", "", "store driver (sqlite|postgres)")
	rootCmd.PersistentFlags().String("store.database", "", "database path (sqlite) or name (postgres)")
	rootCmd.PersistentFlags().String("lang.dir", "", "directory with locale string tables")
	rootCmd.PersistentFlags().String("logging.level", "", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration honoring the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cfgFile, cmd.Root().PersistentFlags())
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
