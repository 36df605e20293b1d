package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dataviz-labs/formviz/internal/lang"
	"github.com/dataviz-labs/formviz/internal/state"
	"github.com/dataviz-labs/formviz/internal/ui"
)

// newServeCommand creates the serve command.
func newServeCommand() *cobra.Command {
	var watchLang bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the formviz HTTP server",
		Example: `  # Start with defaults (sqlite store, port 8750)
  formviz serve

  # Start against postgres on a custom port
  formviz serve --store.driver postgres --store.database formviz --server.port 9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			if cfg.Store.Driver == state.DriverSQLite && cfg.Store.Database != ":memory:" {
				if err := os.MkdirAll(filepath.Dir(cfg.Store.Database), 0750); err != nil {
					return fmt.Errorf("failed to create state directory: %w", err)
				}
			}

			store, err := state.Open(state.Config{
				Driver:   cfg.Store.Driver,
				Database: cfg.Store.Database,
				Host:     cfg.Store.Host,
				Port:     cfg.Store.Port,
				User:     cfg.Store.User,
				Password: cfg.Store.Password,
				SSLMode:  cfg.Store.SSLMode,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(); err != nil {
				return err
			}

			catalog, err := lang.Load(cfg.Lang.Dir, cfg.Lang.DefaultLocale, logger)
			if err != nil {
				return err
			}

			srv := ui.NewServer(ui.Config{
				Store:         store,
				Catalog:       catalog,
				Port:          cfg.Server.Port,
				SessionSecret: cfg.Server.SessionSecret,
				WatchLang:     watchLang || cfg.Lang.Watch,
				Logger:        logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx)
		},
	}

	cmd.Flags().BoolVar(&watchLang, "watch-lang", false, "reload string tables when lang files change")

	return cmd
}
