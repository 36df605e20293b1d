package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dataviz-labs/formviz/internal/state"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
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

			version, err := store.MigrationVersion()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied, schema version %d\n", version)
			return nil
		},
	}
}
