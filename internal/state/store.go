// Package state implements core.Store over database/sql. Two drivers are
// supported: sqlite (modernc.org/sqlite, the default for single-node
// deployments) and postgres (jackc/pgx via its stdlib adapter).
package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dataviz-labs/formviz/pkg/core"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore implements core.Store for sqlite and postgres.
type SQLStore struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// Config holds connection settings for Open.
type Config struct {
	Driver   string // sqlite or postgres
	Database string // file path for sqlite (":memory:" supported), db name for postgres
	Host     string
	Port     int
	User     string
	Password string
	SSLMode  string
	Logger   *slog.Logger
}

// Open connects to the configured database and pings it.
func Open(cfg Config) (*SQLStore, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var driverName, dsn string
	switch cfg.Driver {
	case DriverSQLite, "":
		driverName = "sqlite"
		dsn = sqliteDSN(cfg.Database)
	case DriverPostgres:
		driverName = "pgx"
		dsn = postgresDSN(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.Debug("store opened", "driver", cfg.Driver, "database", cfg.Database)

	return &SQLStore{db: db, driver: cfg.Driver, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = ":memory:"
	}
	if path == ":memory:" {
		return ":memory:?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
}

func postgresDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, cfg.Database, sslmode)
	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}

// ExecRaw executes a raw statement against the store. Intended for seeding
// and host-side integration, not for the formviz operations themselves.
func (s *SQLStore) ExecRaw(ctx context.Context, query string, args ...any) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.ExecContext(ctx, s.rebind(query), args...); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// rebind converts "?" placeholders to "$N" when running against postgres.
// Queries in this package are written with "?" throughout.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// placeholders returns "?, ?, ..." for an IN clause of n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// int64Args widens an id slice into query arguments.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// Ensure SQLStore implements core.Store.
var _ core.Store = (*SQLStore)(nil)
