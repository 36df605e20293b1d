package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dataviz-labs/formviz/pkg/core"
)

// ReplaceCache swaps the cached snapshot for a visualization: any existing
// row is deleted and a fresh one inserted with the current timestamp. The two
// statements are deliberately not wrapped in a transaction; a reader during
// the gap sees "not cached", which callers treat as a cache miss.
func (s *SQLStore) ReplaceCache(ctx context.Context, visID int64, data []byte) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	_, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM visualization_cache WHERE vis_id = ?`),
		visID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear cache entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO visualization_cache (vis_id, last_cached, data) VALUES (?, ?, ?)`),
		visID, time.Now().UTC(), string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// GetCacheEntry returns the cached snapshot for a visualization, or nil when
// nothing is cached.
func (s *SQLStore) GetCacheEntry(ctx context.Context, visID int64) (*core.CacheEntry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	entry := &core.CacheEntry{VisID: visID}
	var data string

	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT last_cached, data FROM visualization_cache WHERE vis_id = ?`),
		visID,
	).Scan(&entry.LastCached, &data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	entry.Data = []byte(data)
	return entry, nil
}
