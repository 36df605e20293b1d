package state

import (
	"context"
	"fmt"
)

// GrantedGroupIDs returns the export group ids a client account has been
// granted access to.
func (s *SQLStore) GrantedGroupIDs(ctx context.Context, accountID int64) ([]int64, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT vis_id FROM visualization_clients WHERE account_id = ?`),
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get granted groups: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// AddGrant links a client account to a visualization export group. The host
// platform normally manages grants; this is used by seeding and tests.
func (s *SQLStore) AddGrant(ctx context.Context, accountID, visID int64) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO visualization_clients (account_id, vis_id) VALUES (?, ?)`),
		accountID, visID,
	)
	if err != nil {
		return fmt.Errorf("failed to add grant: %w", err)
	}
	return nil
}
