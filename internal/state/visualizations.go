package state

import (
	"context"
	"fmt"

	"github.com/dataviz-labs/formviz/pkg/core"
)

// ListVisualizations returns the visualizations configured for a form View,
// scoped to the account type. Client accounts never see admin-only rows; the
// per-group check on private rows happens in the access resolver.
func (s *SQLStore) ListVisualizations(ctx context.Context, formID, viewID int64, accountType core.AccountType) ([]*core.Visualization, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT vis_id, form_id, view_id, access_type, export_group_id
	          FROM visualizations WHERE form_id = ? AND view_id = ?`
	args := []any{formID, viewID}

	if accountType == core.AccountTypeClient {
		query += ` AND access_type != ?`
		args = append(args, string(core.AccessTypeAdmin))
	}
	query += ` ORDER BY vis_id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visualizations: %w", err)
	}
	defer rows.Close()

	var result []*core.Visualization
	for rows.Next() {
		vis := &core.Visualization{}
		var accessType string
		if err := rows.Scan(&vis.ID, &vis.FormID, &vis.ViewID, &accessType, &vis.ExportGroupID); err != nil {
			return nil, fmt.Errorf("failed to scan visualization: %w", err)
		}
		vis.AccessType = core.AccessType(accessType)
		result = append(result, vis)
	}

	return result, rows.Err()
}

// VisualizationIDsForForm returns the ids of every visualization owned by a
// form, across all of its Views.
func (s *SQLStore) VisualizationIDsForForm(ctx context.Context, formID int64) ([]int64, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT vis_id FROM visualizations WHERE form_id = ? ORDER BY vis_id`),
		formID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get visualization ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan visualization id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DeleteVisualizationTree removes the given visualizations together with
// their client grants and cache entries. Grants and cache rows go first so a
// rollback never leaves orphans; the whole cascade runs in one transaction.
func (s *SQLStore) DeleteVisualizationTree(ctx context.Context, visIDs []int64) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if len(visIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	in := placeholders(len(visIDs))
	args := int64Args(visIDs)

	for _, stmt := range []string{
		`DELETE FROM visualization_clients WHERE vis_id IN (` + in + `)`,
		`DELETE FROM visualization_cache WHERE vis_id IN (` + in + `)`,
		`DELETE FROM visualizations WHERE vis_id IN (` + in + `)`,
	} {
		if _, err := tx.ExecContext(ctx, s.rebind(stmt), args...); err != nil {
			return fmt.Errorf("failed to delete visualization rows: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
