package state

import (
	"context"
	"fmt"

	"github.com/dataviz-labs/formviz/pkg/core"
)

// ListForms returns every form known to the host platform, including
// incomplete ones. Callers filter on IsComplete.
func (s *SQLStore) ListForms(ctx context.Context) ([]*core.Form, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT form_id, form_name, is_complete FROM forms ORDER BY form_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	defer rows.Close()

	var forms []*core.Form
	for rows.Next() {
		form := &core.Form{}
		if err := rows.Scan(&form.ID, &form.Name, &form.IsComplete); err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		forms = append(forms, form)
	}

	return forms, rows.Err()
}

// ListViews returns the Views configured for a form.
func (s *SQLStore) ListViews(ctx context.Context, formID int64) ([]*core.View, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT view_id, form_id, view_name FROM views WHERE form_id = ? ORDER BY view_id`),
		formID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var views []*core.View
	for rows.Next() {
		view := &core.View{}
		if err := rows.Scan(&view.ID, &view.FormID, &view.Name); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		views = append(views, view)
	}

	return views, rows.Err()
}
