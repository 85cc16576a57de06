package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/khrees2412/mockprep/pkg/models"
)

// Activity operations

// LogActivity appends one entry to the activity history
func (s *Store) LogActivity(ctx context.Context, a *models.Activity) error {
	metadata := a.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	query := `INSERT INTO activity_history (id, user_id, activity_type, description, metadata, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = s.db.ExecContext(ctx, query, a.ID, a.UserID, a.ActivityType, a.Description,
		string(raw), a.CreatedAt)
	return err
}

// ListActivity returns one newest-first slice of a user's history and the
// total number of matching entries. An empty activityType matches all.
func (s *Store) ListActivity(ctx context.Context, userID string, offset, limit int, activityType string) ([]*models.Activity, int, error) {
	where := `WHERE user_id = $1`
	args := []any{userID}
	if activityType != "" {
		args = append(args, activityType)
		where += fmt.Sprintf(` AND activity_type = $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM activity_history ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(append([]any{}, args...), limit, offset)
	query := fmt.Sprintf(`SELECT id, user_id, activity_type, description, metadata, created_at
			  FROM activity_history %s
			  ORDER BY created_at DESC, id DESC
			  LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*models.Activity{}
	for rows.Next() {
		a := &models.Activity{}
		var metadata string
		if err := rows.Scan(&a.ID, &a.UserID, &a.ActivityType, &a.Description,
			&metadata, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		if err := decodeJSON(metadata, &a.Metadata); err != nil {
			return nil, 0, fmt.Errorf("decode metadata: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
