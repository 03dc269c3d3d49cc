package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/modules/logging/infrastructure/persistence/models"
	"github.com/iota-uz/hcm-console/pkg/composables"
)

// ActivityRepository stores activities in the activity_logs table. It runs
// on the transaction or pool bound to the context.
type ActivityRepository struct{}

func NewActivityRepository() activity.Repository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) List(ctx context.Context, params *activity.FindParams) ([]*activity.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	where, args := buildActivityFilters(params)
	query := `
		SELECT id, browser_id, action, target, status, message, created_at
		FROM activity_logs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id DESC
	`
	if params != nil {
		query += " " + formatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query activity_logs")
	}
	defer rows.Close()

	var results []*activity.Activity
	for rows.Next() {
		var row models.Activity
		if err := rows.Scan(
			&row.ID,
			&row.BrowserID,
			&row.Action,
			&row.Target,
			&row.Status,
			&row.Message,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainActivity(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ActivityRepository) Count(ctx context.Context, params *activity.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildActivityFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM activity_logs
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count activity_logs")
	}
	return count, nil
}

func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	if a == nil {
		return errors.New("activity is required")
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBActivity(a)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	return tx.QueryRow(
		ctx,
		`INSERT INTO activity_logs (browser_id, action, target, status, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		row.BrowserID,
		row.Action,
		row.Target,
		row.Status,
		row.Message,
		row.CreatedAt,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *ActivityRepository) Clear(ctx context.Context, browserID string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM activity_logs WHERE browser_id = $1`, browserID)
	if err != nil {
		return 0, errors.Wrap(err, "clear activity_logs")
	}
	return tag.RowsAffected(), nil
}

// buildActivityFilters always scopes by browser; an empty browser id matches
// nothing.
func buildActivityFilters(params *activity.FindParams) ([]string, []interface{}) {
	browserID := ""
	if params != nil {
		browserID = params.BrowserID
	}
	where := []string{"browser_id = $1"}
	args := []interface{}{browserID}
	argPos := 2
	if params == nil {
		return where, args
	}
	if action := strings.TrimSpace(params.Action); action != "" {
		where = append(where, fmt.Sprintf("action = $%d", argPos))
		args = append(args, action)
		argPos++
	}
	if params.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(params.Status))
	}
	return where, args
}

func formatLimitOffset(limit, offset int) string {
	switch {
	case limit > 0 && offset > 0:
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	case limit > 0:
		return fmt.Sprintf("LIMIT %d", limit)
	case offset > 0:
		return fmt.Sprintf("OFFSET %d", offset)
	}
	return ""
}
