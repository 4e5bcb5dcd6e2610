package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository implements activity.Repository for PostgreSQL.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

var _ activity.Repository = (*ActivityRepository)(nil)

// NewActivityRepository returns a PostgreSQL-backed activity repository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Log inserts a new activity entry.
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	sid, err := uuid.Parse(entry.SessionID)
	if err != nil {
		return fmt.Errorf("%w: session id %q", repository.ErrInvalidInput, entry.SessionID)
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO activity_log (session_id, activity_type, summary, details, created_at)
		 VALUES ($1, $2, $3, NULLIF($4, '')::jsonb, $5)
		 RETURNING id`,
		sid, string(entry.ActivityType), entry.Summary, entry.Details, createdAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	entry.CreatedAt = createdAt
	return nil
}

// List returns activity entries matching the given filters, newest first.
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `SELECT id, session_id::text, activity_type, summary, COALESCE(details::text, ''), created_at FROM activity_log`

	var args []any
	var conditions []string
	if opts.SessionID != nil {
		sid, err := uuid.Parse(*opts.SessionID)
		if err != nil {
			return []activity.ActivityEntry{}, nil
		}
		args = append(args, sid)
		conditions = append(conditions, fmt.Sprintf("session_id = $%d", len(args)))
	}
	if opts.ActivityType != nil {
		args = append(args, string(*opts.ActivityType))
		conditions = append(conditions, fmt.Sprintf("activity_type = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.ActivityEntry{}
	for rows.Next() {
		var e activity.ActivityEntry
		var typ string
		if err := rows.Scan(&e.ID, &e.SessionID, &typ, &e.Summary, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity entry: %w", err)
		}
		e.ActivityType = activity.ActivityType(typ)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
