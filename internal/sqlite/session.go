package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/courtsplit/courtsplit/internal/repository"
)

// SessionRepository implements wizard.Repository for SQLite
type SessionRepository struct {
	db *DB
}

var _ wizard.Repository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

type sessionColumns struct {
	costs, players, result, advice sql.NullString
}

func encodeSession(sess *wizard.Session) (sessionColumns, error) {
	var cols sessionColumns
	var err error
	if cols.costs, err = nullJSON(sess.Costs, sess.Costs == nil); err != nil {
		return cols, err
	}
	if cols.players, err = nullJSON(sess.Players, len(sess.Players) == 0); err != nil {
		return cols, err
	}
	if cols.result, err = nullJSON(sess.Result, sess.Result == nil); err != nil {
		return cols, err
	}
	if cols.advice, err = nullJSON(sess.Advice, sess.Advice == nil); err != nil {
		return cols, err
	}
	return cols, nil
}

// Create inserts a new wizard session
func (r *SessionRepository) Create(ctx context.Context, sess *wizard.Session) error {
	cols, err := encodeSession(sess)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO wizard_sessions (
			id, step, costs, players, result, advice, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		sess.ID,
		sess.Step,
		cols.costs,
		cols.players,
		cols.result,
		cols.advice,
		sess.CreatedAt.UTC(),
		sess.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a wizard session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*wizard.Session, error) {
	query := `
		SELECT id, step, costs, players, result, advice, created_at, updated_at
		FROM wizard_sessions
		WHERE id = ?
	`

	var sess wizard.Session
	var cols sessionColumns
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&sess.Step,
		&cols.costs,
		&cols.players,
		&cols.result,
		&cols.advice,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	for _, c := range []struct {
		col sql.NullString
		dst any
	}{
		{cols.costs, &sess.Costs},
		{cols.players, &sess.Players},
		{cols.result, &sess.Result},
		{cols.advice, &sess.Advice},
	} {
		if err := scanJSON(c.col, c.dst); err != nil {
			return nil, fmt.Errorf("session %s: %w", id, err)
		}
	}

	return &sess, nil
}

// Update overwrites a wizard session
func (r *SessionRepository) Update(ctx context.Context, sess *wizard.Session) error {
	cols, err := encodeSession(sess)
	if err != nil {
		return err
	}

	query := `
		UPDATE wizard_sessions
		SET step = ?, costs = ?, players = ?, result = ?, advice = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		sess.Step,
		cols.costs,
		cols.players,
		cols.result,
		cols.advice,
		sess.UpdatedAt.UTC(),
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a wizard session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wizard_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireAffected(res)
}

// DeleteIdle removes sessions last updated before cutoff
func (r *SessionRepository) DeleteIdle(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`DELETE FROM wizard_sessions WHERE updated_at < ? RETURNING id`, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating idle sessions: %w", err)
	}
	return ids, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
