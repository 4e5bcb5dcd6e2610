package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/courtsplit/courtsplit/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository implements wizard.Repository for PostgreSQL.
type SessionRepository struct {
	pool *pgxpool.Pool
}

var _ wizard.Repository = (*SessionRepository)(nil)

// NewSessionRepository returns a PostgreSQL-backed session repository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// jsonb encodes v for a nullable JSONB column; a nil slice is stored as NULL.
func jsonb(v any, empty bool) ([]byte, error) {
	if empty {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding column: %w", err)
	}
	return raw, nil
}

type sessionColumns struct {
	costs, players, result, advice []byte
}

func encodeSession(sess *wizard.Session) (sessionColumns, error) {
	var cols sessionColumns
	var err error
	if cols.costs, err = jsonb(sess.Costs, sess.Costs == nil); err != nil {
		return cols, err
	}
	if cols.players, err = jsonb(sess.Players, len(sess.Players) == 0); err != nil {
		return cols, err
	}
	if cols.result, err = jsonb(sess.Result, sess.Result == nil); err != nil {
		return cols, err
	}
	if cols.advice, err = jsonb(sess.Advice, sess.Advice == nil); err != nil {
		return cols, err
	}
	return cols, nil
}

func (cols sessionColumns) decode(sess *wizard.Session) error {
	for _, c := range []struct {
		raw []byte
		dst any
	}{
		{cols.costs, &sess.Costs},
		{cols.players, &sess.Players},
		{cols.result, &sess.Result},
		{cols.advice, &sess.Advice},
	} {
		if len(c.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(c.raw, c.dst); err != nil {
			return fmt.Errorf("decoding session %s: %w", sess.ID, err)
		}
	}
	return nil
}

// Create inserts a new wizard session.
func (r *SessionRepository) Create(ctx context.Context, sess *wizard.Session) error {
	id, err := uuid.Parse(sess.ID)
	if err != nil {
		return fmt.Errorf("%w: session id %q", repository.ErrInvalidInput, sess.ID)
	}
	cols, err := encodeSession(sess)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO wizard_sessions (id, step, costs, players, result, advice, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, string(sess.Step), cols.costs, cols.players, cols.result, cols.advice, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// Get retrieves a wizard session by ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*wizard.Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var sess wizard.Session
	var step string
	var cols sessionColumns
	err = r.pool.QueryRow(ctx,
		`SELECT id::text, step, costs, players, result, advice, created_at, updated_at
		 FROM wizard_sessions WHERE id = $1`, uid,
	).Scan(&sess.ID, &step, &cols.costs, &cols.players, &cols.result, &cols.advice, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	sess.Step = wizard.Step(step)

	if err := cols.decode(&sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Update overwrites a wizard session.
func (r *SessionRepository) Update(ctx context.Context, sess *wizard.Session) error {
	uid, err := uuid.Parse(sess.ID)
	if err != nil {
		return repository.ErrNotFound
	}
	cols, err := encodeSession(sess)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE wizard_sessions
		 SET step = $2, costs = $3, players = $4, result = $5, advice = $6, updated_at = $7
		 WHERE id = $1`,
		uid, string(sess.Step), cols.costs, cols.players, cols.result, cols.advice, sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a wizard session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM wizard_sessions WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteIdle removes sessions last updated before cutoff.
func (r *SessionRepository) DeleteIdle(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`DELETE FROM wizard_sessions WHERE updated_at < $1 RETURNING id::text`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("deleting idle sessions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting idle session ids: %w", err)
	}
	return ids, nil
}
