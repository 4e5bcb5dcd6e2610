package wizard

import (
	"context"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/domain/advice"
)

// Repository persists wizard sessions.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
	// DeleteIdle removes sessions last updated before cutoff and returns their IDs.
	DeleteIdle(ctx context.Context, cutoff time.Time) ([]string, error)
}

// AdviceStarter begins an asynchronous advice request.
type AdviceStarter interface {
	Start(ctx context.Context, req advice.Request) *advice.Pending
}

// ActivityRecorder records wizard activity without failing the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, sessionID string, typ activity.ActivityType, summary string, details any)
}
