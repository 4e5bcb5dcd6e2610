package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeSessionStarted   ActivityType = "session_started"
	TypeCostsSubmitted   ActivityType = "costs_submitted"
	TypePlayersSubmitted ActivityType = "players_submitted"
	TypeResultsReady     ActivityType = "results_ready"
	TypeAdviceFailed     ActivityType = "advice_failed"
	TypeSteppedBack      ActivityType = "stepped_back"
	TypeStartedOver      ActivityType = "started_over"
	TypeSessionClosed    ActivityType = "session_closed"
)

// ActivityEntry represents an event in a wizard session's activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	SessionID    string       `json:"session_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	SessionID    *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}

// DefaultListLimit caps unbounded listings.
const DefaultListLimit = 50
