package mcp

import (
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
)

// CalculateCostsParams is the input of calculate_costs.
type CalculateCostsParams struct {
	Costs         allocation.SessionCosts       `json:"costs" jsonschema:"court window, hourly rate and shuttlecock usage"`
	Players       []allocation.PlayerAttendance `json:"players" jsonschema:"each player's arrival and departure (HH:MM)"`
	IncludeAdvice *bool                         `json:"include_advice,omitempty" jsonschema:"ask the language model for a splitting method (default true)"`
}

// SuggestSharingMethodParams is the input of suggest_sharing_method.
type SuggestSharingMethodParams struct {
	Players          []allocation.PlayerAttendance `json:"players" jsonschema:"each player's arrival and departure (HH:MM)"`
	ShuttlecocksUsed int                           `json:"shuttlecocks_used" jsonschema:"number of shuttlecocks used"`
}

// StartWizardParams is the empty input of start_wizard.
type StartWizardParams struct{}

// SessionParams identifies the wizard session a tool acts on.
type SessionParams struct {
	SessionID string `json:"session_id" jsonschema:"wizard session id returned by start_wizard"`
}

// SubmitCostsParams is the input of submit_costs.
type SubmitCostsParams struct {
	SessionID string                  `json:"session_id" jsonschema:"wizard session id"`
	Costs     allocation.SessionCosts `json:"costs" jsonschema:"court window, hourly rate and shuttlecock usage"`
}

// SubmitPlayersParams is the input of submit_players.
type SubmitPlayersParams struct {
	SessionID string                        `json:"session_id" jsonschema:"wizard session id"`
	Players   []allocation.PlayerAttendance `json:"players" jsonschema:"each player's arrival and departure (HH:MM)"`
}

// SessionActivityParams pages through a session's activity log.
type SessionActivityParams struct {
	SessionID string `json:"session_id" jsonschema:"wizard session id"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of entries (default 50)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

// CloseWizardResult confirms a deleted session.
type CloseWizardResult struct {
	SessionID string `json:"session_id"`
	Closed    bool   `json:"closed"`
}

// ActivityItem is one activity log entry with an RFC3339 timestamp.
type ActivityItem struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ActivityList is a session's activity, newest first.
type ActivityList struct {
	SessionID string         `json:"session_id"`
	Entries   []ActivityItem `json:"entries"`
}
