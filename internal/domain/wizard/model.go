package wizard

import (
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
)

// Step is a wizard screen.
type Step string

const (
	StepCollectingCosts   Step = "collecting_costs"
	StepCollectingPlayers Step = "collecting_players"
	StepComputing         Step = "computing"
	StepShowingResults    Step = "showing_results"
)

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepCollectingCosts, StepCollectingPlayers, StepComputing, StepShowingResults:
		return true
	}
	return false
}

// Event drives a step transition.
type Event string

const (
	EventSubmitCosts   Event = "submit_costs"
	EventSubmitPlayers Event = "submit_players"
	EventAdviceSettled Event = "advice_settled"
	EventBack          Event = "back"
	EventStartOver     Event = "start_over"
)

// Session is one pass through the wizard.
type Session struct {
	ID        string                        `json:"id"`
	Step      Step                          `json:"step"`
	Costs     *allocation.SessionCosts      `json:"costs,omitempty"`
	Players   []allocation.PlayerAttendance `json:"players,omitempty"`
	Result    *allocation.Result            `json:"result,omitempty"`
	Advice    *advice.Suggestion            `json:"advice,omitempty"`
	CreatedAt time.Time                     `json:"created_at"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

// FormDefaults pre-fills the costs and players forms.
type FormDefaults struct {
	Costs      allocation.SessionCosts       `json:"costs"`
	Players    []allocation.PlayerAttendance `json:"players"`
	NextPlayer allocation.PlayerAttendance   `json:"next_player"`
}

// Calculation is a one-shot run of the wizard that is never persisted.
type Calculation struct {
	Costs   allocation.SessionCosts       `json:"costs"`
	Players []allocation.PlayerAttendance `json:"players"`
	Result  allocation.Result             `json:"result"`
	Advice  *advice.Suggestion            `json:"advice,omitempty"`
}
