package wizard

import (
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
)

// View is a session as shown to clients: the raw state plus display strings
// and form defaults.
type View struct {
	ID        string                        `json:"id"`
	Step      Step                          `json:"step"`
	Costs     *allocation.SessionCosts      `json:"costs,omitempty"`
	Players   []allocation.PlayerAttendance `json:"players,omitempty"`
	Result    *allocation.Result            `json:"result,omitempty"`
	Summary   *allocation.Summary           `json:"summary,omitempty"`
	Advice    *advice.Suggestion            `json:"advice,omitempty"`
	Defaults  FormDefaults                  `json:"defaults"`
	CreatedAt string                        `json:"created_at"`
	UpdatedAt string                        `json:"updated_at"`
}

// NewView renders sess with f.
func NewView(sess *Session, f *allocation.Formatter) View {
	v := View{
		ID:        sess.ID,
		Step:      sess.Step,
		Costs:     sess.Costs,
		Players:   sess.Players,
		Result:    sess.Result,
		Advice:    sess.Advice,
		Defaults:  DefaultsFor(sess),
		CreatedAt: sess.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: sess.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if sess.Result != nil {
		summary := f.Summarize(*sess.Result)
		v.Summary = &summary
	}
	return v
}

// CalculationView is a Calculation with display strings.
type CalculationView struct {
	Costs   allocation.SessionCosts       `json:"costs"`
	Players []allocation.PlayerAttendance `json:"players"`
	Result  allocation.Result             `json:"result"`
	Summary allocation.Summary            `json:"summary"`
	Advice  *advice.Suggestion            `json:"advice,omitempty"`
}

// NewCalculationView renders c with f.
func NewCalculationView(c *Calculation, f *allocation.Formatter) CalculationView {
	return CalculationView{
		Costs:   c.Costs,
		Players: c.Players,
		Result:  c.Result,
		Summary: f.Summarize(c.Result),
		Advice:  c.Advice,
	}
}
