package wizard

import (
	"fmt"
	"math"
	"strings"

	"github.com/courtsplit/courtsplit/internal/domain/allocation"
)

// FieldIssue is a single form field problem.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a submitted form.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Field + ": " + issue.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

type issues []FieldIssue

func (is *issues) add(field, message string) {
	*is = append(*is, FieldIssue{Field: field, Message: message})
}

func (is issues) err() error {
	if len(is) == 0 {
		return nil
	}
	return &ValidationError{Issues: is}
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateCosts checks the costs form.
func ValidateCosts(c allocation.SessionCosts) error {
	var is issues

	start, startErr := allocation.ParseClock(c.CourtStartTime)
	if startErr != nil {
		is.add("court_start_time", "Invalid time format (HH:MM)")
	}
	end, endErr := allocation.ParseClock(c.CourtEndTime)
	if endErr != nil {
		is.add("court_end_time", "Invalid time format (HH:MM)")
	}
	if !validAmount(c.HourlyRate) {
		is.add("hourly_rate", "Rate must be positive")
	}
	if c.ShuttlecocksUsed < 0 {
		is.add("shuttlecocks_used", "Must be a whole number")
	}
	if !validAmount(c.PricePerShuttlecock) {
		is.add("price_per_shuttlecock", "Price must be positive")
	}
	if startErr == nil && endErr == nil && end <= start {
		is.add("court_end_time", "End time must be after start time")
	}

	return is.err()
}

// ValidatePlayers checks the players form.
func ValidatePlayers(players []allocation.PlayerAttendance) error {
	var is issues
	if len(players) == 0 {
		is.add("players", "At least one player is required.")
		return is.err()
	}

	for i, p := range players {
		prefix := fmt.Sprintf("players[%d].", i)
		if strings.TrimSpace(p.Name) == "" {
			is.add(prefix+"name", "Name is required")
		}
		arr, arrErr := allocation.ParseClock(p.ArrivalTime)
		if arrErr != nil {
			is.add(prefix+"arrival_time", "Invalid time (HH:MM)")
		}
		dep, depErr := allocation.ParseClock(p.DepartureTime)
		if depErr != nil {
			is.add(prefix+"departure_time", "Invalid time (HH:MM)")
		}
		if arrErr == nil && depErr == nil && dep <= arr {
			is.add(prefix+"departure_time", "Departure must be after arrival")
		}
	}

	return is.err()
}
