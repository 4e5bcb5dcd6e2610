package wizard_test

import (
	"testing"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/stretchr/testify/require"
)

func TestNewView(t *testing.T) {
	costs := validCosts()
	result := allocation.Allocate(costs, eveningPlayers())
	created := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	sess := &wizard.Session{
		ID:        "s1",
		Step:      wizard.StepComputing,
		Costs:     &costs,
		Players:   eveningPlayers(),
		Result:    &result,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
	}

	v := wizard.NewView(sess, allocation.DefaultFormatter())
	require.Equal(t, "2026-03-01T19:00:00Z", v.CreatedAt)
	require.Equal(t, "2026-03-01T19:01:00Z", v.UpdatedAt)
	require.NotNil(t, v.Summary)
	require.Equal(t, "$100,000.00", v.Summary.GrandTotal)
	require.Equal(t, "Player 3", v.Defaults.NextPlayer.Name)

	v = wizard.NewView(&wizard.Session{ID: "s2", Step: wizard.StepCollectingCosts}, allocation.DefaultFormatter())
	require.Nil(t, v.Summary)
	require.Equal(t, "19:00", v.Defaults.Costs.CourtStartTime)
}
