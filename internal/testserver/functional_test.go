package testserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/courtsplit/courtsplit/internal/testserver"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// connectHTTP opens an MCP client session against the server's /mcp endpoint.
func connectHTTP(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{Endpoint: ts.URL("/mcp")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

// callTool calls a tool and unwraps its JSON text content into out.
func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.False(t, res.IsError, "tool error: %s", text.Text)
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

var (
	costs = map[string]any{
		"court_start_time":      "18:00",
		"court_end_time":        "20:00",
		"hourly_rate":           30,
		"shuttlecocks_used":     4,
		"price_per_shuttlecock": 3,
	}
	players = []any{
		map[string]any{"name": "Ana", "arrival_time": "18:00", "departure_time": "20:00"},
		map[string]any{"name": "Ben", "arrival_time": "17:30", "departure_time": "19:00"},
		map[string]any{"name": "Cy", "arrival_time": "20:00", "departure_time": "21:00"},
	}
)

func TestFunctional_Calculate(t *testing.T) {
	ts := testserver.New(t, testserver.StaticAdvisor("Proportional", "Ben left early."))
	cs := connectHTTP(t, ts)

	var out wizard.CalculationView
	callTool(t, cs, "calculate_costs", map[string]any{"costs": costs, "players": players}, &out)

	// 72 over 180 played minutes: Ana 120, Ben 60 after clipping, Cy none.
	require.InDelta(t, 72, out.Result.GrandTotal, 1e-9)
	require.Equal(t, 180, out.Result.TotalTimePlayed)
	require.InDelta(t, 48, out.Result.PlayerCosts[0].Cost, 1e-9)
	require.InDelta(t, 24, out.Result.PlayerCosts[1].Cost, 1e-9)
	require.Zero(t, out.Result.PlayerCosts[2].Cost)
	require.Equal(t, "$48.00", out.Summary.Players[0].Cost)
	require.Equal(t, "Ben left early.", out.Advice.Reasoning)
}

func TestFunctional_WizardWorkflow(t *testing.T) {
	ts := testserver.New(t, testserver.AdvisorFunc(func(context.Context, advice.Request) (*advice.Suggestion, error) {
		return nil, errors.New("quota exceeded")
	}))
	cs := connectHTTP(t, ts)

	var view wizard.View
	callTool(t, cs, "start_wizard", map[string]any{}, &view)
	id := view.ID

	callTool(t, cs, "submit_costs", map[string]any{"session_id": id, "costs": costs}, &view)
	require.Equal(t, "18:00", view.Defaults.NextPlayer.ArrivalTime)

	callTool(t, cs, "submit_players", map[string]any{"session_id": id, "players": players}, &view)
	require.Equal(t, wizard.StepComputing, view.Step)

	callTool(t, cs, "get_results", map[string]any{"session_id": id}, &view)
	require.Equal(t, wizard.StepShowingResults, view.Step)
	require.Equal(t, advice.FallbackMethod, view.Advice.SuggestedMethod)
	require.Equal(t, "$72.00", view.Summary.GrandTotal)

	stored, err := ts.Wizard.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, wizard.StepShowingResults, stored.Step)

	var closed struct {
		Closed bool `json:"closed"`
	}
	callTool(t, cs, "close_wizard", map[string]any{"session_id": id}, &closed)
	require.True(t, closed.Closed)
}
