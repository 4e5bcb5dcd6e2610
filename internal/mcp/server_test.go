package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/courtsplit/courtsplit/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type advisorFunc func(ctx context.Context, req advice.Request) (*advice.Suggestion, error)

func (f advisorFunc) Suggest(ctx context.Context, req advice.Request) (*advice.Suggestion, error) {
	return f(ctx, req)
}

func connect(t *testing.T, advisor advice.Advisor) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	adviceSvc := advice.NewService(advisor, 0, nil)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	wizardSvc := wizard.NewService(sqlite.NewSessionRepository(db), adviceSvc, activitySvc, nil)

	server := NewServer(Config{
		Services: Services{Wizard: wizardSvc, Advice: adviceSvc, Activity: activitySvc},
	})

	ct, st := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	if out != nil && !res.IsError {
		text, ok := res.Content[0].(*sdkmcp.TextContent)
		require.True(t, ok)
		require.NoError(t, json.Unmarshal([]byte(text.Text), out))
	}
	return res
}

// callView decodes a wizard tool result into a fresh view so fields omitted
// from the response stay zero.
func callView(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) wizard.View {
	t.Helper()
	var view wizard.View
	res := callTool(t, cs, name, args, &view)
	require.False(t, res.IsError, "%s failed", name)
	return view
}

func errorText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func proportional(context.Context, advice.Request) (*advice.Suggestion, error) {
	return &advice.Suggestion{SuggestedMethod: "Proportional", Reasoning: "Time based."}, nil
}

var eveningCosts = map[string]any{
	"court_start_time":      "19:00",
	"court_end_time":        "21:00",
	"hourly_rate":           20000,
	"shuttlecocks_used":     3,
	"price_per_shuttlecock": 20000,
}

var eveningPlayers = []any{
	map[string]any{"name": "A", "arrival_time": "19:00", "departure_time": "21:00"},
	map[string]any{"name": "B", "arrival_time": "20:00", "departure_time": "21:00"},
}

func TestTools_Listed(t *testing.T) {
	cs := connect(t, advisorFunc(proportional))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"calculate_costs", "suggest_sharing_method", "start_wizard", "get_wizard",
		"submit_costs", "submit_players", "get_results", "go_back", "start_over",
		"close_wizard", "get_session_activity",
	}, names)
}

func TestCalculateCosts(t *testing.T) {
	cs := connect(t, advisorFunc(proportional))

	var out wizard.CalculationView
	res := callTool(t, cs, "calculate_costs", map[string]any{"costs": eveningCosts, "players": eveningPlayers}, &out)
	require.False(t, res.IsError)
	require.InDelta(t, 100000, out.Result.GrandTotal, 1e-9)
	require.Equal(t, "$66,666.67", out.Summary.Players[0].Cost)
	require.Equal(t, "$33,333.33", out.Summary.Players[1].Cost)
	require.Equal(t, "Proportional", out.Advice.SuggestedMethod)
}

func TestCalculateCosts_AdvisorDownKeepsNumbers(t *testing.T) {
	cs := connect(t, advisorFunc(func(context.Context, advice.Request) (*advice.Suggestion, error) {
		return nil, errors.New("no route to host")
	}))

	var out wizard.CalculationView
	callTool(t, cs, "calculate_costs", map[string]any{"costs": eveningCosts, "players": eveningPlayers}, &out)
	require.Equal(t, advice.FallbackMethod, out.Advice.SuggestedMethod)
	require.Equal(t, advice.FallbackReasoning, out.Advice.Reasoning)
	require.InDelta(t, 40000, out.Result.TotalCourtCost, 1e-9)
	require.InDelta(t, 60000, out.Result.TotalShuttlecockCost, 1e-9)
}

func TestCalculateCosts_InvalidInput(t *testing.T) {
	cs := connect(t, advisorFunc(proportional))

	costs := map[string]any{}
	for k, v := range eveningCosts {
		costs[k] = v
	}
	costs["court_end_time"] = "18:00"
	res := callTool(t, cs, "calculate_costs", map[string]any{"costs": costs, "players": eveningPlayers, "include_advice": false}, nil)
	require.Contains(t, errorText(t, res), "INVALID_INPUT")
	require.Contains(t, errorText(t, res), "End time must be after start time")
}

func TestSuggestSharingMethod(t *testing.T) {
	cs := connect(t, advisorFunc(proportional))

	var out advice.Suggestion
	callTool(t, cs, "suggest_sharing_method", map[string]any{"players": eveningPlayers, "shuttlecocks_used": 3}, &out)
	require.Equal(t, "Proportional", out.SuggestedMethod)
}

func TestWizardTools_Flow(t *testing.T) {
	cs := connect(t, advisorFunc(proportional))

	view := callView(t, cs, "start_wizard", map[string]any{})
	require.Equal(t, wizard.StepCollectingCosts, view.Step)
	id := view.ID

	res := callTool(t, cs, "go_back", map[string]any{"session_id": id}, nil)
	require.Contains(t, errorText(t, res), "INVALID_TRANSITION")

	view = callView(t, cs, "submit_costs", map[string]any{"session_id": id, "costs": eveningCosts})
	require.Equal(t, wizard.StepCollectingPlayers, view.Step)
	require.Equal(t, "Player 1", view.Defaults.Players[0].Name)

	view = callView(t, cs, "submit_players", map[string]any{"session_id": id, "players": eveningPlayers})
	require.Equal(t, wizard.StepComputing, view.Step)
	require.Equal(t, "$100,000.00", view.Summary.GrandTotal)

	view = callView(t, cs, "get_results", map[string]any{"session_id": id})
	require.Equal(t, wizard.StepShowingResults, view.Step)
	require.Equal(t, "Proportional", view.Advice.SuggestedMethod)

	view = callView(t, cs, "go_back", map[string]any{"session_id": id})
	require.Equal(t, wizard.StepCollectingPlayers, view.Step)
	require.Nil(t, view.Result)
	require.Nil(t, view.Advice)
	require.Len(t, view.Players, 2)

	view = callView(t, cs, "start_over", map[string]any{"session_id": id})
	require.Equal(t, wizard.StepCollectingCosts, view.Step)
	require.Nil(t, view.Costs)

	var activityOut ActivityList
	callTool(t, cs, "get_session_activity", map[string]any{"session_id": id, "limit": 3}, &activityOut)
	require.Len(t, activityOut.Entries, 3)
	require.Equal(t, string(activity.TypeStartedOver), activityOut.Entries[0].Type)

	var closed CloseWizardResult
	callTool(t, cs, "close_wizard", map[string]any{"session_id": id}, &closed)
	require.True(t, closed.Closed)

	res = callTool(t, cs, "get_wizard", map[string]any{"session_id": id}, nil)
	require.Contains(t, errorText(t, res), "SESSION_NOT_FOUND")
}

func TestDocResources(t *testing.T) {
	cs := connect(t, advisorFunc(proportional))

	for _, doc := range docResources {
		res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: doc.URI})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		require.Equal(t, doc.Content, res.Contents[0].Text)
	}
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("disk full")))

	err := wizard.ValidateCosts(allocation.SessionCosts{CourtStartTime: "x", CourtEndTime: "21:00"})
	apiErr := MapError(err)
	require.Equal(t, "INVALID_INPUT", apiErr.Code)
	require.Equal(t, "court_start_time", apiErr.Details[0].Field)

	require.Equal(t, "RESULTS_NOT_READY", MapError(wizard.ErrResultsNotReady).Code)
	require.Equal(t, "SESSION_NOT_FOUND", MapError(wizard.ErrSessionNotFound).Code)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 3))
	require.Equal(t, "ab...(4 bytes)", truncate("abcd", 2))
	// "é" is two bytes; the cut backs off to the rune start.
	require.Equal(t, "a...(3 bytes)", truncate("aé", 2))
}
