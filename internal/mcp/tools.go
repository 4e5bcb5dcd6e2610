package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// handler adapts domain services to MCP tools.
type handler struct {
	services  Services
	formatter *allocation.Formatter
	logger    *slog.Logger
}

func registerTools(server *sdkmcp.Server, h *handler) {
	// Stateless
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "calculate_costs",
		Description: "Split a badminton session's court and shuttlecock costs by time played, optionally with an AI-suggested sharing method",
	}, h.calculateCosts)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "suggest_sharing_method",
		Description: "Ask the language model how the bill for a session should be shared. Never fails; a placeholder is returned when no suggestion is available",
	}, h.suggestSharingMethod)

	// Wizard
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_wizard",
		Description: "Start a step-by-step wizard session at the costs step",
	}, h.startWizard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_wizard",
		Description: "Get a wizard session's current step, entered data, results and form defaults",
	}, h.getWizard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_costs",
		Description: "Submit the costs form and move to the players step",
	}, h.submitCosts)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_players",
		Description: "Submit the players form; computes the breakdown and starts fetching advice",
	}, h.submitPlayers)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_results",
		Description: "Wait for advice to settle and return the final results",
	}, h.getResults)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "go_back",
		Description: "Return to the previous form, keeping the entered data",
	}, h.goBack)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_over",
		Description: "Clear the session and return to the costs step",
	}, h.startOver)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_wizard",
		Description: "Delete a wizard session",
	}, h.closeWizard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_session_activity",
		Description: "List a wizard session's activity, newest first",
	}, h.getSessionActivity)
}

func (h *handler) calculateCosts(ctx context.Context, _ *sdkmcp.CallToolRequest, in CalculateCostsParams) (*sdkmcp.CallToolResult, wizard.CalculationView, error) {
	withAdvice := in.IncludeAdvice == nil || *in.IncludeAdvice
	calc, err := h.services.Wizard.Calculate(ctx, in.Costs, in.Players, withAdvice)
	if err != nil {
		return nil, wizard.CalculationView{}, toolError(err)
	}
	return nil, wizard.NewCalculationView(calc, h.formatter), nil
}

func (h *handler) suggestSharingMethod(ctx context.Context, _ *sdkmcp.CallToolRequest, in SuggestSharingMethodParams) (*sdkmcp.CallToolResult, advice.Suggestion, error) {
	if err := wizard.ValidatePlayers(in.Players); err != nil {
		return nil, advice.Suggestion{}, toolError(err)
	}
	return nil, h.services.Advice.Suggest(ctx, advice.NewRequest(in.Players, in.ShuttlecocksUsed)), nil
}

func (h *handler) startWizard(ctx context.Context, _ *sdkmcp.CallToolRequest, _ StartWizardParams) (*sdkmcp.CallToolResult, wizard.View, error) {
	return h.view(h.services.Wizard.Start(ctx))
}

func (h *handler) getWizard(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionParams) (*sdkmcp.CallToolResult, wizard.View, error) {
	return h.view(h.services.Wizard.Get(ctx, in.SessionID))
}

func (h *handler) submitCosts(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitCostsParams) (*sdkmcp.CallToolResult, wizard.View, error) {
	return h.view(h.services.Wizard.SubmitCosts(ctx, in.SessionID, in.Costs))
}

func (h *handler) submitPlayers(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitPlayersParams) (*sdkmcp.CallToolResult, wizard.View, error) {
	return h.view(h.services.Wizard.SubmitPlayers(ctx, in.SessionID, in.Players))
}

func (h *handler) getResults(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionParams) (*sdkmcp.CallToolResult, wizard.View, error) {
	return h.view(h.services.Wizard.AwaitResults(ctx, in.SessionID))
}

func (h *handler) goBack(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionParams) (*sdkmcp.CallToolResult, wizard.View, error) {
	return h.view(h.services.Wizard.Back(ctx, in.SessionID))
}

func (h *handler) startOver(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionParams) (*sdkmcp.CallToolResult, wizard.View, error) {
	return h.view(h.services.Wizard.StartOver(ctx, in.SessionID))
}

func (h *handler) closeWizard(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionParams) (*sdkmcp.CallToolResult, CloseWizardResult, error) {
	if err := h.services.Wizard.Close(ctx, in.SessionID); err != nil {
		return nil, CloseWizardResult{}, toolError(err)
	}
	return nil, CloseWizardResult{SessionID: in.SessionID, Closed: true}, nil
}

func (h *handler) getSessionActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionActivityParams) (*sdkmcp.CallToolResult, ActivityList, error) {
	sessionID := in.SessionID
	entries, err := h.services.Activity.GetRecentActivity(ctx, activity.ListActivityOptions{
		SessionID: &sessionID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, ActivityList{}, toolError(err)
	}

	items := make([]ActivityItem, len(entries))
	for i, e := range entries {
		items[i] = ActivityItem{
			ID:        e.ID,
			Type:      string(e.ActivityType),
			Summary:   e.Summary,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return nil, ActivityList{SessionID: sessionID, Entries: items}, nil
}

func (h *handler) view(sess *wizard.Session, err error) (*sdkmcp.CallToolResult, wizard.View, error) {
	if err != nil {
		return nil, wizard.View{}, toolError(err)
	}
	return nil, wizard.NewView(sess, h.formatter), nil
}
