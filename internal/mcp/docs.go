package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `courtsplit splits the cost of a badminton court session between players by the time each one actually played.

Core concepts:
- Session costs: court window (HH:MM), hourly rate, shuttlecocks used and their unit price.
- Player attendance: name, arrival and departure (HH:MM). Windows are clipped to the court window.
- Each player pays grand_total * time_played / total_time_played. If nobody played inside the court window every share is 0 and the summary reports the unallocated amount.
- Advice: an optional language-model suggestion about how to share the bill. It never changes the numbers, and a placeholder is returned when it is unavailable.

Workflows:
1) One shot: call calculate_costs with costs and players.
2) Step by step: start_wizard -> submit_costs -> submit_players -> get_results. Use go_back to edit earlier answers, start_over to reset, close_wizard when done.

Docs:
- courtsplit://docs/index
- courtsplit://docs/allocation
- courtsplit://docs/wizard
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "courtsplit://docs/index",
		Name:        "docs_index",
		Title:       "courtsplit docs index",
		Description: "Entry point: what each tool does and which doc to read next.",
		Content: `# courtsplit: Docs Index

## Tools

- ` + "`calculate_costs`" + `: stateless breakdown, with advice unless ` + "`include_advice`" + ` is false.
- ` + "`suggest_sharing_method`" + `: advice only.
- ` + "`start_wizard`" + `, ` + "`submit_costs`" + `, ` + "`submit_players`" + `, ` + "`get_results`" + `: the guided flow.
- ` + "`get_wizard`" + `, ` + "`go_back`" + `, ` + "`start_over`" + `, ` + "`close_wizard`" + `, ` + "`get_session_activity`" + `.

## Docs

- ` + "`courtsplit://docs/allocation`" + `: how shares are computed.
- ` + "`courtsplit://docs/wizard`" + `: steps, transitions and errors.
`,
	},
	{
		URI:         "courtsplit://docs/allocation",
		Name:        "docs_allocation",
		Title:       "Cost allocation",
		Description: "How court and shuttlecock costs are turned into per-player shares.",
		Content: `# Cost allocation

1. Court duration = max(0, end - start) in minutes.
2. Court cost = duration / 60 * hourly rate.
3. Shuttlecock cost = shuttlecocks used * unit price.
4. Grand total = court cost + shuttlecock cost.
5. Each player's window is clipped to the court window; time played = max(0, departure - arrival).
6. Share = time played / total time played * grand total.

Amounts are not rounded; displays round to two decimals. Shares sum to the
grand total whenever someone played. When total time played is zero every
share is zero and the summary's ` + "`unallocated`" + ` field shows the amount nobody was charged.

Times are same-day HH:MM. There is no overnight rollover.
`,
	},
	{
		URI:         "courtsplit://docs/wizard",
		Name:        "docs_wizard",
		Title:       "Wizard flow",
		Description: "Steps, allowed transitions and error codes of the guided flow.",
		Content: `# Wizard flow

Steps: collecting_costs -> collecting_players -> computing -> showing_results.

| from | action | to |
|---|---|---|
| collecting_costs | submit_costs | collecting_players |
| collecting_players | submit_players | computing |
| collecting_players | go_back | collecting_costs |
| computing | get_results | showing_results |
| showing_results | go_back | collecting_players |
| any | start_over | collecting_costs |

` + "`submit_players`" + ` returns the numbers immediately; ` + "`get_results`" + ` waits for the advice.
` + "`go_back`" + ` keeps what was entered; the session's ` + "`defaults`" + ` pre-fill the form.

## Errors

- INVALID_INPUT: details list each field and message.
- SESSION_NOT_FOUND: the session was closed or purged after being idle.
- INVALID_TRANSITION: the action is not allowed in the current step.
- RESULTS_NOT_READY: players have not been submitted.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
