package advice

import (
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("prompt").Parse(
	`Given the following information about a badminton session, suggest an appropriate method for sharing the expenses and explain your reasoning.

Player Timestamps:
{{- range .PlayerTimestamps}}
  - Player: {{.PlayerName}}, Arrival: {{.ArrivalTime}}, Departure: {{.DepartureTime}}
{{- end}}

Shuttlecocks Used: {{.ShuttlecocksUsed}}

Consider factors such as the duration each player was present and the consumption of shared resources like shuttlecocks when determining the fairest sharing method.

Respond with a single JSON object and nothing else:
{"suggestedMethod": "<short name of the method>", "reasoning": "<why it is fair>"}
`))

// BuildPrompt renders the advice prompt for req.
func BuildPrompt(req Request) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, req); err != nil {
		return "", err
	}
	return b.String(), nil
}
