package advice_test

import (
	"testing"

	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt, err := advice.BuildPrompt(sampleRequest())
	require.NoError(t, err)

	require.Contains(t, prompt, "Player: A, Arrival: 19:00, Departure: 21:00")
	require.Contains(t, prompt, "Player: B, Arrival: 20:00, Departure: 21:00")
	require.Contains(t, prompt, "Shuttlecocks Used: 3")
	require.Contains(t, prompt, `"suggestedMethod"`)
}
