package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/stretchr/testify/require"
)

func TestParsePlayer(t *testing.T) {
	tests := []struct {
		in      string
		want    allocation.PlayerAttendance
		wantErr bool
	}{
		{in: "A=19:00-21:00", want: allocation.PlayerAttendance{Name: "A", ArrivalTime: "19:00", DepartureTime: "21:00"}},
		{in: " Ann Lee = 19:30 - 20:15", want: allocation.PlayerAttendance{Name: "Ann Lee", ArrivalTime: "19:30", DepartureTime: "20:15"}},
		{in: "x=y=20:00-21:00", want: allocation.PlayerAttendance{Name: "x=y", ArrivalTime: "20:00", DepartureTime: "21:00"}},
		{in: "A 19:00-21:00", wantErr: true},
		{in: "A=19:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePlayer(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COURTSPLIT_ADVICE_ENABLED", "false")
	t.Setenv("COURTSPLIT_CONFIG_PATH", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcCmd_Table(t *testing.T) {
	out, err := runCLI(t, "calc", "--rate", "20000", "--shuttles", "3", "--shuttle-price", "20000",
		"--player", "A=19:00-21:00", "--player", "B=20:00-21:00")
	require.NoError(t, err)
	require.Contains(t, out, "$100,000.00")
	require.Contains(t, out, "$66,666.67")
	require.Contains(t, out, "$33,333.33")
	require.Contains(t, out, "2 hrs")
	require.NotContains(t, out, "Suggested method")
}

func TestCalcCmd_AdviceWithoutAdvisorFallsBack(t *testing.T) {
	out, err := runCLI(t, "calc", "--rate", "10", "--player", "A=19:00-21:00", "--advice")
	require.NoError(t, err)
	require.Contains(t, out, "Suggested method: Error")
}

func TestCalcCmd_JSON(t *testing.T) {
	out, err := runCLI(t, "calc", "--rate", "20000", "--player", "A=18:00-19:30", "--json")
	require.NoError(t, err)

	var view wizard.CalculationView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, 30, view.Result.PlayerCosts[0].TimePlayed)
	require.InDelta(t, 40000, view.Result.PlayerCosts[0].Cost, 1e-9)
	require.Equal(t, "30 mins", view.Summary.Players[0].TimePlayed)
}

func TestCalcCmd_ValidationError(t *testing.T) {
	_, err := runCLI(t, "calc", "--start", "21:00", "--end", "19:00", "--player", "A=19:00-21:00")
	require.ErrorIs(t, err, wizard.ErrInvalidInput)
	require.Contains(t, err.Error(), "End time must be after start time")

	_, err = runCLI(t, "calc")
	require.Error(t, err)
}
