package main

import (
	"fmt"
	"strings"

	"github.com/courtsplit/courtsplit/internal/domain/allocation"
)

// parsePlayer reads "Name=HH:MM-HH:MM". Times are checked later by the
// players form validation so the CLI reports the same messages as the API.
func parsePlayer(s string) (allocation.PlayerAttendance, error) {
	i := strings.LastIndex(s, "=")
	if i < 0 {
		return allocation.PlayerAttendance{}, fmt.Errorf("player %q: want Name=HH:MM-HH:MM", s)
	}
	arrival, departure, ok := strings.Cut(s[i+1:], "-")
	if !ok {
		return allocation.PlayerAttendance{}, fmt.Errorf("player %q: want Name=HH:MM-HH:MM", s)
	}
	return allocation.PlayerAttendance{
		Name:          strings.TrimSpace(s[:i]),
		ArrivalTime:   strings.TrimSpace(arrival),
		DepartureTime: strings.TrimSpace(departure),
	}, nil
}

func parsePlayers(specs []string) ([]allocation.PlayerAttendance, error) {
	players := make([]allocation.PlayerAttendance, 0, len(specs))
	for _, spec := range specs {
		p, err := parsePlayer(spec)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}
