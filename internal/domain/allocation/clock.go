package allocation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidClock indicates a string that is not a 24-hour HH:MM time.
var ErrInvalidClock = errors.New("invalid time of day")

// Hours 0-23 (leading zero optional), minutes 00-59.
var clockPattern = regexp.MustCompile(`^(?:2[0-3]|[01]?[0-9]):[0-5][0-9]$`)

// MinutesPerDay bounds every clock value.
const MinutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight, rejecting anything
// that is not a valid 24-hour time.
func ParseClock(s string) (int, error) {
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hh, mm, _ := strings.Cut(s, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m, nil
}

// TimeToMinutes converts "H:M" to h*60+m without range checks, so "9:5" is
// 545. The empty string and anything that does not split into two integers
// map to 0. Callers validate required fields with ParseClock first.
func TimeToMinutes(s string) int {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0
	}
	h, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil {
		return 0
	}
	return h*60 + m
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
