package advice

import "github.com/courtsplit/courtsplit/internal/domain/allocation"

// Placeholder shown when no suggestion could be obtained.
const (
	FallbackMethod    = "Error"
	FallbackReasoning = "Could not fetch AI suggestion. Please check your connection or try again later."
)

// PlayerTimestamp is a player's window as presented to the advisor.
type PlayerTimestamp struct {
	PlayerName    string `json:"player_name"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
}

// Request describes a session to the advisor.
type Request struct {
	PlayerTimestamps []PlayerTimestamp `json:"player_timestamps"`
	ShuttlecocksUsed int               `json:"shuttlecocks_used"`
}

// Suggestion is the advisor's free-text recommendation.
type Suggestion struct {
	SuggestedMethod string `json:"suggested_method"`
	Reasoning       string `json:"reasoning"`
	Failed          bool   `json:"failed,omitempty"`
}

// NewRequest builds an advice request from the players' raw windows.
func NewRequest(players []allocation.PlayerAttendance, shuttlecocksUsed int) Request {
	stamps := make([]PlayerTimestamp, len(players))
	for i, p := range players {
		stamps[i] = PlayerTimestamp{
			PlayerName:    p.Name,
			ArrivalTime:   p.ArrivalTime,
			DepartureTime: p.DepartureTime,
		}
	}
	return Request{PlayerTimestamps: stamps, ShuttlecocksUsed: shuttlecocksUsed}
}

// Fallback returns the placeholder suggestion used on failure.
func Fallback() Suggestion {
	return Suggestion{
		SuggestedMethod: FallbackMethod,
		Reasoning:       FallbackReasoning,
		Failed:          true,
	}
}
