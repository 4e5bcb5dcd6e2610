package allocation

// SessionCosts describes what the court session cost as a whole.
type SessionCosts struct {
	CourtStartTime      string  `json:"court_start_time"`
	CourtEndTime        string  `json:"court_end_time"`
	HourlyRate          float64 `json:"hourly_rate"`
	ShuttlecocksUsed    int     `json:"shuttlecocks_used"`
	PricePerShuttlecock float64 `json:"price_per_shuttlecock"`
}

// PlayerAttendance is one player's arrival/departure window.
type PlayerAttendance struct {
	Name          string `json:"name"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
}

// PlayerCost is a single player's share of the grand total
type PlayerCost struct {
	Name       string  `json:"name"`
	TimePlayed int     `json:"time_played"` // minutes
	Cost       float64 `json:"cost"`
}

// Result is the full cost breakdown for a session.
type Result struct {
	TotalCourtCost       float64      `json:"total_court_cost"`
	TotalShuttlecockCost float64      `json:"total_shuttlecock_cost"`
	GrandTotal           float64      `json:"grand_total"`
	CourtDuration        int          `json:"court_duration"`    // minutes
	TotalTimePlayed      int          `json:"total_time_played"` // minutes
	PlayerCosts          []PlayerCost `json:"player_costs"`
}

// Allocated sums the per-player costs.
func (r Result) Allocated() float64 {
	var sum float64
	for _, pc := range r.PlayerCosts {
		sum += pc.Cost
	}
	return sum
}

// Unallocated is the part of the grand total no player was charged for.
// It is the whole grand total when nobody played inside the court window.
func (r Result) Unallocated() float64 {
	return r.GrandTotal - r.Allocated()
}
