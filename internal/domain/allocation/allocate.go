// Package allocation splits the cost of a shared court session between
// players in proportion to the minutes each one played.
//
//	court cost  = court minutes / 60 * hourly rate
//	shuttles    = shuttlecocks used * price per shuttlecock
//	player cost = player minutes / all players' minutes * (court cost + shuttles)
//
// Player windows are clipped to the court window before counting.
package allocation

// Allocate computes the cost breakdown. It never fails: inverted windows
// count as zero minutes, and when nobody played any minute inside the court
// window every player is charged 0, leaving the grand total unallocated.
//
// PlayerCosts has one entry per input player, in input order.
func Allocate(costs SessionCosts, players []PlayerAttendance) Result {
	courtStart := TimeToMinutes(costs.CourtStartTime)
	courtEnd := TimeToMinutes(costs.CourtEndTime)
	courtDuration := max(0, courtEnd-courtStart)

	totalCourtCost := float64(courtDuration) / 60 * costs.HourlyRate
	totalShuttlecockCost := float64(costs.ShuttlecocksUsed) * costs.PricePerShuttlecock
	grandTotal := totalCourtCost + totalShuttlecockCost

	played := make([]int, len(players))
	totalTimePlayed := 0
	for i, p := range players {
		arrival := max(TimeToMinutes(p.ArrivalTime), courtStart)
		departure := min(TimeToMinutes(p.DepartureTime), courtEnd)
		played[i] = max(0, departure-arrival)
		totalTimePlayed += played[i]
	}

	playerCosts := make([]PlayerCost, len(players))
	for i, p := range players {
		var cost float64
		if totalTimePlayed > 0 {
			cost = float64(played[i]) / float64(totalTimePlayed) * grandTotal
		}
		playerCosts[i] = PlayerCost{
			Name:       p.Name,
			TimePlayed: played[i],
			Cost:       cost,
		}
	}

	return Result{
		TotalCourtCost:       totalCourtCost,
		TotalShuttlecockCost: totalShuttlecockCost,
		GrandTotal:           grandTotal,
		CourtDuration:        courtDuration,
		TotalTimePlayed:      totalTimePlayed,
		PlayerCosts:          playerCosts,
	}
}
