package allocation_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/stretchr/testify/require"
)

func eveningCosts() allocation.SessionCosts {
	return allocation.SessionCosts{
		CourtStartTime:      "19:00",
		CourtEndTime:        "21:00",
		HourlyRate:          20000,
		ShuttlecocksUsed:    4,
		PricePerShuttlecock: 15000,
	}
}

func TestAllocate_EveningSession(t *testing.T) {
	result := allocation.Allocate(eveningCosts(), []allocation.PlayerAttendance{
		{Name: "A", ArrivalTime: "19:00", DepartureTime: "21:00"},
		{Name: "B", ArrivalTime: "20:00", DepartureTime: "21:00"},
	})

	require.Equal(t, 40000.0, result.TotalCourtCost)
	require.Equal(t, 60000.0, result.TotalShuttlecockCost)
	require.Equal(t, 100000.0, result.GrandTotal)
	require.Equal(t, 120, result.CourtDuration)
	require.Equal(t, 180, result.TotalTimePlayed)

	require.Len(t, result.PlayerCosts, 2)
	require.Equal(t, "A", result.PlayerCosts[0].Name)
	require.Equal(t, 120, result.PlayerCosts[0].TimePlayed)
	require.InDelta(t, 66666.67, result.PlayerCosts[0].Cost, 0.005)
	require.Equal(t, "B", result.PlayerCosts[1].Name)
	require.Equal(t, 60, result.PlayerCosts[1].TimePlayed)
	require.InDelta(t, 33333.33, result.PlayerCosts[1].Cost, 0.005)
	require.InDelta(t, 100000.0, result.Allocated(), 1e-6)
}

func TestAllocate_FractionalHoursAreExact(t *testing.T) {
	result := allocation.Allocate(allocation.SessionCosts{
		CourtStartTime: "18:15",
		CourtEndTime:   "19:00",
		HourlyRate:     10,
	}, nil)

	require.Equal(t, 45, result.CourtDuration)
	require.Equal(t, 7.5, result.TotalCourtCost)
	require.Equal(t, 7.5, result.GrandTotal)
	require.Empty(t, result.PlayerCosts)
}

func TestAllocate_ClipsWindowsToCourt(t *testing.T) {
	result := allocation.Allocate(eveningCosts(), []allocation.PlayerAttendance{
		{Name: "early-and-late", ArrivalTime: "18:00", DepartureTime: "22:30"},
		{Name: "before-open", ArrivalTime: "17:00", DepartureTime: "18:59"},
		{Name: "after-close", ArrivalTime: "21:00", DepartureTime: "23:00"},
		{Name: "partial", ArrivalTime: "20:30", DepartureTime: "21:45"},
	})

	require.Equal(t, 120, result.PlayerCosts[0].TimePlayed)
	require.Equal(t, 0, result.PlayerCosts[1].TimePlayed)
	require.Equal(t, 0.0, result.PlayerCosts[1].Cost)
	require.Equal(t, 0, result.PlayerCosts[2].TimePlayed)
	require.Equal(t, 0.0, result.PlayerCosts[2].Cost)
	require.Equal(t, 30, result.PlayerCosts[3].TimePlayed)
	require.Equal(t, 150, result.TotalTimePlayed)
}

func TestAllocate_ZeroTimePlayedLeavesTotalUnallocated(t *testing.T) {
	result := allocation.Allocate(eveningCosts(), []allocation.PlayerAttendance{
		{Name: "A", ArrivalTime: "08:00", DepartureTime: "09:00"},
		{Name: "B", ArrivalTime: "22:00", DepartureTime: "23:00"},
	})

	require.Equal(t, 100000.0, result.GrandTotal)
	require.Equal(t, 0, result.TotalTimePlayed)
	for _, pc := range result.PlayerCosts {
		require.Equal(t, 0.0, pc.Cost)
	}
	require.Equal(t, 0.0, result.Allocated())
	require.Equal(t, 100000.0, result.Unallocated())
}

func TestAllocate_InvertedCourtWindow(t *testing.T) {
	costs := eveningCosts()
	costs.CourtStartTime, costs.CourtEndTime = costs.CourtEndTime, costs.CourtStartTime

	result := allocation.Allocate(costs, []allocation.PlayerAttendance{
		{Name: "A", ArrivalTime: "19:00", DepartureTime: "21:00"},
	})

	require.Equal(t, 0, result.CourtDuration)
	require.Equal(t, 0.0, result.TotalCourtCost)
	require.Equal(t, 60000.0, result.GrandTotal)
	require.Equal(t, 0, result.PlayerCosts[0].TimePlayed)
	require.Equal(t, 0.0, result.PlayerCosts[0].Cost)
}

func TestAllocate_PreservesInputOrderAndDuplicateNames(t *testing.T) {
	players := []allocation.PlayerAttendance{
		{Name: "Zed", ArrivalTime: "20:00", DepartureTime: "21:00"},
		{Name: "Amy", ArrivalTime: "19:00", DepartureTime: "21:00"},
		{Name: "Zed", ArrivalTime: "19:30", DepartureTime: "20:00"},
	}
	result := allocation.Allocate(eveningCosts(), players)

	require.Len(t, result.PlayerCosts, len(players))
	for i, p := range players {
		require.Equal(t, p.Name, result.PlayerCosts[i].Name)
	}
	require.Equal(t, []int{60, 120, 30}, []int{
		result.PlayerCosts[0].TimePlayed,
		result.PlayerCosts[1].TimePlayed,
		result.PlayerCosts[2].TimePlayed,
	})
}

func TestAllocate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	clock := func(min int) string { return allocation.FormatClock(min) }

	for i := 0; i < 500; i++ {
		start := rng.Intn(allocation.MinutesPerDay - 1)
		end := start + 1 + rng.Intn(allocation.MinutesPerDay-start-1)
		costs := allocation.SessionCosts{
			CourtStartTime:      clock(start),
			CourtEndTime:        clock(end),
			HourlyRate:          float64(rng.Intn(100000)) + rng.Float64(),
			ShuttlecocksUsed:    rng.Intn(20),
			PricePerShuttlecock: float64(rng.Intn(50000)),
		}

		n := 1 + rng.Intn(8)
		players := make([]allocation.PlayerAttendance, n)
		for j := range players {
			arr := rng.Intn(allocation.MinutesPerDay - 1)
			dep := arr + 1 + rng.Intn(allocation.MinutesPerDay-arr-1)
			players[j] = allocation.PlayerAttendance{
				Name:          "p",
				ArrivalTime:   clock(arr),
				DepartureTime: clock(dep),
			}
		}

		result := allocation.Allocate(costs, players)
		require.Equal(t, result.GrandTotal, result.TotalCourtCost+result.TotalShuttlecockCost)

		sumTime := 0
		for _, pc := range result.PlayerCosts {
			require.GreaterOrEqual(t, pc.TimePlayed, 0)
			require.LessOrEqual(t, pc.TimePlayed, result.CourtDuration)
			sumTime += pc.TimePlayed
		}
		require.Equal(t, result.TotalTimePlayed, sumTime)

		if result.TotalTimePlayed > 0 {
			if result.GrandTotal > 0 {
				rel := math.Abs(result.Allocated()-result.GrandTotal) / result.GrandTotal
				require.Less(t, rel, 1e-9)
			}
		} else {
			require.Equal(t, 0.0, result.Allocated())
		}
	}
}
