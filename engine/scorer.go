package engine

import (
	"math"
	"time"
)

// PenaltyWeight is the unit penalty applied per attending member for night
// slots and rotation burden; adjacency weighs half of it.
const PenaltyWeight = 0.1

// NightCounts tallies, per member, how many historical suggestions inside the
// lookback window started at night in that member's zone. Members with an
// unresolvable zone never accrue night counts. Every member appears in the
// result, at zero if unburdened.
func NightCounts(members []Member, zones map[string]*time.Location, history []HistoricalSuggestion, cutoff time.Time) map[string]int {
	counts := make(map[string]int, len(members))
	for _, m := range members {
		counts[m.ID] = 0
	}
	for _, h := range history {
		if h.StartsAtUTC.Before(cutoff) {
			continue
		}
		for _, id := range h.AttendingMemberIDs {
			if _, known := counts[id]; !known {
				continue
			}
			loc := zones[id]
			if loc == nil {
				continue
			}
			if IsNight(h.StartsAtUTC, loc) {
				counts[id]++
			}
		}
	}
	return counts
}

// FairnessScore measures how evenly historical night burden is spread across
// the team: 1.0 when every member carries the same count, trending toward 0
// as dispersion grows. It is a run-level snapshot of team state, attached
// identically to every suggestion produced in that run.
func FairnessScore(nightCounts map[string]int) float64 {
	if len(nightCounts) == 0 {
		return 1.0
	}
	mean := meanNightCount(nightCounts)
	var variance float64
	for _, c := range nightCounts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(len(nightCounts))
	return math.Max(0, 1-math.Sqrt(variance)/(mean+1))
}

func meanNightCount(nightCounts map[string]int) float64 {
	if len(nightCounts) == 0 {
		return 0
	}
	var sum float64
	for _, c := range nightCounts {
		sum += float64(c)
	}
	return sum / float64(len(nightCounts))
}

// applyPenalties fills in each feasible candidate's penalty breakdown,
// accumulated over attending members only: PenaltyWeight per member for whom
// the slot starts at night locally, half of it per member whose slot clips
// the buffer around a working-block boundary, and (when rotation is enabled)
// PenaltyWeight per member whose night count exceeds the team mean.
func applyPenalties(feasible []Candidate, rules Rules, members []Member, zones map[string]*time.Location, nightCounts map[string]int) {
	byID := make(map[string]Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	mean := meanNightCount(nightCounts)

	for i := range feasible {
		c := &feasible[i]
		for _, id := range c.AttendingMemberIDs {
			m := byID[id]
			loc := zones[id]
			if loc == nil {
				continue
			}
			slot := projectSlot(c.StartsAt, c.EndsAt, loc)

			if IsNight(c.StartsAt, loc) {
				c.Penalties.NightPenalties += PenaltyWeight
			}
			if IsAdjacentToWorkingHours(m, slot.dayOfWeek, slot.startMinute, slot.endMinute) {
				c.Penalties.AdjacencyPenalties += PenaltyWeight / 2
			}
			if rules.RotationEnabled && float64(nightCounts[id]) > mean {
				c.Penalties.BurdenPenalties += PenaltyWeight
			}
		}
	}
}
