package engine

import "time"

// filterCandidates narrows candidate starts to feasible candidates: for each
// start it computes the attending set from per-member local availability,
// then rejects candidates below the minimum attendance ratio or missing a
// required member. Members whose zone could not be resolved never attend.
// The attending order follows the members slice, keeping runs deterministic.
func filterCandidates(starts []time.Time, rules Rules, members []Member, zones map[string]*time.Location) []Candidate {
	total := float64(len(members))
	duration := time.Duration(rules.DurationMinutes) * time.Minute

	var feasible []Candidate
	for _, start := range starts {
		end := start.Add(duration)

		var attending []string
		for _, m := range members {
			loc := zones[m.ID]
			if loc == nil {
				continue
			}
			slot := projectSlot(start, end, loc)
			if slot.crossesMidnight {
				continue
			}
			if IsAvailable(m, slot.dayOfWeek, slot.startMinute, slot.endMinute) {
				attending = append(attending, m.ID)
			}
		}

		overlap := float64(len(attending)) / total
		if overlap < rules.MinAttendanceRatio {
			continue
		}
		if !containsAll(attending, rules.RequiredMemberIDs) {
			continue
		}

		feasible = append(feasible, Candidate{
			StartsAt:           start,
			EndsAt:             end,
			AttendingMemberIDs: attending,
			OverlapRatio:       overlap,
		})
	}
	return feasible
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
