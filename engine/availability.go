package engine

// AdjacencyBufferMinutes is the buffer around working-block boundaries that
// the adjacency penalty protects.
const AdjacencyBufferMinutes = 30

// IsAvailable reports whether the half-open interval [startMinute, endMinute)
// on dayOfWeek lies fully inside at least one of the member's working blocks
// and clear of every no-meeting block on that day.
func IsAvailable(m Member, dayOfWeek, startMinute, endMinute int) bool {
	for _, wb := range m.WorkingBlocks {
		if wb.DayOfWeek != dayOfWeek {
			continue
		}
		if startMinute < wb.StartMinute || endMinute > wb.EndMinute {
			continue
		}
		if overlapsNoMeetingBlock(m, dayOfWeek, startMinute, endMinute) {
			continue
		}
		return true
	}
	return false
}

func overlapsNoMeetingBlock(m Member, dayOfWeek, startMinute, endMinute int) bool {
	for _, nb := range m.NoMeetingBlocks {
		if nb.DayOfWeek != dayOfWeek {
			continue
		}
		// Half-open overlap: [a,b) and [c,d) intersect iff a < d && c < b.
		if startMinute < nb.EndMinute && nb.StartMinute < endMinute {
			return true
		}
	}
	return false
}

// IsAdjacentToWorkingHours reports whether the interval's start is within the
// buffer of a working-block start, or its end within the buffer of a
// working-block end, on that day. Such slots clip into personal buffer time.
func IsAdjacentToWorkingHours(m Member, dayOfWeek, startMinute, endMinute int) bool {
	for _, wb := range m.WorkingBlocks {
		if wb.DayOfWeek != dayOfWeek {
			continue
		}
		if absInt(startMinute-wb.StartMinute) <= AdjacencyBufferMinutes ||
			absInt(endMinute-wb.EndMinute) <= AdjacencyBufferMinutes {
			return true
		}
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
