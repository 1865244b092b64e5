package engine

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// Night time is local hours outside [07:00, 21:00).
const (
	nightEndHour   = 7
	nightStartHour = 21
)

// ToLocalDay converts an instant to the weekday and minute-of-day in loc,
// following the zone's rules (including DST), not a fixed offset.
func ToLocalDay(instant time.Time, loc *time.Location) (dayOfWeek, minuteOfDay int) {
	local := instant.In(loc)
	return int(local.Weekday()), local.Hour()*60 + local.Minute()
}

// IsNight reports whether the instant falls in the [21:00, 07:00) local window.
func IsNight(instant time.Time, loc *time.Location) bool {
	hour := instant.In(loc).Hour()
	return hour < nightEndHour || hour >= nightStartHour
}

// ResolveZone looks up an IANA zone name. Callers treat a failure as "member
// unavailable for all slots" rather than aborting the run.
func ResolveZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("empty timezone name")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("resolve timezone %q: %w", name, err)
	}
	return loc, nil
}

// localSlot is a candidate interval projected into one member's local clock.
type localSlot struct {
	dayOfWeek       int
	startMinute     int
	endMinute       int
	crossesMidnight bool
}

// projectSlot converts a [start, end) interval into loc-local day/minute
// coordinates. Slots that land on different local calendar days are marked
// crossesMidnight and treated as unavailable (no wraparound support).
func projectSlot(start, end time.Time, loc *time.Location) localSlot {
	localStart := start.In(loc)
	localEnd := end.In(loc)
	return localSlot{
		dayOfWeek:   int(localStart.Weekday()),
		startMinute: localStart.Hour()*60 + localStart.Minute(),
		endMinute:   localEnd.Hour()*60 + localEnd.Minute(),
		crossesMidnight: localStart.Year() != localEnd.Year() ||
			localStart.YearDay() != localEnd.YearDay(),
	}
}
