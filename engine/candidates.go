package engine

import "time"

// Config controls the candidate scan and selection. Zero values are replaced
// by the corresponding DefaultConfig fields.
type Config struct {
	// HorizonDays bounds how far ahead of the reference instant the scan runs.
	HorizonDays int
	// GranularityMinutes is the step between candidate starts within a day.
	GranularityMinutes int
	// MaxCandidates caps how many candidates the feasibility filter evaluates.
	// Hitting the cap yields a best-effort subset of the horizon, trading
	// completeness for bounded latency.
	MaxCandidates int
	// MaxSuggestions is the number of top-ranked suggestions returned.
	MaxSuggestions int
	// FairnessLookback is the history window feeding night-burden counts.
	FairnessLookback time.Duration
}

func DefaultConfig() Config {
	return Config{
		HorizonDays:        28,
		GranularityMinutes: 15,
		MaxCandidates:      1000,
		MaxSuggestions:     5,
		FairnessLookback:   28 * 24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.HorizonDays <= 0 {
		c.HorizonDays = def.HorizonDays
	}
	if c.GranularityMinutes <= 0 {
		c.GranularityMinutes = def.GranularityMinutes
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = def.MaxCandidates
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = def.MaxSuggestions
	}
	if c.FairnessLookback <= 0 {
		c.FairnessLookback = def.FairnessLookback
	}
	return c
}

// GenerateCandidateSlots enumerates meeting-start candidates between now and
// now+horizon, stepping through each retained day at the configured
// granularity in the reference timezone. Days whose reference-zone weekday is
// prohibited are skipped entirely, past starts are dropped, and a slot whose
// end lands on a different reference-zone calendar day than its start is
// dropped. The result is in chronological order.
func GenerateCandidateSlots(rules Rules, now time.Time, loc *time.Location, cfg Config) []time.Time {
	cfg = cfg.withDefaults()
	duration := time.Duration(rules.DurationMinutes) * time.Minute
	horizonEnd := now.AddDate(0, 0, cfg.HorizonDays)

	local := now.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var candidates []time.Time
	for ; day.Before(horizonEnd); day = day.AddDate(0, 0, 1) {
		if rules.prohibitsDay(int(day.Weekday())) {
			continue
		}
		for minute := 0; minute < minutesPerDay; minute += cfg.GranularityMinutes {
			start := time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, loc)
			if start.Before(now) {
				continue
			}
			end := start.Add(duration)
			if end.In(loc).YearDay() != start.In(loc).YearDay() {
				continue
			}
			candidates = append(candidates, start)
		}
	}
	return candidates
}
