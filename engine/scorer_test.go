package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFairnessScore(t *testing.T) {
	// No members at all defaults to perfectly fair.
	assert.Equal(t, 1.0, FairnessScore(map[string]int{}))

	// Equal burden is perfectly fair regardless of magnitude.
	assert.Equal(t, 1.0, FairnessScore(map[string]int{"a": 2, "b": 2, "c": 2}))

	// counts {0, 2}: mean 1, stddev 1 -> 1 - 1/2 = 0.5.
	assert.InDelta(t, 0.5, FairnessScore(map[string]int{"a": 0, "b": 2}), 1e-9)

	// Extreme dispersion floors at zero.
	assert.Equal(t, 0.0, FairnessScore(map[string]int{"a": 0, "b": 0, "c": 0, "d": 100}))
}

func TestNightCountsZoneCorrect(t *testing.T) {
	members := []Member{
		{ID: "utc", Timezone: "UTC"},
		{ID: "seoul", Timezone: "Asia/Seoul"},
	}
	zones := map[string]*time.Location{
		"utc":   time.UTC,
		"seoul": mustZone(t, "Asia/Seoul"),
	}
	// 13:00 UTC = 22:00 in Seoul: night for the Seoul member only.
	history := []HistoricalSuggestion{
		{
			StartsAtUTC:        time.Date(2026, time.January, 5, 13, 0, 0, 0, time.UTC),
			AttendingMemberIDs: []string{"utc", "seoul", "departed-member"},
		},
	}
	cutoff := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	counts := NightCounts(members, zones, history, cutoff)

	require.Len(t, counts, 2)
	assert.Equal(t, 0, counts["utc"])
	assert.Equal(t, 1, counts["seoul"])
}

func TestNightCountsRespectsCutoff(t *testing.T) {
	members := []Member{{ID: "seoul", Timezone: "Asia/Seoul"}}
	zones := map[string]*time.Location{"seoul": mustZone(t, "Asia/Seoul")}
	history := []HistoricalSuggestion{
		{StartsAtUTC: time.Date(2025, time.November, 1, 13, 0, 0, 0, time.UTC), AttendingMemberIDs: []string{"seoul"}},
		{StartsAtUTC: time.Date(2026, time.January, 5, 13, 0, 0, 0, time.UTC), AttendingMemberIDs: []string{"seoul"}},
	}
	cutoff := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	counts := NightCounts(members, zones, history, cutoff)
	assert.Equal(t, 1, counts["seoul"])
}

func TestNightCountsUnresolvableZoneStaysZero(t *testing.T) {
	members := []Member{{ID: "lost", Timezone: "Not/AZone"}}
	zones := map[string]*time.Location{"lost": nil}
	history := []HistoricalSuggestion{
		{StartsAtUTC: time.Date(2026, time.January, 5, 23, 0, 0, 0, time.UTC), AttendingMemberIDs: []string{"lost"}},
	}

	counts := NightCounts(members, zones, history, time.Time{})
	assert.Equal(t, 0, counts["lost"])
}

func TestApplyPenalties(t *testing.T) {
	seoul := Member{
		ID:       "seoul",
		Timezone: "Asia/Seoul",
		WorkingBlocks: []Block{
			{DayOfWeek: 1, StartMinute: 540, EndMinute: 1020},
		},
	}
	members := []Member{seoul}
	zones := map[string]*time.Location{"seoul": mustZone(t, "Asia/Seoul")}

	// Monday 13:00 UTC = Monday 22:00 in Seoul: a night slot, far from the
	// member's working-block boundaries.
	start := time.Date(2026, time.January, 5, 13, 0, 0, 0, time.UTC)
	feasible := []Candidate{{
		StartsAt:           start,
		EndsAt:             start.Add(45 * time.Minute),
		AttendingMemberIDs: []string{"seoul"},
		OverlapRatio:       1.0,
	}}
	rules := Rules{DurationMinutes: 45, RotationEnabled: true}
	nightCounts := map[string]int{"seoul": 2, "other": 0}

	applyPenalties(feasible, rules, members, zones, nightCounts)

	p := feasible[0].Penalties
	assert.InDelta(t, PenaltyWeight, p.NightPenalties, 1e-9)
	assert.Equal(t, 0.0, p.AdjacencyPenalties)
	// Night count 2 exceeds the mean of 1, so rotation adds a burden penalty.
	assert.InDelta(t, PenaltyWeight, p.BurdenPenalties, 1e-9)
	assert.InDelta(t, 1.0-2*PenaltyWeight, feasible[0].Score(), 1e-9)
}

func TestApplyPenaltiesAdjacency(t *testing.T) {
	m := nineToFive()
	members := []Member{m}
	zones := map[string]*time.Location{m.ID: time.UTC}

	// Monday 09:00-09:45 UTC starts exactly on the working-block boundary.
	start := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	feasible := []Candidate{{
		StartsAt:           start,
		EndsAt:             start.Add(45 * time.Minute),
		AttendingMemberIDs: []string{m.ID},
		OverlapRatio:       1.0,
	}}

	applyPenalties(feasible, Rules{DurationMinutes: 45}, members, zones, map[string]int{m.ID: 0})

	p := feasible[0].Penalties
	assert.Equal(t, 0.0, p.NightPenalties)
	assert.InDelta(t, PenaltyWeight/2, p.AdjacencyPenalties, 1e-9)
	// Rotation is disabled, so no burden penalty accrues.
	assert.Equal(t, 0.0, p.BurdenPenalties)
}

func TestApplyPenaltiesNoRotationNoBurden(t *testing.T) {
	m := nineToFive()
	members := []Member{m}
	zones := map[string]*time.Location{m.ID: time.UTC}

	start := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	feasible := []Candidate{{
		StartsAt:           start,
		EndsAt:             start.Add(45 * time.Minute),
		AttendingMemberIDs: []string{m.ID},
		OverlapRatio:       1.0,
	}}

	applyPenalties(feasible, Rules{DurationMinutes: 45, RotationEnabled: false}, members, zones, map[string]int{m.ID: 5, "other": 0})

	assert.Equal(t, 0.0, feasible[0].Penalties.BurdenPenalties)
}
