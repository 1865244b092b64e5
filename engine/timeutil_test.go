package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestToLocalDayFollowsZoneRules(t *testing.T) {
	la := mustZone(t, "America/Los_Angeles")

	// Winter: PST is UTC-8, so 00:30 UTC is still the previous afternoon.
	day, minute := ToLocalDay(time.Date(2026, time.January, 15, 0, 30, 0, 0, time.UTC), la)
	assert.Equal(t, int(time.Wednesday), day)
	assert.Equal(t, 16*60+30, minute)

	// Summer: PDT is UTC-7, one hour later on the wall clock.
	day, minute = ToLocalDay(time.Date(2026, time.July, 1, 0, 30, 0, 0, time.UTC), la)
	assert.Equal(t, int(time.Tuesday), day)
	assert.Equal(t, 17*60+30, minute)
}

func TestIsNightZoneCorrect(t *testing.T) {
	seoul := mustZone(t, "Asia/Seoul")

	// 13:00 UTC is 22:00 in Seoul: night there, afternoon for a UTC member.
	instant := time.Date(2026, time.January, 5, 13, 0, 0, 0, time.UTC)
	assert.True(t, IsNight(instant, seoul))
	assert.False(t, IsNight(instant, time.UTC))
}

func TestIsNightBoundaries(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         bool
	}{
		{6, 59, true},
		{7, 0, false},
		{20, 59, false},
		{21, 0, true},
		{0, 0, true},
	}
	for _, tc := range cases {
		instant := time.Date(2026, time.March, 2, tc.hour, tc.minute, 0, 0, time.UTC)
		assert.Equal(t, tc.want, IsNight(instant, time.UTC), "at %02d:%02d", tc.hour, tc.minute)
	}
}

func TestResolveZone(t *testing.T) {
	loc, err := ResolveZone("Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	_, err = ResolveZone("Not/AZone")
	assert.Error(t, err)

	_, err = ResolveZone("")
	assert.Error(t, err)
}

func TestProjectSlot(t *testing.T) {
	slot := projectSlot(
		time.Date(2026, time.January, 5, 9, 45, 0, 0, time.UTC),
		time.Date(2026, time.January, 5, 10, 30, 0, 0, time.UTC),
		time.UTC,
	)
	assert.Equal(t, int(time.Monday), slot.dayOfWeek)
	assert.Equal(t, 9*60+45, slot.startMinute)
	assert.Equal(t, 10*60+30, slot.endMinute)
	assert.False(t, slot.crossesMidnight)
}

func TestProjectSlotCrossesMidnight(t *testing.T) {
	// 23:30-00:15 UTC is 08:30-09:15 in Seoul: midnight only in UTC.
	start := time.Date(2026, time.January, 5, 23, 30, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	assert.True(t, projectSlot(start, end, time.UTC).crossesMidnight)
	assert.False(t, projectSlot(start, end, mustZone(t, "Asia/Seoul")).crossesMidnight)
}
