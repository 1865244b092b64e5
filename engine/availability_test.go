package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// nineToFive is the standard test member: Mon-Fri 09:00-17:00 with a
// 12:00-13:00 lunch carve-out on Monday.
func nineToFive() Member {
	m := Member{ID: "m1", Timezone: "UTC"}
	for day := 1; day <= 5; day++ {
		m.WorkingBlocks = append(m.WorkingBlocks, Block{DayOfWeek: day, StartMinute: 540, EndMinute: 1020})
	}
	m.NoMeetingBlocks = []Block{{DayOfWeek: 1, StartMinute: 720, EndMinute: 780}}
	return m
}

func TestIsAvailableInsideWorkingBlock(t *testing.T) {
	m := nineToFive()

	assert.True(t, IsAvailable(m, 1, 600, 660))
	// Exactly the working block bounds still counts.
	assert.True(t, IsAvailable(m, 2, 540, 1020))
	// Clipping the block start or end does not.
	assert.False(t, IsAvailable(m, 1, 500, 560))
	assert.False(t, IsAvailable(m, 1, 1000, 1060))
	// Off-day.
	assert.False(t, IsAvailable(m, 0, 600, 660))
}

func TestNoMeetingBlockExcludesEvenInsideWorkingHours(t *testing.T) {
	m := nineToFive()

	// The lunch hour itself is out.
	assert.False(t, IsAvailable(m, 1, 720, 780))
	// Partial overlaps with lunch are out.
	assert.False(t, IsAvailable(m, 1, 700, 760))
	assert.False(t, IsAvailable(m, 1, 760, 820))
	// Half-open semantics: an interval ending exactly at lunch start, or
	// starting exactly at lunch end, does not overlap.
	assert.True(t, IsAvailable(m, 1, 660, 720))
	assert.True(t, IsAvailable(m, 1, 780, 840))
	// The carve-out only applies on its own day.
	assert.True(t, IsAvailable(m, 2, 720, 780))
}

func TestZeroWorkingBlocksNeverAvailable(t *testing.T) {
	m := Member{ID: "m2", Timezone: "UTC"}
	assert.False(t, IsAvailable(m, 1, 600, 660))
}

func TestSplitShiftContainment(t *testing.T) {
	m := Member{
		ID: "m3",
		WorkingBlocks: []Block{
			{DayOfWeek: 3, StartMinute: 540, EndMinute: 720},
			{DayOfWeek: 3, StartMinute: 780, EndMinute: 1020},
		},
	}

	assert.True(t, IsAvailable(m, 3, 600, 660))
	assert.True(t, IsAvailable(m, 3, 780, 840))
	// Spanning the gap is not contained in either block.
	assert.False(t, IsAvailable(m, 3, 700, 800))
}

func TestIsAdjacentToWorkingHours(t *testing.T) {
	m := nineToFive()

	// Start right at the block start.
	assert.True(t, IsAdjacentToWorkingHours(m, 1, 540, 585))
	// Start within the 30-minute buffer of the block start.
	assert.True(t, IsAdjacentToWorkingHours(m, 1, 555, 600))
	// End within the buffer of the block end.
	assert.True(t, IsAdjacentToWorkingHours(m, 1, 960, 1005))
	// Comfortably mid-block.
	assert.False(t, IsAdjacentToWorkingHours(m, 1, 585, 630))
	// Different day.
	assert.False(t, IsAdjacentToWorkingHours(m, 0, 540, 585))
}
