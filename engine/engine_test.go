package engine

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	snapshot   *TeamSnapshot
	loadErr    error
	replaceErr error

	replaced [][]Suggestion
	version  int
}

func (f *fakeRepo) LoadTeamSnapshot(ctx context.Context, teamID string) (*TeamSnapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snapshot, nil
}

func (f *fakeRepo) ReplaceSuggestions(ctx context.Context, teamID string, suggestions []Suggestion) (int, error) {
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	f.replaced = append(f.replaced, suggestions)
	f.version++
	return f.version, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func weekdayBlocks(startMinute, endMinute int) []Block {
	var blocks []Block
	for day := 1; day <= 5; day++ {
		blocks = append(blocks, Block{DayOfWeek: day, StartMinute: startMinute, EndMinute: endMinute})
	}
	return blocks
}

// distributedTeam is four members with Mon-Fri 09:00-17:00 local working
// hours. The UTC, Berlin and Kolkata windows share a 09:00-11:30 UTC overlap
// in winter; Los Angeles is disjoint from Kolkata, so at most 3 of 4 members
// can ever meet.
func distributedTeam() *TeamSnapshot {
	return &TeamSnapshot{
		TeamID:          "team-1",
		DefaultTimezone: "UTC",
		Rules: &Rules{
			DurationMinutes:    45,
			Cadence:            "weekly",
			MinAttendanceRatio: 0.6,
			NightCapPerWeek:    1,
			ProhibitedDays:     []int{0, 6},
			RequiredMemberIDs:  []string{},
			RotationEnabled:    true,
		},
		Members: []Member{
			{ID: "alice", Timezone: "UTC", WorkingBlocks: weekdayBlocks(540, 1020)},
			{ID: "bob", Timezone: "Europe/Berlin", WorkingBlocks: weekdayBlocks(540, 1020)},
			{ID: "chitra", Timezone: "Asia/Kolkata", WorkingBlocks: weekdayBlocks(540, 1020)},
			{ID: "dae", Timezone: "America/Los_Angeles", WorkingBlocks: weekdayBlocks(540, 1020)},
		},
	}
}

// Monday 08:00 UTC in January, before the team's common window opens.
var refInstant = time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)

func TestGenerateEndToEnd(t *testing.T) {
	repo := &fakeRepo{snapshot: distributedTeam()}
	eng := New(repo, Config{}, quietLogger())

	result, err := eng.Generate(context.Background(), "team-1", refInstant)
	require.NoError(t, err)
	require.Equal(t, 5, result.SuggestionCount)
	require.Len(t, result.Suggestions, 5)
	assert.Equal(t, 1, result.Version)

	top := result.Suggestions[0]
	// The first slot clear of working-block boundaries inside the common
	// 09:00-11:30 UTC window wins: Monday 09:45.
	assert.True(t, top.StartsAtUTC.Equal(time.Date(2026, time.January, 5, 9, 45, 0, 0, time.UTC)))
	assert.True(t, top.EndsAtUTC.Equal(top.StartsAtUTC.Add(45*time.Minute)))
	assert.GreaterOrEqual(t, top.OverlapRatio, 0.6)
	assert.Equal(t, []string{"alice", "bob", "chitra"}, top.AttendingMemberIDs)
	// No history: burden is evenly (un)distributed, fairness is perfect and
	// identical on every suggestion of the run.
	for _, s := range result.Suggestions {
		assert.Equal(t, 1.0, s.FairnessScore)
		assert.Equal(t, 1, s.Version)
		assert.InDelta(t, 0.75, s.OverlapRatio, 1e-9)
	}

	// Ties rank chronologically: the second clean slot follows immediately.
	assert.True(t, result.Suggestions[1].StartsAtUTC.Equal(time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)))
}

func TestGenerateDeterministic(t *testing.T) {
	run := func() *Result {
		repo := &fakeRepo{snapshot: distributedTeam()}
		eng := New(repo, Config{}, quietLogger())
		result, err := eng.Generate(context.Background(), "team-1", refInstant)
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestGenerateImpossibleRatioYieldsEmptySet(t *testing.T) {
	snap := distributedTeam()
	snap.Rules.MinAttendanceRatio = 1.0
	repo := &fakeRepo{snapshot: snap}
	eng := New(repo, Config{}, quietLogger())

	result, err := eng.Generate(context.Background(), "team-1", refInstant)
	require.NoError(t, err)
	assert.Equal(t, 0, result.SuggestionCount)
	assert.Empty(t, result.Suggestions)
	// The empty set still replaces the previous one.
	require.Len(t, repo.replaced, 1)
	assert.Empty(t, repo.replaced[0])
}

func TestGenerateRequiredMemberInvariant(t *testing.T) {
	snap := distributedTeam()
	snap.Rules.RequiredMemberIDs = []string{"chitra"}
	repo := &fakeRepo{snapshot: snap}
	eng := New(repo, Config{}, quietLogger())

	result, err := eng.Generate(context.Background(), "team-1", refInstant)
	require.NoError(t, err)
	require.NotEmpty(t, result.Suggestions)
	for _, s := range result.Suggestions {
		assert.Contains(t, s.AttendingMemberIDs, "chitra")
	}
}

func TestGenerateRequiredMemberUnreachable(t *testing.T) {
	// Los Angeles never overlaps the others' window, so requiring dae
	// empties the feasible set without erroring.
	snap := distributedTeam()
	snap.Rules.RequiredMemberIDs = []string{"dae"}
	repo := &fakeRepo{snapshot: snap}
	eng := New(repo, Config{}, quietLogger())

	result, err := eng.Generate(context.Background(), "team-1", refInstant)
	require.NoError(t, err)
	assert.Equal(t, 0, result.SuggestionCount)
}

func TestGenerateUnresolvableMemberZoneDegrades(t *testing.T) {
	snap := &TeamSnapshot{
		TeamID: "team-2",
		Rules: &Rules{
			DurationMinutes:    30,
			MinAttendanceRatio: 0.5,
		},
		Members: []Member{
			{ID: "ok", Timezone: "UTC", WorkingBlocks: weekdayBlocks(540, 1020)},
			{ID: "lost", Timezone: "Not/AZone", WorkingBlocks: weekdayBlocks(540, 1020)},
		},
	}
	repo := &fakeRepo{snapshot: snap}
	eng := New(repo, Config{}, quietLogger())

	result, err := eng.Generate(context.Background(), "team-2", refInstant)
	require.NoError(t, err)
	require.NotEmpty(t, result.Suggestions)
	for _, s := range result.Suggestions {
		assert.NotContains(t, s.AttendingMemberIDs, "lost")
		// The unresolvable member still counts in the denominator.
		assert.InDelta(t, 0.5, s.OverlapRatio, 1e-9)
	}
}

func TestGenerateTeamNotConfigured(t *testing.T) {
	snap := distributedTeam()
	snap.Rules = nil
	repo := &fakeRepo{snapshot: snap}
	eng := New(repo, Config{}, quietLogger())

	_, err := eng.Generate(context.Background(), "team-1", refInstant)
	assert.ErrorIs(t, err, ErrTeamNotConfigured)
	assert.Empty(t, repo.replaced)
}

func TestGenerateNoMembers(t *testing.T) {
	snap := distributedTeam()
	snap.Members = nil
	repo := &fakeRepo{snapshot: snap}
	eng := New(repo, Config{}, quietLogger())

	_, err := eng.Generate(context.Background(), "team-1", refInstant)
	assert.ErrorIs(t, err, ErrNoMembers)
}

func TestGenerateLoadFailureIsFatal(t *testing.T) {
	repo := &fakeRepo{loadErr: errors.New("connection refused")}
	eng := New(repo, Config{}, quietLogger())

	_, err := eng.Generate(context.Background(), "team-1", refInstant)
	assert.Error(t, err)
	assert.Empty(t, repo.replaced)
}

func TestGenerateWriteFailureIsFatal(t *testing.T) {
	repo := &fakeRepo{snapshot: distributedTeam(), replaceErr: errors.New("disk full")}
	eng := New(repo, Config{}, quietLogger())

	result, err := eng.Generate(context.Background(), "team-1", refInstant)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestGenerateVersionFollowsRepository(t *testing.T) {
	repo := &fakeRepo{snapshot: distributedTeam()}
	eng := New(repo, Config{}, quietLogger())

	first, err := eng.Generate(context.Background(), "team-1", refInstant)
	require.NoError(t, err)
	second, err := eng.Generate(context.Background(), "team-1", refInstant)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	for _, s := range second.Suggestions {
		assert.Equal(t, 2, s.Version)
	}
}

func TestGenerateHonorsCandidateCap(t *testing.T) {
	snap := distributedTeam()
	repo := &fakeRepo{snapshot: snap}
	// A cap of 4 stops the scan inside Monday's 08:00-09:00 run-up, before
	// the common window opens.
	eng := New(repo, Config{MaxCandidates: 4}, quietLogger())

	result, err := eng.Generate(context.Background(), "team-1", refInstant)
	require.NoError(t, err)
	assert.Equal(t, 0, result.SuggestionCount)
}

func TestGenerateBurdenPenaltyShiftsRanking(t *testing.T) {
	// Give chitra a heavy night history; with rotation enabled every slot
	// she attends carries a burden penalty, but the stable order keeps the
	// earliest equal-scored slot first.
	snap := distributedTeam()
	snap.History = []HistoricalSuggestion{
		// 16:00 UTC = 21:30 in Kolkata: night for chitra only.
		{StartsAtUTC: refInstant.Add(-24 * time.Hour).Add(8 * time.Hour), AttendingMemberIDs: []string{"alice", "chitra"}},
		{StartsAtUTC: refInstant.Add(-48 * time.Hour).Add(8 * time.Hour), AttendingMemberIDs: []string{"chitra"}},
	}
	repo := &fakeRepo{snapshot: snap}
	eng := New(repo, Config{}, quietLogger())

	result, err := eng.Generate(context.Background(), "team-1", refInstant)
	require.NoError(t, err)
	require.NotEmpty(t, result.Suggestions)

	top := result.Suggestions[0]
	// chitra's count (2) exceeds the mean (0.5), so her attendance costs a
	// burden penalty on every suggestion she is part of.
	assert.InDelta(t, PenaltyWeight, top.Penalties.BurdenPenalties, 1e-9)
	// Dispersion across {2,0,0,0} drags fairness below 1.
	assert.Less(t, top.FairnessScore, 1.0)
	for _, s := range result.Suggestions {
		assert.Equal(t, top.FairnessScore, s.FairnessScore)
	}
}

func TestRankStableAndBounded(t *testing.T) {
	base := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	feasible := []Candidate{
		{StartsAt: base, OverlapRatio: 0.75},
		{StartsAt: base.Add(15 * time.Minute), OverlapRatio: 1.0, Penalties: PenaltyBreakdown{NightPenalties: 0.4}},
		{StartsAt: base.Add(30 * time.Minute), OverlapRatio: 0.75},
		{StartsAt: base.Add(45 * time.Minute), OverlapRatio: 0.9},
	}

	top := Rank(feasible, 3)

	require.Len(t, top, 3)
	// 0.9 wins, then the two tied 0.75s in chronological order.
	assert.True(t, top[0].StartsAt.Equal(base.Add(45*time.Minute)))
	assert.True(t, top[1].StartsAt.Equal(base))
	assert.True(t, top[2].StartsAt.Equal(base.Add(30*time.Minute)))
}
