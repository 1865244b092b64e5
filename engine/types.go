// Package engine implements the fair meeting-time recommendation engine:
// candidate slot enumeration over a bounded horizon, feasibility filtering
// against per-member availability, fairness and penalty scoring, and ranked
// selection. The engine is deterministic: it never reads the wall clock and
// all randomness-free inputs come through the Repository boundary.
package engine

import (
	"context"
	"errors"
	"time"
)

// Block is a recurring weekly interval in a member's local clock, expressed
// as minutes from local midnight. DayOfWeek uses 0=Sunday. Intervals are
// half-open: [StartMinute, EndMinute).
type Block struct {
	DayOfWeek   int
	StartMinute int
	EndMinute   int
}

// Member is one participant with a timezone and declared availability.
// A member with no working blocks is never available.
type Member struct {
	ID              string
	DisplayName     string
	Timezone        string
	WorkingBlocks   []Block
	NoMeetingBlocks []Block
}

// Rules are a team's scheduling constraints.
type Rules struct {
	DurationMinutes    int
	Cadence            string
	MinAttendanceRatio float64
	NightCapPerWeek    int
	ProhibitedDays     []int
	RequiredMemberIDs  []string
	RotationEnabled    bool
}

func (r Rules) prohibitsDay(weekday int) bool {
	for _, d := range r.ProhibitedDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// HistoricalSuggestion is a past accepted suggestion, read back for the
// fairness computation.
type HistoricalSuggestion struct {
	StartsAtUTC        time.Time
	AttendingMemberIDs []string
}

// PenaltyBreakdown splits a candidate's accumulated penalty mass by cause.
type PenaltyBreakdown struct {
	NightPenalties     float64 `json:"night_penalties"`
	BurdenPenalties    float64 `json:"burden_penalties"`
	AdjacencyPenalties float64 `json:"adjacency_penalties"`
}

func (p PenaltyBreakdown) Total() float64 {
	return p.NightPenalties + p.BurdenPenalties + p.AdjacencyPenalties
}

// Candidate is a feasible slot with its attendance and penalty assessment.
type Candidate struct {
	StartsAt           time.Time
	EndsAt             time.Time
	AttendingMemberIDs []string
	OverlapRatio       float64
	Penalties          PenaltyBreakdown
}

// Score is the ranking key: attendance minus accumulated penalties. Penalties
// are summed over attending members, not averaged, so high-overlap slots
// compete against low-friction low-overlap slots instead of trivially winning.
func (c Candidate) Score() float64 {
	return c.OverlapRatio - c.Penalties.Total()
}

// Suggestion is the engine's output unit. Instants are UTC.
type Suggestion struct {
	StartsAtUTC        time.Time        `json:"starts_at_utc"`
	EndsAtUTC          time.Time        `json:"ends_at_utc"`
	AttendingMemberIDs []string         `json:"attending_member_ids"`
	OverlapRatio       float64          `json:"overlap_ratio"`
	FairnessScore      float64          `json:"fairness_score"`
	Penalties          PenaltyBreakdown `json:"penalties_json"`
	Version            int              `json:"version"`
}

// TeamSnapshot is everything the engine reads for one run. Rules is nil when
// the team has no rules row.
type TeamSnapshot struct {
	TeamID          string
	DefaultTimezone string
	Rules           *Rules
	Members         []Member
	History         []HistoricalSuggestion
}

// Repository is the engine's storage boundary. ReplaceSuggestions must
// atomically swap the team's full suggestion set and assign the next
// monotonic version; on error no partial set may remain.
type Repository interface {
	LoadTeamSnapshot(ctx context.Context, teamID string) (*TeamSnapshot, error)
	ReplaceSuggestions(ctx context.Context, teamID string, suggestions []Suggestion) (version int, err error)
}

var (
	// ErrTeamNotConfigured means the team has no rules row; the run aborts.
	ErrTeamNotConfigured = errors.New("team is not configured for scheduling")
	// ErrNoMembers means the team has no participants to schedule.
	ErrNoMembers = errors.New("team has no members")
)
