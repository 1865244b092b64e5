package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PenaltyBreakdown records the accumulated penalty mass behind a suggestion's
// score, split by cause.
type PenaltyBreakdown struct {
	NightPenalties     float64 `json:"night_penalties"`
	BurdenPenalties    float64 `json:"burden_penalties"`
	AdjacencyPenalties float64 `json:"adjacency_penalties"`
}

// Suggestion is one ranked meeting-time recommendation. The full set for a
// team is replaced on every generation run; Version increases by one per run.
type Suggestion struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TeamID             string           `gorm:"type:uuid;not null;index" json:"team_id"`
	StartsAtUTC        time.Time        `gorm:"column:starts_at_utc;not null" json:"starts_at_utc"`
	EndsAtUTC          time.Time        `gorm:"column:ends_at_utc;not null" json:"ends_at_utc"`
	AttendingMemberIDs []string         `gorm:"serializer:json" json:"attending_member_ids"`
	OverlapRatio       float64          `json:"overlap_ratio"`
	FairnessScore      float64          `json:"fairness_score"`
	Penalties          PenaltyBreakdown `gorm:"serializer:json;column:penalties_json" json:"penalties_json"`
	Version            int              `gorm:"default:1" json:"version"`
}

func (s *Suggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
