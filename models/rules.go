package models

import "time"

// Rules holds a team's scheduling constraints, one row per team.
type Rules struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TeamID             string   `gorm:"type:uuid;not null;uniqueIndex" json:"team_id"`
	DurationMinutes    int      `gorm:"default:45" json:"duration_minutes"`
	Cadence            string   `gorm:"default:'weekly'" json:"cadence"` // weekly, biweekly
	MinAttendanceRatio float64  `gorm:"default:0.6" json:"min_attendance_ratio"`
	NightCapPerWeek    int      `gorm:"default:1" json:"night_cap_per_week"`
	ProhibitedDays     []int    `gorm:"serializer:json" json:"prohibited_days"`
	RequiredMemberIDs  []string `gorm:"serializer:json" json:"required_member_ids"`
	RotationEnabled    bool     `gorm:"default:true" json:"rotation_enabled"`
}
