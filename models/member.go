package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMember belongs to exactly one team. Timezone is an IANA zone name
// ("Asia/Seoul"); availability blocks are stored in the member's local time.
type TeamMember struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TeamID      string `gorm:"type:uuid;not null;index" json:"team_id"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Email       string `json:"email"`
	Timezone    string `gorm:"not null" json:"timezone"`
	Role        string `gorm:"default:'member'" json:"role"` // owner, admin, member

	// Relations
	Team            Team             `json:"-"`
	WorkingBlocks   []WorkingBlock   `gorm:"foreignKey:MemberID" json:"working_blocks,omitempty"`
	NoMeetingBlocks []NoMeetingBlock `gorm:"foreignKey:MemberID" json:"no_meeting_blocks,omitempty"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// WorkingBlock is a recurring weekly interval during which the member is
// reachable for meetings. DayOfWeek uses 0=Sunday; minutes count from local
// midnight and StartMinute < EndMinute always holds.
type WorkingBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	MemberID    string `gorm:"type:uuid;not null;index" json:"member_id"`
	DayOfWeek   int    `gorm:"not null" json:"day_of_week"`
	StartMinute int    `gorm:"not null" json:"start_minute"`
	EndMinute   int    `gorm:"not null" json:"end_minute"`
}

// NoMeetingBlock carves time out of working hours (lunch, focus time). A
// meeting overlapping one of these excludes the member even when the slot is
// inside a working block.
type NoMeetingBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	MemberID    string `gorm:"type:uuid;not null;index" json:"member_id"`
	DayOfWeek   int    `gorm:"not null" json:"day_of_week"`
	StartMinute int    `gorm:"not null" json:"start_minute"`
	EndMinute   int    `gorm:"not null" json:"end_minute"`
}
