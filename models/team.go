package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team is the top-level scheduling unit. It owns its members, its rules and
// its current suggestion set.
type Team struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name            string `gorm:"not null" json:"name"`
	Slug            string `gorm:"uniqueIndex;not null" json:"slug"`
	DefaultTimezone string `gorm:"default:'UTC'" json:"default_timezone"`
	Locale          string `gorm:"default:'en'" json:"locale"`

	// Relations
	Members     []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Rules       *Rules       `gorm:"foreignKey:TeamID" json:"rules,omitempty"`
	Suggestions []Suggestion `gorm:"foreignKey:TeamID" json:"suggestions,omitempty"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ShareLink is a capability token granting read-only access to a team's
// suggestion board. Only one link per team is active at a time.
type ShareLink struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TeamID    string     `gorm:"type:uuid;not null;index" json:"team_id"`
	Token     string     `gorm:"uniqueIndex;not null" json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`

	// Relations
	Team Team `json:"-"`
}

func (s *ShareLink) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
