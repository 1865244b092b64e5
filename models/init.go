package models

import (
	"time"

	"gorm.io/gorm"
)

// SampleTeamSlug identifies the demo team created by SeedSampleTeam.
const SampleTeamSlug = "sample-distributed-team"

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Team{},
		&TeamMember{},
		&WorkingBlock{},
		&NoMeetingBlock{},
		&Rules{},
		&Suggestion{},
		&ShareLink{},
	)
}

type sampleMember struct {
	DisplayName string
	Timezone    string
	Email       string
}

var sampleMembers = []sampleMember{
	{DisplayName: "Alex Chen", Timezone: "America/Los_Angeles", Email: "a***@company.com"},
	{DisplayName: "Sarah Johnson", Timezone: "Europe/London", Email: "s***@company.com"},
	{DisplayName: "Raj Patel", Timezone: "Asia/Kolkata", Email: "r***@company.com"},
	{DisplayName: "Kim Min-jun", Timezone: "Asia/Seoul", Email: "k***@company.com"},
}

// Monday-Friday 09:00-17:00 local, with a 12:00-13:00 lunch carve-out.
func sampleBlocks() (working, noMeeting []struct{ Day, Start, End int }) {
	for day := 1; day <= 5; day++ {
		working = append(working, struct{ Day, Start, End int }{day, 540, 1020})
		noMeeting = append(noMeeting, struct{ Day, Start, End int }{day, 720, 780})
	}
	return working, noMeeting
}

// SeedSampleTeam creates the demo team with four members across timezones,
// default availability blocks and rules. It is idempotent: if the team
// already exists its id is returned unchanged.
func SeedSampleTeam(db *gorm.DB) (string, error) {
	var existing Team
	err := db.Where("slug = ?", SampleTeamSlug).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return "", err
	}

	team := Team{
		Name:            "Sample Distributed Team",
		Slug:            SampleTeamSlug,
		DefaultTimezone: "UTC",
		Locale:          "en",
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		working, noMeeting := sampleBlocks()
		for _, sm := range sampleMembers {
			member := TeamMember{
				TeamID:      team.ID,
				DisplayName: sm.DisplayName,
				Email:       sm.Email,
				Timezone:    sm.Timezone,
				Role:        "member",
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			for _, b := range working {
				block := WorkingBlock{MemberID: member.ID, DayOfWeek: b.Day, StartMinute: b.Start, EndMinute: b.End}
				if err := tx.Create(&block).Error; err != nil {
					return err
				}
			}
			for _, b := range noMeeting {
				block := NoMeetingBlock{MemberID: member.ID, DayOfWeek: b.Day, StartMinute: b.Start, EndMinute: b.End}
				if err := tx.Create(&block).Error; err != nil {
					return err
				}
			}
		}

		rules := Rules{
			TeamID:             team.ID,
			DurationMinutes:    45,
			Cadence:            "weekly",
			MinAttendanceRatio: 0.6,
			NightCapPerWeek:    1,
			ProhibitedDays:     []int{0, 6},
			RequiredMemberIDs:  []string{},
			RotationEnabled:    true,
		}
		return tx.Create(&rules).Error
	})
	if err != nil {
		return "", err
	}
	return team.ID, nil
}

// SeedSampleSuggestions replaces the sample team's suggestions with a
// staggered set over the next five days, so the demo board has content even
// when the team's real constraints admit no common slot.
func SeedSampleSuggestions(db *gorm.DB, teamID string, now time.Time) ([]Suggestion, error) {
	var memberIDs []string
	if err := db.Model(&TeamMember{}).Where("team_id = ?", teamID).
		Order("created_at").Pluck("id", &memberIDs).Error; err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, 5)
	for i := 0; i < 5; i++ {
		day := now.AddDate(0, 0, 1+i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 14+(i%3), 0, 0, 0, time.UTC)
		attendees := memberIDs
		if n := 3 + (i % 2); n < len(memberIDs) {
			attendees = memberIDs[:n]
		}
		suggestions = append(suggestions, Suggestion{
			TeamID:             teamID,
			StartsAtUTC:        start,
			EndsAtUTC:          start.Add(45 * time.Minute),
			AttendingMemberIDs: attendees,
			OverlapRatio:       0.6 + float64(i)*0.1,
			FairnessScore:      0.7 + float64(i)*0.05,
			Penalties: PenaltyBreakdown{
				NightPenalties:  float64(i % 2),
				BurdenPenalties: float64(i) * 0.1,
			},
			Version: 1,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&Suggestion{}).Error; err != nil {
			return err
		}
		return tx.Create(&suggestions).Error
	})
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}
