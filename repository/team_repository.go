// Package repository implements the engine's storage boundary on top of gorm.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fairmeet/engine"
	"fairmeet/models"
)

// historyLookback bounds how much suggestion history is read back for the
// fairness computation.
const historyLookback = 28 * 24 * time.Hour

// TeamRepository reads team snapshots and writes suggestion sets. It is the
// only place the engine's types meet the gorm models.
type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// ErrTeamNotFound is returned when the team id does not exist at all, as
// opposed to existing without rules.
var ErrTeamNotFound = errors.New("team not found")

// LoadTeamSnapshot returns the team's rules, members with their blocks, and
// recent suggestion history. Snapshot.Rules is nil when no rules row exists.
func (r *TeamRepository) LoadTeamSnapshot(ctx context.Context, teamID string) (*engine.TeamSnapshot, error) {
	db := r.db.WithContext(ctx)

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
		}
		return nil, fmt.Errorf("read team: %w", err)
	}

	snap := &engine.TeamSnapshot{
		TeamID:          team.ID,
		DefaultTimezone: team.DefaultTimezone,
	}

	var rules models.Rules
	err := db.First(&rules, "team_id = ?", teamID).Error
	switch {
	case err == nil:
		snap.Rules = &engine.Rules{
			DurationMinutes:    rules.DurationMinutes,
			Cadence:            rules.Cadence,
			MinAttendanceRatio: rules.MinAttendanceRatio,
			NightCapPerWeek:    rules.NightCapPerWeek,
			ProhibitedDays:     rules.ProhibitedDays,
			RequiredMemberIDs:  rules.RequiredMemberIDs,
			RotationEnabled:    rules.RotationEnabled,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Leave snap.Rules nil; the engine surfaces "not configured".
	default:
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var members []models.TeamMember
	if err := db.Preload("WorkingBlocks").Preload("NoMeetingBlocks").
		Where("team_id = ?", teamID).Order("created_at").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("read members: %w", err)
	}
	for _, m := range members {
		snap.Members = append(snap.Members, engine.Member{
			ID:              m.ID,
			DisplayName:     m.DisplayName,
			Timezone:        m.Timezone,
			WorkingBlocks:   toBlocks(m.WorkingBlocks),
			NoMeetingBlocks: toNoMeetingBlocks(m.NoMeetingBlocks),
		})
	}

	cutoff := time.Now().Add(-historyLookback)
	var history []models.Suggestion
	if err := db.Where("team_id = ? AND created_at >= ?", teamID, cutoff).
		Order("starts_at_utc").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("read suggestion history: %w", err)
	}
	for _, h := range history {
		snap.History = append(snap.History, engine.HistoricalSuggestion{
			StartsAtUTC:        h.StartsAtUTC,
			AttendingMemberIDs: h.AttendingMemberIDs,
		})
	}

	return snap, nil
}

// ReplaceSuggestions atomically swaps the team's suggestion set: inside one
// transaction it reads the current version, deletes every existing row and
// inserts the new set at version+1. Either the whole new set lands or the old
// set survives untouched.
func (r *TeamRepository) ReplaceSuggestions(ctx context.Context, teamID string, suggestions []engine.Suggestion) (int, error) {
	version := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current int
		if err := tx.Model(&models.Suggestion{}).
			Where("team_id = ?", teamID).
			Select("COALESCE(MAX(version), 0)").Scan(&current).Error; err != nil {
			return fmt.Errorf("read current version: %w", err)
		}
		version = current + 1

		if err := tx.Where("team_id = ?", teamID).Delete(&models.Suggestion{}).Error; err != nil {
			return fmt.Errorf("delete previous set: %w", err)
		}
		if len(suggestions) == 0 {
			return nil
		}

		rows := make([]models.Suggestion, 0, len(suggestions))
		for _, s := range suggestions {
			rows = append(rows, models.Suggestion{
				TeamID:             teamID,
				StartsAtUTC:        s.StartsAtUTC,
				EndsAtUTC:          s.EndsAtUTC,
				AttendingMemberIDs: s.AttendingMemberIDs,
				OverlapRatio:       s.OverlapRatio,
				FairnessScore:      s.FairnessScore,
				Penalties: models.PenaltyBreakdown{
					NightPenalties:     s.Penalties.NightPenalties,
					BurdenPenalties:    s.Penalties.BurdenPenalties,
					AdjacencyPenalties: s.Penalties.AdjacencyPenalties,
				},
				Version: version,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert new set: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

func toBlocks(blocks []models.WorkingBlock) []engine.Block {
	out := make([]engine.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, engine.Block{DayOfWeek: b.DayOfWeek, StartMinute: b.StartMinute, EndMinute: b.EndMinute})
	}
	return out
}

func toNoMeetingBlocks(blocks []models.NoMeetingBlock) []engine.Block {
	out := make([]engine.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, engine.Block{DayOfWeek: b.DayOfWeek, StartMinute: b.StartMinute, EndMinute: b.EndMinute})
	}
	return out
}
