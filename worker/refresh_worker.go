package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"fairmeet/engine"
	"fairmeet/models"
)

// RefreshWorker regenerates suggestion sets that have gone stale: the newest
// suggestion is older than MaxAge, already starts in the past, or the team
// has none at all. The demo team is left alone; its board is seeded, not
// generated.
type RefreshWorker struct {
	DB       *gorm.DB
	Engine   *engine.Engine
	Logger   *log.Logger
	Interval time.Duration
	MaxAge   time.Duration
}

func NewRefreshWorker(db *gorm.DB, eng *engine.Engine, logger *log.Logger, interval, maxAge time.Duration) *RefreshWorker {
	return &RefreshWorker{
		DB:       db,
		Engine:   eng,
		Logger:   logger,
		Interval: interval,
		MaxAge:   maxAge,
	}
}

func (rw *RefreshWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	rw.Logger.Println("Refresh worker started")

	ticker := time.NewTicker(rw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rw.Logger.Println("Refresh worker shutting down...")
			return
		case <-ticker.C:
			rw.refreshStaleTeams(ctx)
		}
	}
}

func (rw *RefreshWorker) refreshStaleTeams(ctx context.Context) {
	var teams []models.Team
	if err := rw.DB.Where("slug <> ?", models.SampleTeamSlug).Find(&teams).Error; err != nil {
		rw.Logger.Printf("Failed to list teams: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, team := range teams {
		if !rw.isStale(team.ID, now) {
			continue
		}

		result, err := rw.Engine.Generate(ctx, team.ID, now)
		if err != nil {
			// Teams without rules or members are not schedulable yet; skip
			// them quietly instead of spamming the log every tick.
			if errors.Is(err, engine.ErrTeamNotConfigured) || errors.Is(err, engine.ErrNoMembers) {
				continue
			}
			rw.Logger.Printf("Failed to refresh team %s: %v", team.ID, err)
			continue
		}
		rw.Logger.Printf("Refreshed team %s: %d suggestions (version %d)", team.ID, result.SuggestionCount, result.Version)
	}
}

func (rw *RefreshWorker) isStale(teamID string, now time.Time) bool {
	var newest models.Suggestion
	err := rw.DB.Where("team_id = ?", teamID).
		Order("created_at DESC").First(&newest).Error
	if err != nil {
		// No suggestions yet counts as stale; anything else we surface once
		// the regeneration itself fails.
		return true
	}
	if now.Sub(newest.CreatedAt) > rw.MaxAge {
		return true
	}
	return newest.StartsAtUTC.Before(now)
}
