package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"fairmeet/models"
	"fairmeet/utils"
)

type DemoController struct {
	DB *gorm.DB
}

func NewDemoController(db *gorm.DB) *DemoController {
	return &DemoController{DB: db}
}

// CreateSampleTeam provisions the demo team (idempotent) and refreshes its
// suggestion board with a staggered sample set over the next five days.
func (dc *DemoController) CreateSampleTeam(c *fiber.Ctx) error {
	teamID, err := models.SeedSampleTeam(dc.DB)
	if err != nil {
		utils.LogError("create_sample_team_failed", err, nil)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create sample team", err)
	}

	suggestions, err := models.SeedSampleSuggestions(dc.DB, teamID, time.Now().UTC())
	if err != nil {
		utils.LogError("seed_sample_suggestions_failed", err, map[string]interface{}{
			"team_id": teamID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to seed sample suggestions", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"team_id":     teamID,
		"suggestions": len(suggestions),
	}))
}

type demoSuggestion struct {
	models.Suggestion
	AttendingMembers []models.TeamMember `json:"attendingMembers"`
}

// GetDemoData returns the sample team with members and suggestions, each
// suggestion joined with the member records behind its attending ids.
func (dc *DemoController) GetDemoData(c *fiber.Ctx) error {
	var team models.Team
	err := dc.DB.Where("slug = ?", models.SampleTeamSlug).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Sample team not found. Please create it first.", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load sample team", err)
	}

	var members []models.TeamMember
	if err := dc.DB.Where("team_id = ?", team.ID).Order("created_at").Find(&members).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load members", err)
	}

	var suggestions []models.Suggestion
	if err := dc.DB.Where("team_id = ?", team.ID).
		Order("starts_at_utc").Limit(5).Find(&suggestions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load suggestions", err)
	}

	membersByID := make(map[string]models.TeamMember, len(members))
	for _, m := range members {
		membersByID[m.ID] = m
	}

	joined := make([]demoSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		ds := demoSuggestion{Suggestion: s}
		for _, id := range s.AttendingMemberIDs {
			if m, ok := membersByID[id]; ok {
				ds.AttendingMembers = append(ds.AttendingMembers, m)
			}
		}
		joined = append(joined, ds)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"team":        team,
		"members":     members,
		"suggestions": joined,
	}))
}
