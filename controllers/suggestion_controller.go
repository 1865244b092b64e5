package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"fairmeet/engine"
	"fairmeet/models"
	"fairmeet/repository"
	"fairmeet/utils"
)

type SuggestionController struct {
	DB     *gorm.DB
	Engine *engine.Engine
}

func NewSuggestionController(db *gorm.DB, eng *engine.Engine) *SuggestionController {
	return &SuggestionController{DB: db, Engine: eng}
}

// Generate regenerates the team's suggestion set and returns the new ranked
// shortlist. The previous set is fully replaced; an empty result is a valid
// outcome meaning the current rules admit no common slot.
func (sc *SuggestionController) Generate(c *fiber.Ctx) error {
	teamID := c.Params("teamID")

	result, err := sc.Engine.Generate(c.Context(), teamID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTeamNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		case errors.Is(err, engine.ErrTeamNotConfigured):
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Team is not configured: add scheduling rules first", nil)
		case errors.Is(err, engine.ErrNoMembers):
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Team has no members to schedule", nil)
		default:
			utils.LogError("generate_suggestions_failed", err, map[string]interface{}{
				"team_id": teamID,
			})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate suggestions", err)
		}
	}

	response := fiber.Map{
		"suggestion_count": result.SuggestionCount,
		"suggestions":      result.Suggestions,
		"version":          result.Version,
	}
	if result.SuggestionCount == 0 {
		response["guidance"] = "No slot satisfies the current rules. Consider lowering min_attendance_ratio or widening working hours."
	}

	utils.LogEvent("suggestions_generated", map[string]interface{}{
		"team_id": teamID,
		"count":   result.SuggestionCount,
		"version": result.Version,
	})

	return c.JSON(utils.SuccessResponse(response))
}

// List returns the team's current suggestion set ordered by start time.
func (sc *SuggestionController) List(c *fiber.Ctx) error {
	teamID := c.Params("teamID")

	var count int64
	if err := sc.DB.Model(&models.Team{}).Where("id = ?", teamID).Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load team", err)
	}
	if count == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}

	var suggestions []models.Suggestion
	if err := sc.DB.Where("team_id = ?", teamID).
		Order("starts_at_utc").Find(&suggestions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load suggestions", err)
	}

	return c.JSON(utils.SuccessResponse(suggestions))
}

// ExportICS serves one suggestion as a downloadable iCalendar file.
func (sc *SuggestionController) ExportICS(c *fiber.Ctx) error {
	suggestion, team, err := sc.findSuggestion(c.Params("suggestionID"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Suggestion not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load suggestion", err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", utils.ICSFilename(*suggestion)))
	return c.SendString(utils.BuildSuggestionICS(team.Name, *suggestion))
}

// GoogleLink returns a calendar.google.com event template URL for one
// suggestion.
func (sc *SuggestionController) GoogleLink(c *fiber.Ctx) error {
	suggestion, team, err := sc.findSuggestion(c.Params("suggestionID"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Suggestion not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load suggestion", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"url": utils.GoogleCalendarLink(team.Name, *suggestion),
	}))
}

func (sc *SuggestionController) findSuggestion(id string) (*models.Suggestion, *models.Team, error) {
	var suggestion models.Suggestion
	if err := sc.DB.First(&suggestion, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var team models.Team
	if err := sc.DB.First(&team, "id = ?", suggestion.TeamID).Error; err != nil {
		return nil, nil, err
	}
	return &suggestion, &team, nil
}
