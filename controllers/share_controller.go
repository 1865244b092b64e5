package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fairmeet/models"
	"fairmeet/utils"
)

// shareLinkTTL is how long a freshly minted share link stays valid.
const shareLinkTTL = 7 * 24 * time.Hour

type ShareController struct {
	DB *gorm.DB
}

func NewShareController(db *gorm.DB) *ShareController {
	return &ShareController{DB: db}
}

// CreateShareLink mints a new read-only share token for a team, deactivating
// any previously issued links.
func (shc *ShareController) CreateShareLink(c *fiber.Ctx) error {
	teamID := c.Params("teamID")

	var team models.Team
	if err := shc.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load team", err)
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	expiresAt := time.Now().Add(shareLinkTTL)
	link := models.ShareLink{
		TeamID:    teamID,
		Token:     token,
		ExpiresAt: &expiresAt,
		IsActive:  true,
	}

	err := shc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ShareLink{}).
			Where("team_id = ?", teamID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		utils.LogError("create_share_link_failed", err, map[string]interface{}{
			"team_id": teamID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create share link", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(fiber.Map{
		"share_link": c.BaseURL() + "/s/" + token,
		"token":      token,
		"expires_at": expiresAt,
	}))
}

// GetSharedTeam resolves a share token to a read-only view of the team and
// its current suggestion board. Expired or deactivated tokens resolve to 404
// rather than 403, so tokens cannot be probed.
func (shc *ShareController) GetSharedTeam(c *fiber.Ctx) error {
	token := c.Params("token")

	var link models.ShareLink
	err := shc.DB.Where("token = ? AND is_active = ?", token, true).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Share link not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve share link", err)
	}
	if link.ExpiresAt != nil && link.ExpiresAt.Before(time.Now()) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Share link has expired", nil)
	}

	var team models.Team
	err = shc.DB.
		Preload("Members").
		Preload("Suggestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("starts_at_utc")
		}).
		First(&team, "id = ?", link.TeamID).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load shared team", err)
	}

	return c.JSON(utils.SuccessResponse(team))
}
