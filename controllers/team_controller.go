package controller

import (
	"errors"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"fairmeet/models"
	"fairmeet/utils"
)

type TeamController struct {
	DB *gorm.DB
}

func NewTeamController(db *gorm.DB) *TeamController {
	return &TeamController{DB: db}
}

type BlockInput struct {
	DayOfWeek   int `json:"day_of_week" validate:"gte=0,lte=6"`
	StartMinute int `json:"start_minute" validate:"gte=0,lte=1439"`
	EndMinute   int `json:"end_minute" validate:"gte=1,lte=1440"`
}

func validateBlocks(blocks []BlockInput) error {
	for _, b := range blocks {
		if err := utils.ValidateStruct(b); err != nil {
			return err
		}
		if b.StartMinute >= b.EndMinute {
			return errors.New("block start_minute must be before end_minute")
		}
	}
	return nil
}

type CreateTeamInput struct {
	Name            string `json:"name" validate:"required,min=1,max=120"`
	Slug            string `json:"slug" validate:"required,min=1,max=120"`
	DefaultTimezone string `json:"default_timezone"`
	Locale          string `json:"locale"`
}

func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	var input CreateTeamInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.DefaultTimezone == "" {
		input.DefaultTimezone = "UTC"
	}
	if _, err := time.LoadLocation(input.DefaultTimezone); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown default_timezone", err)
	}
	if input.Locale == "" {
		input.Locale = "en"
	}

	team := models.Team{
		Name:            input.Name,
		Slug:            input.Slug,
		DefaultTimezone: input.DefaultTimezone,
		Locale:          input.Locale,
	}
	if err := tc.DB.Create(&team).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(team))
}

func (tc *TeamController) ListTeams(c *fiber.Ctx) error {
	var teams []models.Team
	if err := tc.DB.Order("created_at").Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list teams", err)
	}
	return c.JSON(utils.SuccessResponse(teams))
}

func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	teamID := c.Params("teamID")

	var team models.Team
	err := tc.DB.
		Preload("Members.WorkingBlocks").
		Preload("Members.NoMeetingBlocks").
		Preload("Rules").
		Preload("Suggestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("starts_at_utc")
		}).
		First(&team, "id = ?", teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load team", err)
	}

	return c.JSON(utils.SuccessResponse(team))
}

type CreateMemberInput struct {
	DisplayName     string       `json:"display_name" validate:"required,min=1,max=120"`
	Email           string       `json:"email"`
	Timezone        string       `json:"timezone" validate:"required"`
	Role            string       `json:"role"`
	WorkingBlocks   []BlockInput `json:"working_blocks"`
	NoMeetingBlocks []BlockInput `json:"no_meeting_blocks"`
}

func (tc *TeamController) CreateMember(c *fiber.Ctx) error {
	teamID := c.Params("teamID")

	var input CreateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.Email != "" {
		if err := checkmail.ValidateFormat(input.Email); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", err)
		}
	}
	// An unknown zone is rejected up front; the engine would otherwise treat
	// the member as permanently unavailable.
	if _, err := time.LoadLocation(input.Timezone); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown timezone", err)
	}
	if err := validateBlocks(input.WorkingBlocks); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid working_blocks", err)
	}
	if err := validateBlocks(input.NoMeetingBlocks); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid no_meeting_blocks", err)
	}

	var team models.Team
	if err := tc.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load team", err)
	}

	role := input.Role
	if role == "" {
		role = "member"
	}
	member := models.TeamMember{
		TeamID:      teamID,
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Timezone:    input.Timezone,
		Role:        role,
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		for _, b := range input.WorkingBlocks {
			block := models.WorkingBlock{MemberID: member.ID, DayOfWeek: b.DayOfWeek, StartMinute: b.StartMinute, EndMinute: b.EndMinute}
			if err := tx.Create(&block).Error; err != nil {
				return err
			}
		}
		for _, b := range input.NoMeetingBlocks {
			block := models.NoMeetingBlock{MemberID: member.ID, DayOfWeek: b.DayOfWeek, StartMinute: b.StartMinute, EndMinute: b.EndMinute}
			if err := tx.Create(&block).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create member", err)
	}

	tc.DB.Preload("WorkingBlocks").Preload("NoMeetingBlocks").First(&member, "id = ?", member.ID)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(member))
}

func (tc *TeamController) DeleteMember(c *fiber.Ctx) error {
	teamID := c.Params("teamID")
	memberID := c.Params("memberID")

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND team_id = ?", memberID, teamID).Delete(&models.TeamMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("member_id = ?", memberID).Delete(&models.WorkingBlock{}).Error; err != nil {
			return err
		}
		return tx.Where("member_id = ?", memberID).Delete(&models.NoMeetingBlock{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Member not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete member", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": memberID}))
}

type UpsertRulesInput struct {
	DurationMinutes    int      `json:"duration_minutes" validate:"gte=15,lte=180"`
	Cadence            string   `json:"cadence" validate:"omitempty,oneof=weekly biweekly"`
	MinAttendanceRatio float64  `json:"min_attendance_ratio" validate:"gte=0.5,lte=1.0"`
	NightCapPerWeek    int      `json:"night_cap_per_week" validate:"gte=0"`
	ProhibitedDays     []int    `json:"prohibited_days" validate:"dive,gte=0,lte=6"`
	RequiredMemberIDs  []string `json:"required_member_ids"`
	RotationEnabled    bool     `json:"rotation_enabled"`
}

func (tc *TeamController) UpsertRules(c *fiber.Ctx) error {
	teamID := c.Params("teamID")

	var input UpsertRulesInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.Cadence == "" {
		input.Cadence = "weekly"
	}

	var team models.Team
	if err := tc.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load team", err)
	}

	// Required members must belong to the team, otherwise every future run
	// would reject all candidates.
	for _, id := range input.RequiredMemberIDs {
		var count int64
		tc.DB.Model(&models.TeamMember{}).Where("id = ? AND team_id = ?", id, teamID).Count(&count)
		if count == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "required_member_ids contains a member not in this team", nil)
		}
	}

	rules := models.Rules{
		TeamID:             teamID,
		DurationMinutes:    input.DurationMinutes,
		Cadence:            input.Cadence,
		MinAttendanceRatio: input.MinAttendanceRatio,
		NightCapPerWeek:    input.NightCapPerWeek,
		ProhibitedDays:     input.ProhibitedDays,
		RequiredMemberIDs:  input.RequiredMemberIDs,
		RotationEnabled:    input.RotationEnabled,
	}

	var existing models.Rules
	err := tc.DB.First(&existing, "team_id = ?", teamID).Error
	switch {
	case err == nil:
		rules.ID = existing.ID
		rules.CreatedAt = existing.CreatedAt
		if err := tc.DB.Save(&rules).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update rules", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tc.DB.Create(&rules).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create rules", err)
		}
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load rules", err)
	}

	return c.JSON(utils.SuccessResponse(rules))
}
