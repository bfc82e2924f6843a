package controller

import (
	"log"
	"time"

	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeadController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewLeadController(db *gorm.DB, logger *log.Logger) *LeadController {
	return &LeadController{
		DB:     db,
		Logger: logger,
	}
}

// CreateLead registers a new lead against a client
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	var input struct {
		ClientID uint    `json:"client_id" validate:"required"`
		Name     string  `json:"name" validate:"required,max=200"`
		Email    string  `json:"email" validate:"omitempty,email"`
		Phone    string  `json:"phone" validate:"omitempty,max=30"`
		Source   string  `json:"source" validate:"omitempty,oneof=facebook google referral organic"`
		Value    float64 `json:"value" validate:"omitempty,gt=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var client models.Client
	if err := lc.DB.First(&client, input.ClientID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
	}

	lead := models.Lead{
		ClientID: input.ClientID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Source:   input.Source,
		Status:   "new",
		Value:    input.Value,
	}
	if err := lc.DB.Create(&lead).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(lead))
}

// GetLeads lists leads, filterable by client and status, paginated
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := lc.DB.Model(&models.Lead{})
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", utils.ParseUint(clientID))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count leads", err)
	}

	var leads []models.Lead
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  leads,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetLead returns a lead with its comments
func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	var lead models.Lead
	if err := lc.DB.Preload("Comments").First(&lead, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}
	return c.JSON(utils.SuccessResponse(lead))
}

// UpdateLead updates lead contact data and pipeline status
func (lc *LeadController) UpdateLead(c *fiber.Ctx) error {
	var lead models.Lead
	if err := lc.DB.First(&lead, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}

	var input struct {
		Name   *string  `json:"name" validate:"omitempty,max=200"`
		Email  *string  `json:"email" validate:"omitempty,email"`
		Phone  *string  `json:"phone" validate:"omitempty,max=30"`
		Status *string  `json:"status" validate:"omitempty,oneof=new contacted qualified won lost"`
		Value  *float64 `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Value != nil {
		updates["value"] = *input.Value
	}

	if len(updates) > 0 {
		if err := lc.DB.Model(&lead).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", err)
		}
	}

	return c.JSON(utils.SuccessResponse(lead))
}

// DeleteLead removes a lead and its comments
func (lc *LeadController) DeleteLead(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var lead models.Lead
	if err := lc.DB.First(&lead, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}

	if err := lc.DB.Where("lead_id = ?", id).Delete(&models.LeadComment{}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove lead comments", err)
	}
	if err := lc.DB.Delete(&lead).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete lead", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": true}))
}

// AddComment logs a categorized comment on a lead. The category feeds the
// complaint insight rules, so it must be one of the known buckets.
func (lc *LeadController) AddComment(c *fiber.Ctx) error {
	var lead models.Lead
	if err := lc.DB.First(&lead, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
	}

	var input struct {
		Comment  string `json:"comment" validate:"required,max=2000"`
		Category string `json:"category" validate:"omitempty,oneof=distance scheduling pricing other"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.Category == "" {
		input.Category = "other"
	}

	comment := models.LeadComment{
		LeadID:      lead.ID,
		ClientID:    lead.ClientID,
		Comment:     input.Comment,
		Category:    input.Category,
		CommentedAt: time.Now().UTC(),
	}
	if err := lc.DB.Create(&comment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store comment", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(comment))
}

// GetComments lists a lead's comments, newest first
func (lc *LeadController) GetComments(c *fiber.Ctx) error {
	var comments []models.LeadComment
	if err := lc.DB.Where("lead_id = ?", utils.ParseUint(c.Params("id"))).
		Order("commented_at DESC").Find(&comments).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch comments", err)
	}
	return c.JSON(utils.SuccessResponse(comments))
}

// ResolveComment marks a comment handled so it stops feeding the complaint
// insight rules.
func (lc *LeadController) ResolveComment(c *fiber.Ctx) error {
	var comment models.LeadComment
	if err := lc.DB.First(&comment, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", nil)
	}

	if err := lc.DB.Model(&comment).Update("resolved", true).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve comment", err)
	}

	return c.JSON(utils.SuccessResponse(comment))
}
