package controller

import (
	"log"

	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClientController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewClientController(db *gorm.DB, logger *log.Logger) *ClientController {
	return &ClientController{
		DB:     db,
		Logger: logger,
	}
}

// CreateClient registers a new agency client
func (cc *ClientController) CreateClient(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name" validate:"required,max=200"`
		CompanyName string `json:"company_name" validate:"omitempty,max=200"`
		Email       string `json:"email" validate:"omitempty,email"`
		Phone       string `json:"phone" validate:"omitempty,max=30"`
		Notes       string `json:"notes" validate:"omitempty,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	client := models.Client{
		Name:        input.Name,
		CompanyName: input.CompanyName,
		Email:       input.Email,
		Phone:       input.Phone,
		Status:      "active",
		Notes:       input.Notes,
	}
	if err := cc.DB.Create(&client).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create client", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(client))
}

// GetClients lists clients, optionally filtered by status
func (cc *ClientController) GetClients(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Client{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var clients []models.Client
	if err := query.Order("name ASC").Find(&clients).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch clients", err)
	}
	return c.JSON(utils.SuccessResponse(clients))
}

// GetClient returns a client with its connected accounts and contracts
func (cc *ClientController) GetClient(c *fiber.Ctx) error {
	var client models.Client
	if err := cc.DB.Preload("AdAccounts").Preload("Contracts").
		First(&client, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
	}
	return c.JSON(utils.SuccessResponse(client))
}

// UpdateClient updates client contact data and status
func (cc *ClientController) UpdateClient(c *fiber.Ctx) error {
	var client models.Client
	if err := cc.DB.First(&client, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
	}

	var input struct {
		Name        *string `json:"name" validate:"omitempty,max=200"`
		CompanyName *string `json:"company_name" validate:"omitempty,max=200"`
		Email       *string `json:"email" validate:"omitempty,email"`
		Phone       *string `json:"phone" validate:"omitempty,max=30"`
		Status      *string `json:"status" validate:"omitempty,oneof=active paused churned"`
		Notes       *string `json:"notes" validate:"omitempty,max=5000"`
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
	if input.CompanyName != nil {
		updates["company_name"] = *input.CompanyName
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
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		if err := cc.DB.Model(&client).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update client", err)
		}
	}

	return c.JSON(utils.SuccessResponse(client))
}
