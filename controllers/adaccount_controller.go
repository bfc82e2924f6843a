package controller

import (
	"log"
	"strconv"

	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdAccountController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewAdAccountController(db *gorm.DB, logger *log.Logger) *AdAccountController {
	return &AdAccountController{
		DB:     db,
		Logger: logger,
	}
}

// CreateAdAccount stores ad-platform credentials for an account. Tokens are
// encrypted before they reach the database.
func (ac *AdAccountController) CreateAdAccount(c *fiber.Ctx) error {
	var input struct {
		UserID         uint   `json:"user_id" validate:"required"`
		ClientID       *uint  `json:"client_id"`
		Platform       string `json:"platform" validate:"required,oneof=facebook google"`
		AdAccountID    string `json:"ad_account_id" validate:"required"`
		AccountName    string `json:"account_name" validate:"omitempty,max=200"`
		AccessToken    string `json:"access_token"`
		RefreshToken   string `json:"refresh_token"`
		CustomerID     string `json:"customer_id"`
		OAuthClientID  string `json:"oauth_client_id"`
		DeveloperToken string `json:"developer_token"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	// Check for duplicate external account id
	var existing models.AdAccount
	if err := ac.DB.Where("ad_account_id = ?", input.AdAccountID).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Ad account already connected", nil)
	}

	accessToken, err := utils.Encrypt(input.AccessToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to secure access token", err)
	}
	refreshToken, err := utils.Encrypt(input.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to secure refresh token", err)
	}
	developerToken, err := utils.Encrypt(input.DeveloperToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to secure developer token", err)
	}

	account := models.AdAccount{
		UserID:         input.UserID,
		ClientID:       input.ClientID,
		Platform:       input.Platform,
		AdAccountID:    input.AdAccountID,
		AccountName:    input.AccountName,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		CustomerID:     input.CustomerID,
		OAuthClientID:  input.OAuthClientID,
		DeveloperToken: developerToken,
	}

	if err := ac.DB.Create(&account).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store ad account", err)
	}

	ac.Logger.Printf("Connected %s ad account %s", account.Platform, account.AdAccountID)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(account))
}

// GetAdAccounts returns the connected accounts, optionally filtered by client
func (ac *AdAccountController) GetAdAccounts(c *fiber.Ctx) error {
	query := ac.DB.Model(&models.AdAccount{})

	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", utils.ParseUint(clientID))
	}
	if platform := c.Query("platform"); platform != "" {
		query = query.Where("platform = ?", platform)
	}

	var accounts []models.AdAccount
	if err := query.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch ad accounts", err)
	}

	return c.JSON(utils.SuccessResponse(accounts))
}

// GetAdAccount returns a single connected account
func (ac *AdAccountController) GetAdAccount(c *fiber.Ctx) error {
	var account models.AdAccount
	if err := ac.DB.First(&account, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Ad account not found", nil)
	}
	return c.JSON(utils.SuccessResponse(account))
}

// UpdateAdAccount updates account metadata and, when provided, re-encrypts
// replacement tokens.
func (ac *AdAccountController) UpdateAdAccount(c *fiber.Ctx) error {
	var account models.AdAccount
	if err := ac.DB.First(&account, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Ad account not found", nil)
	}

	var input struct {
		AccountName *string `json:"account_name"`
		ClientID    *uint   `json:"client_id"`
		SyncEnabled *bool   `json:"sync_enabled"`
		AccessToken *string `json:"access_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	updates := map[string]interface{}{}
	if input.AccountName != nil {
		updates["account_name"] = *input.AccountName
	}
	if input.ClientID != nil {
		updates["client_id"] = *input.ClientID
	}
	if input.SyncEnabled != nil {
		updates["sync_enabled"] = *input.SyncEnabled
	}
	if input.AccessToken != nil {
		encrypted, err := utils.Encrypt(*input.AccessToken)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to secure access token", err)
		}
		updates["access_token"] = encrypted
		updates["last_sync_error"] = ""
	}

	if len(updates) > 0 {
		if err := ac.DB.Model(&account).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update ad account", err)
		}
	}

	return c.JSON(utils.SuccessResponse(account))
}

// DeleteAdAccount disconnects an account and drops its metric snapshots
func (ac *AdAccountController) DeleteAdAccount(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var account models.AdAccount
	if err := ac.DB.First(&account, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Ad account not found", nil)
	}

	if err := ac.DB.Where("ad_account_id = ?", id).Delete(&models.MetricSnapshot{}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove metric snapshots", err)
	}
	if err := ac.DB.Delete(&account).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to disconnect ad account", err)
	}

	ac.Logger.Printf("Disconnected ad account %s (id %s)", account.AdAccountID, strconv.Itoa(int(id)))
	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": true}))
}
