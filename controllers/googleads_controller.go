package controller

import (
	"log"

	"agencydesk/config"
	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GoogleAdsController struct {
	DB        *gorm.DB
	GoogleAds *utils.GoogleAdsClient
	Logger    *log.Logger
}

func NewGoogleAdsController(db *gorm.DB, gc *utils.GoogleAdsClient, logger *log.Logger) *GoogleAdsController {
	return &GoogleAdsController{
		DB:        db,
		GoogleAds: gc,
		Logger:    logger,
	}
}

// GetKeywordPerformance proxies the Google Ads keyword_view report. Explicit
// credentials in the body win; otherwise the stored account credentials are
// decrypted and used.
func (gc *GoogleAdsController) GetKeywordPerformance(c *fiber.Ctx) error {
	var input struct {
		AdAccountID    string `json:"ad_account_id"`
		CustomerID     string `json:"customer_id"`
		ClientID       string `json:"client_id"`
		ClientSecret   string `json:"client_secret"`
		DeveloperToken string `json:"developer_token"`
		RefreshToken   string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	creds := utils.GoogleAdsCredentials{
		CustomerID:     input.CustomerID,
		ClientID:       input.ClientID,
		ClientSecret:   input.ClientSecret,
		DeveloperToken: input.DeveloperToken,
		RefreshToken:   input.RefreshToken,
	}

	if creds.RefreshToken == "" {
		if input.AdAccountID == "" {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Provide credentials or an ad_account_id", nil)
		}
		var account models.AdAccount
		if err := gc.DB.Where("ad_account_id = ? AND platform = ?", input.AdAccountID, "google").
			First(&account).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "No credentials for ad account", nil)
		}
		stored, err := googleCredentialsFor(account)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read stored credentials", err)
		}
		creds = stored
	}

	keywords, err := gc.GoogleAds.FetchKeywordPerformance(c.Context(), creds)
	if err != nil {
		utils.LogError("google_keywords_fetch", err, map[string]interface{}{
			"customer_id": creds.CustomerID,
		})
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Google Ads keyword fetch failed", err)
	}

	return c.JSON(utils.SuccessResponse(keywords))
}

// googleCredentialsFor decrypts a stored Google account into API credentials.
func googleCredentialsFor(account models.AdAccount) (utils.GoogleAdsCredentials, error) {
	refreshToken, err := utils.Decrypt(account.RefreshToken)
	if err != nil {
		return utils.GoogleAdsCredentials{}, err
	}
	developerToken, err := utils.Decrypt(account.DeveloperToken)
	if err != nil {
		return utils.GoogleAdsCredentials{}, err
	}
	return utils.GoogleAdsCredentials{
		CustomerID:     account.CustomerID,
		ClientID:       account.OAuthClientID,
		ClientSecret:   config.AppConfig.GoogleOAuthClientSecret,
		DeveloperToken: developerToken,
		RefreshToken:   refreshToken,
	}, nil
}
