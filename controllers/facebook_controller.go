package controller

import (
	"log"
	"time"

	"agencydesk/metrics"
	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const insightDateLayout = "2006-01-02"

type FacebookController struct {
	DB       *gorm.DB
	Facebook *utils.FacebookClient
	Logger   *log.Logger
}

func NewFacebookController(db *gorm.DB, fb *utils.FacebookClient, logger *log.Logger) *FacebookController {
	return &FacebookController{
		DB:       db,
		Facebook: fb,
		Logger:   logger,
	}
}

type facebookInsightsInput struct {
	AdAccountID string `json:"ad_account_id" validate:"required"`
	AccessToken string `json:"access_token"`
	Since       string `json:"since" validate:"required"`
	Until       string `json:"until" validate:"required"`
}

// resolveToken returns the token to call the Graph API with: the one in the
// request when provided, otherwise the stored encrypted token for the account.
func (fc *FacebookController) resolveToken(input facebookInsightsInput) (string, error) {
	if input.AccessToken != "" {
		return input.AccessToken, nil
	}
	var account models.AdAccount
	if err := fc.DB.Where("ad_account_id = ? AND platform = ?", input.AdAccountID, "facebook").
		First(&account).Error; err != nil {
		return "", err
	}
	return utils.Decrypt(account.AccessToken)
}

// GetCampaignInsights proxies the Graph API campaign-insights call and
// returns the raw campaign array.
func (fc *FacebookController) GetCampaignInsights(c *fiber.Ctx) error {
	var input facebookInsightsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if _, err := parseWindow(input.Since, input.Until); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date range", err)
	}

	token, err := fc.resolveToken(input)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No credentials for ad account", err)
	}

	campaigns, err := fc.Facebook.FetchCampaignInsights(c.Context(), input.AdAccountID, token, input.Since, input.Until)
	if err != nil {
		utils.LogError("facebook_insights_fetch", err, map[string]interface{}{
			"ad_account_id": input.AdAccountID,
		})
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Facebook insights fetch failed", err)
	}

	return c.JSON(utils.SuccessResponse(campaigns))
}

// AggregateCampaignInsights fetches the requested window plus the preceding
// window of equal length, aggregates both, and reports per-KPI change.
func (fc *FacebookController) AggregateCampaignInsights(c *fiber.Ctx) error {
	var input facebookInsightsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	window, err := parseWindow(input.Since, input.Until)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date range", err)
	}
	previous := window.Previous()

	token, err := fc.resolveToken(input)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No credentials for ad account", err)
	}

	// One fetch spanning both windows; the aggregator filters by date.
	campaigns, err := fc.Facebook.FetchCampaignInsights(c.Context(), input.AdAccountID, token,
		previous.Since.Format(insightDateLayout), window.Until.Format(insightDateLayout))
	if err != nil {
		utils.LogError("facebook_insights_fetch", err, map[string]interface{}{
			"ad_account_id": input.AdAccountID,
		})
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Facebook insights fetch failed", err)
	}

	current := metrics.Aggregate(campaigns, &window)
	prior := metrics.Aggregate(campaigns, &previous)

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"current":  current,
		"previous": prior,
		"changes": fiber.Map{
			"total_spent":       metrics.PercentageChange(current.TotalSpent, prior.TotalSpent),
			"total_clicks":      metrics.PercentageChange(current.TotalClicks, prior.TotalClicks),
			"total_impressions": metrics.PercentageChange(current.TotalImpressions, prior.TotalImpressions),
			"total_results":     metrics.PercentageChange(current.TotalResults, prior.TotalResults),
		},
	}))
}

func parseWindow(since, until string) (metrics.Window, error) {
	from, err := time.ParseInLocation(insightDateLayout, since, time.UTC)
	if err != nil {
		return metrics.Window{}, err
	}
	to, err := time.ParseInLocation(insightDateLayout, until, time.UTC)
	if err != nil {
		return metrics.Window{}, err
	}
	if to.Before(from) {
		return metrics.Window{}, fiber.NewError(fiber.StatusBadRequest, "until precedes since")
	}
	return metrics.Window{Since: from, Until: to}, nil
}
