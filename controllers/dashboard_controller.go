package controller

import (
	"log"

	"agencydesk/config"
	"agencydesk/metrics"
	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewDashboardController(db *gorm.DB, logger *log.Logger) *DashboardController {
	return &DashboardController{
		DB:     db,
		Logger: logger,
	}
}

type dashboardMetric struct {
	Metric           string  `json:"metric"`
	Value            float64 `json:"value"`
	PreviousValue    float64 `json:"previous_value"`
	ChangePercentage float64 `json:"change_percentage"`
}

// GetOverview summarizes the latest synced snapshots across all accounts
// (or one client's accounts) into per-metric totals with period change.
func (dc *DashboardController) GetOverview(c *fiber.Ctx) error {
	query := dc.DB.Model(&models.MetricSnapshot{})

	if clientID := c.Query("client_id"); clientID != "" {
		var accountIDs []uint
		if err := dc.DB.Model(&models.AdAccount{}).Where("client_id = ?", utils.ParseUint(clientID)).
			Pluck("id", &accountIDs).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve client accounts", err)
		}
		query = query.Where("ad_account_id IN ?", accountIDs)
	}

	var snapshots []models.MetricSnapshot
	if err := query.Find(&snapshots).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch metric snapshots", err)
	}

	// Totals across accounts, keyed by metric name. Change is recomputed
	// from the summed values rather than averaged from per-account rows.
	current := map[string]float64{}
	previous := map[string]float64{}
	for _, s := range snapshots {
		current[s.Metric] += s.Value
		previous[s.Metric] += s.PreviousValue
	}

	overview := make([]dashboardMetric, 0, len(current))
	for _, name := range []string{
		"total_spent", "total_clicks", "total_impressions", "total_results",
		"conversion_rate", "cost_per_result", "cost_per_click", "average_frequency",
	} {
		if _, ok := current[name]; !ok {
			continue
		}
		overview = append(overview, dashboardMetric{
			Metric:           name,
			Value:            current[name],
			PreviousValue:    previous[name],
			ChangePercentage: metrics.PercentageChange(current[name], previous[name]),
		})
	}

	estimatedLeads := metrics.EstimatedLeads(current["total_clicks"], config.AppConfig.EstimatedLeadRate)
	if current["total_results"] > 0 {
		estimatedLeads = current["total_results"]
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"metrics":         overview,
		"estimated_leads": estimatedLeads,
		"accounts_synced": countDistinctAccounts(snapshots),
	}))
}

func countDistinctAccounts(snapshots []models.MetricSnapshot) int {
	seen := map[uint]struct{}{}
	for _, s := range snapshots {
		seen[s.AdAccountID] = struct{}{}
	}
	return len(seen)
}
