package controller

import (
	"log"
	"strconv"

	"agencydesk/insights"
	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type InsightController struct {
	DB        *gorm.DB
	Generator insights.Generator
	Logger    *log.Logger
}

func NewInsightController(db *gorm.DB, logger *log.Logger) *InsightController {
	return &InsightController{
		DB:        db,
		Generator: insights.Generator{Log: logrus.StandardLogger()},
		Logger:    logger,
	}
}

// GenerateInsights runs the rule engine over caller-supplied data. The body
// is the full input: metric, keyword, social and comment arrays plus the
// client scope.
func (ic *InsightController) GenerateInsights(c *fiber.Ctx) error {
	var input insights.Input
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if input.SelectedClient == "" {
		input.SelectedClient = insights.SelectedClientAll
	}

	generated := ic.Generator.Generate(input)
	return c.JSON(utils.SuccessResponse(generated))
}

// GetInsights assembles the rule-engine input from stored metric snapshots
// and lead comments, then runs the engine. Keyword and social data have no
// storage yet so those rules stay silent here.
func (ic *InsightController) GetInsights(c *fiber.Ctx) error {
	selected := insights.SelectedClientAll
	clientFilter := c.Query("client_id")

	snapshotQuery := ic.DB.Model(&models.MetricSnapshot{})
	commentQuery := ic.DB.Model(&models.LeadComment{}).Where("resolved = ?", false)

	if clientFilter != "" {
		clientID := utils.ParseUint(clientFilter)
		var accountIDs []uint
		if err := ic.DB.Model(&models.AdAccount{}).Where("client_id = ?", clientID).
			Pluck("id", &accountIDs).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve client accounts", err)
		}
		snapshotQuery = snapshotQuery.Where("ad_account_id IN ?", accountIDs)
		commentQuery = commentQuery.Where("client_id = ?", clientID)
	}

	var snapshots []models.MetricSnapshot
	if err := snapshotQuery.Find(&snapshots).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch metric snapshots", err)
	}
	var comments []models.LeadComment
	if err := commentQuery.Find(&comments).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead comments", err)
	}

	input := insights.Input{
		PlatformMetrics: sliceMetrics(snapshots),
		LeadComments:    sliceComments(comments),
		SelectedClient:  selected,
	}

	generated := ic.Generator.Generate(input)
	return c.JSON(utils.SuccessResponse(generated))
}

func sliceMetrics(snapshots []models.MetricSnapshot) []insights.PlatformMetric {
	out := make([]insights.PlatformMetric, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, insights.PlatformMetric{
			Platform:         s.Platform,
			Metric:           s.Metric,
			Value:            s.Value,
			PreviousValue:    s.PreviousValue,
			ChangePercentage: s.ChangePercentage,
			AccountID:        s.AccountExternalID,
		})
	}
	return out
}

func sliceComments(comments []models.LeadComment) []insights.LeadComment {
	out := make([]insights.LeadComment, 0, len(comments))
	for _, cm := range comments {
		out = append(out, insights.LeadComment{
			LeadID:   strconv.Itoa(int(cm.LeadID)),
			ClientID: strconv.Itoa(int(cm.ClientID)),
			Comment:  cm.Comment,
			Date:     cm.CommentedAt,
			Category: insights.CommentCategory(cm.Category),
			Resolved: cm.Resolved,
		})
	}
	return out
}
