package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"agencydesk/config"
	controller "agencydesk/controllers"
	"agencydesk/metrics"
	"agencydesk/models"
	"agencydesk/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// syncWindowDays is the length of the rolling window each sync covers.
const syncWindowDays = 7

type MetricsWorker struct {
	DB       *gorm.DB
	Facebook *utils.FacebookClient
	Hub      *controller.Hub
	Logger   *log.Logger
}

func NewMetricsWorker(db *gorm.DB, fb *utils.FacebookClient, hub *controller.Hub, logger *log.Logger) *MetricsWorker {
	return &MetricsWorker{
		DB:       db,
		Facebook: fb,
		Hub:      hub,
		Logger:   logger,
	}
}

func (mw *MetricsWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	mw.Logger.Println("Metrics sync worker started")

	interval := config.AppConfig.MetricsSyncInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	mw.syncAllAccounts(ctx)

	for {
		select {
		case <-ctx.Done():
			mw.Logger.Println("Metrics sync worker shutting down...")
			return
		case <-ticker.C:
			mw.syncAllAccounts(ctx)
		}
	}
}

// syncAllAccounts refreshes snapshots for every syncable Facebook account.
// A failing account is recorded and skipped; the loop keeps going.
func (mw *MetricsWorker) syncAllAccounts(ctx context.Context) {
	var accounts []models.AdAccount
	if err := mw.DB.Where("sync_enabled = ? AND platform = ?", true, "facebook").
		Find(&accounts).Error; err != nil {
		mw.Logger.Printf("Error fetching syncable accounts: %v", err)
		return
	}

	for _, account := range accounts {
		if ctx.Err() != nil {
			return
		}
		if err := mw.syncAccount(ctx, account); err != nil {
			mw.Logger.Printf("Error syncing account %s: %v", account.AdAccountID, err)
			mw.recordSyncError(account.ID, err.Error())
			continue
		}
		mw.recordSyncSuccess(account.ID)
		mw.Hub.Broadcast(controller.SyncNotification{
			Event:       "metrics_synced",
			AdAccountID: account.AdAccountID,
			Platform:    account.Platform,
			SyncedAt:    time.Now().UTC(),
		})
	}
}

func (mw *MetricsWorker) syncAccount(ctx context.Context, account models.AdAccount) error {
	token, err := utils.Decrypt(account.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt access token: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	window := metrics.Window{
		Since: today.AddDate(0, 0, -(syncWindowDays - 1)),
		Until: today,
	}
	previous := window.Previous()

	// One fetch spanning both windows; the aggregator filters by date.
	campaigns, err := mw.Facebook.FetchCampaignInsights(ctx, account.AdAccountID, token,
		previous.Since.Format("2006-01-02"), window.Until.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("insights fetch failed: %w", err)
	}

	current := metrics.Aggregate(campaigns, &window)
	prior := metrics.Aggregate(campaigns, &previous)

	kpis := []struct {
		name              string
		current, previous float64
	}{
		{"total_spent", current.TotalSpent, prior.TotalSpent},
		{"total_clicks", current.TotalClicks, prior.TotalClicks},
		{"total_impressions", current.TotalImpressions, prior.TotalImpressions},
		{"total_results", current.TotalResults, prior.TotalResults},
		{"conversion_rate", current.ConversionRate, prior.ConversionRate},
		{"cost_per_result", current.CostPerResult, prior.CostPerResult},
		{"cost_per_click", current.CostPerClick, prior.CostPerClick},
		{"average_frequency", current.AverageFrequency, prior.AverageFrequency},
	}

	for _, kpi := range kpis {
		snapshot := models.MetricSnapshot{
			AdAccountID:       account.ID,
			AccountExternalID: account.AdAccountID,
			Platform:          account.Platform,
			Metric:            kpi.name,
			Value:             kpi.current,
			PreviousValue:     kpi.previous,
			ChangePercentage:  metrics.PercentageChange(kpi.current, kpi.previous),
			WindowStart:       window.Since,
			WindowEnd:         window.Until,
		}
		// Upsert on (account, metric) so each KPI keeps exactly one row
		if err := mw.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ad_account_id"}, {Name: "metric"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"value", "previous_value", "change_percentage",
				"window_start", "window_end", "updated_at",
			}),
		}).Create(&snapshot).Error; err != nil {
			return fmt.Errorf("failed to upsert snapshot %s: %w", kpi.name, err)
		}
	}

	mw.Logger.Printf("Synced account %s: %d campaigns, spend %.2f",
		account.AdAccountID, len(campaigns), current.TotalSpent)
	return nil
}

func (mw *MetricsWorker) recordSyncSuccess(accountID uint) {
	now := time.Now().UTC()
	if err := mw.DB.Model(&models.AdAccount{}).Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"last_synced_at":  now,
			"last_sync_error": "",
		}).Error; err != nil {
		mw.Logger.Printf("Error recording sync success for account %d: %v", accountID, err)
	}
}

func (mw *MetricsWorker) recordSyncError(accountID uint, message string) {
	if err := mw.DB.Model(&models.AdAccount{}).Where("id = ?", accountID).
		Update("last_sync_error", message).Error; err != nil {
		mw.Logger.Printf("Error recording sync failure for account %d: %v", accountID, err)
	}
}
