package models

import (
	"time"

	"gorm.io/gorm"
)

// MetricSnapshot is one KPI value for an ad account, refreshed by the
// metrics sync worker together with its previous-window baseline. The
// dashboard and the stored-data insight endpoint read these rows instead of
// hitting the ad platforms on every request.
type MetricSnapshot struct {
	gorm.Model
	AdAccountID uint `gorm:"not null;uniqueIndex:idx_snapshot_account_metric" json:"ad_account_id"`

	AccountExternalID string  `gorm:"index" json:"account_external_id"`
	Platform          string  `json:"platform"`
	Metric            string  `gorm:"not null;uniqueIndex:idx_snapshot_account_metric" json:"metric"`
	Value             float64 `json:"value"`
	PreviousValue     float64 `json:"previous_value"`
	ChangePercentage  float64 `json:"change_percentage"`

	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}
