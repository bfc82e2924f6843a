package models

import (
	"time"

	"gorm.io/gorm"
)

// AdAccount stores ad-platform credentials for a client account. Tokens are
// AES-encrypted before they hit the database and never serialized back out.
type AdAccount struct {
	gorm.Model
	UserID   uint  `gorm:"not null;index" json:"user_id"`
	ClientID *uint `gorm:"index" json:"client_id,omitempty"`

	Platform    string `gorm:"not null;index" json:"platform"` // facebook, google
	AdAccountID string `gorm:"not null;uniqueIndex" json:"ad_account_id"`
	AccountName string `json:"account_name"`

	// Encrypted at rest
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`

	// Google Ads specifics
	CustomerID     string `json:"customer_id,omitempty"`
	OAuthClientID  string `json:"oauth_client_id,omitempty"`
	DeveloperToken string `json:"-"`

	SyncEnabled   bool       `gorm:"default:true" json:"sync_enabled"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
	LastSyncError string     `json:"last_sync_error,omitempty"`
}
