package models

import "gorm.io/gorm"

// Client is an agency client (the advertiser the agency runs campaigns for).
type Client struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	CompanyName string `json:"company_name"`
	Email       string `gorm:"index" json:"email"`
	Phone       string `json:"phone"`
	Status      string `gorm:"default:'active'" json:"status"` // active, paused, churned
	Notes       string `json:"notes"`

	// Relations
	Leads      []Lead      `gorm:"foreignKey:ClientID" json:"leads,omitempty"`
	Contracts  []Contract  `gorm:"foreignKey:ClientID" json:"contracts,omitempty"`
	AdAccounts []AdAccount `gorm:"foreignKey:ClientID" json:"ad_accounts,omitempty"`
}
