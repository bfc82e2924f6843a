package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead is a prospective customer generated by a client's campaigns.
type Lead struct {
	gorm.Model
	ClientID uint `gorm:"not null;index" json:"client_id"`

	Name   string  `gorm:"not null" json:"name"`
	Email  string  `gorm:"index" json:"email"`
	Phone  string  `json:"phone"`
	Source string  `json:"source"`                        // facebook, google, referral, organic
	Status string  `gorm:"default:'new'" json:"status"`   // new, contacted, qualified, won, lost
	Value  float64 `gorm:"default:0" json:"value"`        // estimated deal value

	Comments []LeadComment `gorm:"foreignKey:LeadID" json:"comments,omitempty"`
}

// LeadComment is a categorized remark logged against a lead. The category
// buckets feed the insight rule engine's complaint rules.
type LeadComment struct {
	gorm.Model
	LeadID   uint `gorm:"not null;index" json:"lead_id"`
	ClientID uint `gorm:"not null;index" json:"client_id"`

	Comment     string    `gorm:"not null" json:"comment"`
	Category    string    `gorm:"default:'other'" json:"category"` // distance, scheduling, pricing, other
	Resolved    bool      `gorm:"default:false" json:"resolved"`
	CommentedAt time.Time `json:"commented_at"`
}
