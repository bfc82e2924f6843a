package models

import (
	"time"

	"gorm.io/gorm"
)

// Contract is a service agreement generated for a client.
type Contract struct {
	gorm.Model
	ClientID uint `gorm:"not null;index" json:"client_id"`

	Number        string  `gorm:"not null;uniqueIndex" json:"number"`
	ClientCompany string  `gorm:"not null" json:"client_company"`
	Status        string  `gorm:"default:'draft'" json:"status"` // draft, sent, signed, canceled
	TotalValue    float64 `gorm:"default:0" json:"total_value"`
	Currency      string  `gorm:"default:'USD'" json:"currency"`

	RecipientEmail string     `json:"recipient_email,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`

	Services []ContractService `gorm:"foreignKey:ContractID" json:"services"`
	Invoices []Invoice         `gorm:"foreignKey:ContractID" json:"invoices,omitempty"`
}

// ContractService is one line item of a contract.
type ContractService struct {
	gorm.Model
	ContractID  uint    `gorm:"not null;index" json:"contract_id"`
	ServiceName string  `gorm:"not null" json:"service_name"`
	Price       float64 `gorm:"not null" json:"price"`
}

// Invoice is a billing document derived from a contract. Payment collection
// happens through a Stripe payment link; the webhook flips Status to paid.
type Invoice struct {
	gorm.Model
	ContractID uint `gorm:"not null;index" json:"contract_id"`

	Number   string  `gorm:"not null;uniqueIndex" json:"number"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"default:'USD'" json:"currency"`
	Status   string  `gorm:"default:'pending'" json:"status"` // pending, paid, void

	DueDate *time.Time `json:"due_date,omitempty"`
	PaidAt  *time.Time `json:"paid_at,omitempty"`

	StripePaymentLinkID  string `json:"stripe_payment_link_id,omitempty"`
	StripePaymentLinkURL string `json:"stripe_payment_link_url,omitempty"`
}
