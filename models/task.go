package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is one card on the agency task board.
type Task struct {
	gorm.Model
	ClientID *uint `gorm:"index" json:"client_id,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Status      string `gorm:"default:'todo';index" json:"status"` // todo, in_progress, review, done
	Priority    string `gorm:"default:'medium'" json:"priority"`   // low, medium, high
	Position    int    `gorm:"default:0" json:"position"`          // ordering within a status lane
	Assignee    string `json:"assignee"`

	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
