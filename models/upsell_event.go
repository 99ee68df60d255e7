package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upsell event actions
const (
	ActionShown    = "shown"
	ActionAccepted = "accepted"
	ActionDeclined = "declined"
	ActionTimeout  = "timeout"
)

// UpsellEvent represents upsell_events table. Rows are append-only facts:
// never updated, never deleted except by cascading store/offer deletion.
// Revenue is populated only for accepted events.
type UpsellEvent struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StoreID   string    `gorm:"type:varchar(36);not null;index" json:"store_id"`
	OfferID   string    `gorm:"type:varchar(36);not null;index" json:"offer_id"`
	OrderID   int       `gorm:"not null" json:"order_id"`
	Action    string    `gorm:"type:varchar(20);not null;index" json:"action"`
	Revenue   *float64  `gorm:"type:decimal(12,2)" json:"revenue,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Store Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Offer Offer `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
}

// TableName specifies the table name for UpsellEvent
func (UpsellEvent) TableName() string {
	return "upsell_events"
}

// BeforeCreate assigns a UUID primary key
func (e *UpsellEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// ValidAction reports whether s is a known event action
func ValidAction(s string) bool {
	switch s {
	case ActionShown, ActionAccepted, ActionDeclined, ActionTimeout:
		return true
	}
	return false
}
