package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Offer display placements
const (
	OfferTypePostPurchase = "post_purchase"
	OfferTypeInCart       = "in_cart"
	OfferTypeThankYou     = "thank_you"
)

// Offer lifecycle statuses
const (
	OfferStatusActive   = "active"
	OfferStatusPaused   = "paused"
	OfferStatusArchived = "archived"
)

// Offer trigger types
const (
	TriggerAny      = "any"
	TriggerProduct  = "product"
	TriggerCategory = "category"
)

// Discount types. A discount value without a type (or the reverse) is
// meaningless; both are nullable and only read together.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Offer represents offers table, one merchant-configured upsell rule
type Offer struct {
	ID              string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StoreID         string         `gorm:"type:varchar(36);not null;index" json:"store_id"`
	Name            string         `gorm:"type:varchar(200);not null" json:"name"`
	Type            string         `gorm:"type:varchar(20);not null" json:"type"`
	Status          string         `gorm:"type:varchar(20);not null;default:active" json:"status"`
	TriggerType     string         `gorm:"type:varchar(20);not null" json:"trigger_type"`
	TriggerIDs      pq.StringArray `gorm:"type:text[]" json:"trigger_ids"`
	UpsellProductID int            `gorm:"not null" json:"upsell_product_id"`
	DiscountType    *string        `gorm:"type:varchar(20)" json:"discount_type,omitempty"`
	DiscountValue   *float64       `gorm:"type:decimal(12,2)" json:"discount_value,omitempty"`
	Title           string         `gorm:"type:varchar(200);not null" json:"title"`
	Description     *string        `gorm:"type:text" json:"description,omitempty"`
	CtaText         string         `gorm:"type:varchar(100);default:'Add to Order'" json:"cta_text"`
	DeclineText     string         `gorm:"type:varchar(100);default:'No thanks'" json:"decline_text"`
	Priority        int            `gorm:"default:0" json:"priority"`
	ShowTimer       bool           `gorm:"default:true" json:"show_timer"`
	TimerSeconds    int            `gorm:"default:300" json:"timer_seconds"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Relationships
	Store  Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Events []UpsellEvent `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
}

// TableName specifies the table name for Offer
func (Offer) TableName() string {
	return "offers"
}

// BeforeCreate assigns a UUID primary key
func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// HasDiscount reports whether the offer carries a usable discount rule
func (o *Offer) HasDiscount() bool {
	return o.DiscountType != nil && o.DiscountValue != nil
}
