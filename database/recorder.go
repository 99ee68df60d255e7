package database

import (
	"fmt"

	"github.com/boostcart/models"
	"gorm.io/gorm"
)

// EventRecorder appends upsell events. One row per call, no dedup;
// re-invoking accept for the same offer/order records a second event.
type EventRecorder struct {
	db *gorm.DB
}

// NewEventRecorder creates a recorder backed by the given connection
func NewEventRecorder(db *gorm.DB) *EventRecorder {
	return &EventRecorder{db: db}
}

// Record appends one event. Revenue must be nil for every action except
// accepted.
func (r *EventRecorder) Record(storeID, offerID string, orderID int, action string, revenue *float64) error {
	if !models.ValidAction(action) {
		return fmt.Errorf("unknown event action %q", action)
	}

	event := &models.UpsellEvent{
		StoreID: storeID,
		OfferID: offerID,
		OrderID: orderID,
		Action:  action,
		Revenue: revenue,
	}

	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to record %s event: %w", action, err)
	}

	return nil
}

// RecordAccepted appends an accepted event carrying the charged revenue
func (r *EventRecorder) RecordAccepted(storeID, offerID string, orderID int, revenue float64) error {
	return r.Record(storeID, offerID, orderID, models.ActionAccepted, &revenue)
}
