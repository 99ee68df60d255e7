package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"

	"github.com/boostcart/database"
	"github.com/boostcart/models"
	"github.com/boostcart/web/middleware"
)

// offerStats is the per-offer event rollup shown in the merchant UI
type offerStats struct {
	Shown          int64   `json:"shown"`
	Accepted       int64   `json:"accepted"`
	Declined       int64   `json:"declined"`
	Revenue        float64 `json:"revenue"`
	ConversionRate string  `json:"conversionRate"`
}

// OfferList returns all offers of the authenticated store with stats
func OfferList(c *fiber.Ctx) error {
	store := middleware.SessionStore(c)
	db := database.GetDB()

	var offers []models.Offer
	err := db.Where("store_id = ?", store.ID).
		Order("priority DESC, created_at DESC").
		Find(&offers).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch offers",
		})
	}

	// One grouped query covers every offer's counters
	var rows []struct {
		OfferID string  `json:"offer_id"`
		Action  string  `json:"action"`
		Count   int64   `json:"count"`
		Revenue float64 `json:"revenue"`
	}
	err = db.Raw(`
		SELECT offer_id, action, COUNT(*) AS count, COALESCE(SUM(revenue), 0) AS revenue
		FROM upsell_events
		WHERE store_id = ?
		GROUP BY offer_id, action
	`, store.ID).Scan(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch offers",
		})
	}

	statsByOffer := make(map[string]*offerStats)
	for _, row := range rows {
		stats, ok := statsByOffer[row.OfferID]
		if !ok {
			stats = &offerStats{}
			statsByOffer[row.OfferID] = stats
		}
		switch row.Action {
		case models.ActionShown:
			stats.Shown = row.Count
		case models.ActionAccepted:
			stats.Accepted = row.Count
			stats.Revenue = row.Revenue
		case models.ActionDeclined:
			stats.Declined = row.Count
		}
	}

	type offerWithStats struct {
		models.Offer
		Stats offerStats `json:"stats"`
	}

	result := make([]offerWithStats, 0, len(offers))
	for _, offer := range offers {
		stats := offerStats{ConversionRate: "0.0"}
		if s, ok := statsByOffer[offer.ID]; ok {
			stats = *s
			if stats.Shown > 0 {
				stats.ConversionRate = fmt.Sprintf("%.1f", float64(stats.Accepted)/float64(stats.Shown)*100)
			} else {
				stats.ConversionRate = "0.0"
			}
		}
		result = append(result, offerWithStats{Offer: offer, Stats: stats})
	}

	return c.JSON(fiber.Map{"data": result})
}

// offerRequest is the create/update payload. Pointer fields distinguish
// "absent" from zero values on update.
type offerRequest struct {
	ID              string    `json:"id"`
	Name            *string   `json:"name"`
	Type            *string   `json:"type"`
	Status          *string   `json:"status"`
	TriggerType     *string   `json:"trigger_type"`
	TriggerIDs      *[]string `json:"trigger_ids"`
	UpsellProductID *int      `json:"upsell_product_id"`
	DiscountType    *string   `json:"discount_type"`
	DiscountValue   *float64  `json:"discount_value"`
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	CtaText         *string   `json:"cta_text"`
	DeclineText     *string   `json:"decline_text"`
	Priority        *int      `json:"priority"`
	ShowTimer       *bool     `json:"show_timer"`
	TimerSeconds    *int      `json:"timer_seconds"`
}

func validOfferType(t string) bool {
	switch t {
	case models.OfferTypePostPurchase, models.OfferTypeInCart, models.OfferTypeThankYou:
		return true
	}
	return false
}

// offerFromRequest builds a new offer from a validated create payload,
// filling the display defaults for absent optional fields.
func offerFromRequest(storeID string, req *offerRequest) models.Offer {
	offer := models.Offer{
		StoreID:         storeID,
		Name:            *req.Name,
		Type:            *req.Type,
		Status:          models.OfferStatusActive,
		TriggerType:     *req.TriggerType,
		TriggerIDs:      pq.StringArray{},
		UpsellProductID: *req.UpsellProductID,
		DiscountType:    req.DiscountType,
		DiscountValue:   req.DiscountValue,
		Title:           *req.Title,
		Description:     req.Description,
		CtaText:         "Add to Order",
		DeclineText:     "No thanks",
		Priority:        0,
		ShowTimer:       true,
		TimerSeconds:    300,
	}

	if req.Status != nil {
		offer.Status = *req.Status
	}
	if req.TriggerIDs != nil {
		offer.TriggerIDs = *req.TriggerIDs
	}
	if req.CtaText != nil {
		offer.CtaText = *req.CtaText
	}
	if req.DeclineText != nil {
		offer.DeclineText = *req.DeclineText
	}
	if req.Priority != nil {
		offer.Priority = *req.Priority
	}
	if req.ShowTimer != nil {
		offer.ShowTimer = *req.ShowTimer
	}
	if req.TimerSeconds != nil {
		offer.TimerSeconds = *req.TimerSeconds
	}

	return offer
}

// OfferCreate creates a new offer for the authenticated store
func OfferCreate(c *fiber.Ctx) error {
	store := middleware.SessionStore(c)

	var req offerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == nil || req.Type == nil || req.TriggerType == nil ||
		req.UpsellProductID == nil || req.Title == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: name, type, trigger_type, upsell_product_id, title",
		})
	}

	if !validOfferType(*req.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid offer type. Must be: post_purchase, in_cart, or thank_you",
		})
	}

	offer := offerFromRequest(store.ID, &req)

	if err := database.GetDB().Create(&offer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create offer",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": offer})
}

// OfferUpdate updates fields of an existing offer
func OfferUpdate(c *fiber.Ctx) error {
	store := middleware.SessionStore(c)

	var req offerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing offer ID",
		})
	}

	offer, err := findStoreOffer(store.ID, req.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update offer",
		})
	}
	if offer == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	if req.Type != nil && !validOfferType(*req.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid offer type. Must be: post_purchase, in_cart, or thank_you",
		})
	}

	if req.Name != nil {
		offer.Name = *req.Name
	}
	if req.Type != nil {
		offer.Type = *req.Type
	}
	if req.Status != nil {
		offer.Status = *req.Status
	}
	if req.TriggerType != nil {
		offer.TriggerType = *req.TriggerType
	}
	if req.TriggerIDs != nil {
		offer.TriggerIDs = *req.TriggerIDs
	}
	if req.UpsellProductID != nil {
		offer.UpsellProductID = *req.UpsellProductID
	}
	if req.DiscountType != nil {
		offer.DiscountType = req.DiscountType
	}
	if req.DiscountValue != nil {
		offer.DiscountValue = req.DiscountValue
	}
	if req.Title != nil {
		offer.Title = *req.Title
	}
	if req.Description != nil {
		offer.Description = req.Description
	}
	if req.CtaText != nil {
		offer.CtaText = *req.CtaText
	}
	if req.DeclineText != nil {
		offer.DeclineText = *req.DeclineText
	}
	if req.Priority != nil {
		offer.Priority = *req.Priority
	}
	if req.ShowTimer != nil {
		offer.ShowTimer = *req.ShowTimer
	}
	if req.TimerSeconds != nil {
		offer.TimerSeconds = *req.TimerSeconds
	}

	if err := database.GetDB().Save(offer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update offer",
		})
	}

	return c.JSON(fiber.Map{"data": offer})
}

// OfferDelete removes an offer (its events cascade away with it)
func OfferDelete(c *fiber.Ctx) error {
	store := middleware.SessionStore(c)

	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing offer ID",
		})
	}

	offer, err := findStoreOffer(store.ID, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete offer",
		})
	}
	if offer == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	if err := database.GetDB().Delete(offer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete offer",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
