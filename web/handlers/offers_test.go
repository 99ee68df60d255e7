package handlers

import (
	"encoding/json"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostcart/models"
)

func TestOfferCreatePayloadRoundTrip(t *testing.T) {
	// An offer built from the create payload and serialized back through
	// the wire tags returns every configured field unchanged.
	payload := `{
		"name": "Accessory bump",
		"type": "post_purchase",
		"status": "paused",
		"trigger_type": "product",
		"trigger_ids": ["101", "102"],
		"upsell_product_id": 250,
		"discount_type": "percentage",
		"discount_value": 25,
		"title": "Add a case for 25% off",
		"description": "Protect your purchase",
		"cta_text": "Yes please",
		"decline_text": "Skip",
		"priority": 7,
		"show_timer": false,
		"timer_seconds": 120
	}`

	var req offerRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	offer := offerFromRequest("store-1", &req)

	data, err := json.Marshal(offer)
	require.NoError(t, err)

	var echoed offerRequest
	require.NoError(t, json.Unmarshal(data, &echoed))

	assert.Equal(t, "Accessory bump", *echoed.Name)
	assert.Equal(t, models.OfferTypePostPurchase, *echoed.Type)
	assert.Equal(t, models.OfferStatusPaused, *echoed.Status)
	assert.Equal(t, models.TriggerProduct, *echoed.TriggerType)
	assert.Equal(t, []string{"101", "102"}, *echoed.TriggerIDs)
	assert.Equal(t, 250, *echoed.UpsellProductID)
	assert.Equal(t, models.DiscountPercentage, *echoed.DiscountType)
	assert.Equal(t, 25.0, *echoed.DiscountValue)
	assert.Equal(t, "Add a case for 25% off", *echoed.Title)
	assert.Equal(t, "Protect your purchase", *echoed.Description)
	assert.Equal(t, "Yes please", *echoed.CtaText)
	assert.Equal(t, "Skip", *echoed.DeclineText)
	assert.Equal(t, 7, *echoed.Priority)
	assert.Equal(t, false, *echoed.ShowTimer)
	assert.Equal(t, 120, *echoed.TimerSeconds)
}

func TestOfferCreateDefaults(t *testing.T) {
	payload := `{
		"name": "Minimal",
		"type": "thank_you",
		"trigger_type": "any",
		"upsell_product_id": 77,
		"title": "A little extra"
	}`

	var req offerRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	offer := offerFromRequest("store-1", &req)

	assert.Equal(t, models.OfferStatusActive, offer.Status)
	assert.Equal(t, pq.StringArray{}, offer.TriggerIDs)
	assert.Nil(t, offer.DiscountType)
	assert.Nil(t, offer.DiscountValue)
	assert.Equal(t, "Add to Order", offer.CtaText)
	assert.Equal(t, "No thanks", offer.DeclineText)
	assert.Equal(t, 0, offer.Priority)
	assert.True(t, offer.ShowTimer)
	assert.Equal(t, 300, offer.TimerSeconds)

	// Absent discount fields stay absent on the wire
	data, err := json.Marshal(offer)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.NotContains(t, wire, "discount_type")
	assert.NotContains(t, wire, "discount_value")
}
