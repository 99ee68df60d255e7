package upsell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boostcart/models"
)

func discountOffer(discountType string, value float64) *models.Offer {
	return &models.Offer{
		DiscountType:  &discountType,
		DiscountValue: &value,
	}
}

func TestBasePrice(t *testing.T) {
	assert.Equal(t, 80.0, BasePrice(100, 80), "sale price wins when lower")
	assert.Equal(t, 100.0, BasePrice(100, 0), "zero sale price means no sale")
	assert.Equal(t, 100.0, BasePrice(100, 120), "sale price above list is ignored")
	assert.Equal(t, 50.0, BasePrice(50, 0))
}

func TestFinalPricePercentage(t *testing.T) {
	// List 100, sale 80, 25% off → 60.00
	got := FinalPrice(100, 80, discountOffer(models.DiscountPercentage, 25))
	assert.Equal(t, 60.0, got)
}

func TestFinalPriceFixed(t *testing.T) {
	got := FinalPrice(100, 0, discountOffer(models.DiscountFixed, 15))
	assert.Equal(t, 85.0, got)
}

func TestFinalPriceFlooredAtZero(t *testing.T) {
	// List 50, no sale, fixed 60 off → 0.00, never negative
	got := FinalPrice(50, 0, discountOffer(models.DiscountFixed, 60))
	assert.Equal(t, 0.0, got)

	got = FinalPrice(10, 0, discountOffer(models.DiscountPercentage, 150))
	assert.Equal(t, 0.0, got)
}

func TestFinalPriceNoDiscount(t *testing.T) {
	assert.Equal(t, 80.0, FinalPrice(100, 80, &models.Offer{}))
	assert.Equal(t, 100.0, FinalPrice(100, 0, nil))
}

func TestFinalPriceHalfDiscountIsMeaningless(t *testing.T) {
	// A discount value without a type (and the reverse) applies nothing
	value := 25.0
	assert.Equal(t, 100.0, FinalPrice(100, 0, &models.Offer{DiscountValue: &value}))

	pct := models.DiscountPercentage
	assert.Equal(t, 100.0, FinalPrice(100, 0, &models.Offer{DiscountType: &pct}))
}

func TestFinalPriceRoundsHalfUpAtCent(t *testing.T) {
	// 9.99 × (1 − 5/100) = 9.4905 → 9.49
	got := FinalPrice(9.99, 0, discountOffer(models.DiscountPercentage, 5))
	assert.Equal(t, 9.49, got)

	// 10.01 × 50% = 5.005 → 5.01 (half rounds up)
	got = FinalPrice(10.01, 0, discountOffer(models.DiscountPercentage, 50))
	assert.Equal(t, 5.01, got)

	// 33.335 − 0 stays put after rounding
	got = FinalPrice(66.67, 0, discountOffer(models.DiscountPercentage, 50))
	assert.Equal(t, 33.34, got)
}
