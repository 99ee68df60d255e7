package upsell

import (
	"github.com/boostcart/models"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// BasePrice returns the price a discount applies to: the sale price when
// one is set and lower than the list price, otherwise the list price.
func BasePrice(listPrice, salePrice float64) float64 {
	if salePrice > 0 && salePrice < listPrice {
		return salePrice
	}
	return listPrice
}

// FinalPrice applies an offer's discount rule to a catalog price. The
// result is never negative and is rounded to two decimal places, half up
// at the cent boundary.
func FinalPrice(listPrice, salePrice float64, offer *models.Offer) float64 {
	base := decimal.NewFromFloat(BasePrice(listPrice, salePrice))

	final := base
	if offer != nil && offer.HasDiscount() {
		value := decimal.NewFromFloat(*offer.DiscountValue)
		switch *offer.DiscountType {
		case models.DiscountPercentage:
			final = base.Mul(oneHundred.Sub(value)).Div(oneHundred)
		case models.DiscountFixed:
			final = base.Sub(value)
		}
	}

	if final.IsNegative() {
		final = decimal.Zero
	}

	// decimal.Round rounds half away from zero, which is half-up for
	// the non-negative prices we have here.
	result, _ := final.Round(2).Float64()
	return result
}
