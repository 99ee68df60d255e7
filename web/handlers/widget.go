package handlers

import (
	"errors"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/boostcart/database"
	"github.com/boostcart/models"
	"github.com/boostcart/upsell"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// offerProductPayload is the product snapshot embedded in an offer response
type offerProductPayload struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	OriginalPrice float64 `json:"originalPrice"`
	FinalPrice    float64 `json:"finalPrice"`
	Image         *string `json:"image"`
	Description   string  `json:"description"`
}

// offerPayload is the widget's fully-priced offer response
type offerPayload struct {
	OfferID       string               `json:"offerId"`
	Title         string               `json:"title"`
	Description   *string              `json:"description"`
	CtaText       string               `json:"ctaText"`
	DeclineText   string               `json:"declineText"`
	ShowTimer     bool                 `json:"showTimer"`
	TimerSeconds  int                  `json:"timerSeconds"`
	DiscountType  *string              `json:"discountType"`
	DiscountValue *float64             `json:"discountValue"`
	Product       *offerProductPayload `json:"product"`
}

// WidgetOffer returns the upsell offer to show for an order, or
// {data: null} when nothing matches. Called by the storefront widget on
// the order confirmation page.
//
// Query params: storeHash, orderId, productIds (optional comma-separated
// list that saves the order-products lookup).
func WidgetOffer(c *fiber.Ctx) error {
	storeHash := c.Query("storeHash")
	orderID := c.Query("orderId")
	if storeHash == "" || orderID == "" {
		return upsell.Validationf("missing storeHash or orderId")
	}

	store, err := getActiveStore(storeHash)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch offer",
		})
	}
	if store == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Store not found",
		})
	}

	purchased := orderProductSet(c, store, orderID)

	// Active offers eligible for post-purchase placement
	var candidates []models.Offer
	err = database.GetDB().
		Where("store_id = ? AND status = ? AND type IN ?",
			store.ID, models.OfferStatusActive,
			[]string{models.OfferTypePostPurchase, models.OfferTypeThankYou}).
		Order("priority DESC, created_at DESC").
		Find(&candidates).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch offer",
		})
	}

	matched := upsell.Match(candidates, purchased)
	if matched == nil {
		return c.JSON(fiber.Map{"data": nil})
	}

	return c.JSON(fiber.Map{"data": buildOfferPayload(c, store, matched)})
}

// orderProductSet resolves the purchased-product set for an order: from
// the productIds query param when the widget sends one, otherwise from the
// order-products API. Lookup failures produce an empty set, which makes
// product triggers fail closed.
func orderProductSet(c *fiber.Ctx, store *models.Store, orderID string) upsell.ProductSet {
	if param := c.Query("productIds"); param != "" {
		var ids []int
		for _, raw := range strings.Split(param, ",") {
			if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				ids = append(ids, id)
			}
		}
		return upsell.NewProductSet(ids)
	}

	id, err := strconv.Atoi(orderID)
	if err != nil {
		return upsell.ProductSet{}
	}

	client, err := bcClient(store)
	if err != nil {
		return upsell.ProductSet{}
	}

	orderProducts, err := client.GetOrderProducts(c.UserContext(), id)
	if err != nil {
		log.Printf("Failed to fetch products for order %d: %v", id, err)
		return upsell.ProductSet{}
	}

	ids := make([]int, 0, len(orderProducts))
	for _, p := range orderProducts {
		ids = append(ids, p.ProductID)
	}
	return upsell.NewProductSet(ids)
}

// buildOfferPayload prices the offer against the live catalog. A failed
// product fetch returns the offer copy without the product snapshot.
func buildOfferPayload(c *fiber.Ctx, store *models.Store, offer *models.Offer) *offerPayload {
	payload := &offerPayload{
		OfferID:       offer.ID,
		Title:         offer.Title,
		Description:   offer.Description,
		CtaText:       offer.CtaText,
		DeclineText:   offer.DeclineText,
		ShowTimer:     offer.ShowTimer,
		TimerSeconds:  offer.TimerSeconds,
		DiscountType:  offer.DiscountType,
		DiscountValue: offer.DiscountValue,
	}

	client, err := bcClient(store)
	if err != nil {
		return payload
	}

	product, err := client.GetProduct(c.UserContext(), offer.UpsellProductID)
	if err != nil {
		log.Printf("Failed to fetch product %d for offer %s: %v", offer.UpsellProductID, offer.ID, err)
		return payload
	}

	var image *string
	if url := product.Thumbnail(); url != "" {
		image = &url
	}

	payload.Product = &offerProductPayload{
		ID:            product.ID,
		Name:          product.Name,
		OriginalPrice: upsell.BasePrice(product.Price, product.SalePrice),
		FinalPrice:    upsell.FinalPrice(product.Price, product.SalePrice, offer),
		Image:         image,
		Description:   truncate(htmlTagPattern.ReplaceAllString(product.Description, ""), 200),
	}

	return payload
}

// widgetBody is the shared request body of the event and accept
// endpoints. The widget sends orderId as either a string or a number.
type widgetBody struct {
	StoreHash string      `json:"storeHash"`
	OfferID   string      `json:"offerId"`
	OrderID   interface{} `json:"orderId"`
	Action    string      `json:"action"`
}

// WidgetEvent records a shown/declined/timeout tracking beacon
func WidgetEvent(c *fiber.Ctx) error {
	var body widgetBody
	if err := c.BodyParser(&body); err != nil {
		return upsell.Validationf("invalid request body")
	}

	orderID, ok := coerceInt(body.OrderID)
	if body.StoreHash == "" || body.OfferID == "" || !ok || body.Action == "" {
		return upsell.Validationf("missing required fields: storeHash, offerId, orderId, action")
	}

	// Accepted events are only written by the accept flow
	switch body.Action {
	case models.ActionShown, models.ActionDeclined, models.ActionTimeout:
	default:
		return upsell.Validationf("invalid action %q, must be shown, declined, or timeout", body.Action)
	}

	store, err := getActiveStore(body.StoreHash)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to track event",
		})
	}
	if store == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Store not found",
		})
	}

	offer, err := findStoreOffer(store.ID, body.OfferID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to track event",
		})
	}
	if offer == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	recorder := database.NewEventRecorder(database.GetDB())
	if err := recorder.Record(store.ID, offer.ID, orderID, body.Action, nil); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to track event",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// WidgetAccept converts an accepted offer into a new pending order, or a
// cart redirect when order creation fails upstream.
func WidgetAccept(c *fiber.Ctx) error {
	var body widgetBody
	if err := c.BodyParser(&body); err != nil {
		return upsell.Validationf("invalid request body")
	}

	orderID, ok := coerceInt(body.OrderID)
	if body.StoreHash == "" || body.OfferID == "" || !ok {
		return upsell.Validationf("missing required fields: storeHash, offerId, orderId")
	}

	store, err := getActiveStore(body.StoreHash)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process upsell",
		})
	}
	if store == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Store not found",
		})
	}

	var offer models.Offer
	err = database.GetDB().
		Where("id = ? AND store_id = ? AND status = ?",
			body.OfferID, store.ID, models.OfferStatusActive).
		First(&offer).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found or inactive",
		})
	}

	client, err := bcClient(store)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process upsell",
		})
	}

	fulfiller := upsell.NewFulfiller(client, database.NewEventRecorder(database.GetDB()))
	result, err := fulfiller.Accept(c.UserContext(), store, &offer, orderID)
	if err != nil {
		log.Printf("Accept failed for offer %s order %d: %v", offer.ID, orderID, err)

		if errors.Is(err, upsell.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Offer not found or inactive",
			})
		}

		var upstream *upsell.UpstreamError
		if errors.As(err, &upstream) {
			// No upstream detail leaks to the storefront
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to process upsell",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process upsell acceptance",
		})
	}

	switch result.Method {
	case upsell.MethodCartRedirect:
		return c.JSON(fiber.Map{
			"success":     true,
			"method":      result.Method,
			"cartId":      result.CartID,
			"checkoutUrl": result.CheckoutURL,
			"message":     "Item added to cart. Redirecting to checkout...",
		})
	default:
		return c.JSON(fiber.Map{
			"success":       true,
			"method":        result.Method,
			"upsellOrderId": result.UpsellOrderID,
			"paymentStatus": result.PaymentStatus,
			"revenue":       result.Revenue,
			"message":       "Upsell added successfully!",
		})
	}
}

// coerceInt accepts the number-or-string ids the widget sends
func coerceInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		id, err := strconv.Atoi(n)
		return id, err == nil
	}
	return 0, false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
