package upsell

import (
	"context"
	"fmt"
	"log"

	"github.com/boostcart/bigcommerce"
	"github.com/boostcart/models"
)

// Gateway is the slice of the BigCommerce client the fulfiller needs.
// *bigcommerce.Client satisfies it; tests substitute fakes.
type Gateway interface {
	GetOrder(ctx context.Context, orderID int) (*bigcommerce.Order, error)
	GetProduct(ctx context.Context, productID int) (*bigcommerce.Product, error)
	CreateOrder(ctx context.Context, req *bigcommerce.CreateOrderRequest) (*bigcommerce.Order, error)
	CreateCart(ctx context.Context, req *bigcommerce.CreateCartRequest) (*bigcommerce.Cart, error)
	CreatePaymentAccessToken(ctx context.Context, orderID int) (*bigcommerce.PaymentAccessToken, error)
}

// Recorder appends accepted events with their revenue
type Recorder interface {
	RecordAccepted(storeID, offerID string, orderID int, revenue float64) error
}

// Fulfillment methods
const (
	MethodNewOrder     = "new_order"
	MethodCartRedirect = "cart_redirect"
)

// Payment statuses for the new-order method
const (
	PaymentTokenCreated = "token_created"
	PaymentPending      = "pending"
)

// Result is the terminal outcome of an accept flow. Exactly one of the
// method shapes is populated:
//
//	new_order:     UpsellOrderID, PaymentStatus, Revenue
//	cart_redirect: CartID, CheckoutURL, Revenue
type Result struct {
	Method        string
	UpsellOrderID int
	PaymentStatus string
	CartID        string
	CheckoutURL   string
	Revenue       float64
}

// Fulfiller runs the accept flow: create a pending upsell order, try a
// payment token, fall back to a cart, record the conversion.
type Fulfiller struct {
	gateway  Gateway
	recorder Recorder
}

// NewFulfiller creates a fulfiller over the given gateway and recorder
func NewFulfiller(gateway Gateway, recorder Recorder) *Fulfiller {
	return &Fulfiller{gateway: gateway, recorder: recorder}
}

// Accept converts an accepted offer into a new pending order or a cart
// redirect. Every terminal success records exactly one accepted event with
// the computed revenue; only a failed cart fallback is an error.
//
// Calls are not deduplicated: accepting the same offer/order twice makes
// two attempts and, on success, two events.
func (f *Fulfiller) Accept(ctx context.Context, store *models.Store, offer *models.Offer, orderID int) (*Result, error) {
	if offer.StoreID != store.ID || offer.Status != models.OfferStatusActive {
		return nil, ErrNotFound
	}

	originalOrder, err := f.gateway.GetOrder(ctx, orderID)
	if err != nil {
		return nil, &UpstreamError{Op: "order lookup", Err: err}
	}

	product, err := f.gateway.GetProduct(ctx, offer.UpsellProductID)
	if err != nil {
		return nil, &UpstreamError{Op: "product lookup", Err: err}
	}

	price := FinalPrice(product.Price, product.SalePrice, offer)

	upsellOrder, err := f.gateway.CreateOrder(ctx, &bigcommerce.CreateOrderRequest{
		CustomerID:     originalOrder.CustomerID,
		BillingAddress: originalOrder.BillingAddress,
		Products: []bigcommerce.OrderLineItem{
			{
				ProductID:   offer.UpsellProductID,
				Quantity:    1,
				PriceIncTax: price,
				PriceExTax:  price,
			},
		},
		StatusID:        bigcommerce.OrderStatusPending,
		StaffNotes:      fmt.Sprintf("BoostCart Upsell - linked to Order #%d", orderID),
		CustomerMessage: "",
	})
	if err != nil {
		log.Printf("Failed to create upsell order for order %d: %v", orderID, err)
		return f.cartFallback(ctx, store, offer, originalOrder.CustomerID, orderID, price)
	}

	// Order created. A payment access token lets a stored instrument be
	// charged; without one the order just stays pending. Either way the
	// conversion happened.
	paymentStatus := PaymentPending
	if _, err := f.gateway.CreatePaymentAccessToken(ctx, upsellOrder.ID); err == nil {
		paymentStatus = PaymentTokenCreated
	}

	if err := f.recorder.RecordAccepted(store.ID, offer.ID, orderID, price); err != nil {
		return nil, err
	}

	return &Result{
		Method:        MethodNewOrder,
		UpsellOrderID: upsellOrder.ID,
		PaymentStatus: paymentStatus,
		Revenue:       price,
	}, nil
}

// cartFallback puts the upsell product in a fresh cart so the customer
// can be redirected to checkout when order creation is unavailable.
func (f *Fulfiller) cartFallback(ctx context.Context, store *models.Store, offer *models.Offer, customerID, orderID int, price float64) (*Result, error) {
	cart, err := f.gateway.CreateCart(ctx, &bigcommerce.CreateCartRequest{
		CustomerID: customerID,
		LineItems: []bigcommerce.CartLineItem{
			{ProductID: offer.UpsellProductID, Quantity: 1},
		},
	})
	if err != nil {
		return nil, &UpstreamError{Op: "cart fallback", Err: err}
	}

	if err := f.recorder.RecordAccepted(store.ID, offer.ID, orderID, price); err != nil {
		return nil, err
	}

	checkoutURL := ""
	if store.StoreURL != nil && *store.StoreURL != "" {
		checkoutURL = fmt.Sprintf("%s/cart.php?action=add&product_id=%d", *store.StoreURL, offer.UpsellProductID)
	}

	return &Result{
		Method:      MethodCartRedirect,
		CartID:      cart.ID,
		CheckoutURL: checkoutURL,
		Revenue:     price,
	}, nil
}
