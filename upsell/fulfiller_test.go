package upsell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostcart/bigcommerce"
	"github.com/boostcart/models"
)

type fakeGateway struct {
	order   *bigcommerce.Order
	product *bigcommerce.Product

	createOrderErr error
	createdOrderID int
	lastOrderReq   *bigcommerce.CreateOrderRequest

	tokenErr error

	cart        *bigcommerce.Cart
	cartErr     error
	lastCartReq *bigcommerce.CreateCartRequest
}

func (g *fakeGateway) GetOrder(ctx context.Context, orderID int) (*bigcommerce.Order, error) {
	if g.order == nil {
		return nil, errors.New("order not found")
	}
	return g.order, nil
}

func (g *fakeGateway) GetProduct(ctx context.Context, productID int) (*bigcommerce.Product, error) {
	if g.product == nil {
		return nil, errors.New("product not found")
	}
	return g.product, nil
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req *bigcommerce.CreateOrderRequest) (*bigcommerce.Order, error) {
	g.lastOrderReq = req
	if g.createOrderErr != nil {
		return nil, g.createOrderErr
	}
	return &bigcommerce.Order{ID: g.createdOrderID}, nil
}

func (g *fakeGateway) CreateCart(ctx context.Context, req *bigcommerce.CreateCartRequest) (*bigcommerce.Cart, error) {
	g.lastCartReq = req
	if g.cartErr != nil {
		return nil, g.cartErr
	}
	return g.cart, nil
}

func (g *fakeGateway) CreatePaymentAccessToken(ctx context.Context, orderID int) (*bigcommerce.PaymentAccessToken, error) {
	if g.tokenErr != nil {
		return nil, g.tokenErr
	}
	return &bigcommerce.PaymentAccessToken{ID: "pat-1"}, nil
}

type recordedEvent struct {
	storeID string
	offerID string
	orderID int
	revenue float64
}

type fakeRecorder struct {
	events []recordedEvent
	err    error
}

func (r *fakeRecorder) RecordAccepted(storeID, offerID string, orderID int, revenue float64) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, recordedEvent{storeID, offerID, orderID, revenue})
	return nil
}

func testStore() *models.Store {
	url := "https://shop.example.com"
	return &models.Store{ID: "store-1", StoreHash: "abc123", StoreURL: &url, IsActive: true}
}

func testOffer() *models.Offer {
	pct := models.DiscountPercentage
	value := 25.0
	return &models.Offer{
		ID:              "offer-1",
		StoreID:         "store-1",
		Status:          models.OfferStatusActive,
		UpsellProductID: 250,
		DiscountType:    &pct,
		DiscountValue:   &value,
	}
}

func healthyGateway() *fakeGateway {
	return &fakeGateway{
		order: &bigcommerce.Order{
			ID:         9001,
			CustomerID: 77,
			BillingAddress: bigcommerce.Address{
				FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			},
		},
		product:        &bigcommerce.Product{ID: 250, Price: 100, SalePrice: 80},
		createdOrderID: 9002,
		cart:           &bigcommerce.Cart{ID: "cart-1"},
	}
}

func TestAcceptNewOrderWithToken(t *testing.T) {
	gateway := healthyGateway()
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	result, err := fulfiller.Accept(context.Background(), testStore(), testOffer(), 9001)
	require.NoError(t, err)

	assert.Equal(t, MethodNewOrder, result.Method)
	assert.Equal(t, 9002, result.UpsellOrderID)
	assert.Equal(t, PaymentTokenCreated, result.PaymentStatus)
	// sale 80, 25% off → 60.00
	assert.Equal(t, 60.0, result.Revenue)

	// Exactly one accepted event, revenue = computed price
	require.Len(t, recorder.events, 1)
	assert.Equal(t, recordedEvent{"store-1", "offer-1", 9001, 60.0}, recorder.events[0])

	// The upsell order copies the originating order's customer and
	// billing address, one pending line item at the discounted price
	require.NotNil(t, gateway.lastOrderReq)
	assert.Equal(t, 77, gateway.lastOrderReq.CustomerID)
	assert.Equal(t, "ada@example.com", gateway.lastOrderReq.BillingAddress.Email)
	assert.Equal(t, bigcommerce.OrderStatusPending, gateway.lastOrderReq.StatusID)
	require.Len(t, gateway.lastOrderReq.Products, 1)
	assert.Equal(t, 250, gateway.lastOrderReq.Products[0].ProductID)
	assert.Equal(t, 1, gateway.lastOrderReq.Products[0].Quantity)
	assert.Equal(t, 60.0, gateway.lastOrderReq.Products[0].PriceIncTax)
}

func TestAcceptPaymentTokenFailureDegradesToPending(t *testing.T) {
	gateway := healthyGateway()
	gateway.tokenErr = errors.New("no stored instrument")
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	result, err := fulfiller.Accept(context.Background(), testStore(), testOffer(), 9001)
	require.NoError(t, err, "a missing payment token is a degraded outcome, not an error")

	assert.Equal(t, MethodNewOrder, result.Method)
	assert.Equal(t, PaymentPending, result.PaymentStatus)
	require.Len(t, recorder.events, 1)
}

func TestAcceptOrderFailureFallsBackToCart(t *testing.T) {
	gateway := healthyGateway()
	gateway.createOrderErr = errors.New("orders api unavailable")
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	result, err := fulfiller.Accept(context.Background(), testStore(), testOffer(), 9001)
	require.NoError(t, err)

	assert.Equal(t, MethodCartRedirect, result.Method)
	assert.Equal(t, "cart-1", result.CartID)
	assert.Equal(t, "https://shop.example.com/cart.php?action=add&product_id=250", result.CheckoutURL)

	// Exactly one accepted event with the computed price, despite the
	// order failure
	require.Len(t, recorder.events, 1)
	assert.Equal(t, 60.0, recorder.events[0].revenue)

	require.NotNil(t, gateway.lastCartReq)
	assert.Equal(t, 77, gateway.lastCartReq.CustomerID)
	require.Len(t, gateway.lastCartReq.LineItems, 1)
	assert.Equal(t, 250, gateway.lastCartReq.LineItems[0].ProductID)
}

func TestAcceptCartFallbackFailure(t *testing.T) {
	gateway := healthyGateway()
	gateway.createOrderErr = errors.New("orders api unavailable")
	gateway.cartErr = errors.New("carts api unavailable")
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	_, err := fulfiller.Accept(context.Background(), testStore(), testOffer(), 9001)
	require.Error(t, err)

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
	// No event on the only true failure path
	assert.Empty(t, recorder.events)
}

func TestAcceptOrderLookupFailure(t *testing.T) {
	gateway := healthyGateway()
	gateway.order = nil
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	_, err := fulfiller.Accept(context.Background(), testStore(), testOffer(), 9001)
	require.Error(t, err)

	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Empty(t, recorder.events)
}

func TestAcceptMissingStoreURLOmitsCheckoutURL(t *testing.T) {
	gateway := healthyGateway()
	gateway.createOrderErr = errors.New("down")
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	store := testStore()
	store.StoreURL = nil

	result, err := fulfiller.Accept(context.Background(), store, testOffer(), 9001)
	require.NoError(t, err)
	assert.Equal(t, "", result.CheckoutURL)
}

func TestAcceptRejectsInactiveOffer(t *testing.T) {
	gateway := healthyGateway()
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	offer := testOffer()
	offer.Status = models.OfferStatusPaused

	_, err := fulfiller.Accept(context.Background(), testStore(), offer, 9001)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, recorder.events)
}

func TestAcceptRejectsForeignOffer(t *testing.T) {
	gateway := healthyGateway()
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	offer := testOffer()
	offer.StoreID = "someone-else"

	_, err := fulfiller.Accept(context.Background(), testStore(), offer, 9001)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptIsNotIdempotent(t *testing.T) {
	// Two accepts for the same offer/order each make their own attempt
	// and record their own event. Documented behavior, not a bug to fix
	// here.
	gateway := healthyGateway()
	recorder := &fakeRecorder{}
	fulfiller := NewFulfiller(gateway, recorder)

	_, err := fulfiller.Accept(context.Background(), testStore(), testOffer(), 9001)
	require.NoError(t, err)
	_, err = fulfiller.Accept(context.Background(), testStore(), testOffer(), 9001)
	require.NoError(t, err)

	assert.Len(t, recorder.events, 2)
}
