package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/boostcart/auth"
	"github.com/boostcart/bigcommerce"
	"github.com/boostcart/config"
	"github.com/boostcart/database"
	"github.com/boostcart/models"
	"github.com/boostcart/upsell"
)

var (
	cfg      *config.Config
	verifier *auth.Verifier
)

// Setup wires the handler package's configuration. Must be called before
// any route is served.
func Setup(c *config.Config, v *auth.Verifier) {
	cfg = c
	verifier = v
}

// ErrorHandler maps errors escaping a handler onto HTTP statuses. The
// upsell error taxonomy gets its designated codes; everything else is a
// 500 with fiber.Error codes honored.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var validation *upsell.ValidationError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &validation):
		code = fiber.StatusBadRequest
		message = validation.Message
	case errors.Is(err, upsell.ErrUnauthorized):
		code = fiber.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, upsell.ErrNotFound):
		code = fiber.StatusNotFound
		message = "Not found"
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	}

	if code == fiber.StatusInternalServerError {
		log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// HomePage is a minimal service identity / health endpoint
func HomePage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":   "BoostCart",
		"status": "ok",
	})
}

// getActiveStore looks up an active store by hash. Returns (nil, nil)
// when the store is absent or deactivated; callers respond 404. A storage
// failure comes back as an error and maps to 500.
func getActiveStore(storeHash string) (*models.Store, error) {
	var store models.Store
	err := database.GetDB().Where("store_hash = ?", storeHash).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !store.IsActive {
		return nil, nil
	}
	return &store, nil
}

// bcClient builds an API client from a store's stored credentials
func bcClient(store *models.Store) (*bigcommerce.Client, error) {
	return bigcommerce.New(bigcommerce.Config{
		StoreHash:   store.StoreHash,
		AccessToken: store.AccessToken,
	})
}

// findStoreOffer fetches an offer scoped to a store
func findStoreOffer(storeID, offerID string) (*models.Offer, error) {
	var offer models.Offer
	err := database.GetDB().
		Where("id = ? AND store_id = ?", offerID, storeID).
		First(&offer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}
