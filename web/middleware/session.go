package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/boostcart/auth"
	"github.com/boostcart/database"
	"github.com/boostcart/models"
	"github.com/boostcart/upsell"
)

// StoreKey is the locals key the authenticated store is stored under
const StoreKey = "store"

// RequireSession authenticates the bc_session cookie and loads the
// tenant's store record into c.Locals(StoreKey). Inactive stores are
// treated the same as missing sessions. Failures surface as
// upsell.ErrUnauthorized, which the app's error handler maps to 401.
func RequireSession(verifier *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(auth.SessionCookieName)
		if cookie == "" {
			return upsell.ErrUnauthorized
		}

		claims, err := verifier.VerifySessionToken(cookie)
		if err != nil {
			return upsell.ErrUnauthorized
		}

		var store models.Store
		err = database.GetDB().Where("store_hash = ?", claims.StoreHash).First(&store).Error
		if err != nil || !store.IsActive {
			return upsell.ErrUnauthorized
		}

		c.Locals(StoreKey, &store)
		return c.Next()
	}
}

// SessionStore returns the store loaded by RequireSession
func SessionStore(c *fiber.Ctx) *models.Store {
	store, _ := c.Locals(StoreKey).(*models.Store)
	return store
}
