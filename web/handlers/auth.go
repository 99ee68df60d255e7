package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/boostcart/auth"
	"github.com/boostcart/bigcommerce"
	"github.com/boostcart/database"
	"github.com/boostcart/models"
)

// Install handles both the OAuth install callback and the redirect-URI
// callback; for single-click apps they are the same flow: exchange the
// code, upsert the store, provision the storefront, open a session.
func Install(c *fiber.Ctx) error {
	code := c.Query("code")
	scope := c.Query("scope")
	bcContext := c.Query("context")

	if code == "" || scope == "" || bcContext == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required OAuth parameters",
		})
	}

	// Context has the form "stores/{hash}"
	parts := strings.SplitN(bcContext, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid context parameter",
		})
	}
	storeHash := parts[1]

	token, err := bigcommerce.ExchangeToken(c.UserContext(), bigcommerce.OAuthConfig{
		ClientID:     cfg.BigCommerce.ClientID,
		ClientSecret: cfg.BigCommerce.ClientSecret,
		RedirectURI:  cfg.App.URL + "/api/auth/callback",
	}, code, bcContext, scope)
	if err != nil {
		log.Printf("Install token exchange failed for %s: %v", storeHash, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Installation failed",
		})
	}

	store, err := upsertStore(storeHash, token)
	if err != nil {
		log.Printf("Install store upsert failed for %s: %v", storeHash, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Installation failed",
		})
	}

	client, err := bcClient(store)
	if err == nil {
		// Storefront provisioning. Failures here are logged, not fatal:
		// the merchant can reach the dashboard either way.
		if err := client.InstallWidgetScript(c.UserContext(), cfg.App.URL); err != nil {
			log.Printf("Failed to install widget script for %s: %v", storeHash, err)
		}
		client.RegisterWebhooks(c.UserContext(), cfg.App.URL, cfg.App.WebhookSecret)

		if info, err := client.GetStoreInfo(c.UserContext()); err == nil {
			name := info.Name
			url := info.BaseURL()
			database.GetDB().Model(store).Updates(map[string]interface{}{
				"store_name": name,
				"store_url":  url,
			})
		}
	}

	return openSession(c, storeHash, token.User.ID)
}

// upsertStore creates the tenant record or reactivates it on reinstall
func upsertStore(storeHash string, token *bigcommerce.OAuthResponse) (*models.Store, error) {
	db := database.GetDB()

	var store models.Store
	err := db.Where("store_hash = ?", storeHash).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		store = models.Store{
			StoreHash:   storeHash,
			AccessToken: token.AccessToken,
			OwnerEmail:  &token.User.Email,
			Plan:        "free_trial",
			IsActive:    true,
		}
		if err := db.Create(&store).Error; err != nil {
			return nil, err
		}
		return &store, nil
	}
	if err != nil {
		return nil, err
	}

	store.AccessToken = token.AccessToken
	store.OwnerEmail = &token.User.Email
	store.IsActive = true
	store.UninstalledAt = nil
	store.InstalledAt = time.Now().UTC()
	if err := db.Save(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Load handles the BigCommerce Load callback, fired every time a merchant
// opens the app from the control panel.
func Load(c *fiber.Ctx) error {
	signedPayload := c.Query("signed_payload_jwt")
	if signedPayload == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing signed_payload_jwt",
		})
	}

	payload, err := verifier.VerifySignedPayload(signedPayload)
	if err != nil {
		log.Printf("Load payload verification failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid signed payload",
		})
	}

	storeHash, err := auth.ExtractStoreHash(payload.Sub)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid signed payload",
		})
	}

	store, err := getActiveStore(storeHash)
	if err != nil {
		log.Printf("Load store lookup failed for %s: %v", storeHash, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load app",
		})
	}
	if store == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Store not found or inactive. Please reinstall the app.",
		})
	}

	return openSession(c, storeHash, payload.User.ID)
}

// Uninstall handles the BigCommerce Uninstall callback. The store is
// deactivated, never deleted; a reinstall picks it back up. Always
// answers 200; BigCommerce retries anything else.
func Uninstall(c *fiber.Ctx) error {
	signedPayload := c.Query("signed_payload_jwt")
	if signedPayload == "" {
		return c.JSON(fiber.Map{"success": true})
	}

	payload, err := verifier.VerifySignedPayload(signedPayload)
	if err != nil {
		log.Printf("Uninstall payload verification failed: %v", err)
		return c.JSON(fiber.Map{"success": true})
	}

	storeHash, err := auth.ExtractStoreHash(payload.Sub)
	if err != nil {
		return c.JSON(fiber.Map{"success": true})
	}

	db := database.GetDB()
	now := time.Now().UTC()

	var store models.Store
	if err := db.Where("store_hash = ?", storeHash).First(&store).Error; err == nil {
		// Best effort while the token may still work; auto_uninstall
		// covers the script either way.
		if client, err := bcClient(&store); err == nil {
			if err := client.RemoveWidgetScript(c.UserContext()); err != nil {
				log.Printf("Failed to remove widget script for %s: %v", storeHash, err)
			}
		}

		db.Model(&store).Updates(map[string]interface{}{
			"is_active":      false,
			"uninstalled_at": now,
		})

		// Active offers pause so a reinstall doesn't instantly resume
		// showing stale offers.
		db.Model(&models.Offer{}).
			Where("store_id = ? AND status = ?", store.ID, models.OfferStatusActive).
			Update("status", models.OfferStatusPaused)
	}

	return c.JSON(fiber.Map{"success": true})
}

// openSession sets the dashboard session cookie and redirects
func openSession(c *fiber.Ctx, storeHash string, userID int) error {
	sessionToken, err := verifier.CreateSessionToken(storeHash, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    sessionToken,
		HTTPOnly: true,
		Secure:   cfg.App.IsProduction(),
		// The dashboard renders inside the BigCommerce control panel
		// iframe, which requires SameSite=None.
		SameSite: fiber.CookieSameSiteNoneMode,
		MaxAge:   int(auth.SessionTTL.Seconds()),
		Path:     "/",
	})

	return c.Redirect(cfg.App.URL+"/dashboard", fiber.StatusFound)
}
