package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/boostcart/database"
	"github.com/boostcart/web/middleware"
)

// Dashboard renders the merchant overview page with a 30-day summary
func Dashboard(c *fiber.Ctx) error {
	store := middleware.SessionStore(c)

	summary, err := summaryForStore(database.GetDB(), store.ID, 30)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("pages/error", fiber.Map{
			"Title": "Error",
			"Error": "Failed to load dashboard",
			"Code":  500,
		}, "layouts/base")
	}

	storeName := store.StoreHash
	if store.StoreName != nil && *store.StoreName != "" {
		storeName = *store.StoreName
	}

	return c.Render("pages/dashboard", fiber.Map{
		"Title":     "Dashboard",
		"StoreName": storeName,
		"Plan":      store.Plan,
		"Summary":   summary,
	}, "layouts/base")
}
