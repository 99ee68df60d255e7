package handlers

import (
	"log"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/boostcart/web/middleware"
)

// productSearchParams builds the catalog query for the offer editor's
// product picker. Limits outside 1..50 fall back to 20.
func productSearchParams(keyword string, limit int) url.Values {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("is_visible", "true")
	params.Set("include", "images")
	if keyword != "" {
		params.Set("name:like", keyword)
	}
	return params
}

// ProductSearch lists catalog products for the dashboard's offer editor,
// so a merchant can pick the upsell product by name.
func ProductSearch(c *fiber.Ctx) error {
	store := middleware.SessionStore(c)

	client, err := bcClient(store)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search products",
		})
	}

	products, err := client.GetProducts(c.UserContext(),
		productSearchParams(c.Query("keyword"), c.QueryInt("limit", 20)))
	if err != nil {
		log.Printf("Product search failed for store %s: %v", store.StoreHash, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search products",
		})
	}

	return c.JSON(fiber.Map{"data": products})
}
