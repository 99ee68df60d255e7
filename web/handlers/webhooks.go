package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// OrderCreatedWebhook acknowledges store/order/created hooks. The widget
// drives offer matching from the confirmation page, so the hook only
// needs an ack; an unacknowledged hook gets retried and eventually
// disabled by BigCommerce.
func OrderCreatedWebhook(c *fiber.Ctx) error {
	if secret := c.Get("X-BoostCart-Secret"); secret != cfg.App.WebhookSecret {
		log.Printf("order-created webhook with bad secret from %s", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
