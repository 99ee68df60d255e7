package bigcommerce

import (
	"context"
	"log"
)

// WidgetScriptName identifies the storefront widget script so reinstalls
// can find and replace stale copies.
const WidgetScriptName = "BoostCart Upsell Widget"

// InstallWidgetScript injects widget.js into the order confirmation page
// via the Scripts API, replacing any previously installed copy.
func (c *Client) InstallWidgetScript(ctx context.Context, appURL string) error {
	// Clean up any existing widget scripts first. Errors here are not
	// fatal; a fresh store has none.
	if scripts, err := c.GetScripts(ctx); err == nil {
		for _, script := range scripts {
			if script.Name == WidgetScriptName {
				if err := c.DeleteScript(ctx, script.UUID); err != nil {
					log.Printf("Warning: failed to delete stale widget script %s: %v", script.UUID, err)
				}
			}
		}
	}

	return c.CreateScript(ctx, &CreateScriptRequest{
		Name:            WidgetScriptName,
		Description:     "BoostCart post-purchase upsell offers on order confirmation page",
		Src:             appURL + "/widget.js",
		AutoUninstall:   true,
		LoadMethod:      "default",
		Location:        "footer",
		Visibility:      "order_confirmation",
		Kind:            "src",
		ConsentCategory: "functional",
	})
}

// RemoveWidgetScript deletes the widget script from a store. Best effort;
// BigCommerce auto-removes it on uninstall anyway (auto_uninstall=true).
func (c *Client) RemoveWidgetScript(ctx context.Context) error {
	scripts, err := c.GetScripts(ctx)
	if err != nil {
		return err
	}

	for _, script := range scripts {
		if script.Name == WidgetScriptName {
			if err := c.DeleteScript(ctx, script.UUID); err != nil {
				return err
			}
		}
	}

	return nil
}

// RegisterWebhooks registers the hooks the app needs. A hook that already
// exists makes BigCommerce return a conflict, which is fine.
func (c *Client) RegisterWebhooks(ctx context.Context, appURL, webhookSecret string) {
	webhooks := []CreateWebhookRequest{
		{
			Scope:       "store/order/created",
			Destination: appURL + "/api/webhooks/order-created",
		},
		{
			Scope:       "store/app/uninstalled",
			Destination: appURL + "/api/auth/uninstall",
		},
	}

	for _, hook := range webhooks {
		hook.IsActive = true
		hook.Headers = map[string]string{"X-BoostCart-Secret": webhookSecret}
		if err := c.CreateWebhook(ctx, &hook); err != nil {
			log.Printf("Warning: failed to register webhook %s: %v", hook.Scope, err)
		}
	}
}
