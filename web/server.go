package web

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/boostcart/auth"
	"github.com/boostcart/config"
	"github.com/boostcart/web/handlers"
	"github.com/boostcart/web/middleware"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates a new Fiber server
func NewServer(cfg *config.Config) *Server {
	// Template engine for the merchant dashboard page
	engine := html.New("./web/templates", ".html")
	engine.Reload(!cfg.App.IsProduction())

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	// Open CORS: the widget endpoints are called from arbitrary
	// third-party storefront domains.
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))

	verifier := auth.NewVerifier(cfg.BigCommerce.ClientID, cfg.BigCommerce.ClientSecret)
	handlers.Setup(cfg, verifier)

	// Static files. The storefront widget bundle is deployed into
	// ./public by the frontend build and served at /widget.js.
	app.Static("/", "./public")

	setupRoutes(app, verifier)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// App exposes the fiber app, for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, verifier *auth.Verifier) {
	app.Get("/", handlers.HomePage)

	// BigCommerce OAuth lifecycle
	authGroup := app.Group("/api/auth")
	authGroup.Get("/install", handlers.Install)
	authGroup.Get("/callback", handlers.Install)
	authGroup.Get("/load", handlers.Load)
	authGroup.Get("/uninstall", handlers.Uninstall)
	// The app-uninstalled webhook POSTs here as well
	authGroup.Post("/uninstall", handlers.Uninstall)

	// Storefront widget API, no session, store identified by hash
	widget := app.Group("/api/widget")
	widget.Get("/offer", handlers.WidgetOffer)
	widget.Post("/event", handlers.WidgetEvent)
	widget.Post("/accept", handlers.WidgetAccept)

	// Webhook receivers
	app.Post("/api/webhooks/order-created", handlers.OrderCreatedWebhook)

	// Merchant API, requires a dashboard session
	session := middleware.RequireSession(verifier)

	offers := app.Group("/api/offers", session)
	offers.Get("/", handlers.OfferList)
	offers.Post("/", handlers.OfferCreate)
	offers.Put("/", handlers.OfferUpdate)
	offers.Delete("/", handlers.OfferDelete)

	app.Get("/api/products", session, handlers.ProductSearch)
	app.Get("/api/analytics", session, handlers.Analytics)
	app.Get("/dashboard", session, handlers.Dashboard)
}
