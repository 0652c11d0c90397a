package api

import (
	"github.com/gofiber/fiber/v2"

	v1 "github.com/obadahasan/souqgateway/internal/api/v1"
	"github.com/obadahasan/souqgateway/internal/config"
	"github.com/obadahasan/souqgateway/internal/middleware"
)

func SetupRoutes(app *fiber.App, handler *v1.Handler, cfg *config.Config) {
	app.Get("/ping", handler.Pong)
	app.Post("/v1/verify", handler.Verify)

	authed := app.Group("/v1", middleware.WithAuth(cfg))
	authed.Get("/balance", handler.Balance)
	authed.Get("/products", handler.Products)
	authed.Post("/purchase", handler.Purchase)
	authed.Post("/charge", handler.Charge)
	authed.Get("/orders", handler.Orders)
}
