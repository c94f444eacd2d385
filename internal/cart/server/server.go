package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/merkulovlad/orderflow/internal/cart/service"
	"github.com/merkulovlad/orderflow/internal/health"
	"github.com/merkulovlad/orderflow/internal/logger"
)

// NewServer builds the fiber app for the cart (producer) service.
func NewServer(orders *service.Service, healthReporter *health.Reporter, log logger.InterfaceLogger) *fiber.App {
	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
	}))

	h := NewHandler(orders, healthReporter, log)
	h.registerRoutes(app)

	return app
}
