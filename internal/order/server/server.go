package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/merkulovlad/orderflow/internal/health"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/order/query"
)

// NewServer builds the fiber app for the order (consumer) service.
func NewServer(q *query.Service, healthReporter *health.Reporter, log logger.InterfaceLogger) *fiber.App {
	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
	}))

	h := NewHandler(q, healthReporter, log)
	h.registerRoutes(app)

	return app
}
