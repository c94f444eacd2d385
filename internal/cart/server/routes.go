package server

import "github.com/gofiber/fiber/v2"

func (h *Handler) registerRoutes(app *fiber.App) {
	app.Post("/create-order", h.createOrderHandler)
	app.Put("/update-order", h.updateOrderHandler)
	app.Get("/health/live", h.livenessHandler)
	app.Get("/health/ready", h.readinessHandler)
}
