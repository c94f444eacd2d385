package server

import "github.com/gofiber/fiber/v2"

func (h *Handler) registerRoutes(app *fiber.App) {
	app.Post("/order-details", h.orderDetailsHandler)
	app.Post("/getAllOrdersFromTopic", h.listAllOrdersHandler)
	app.Get("/health/live", h.livenessHandler)
	app.Get("/health/ready", h.readinessHandler)
}
