// Package server is the consumer's HTTP surface (spec.md §6): /order-details,
// /getAllOrdersFromTopic, and the liveness/readiness endpoints. Grounded on
// the teacher's internal/server package (Handler/NewServer/registerRoutes
// split).
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/merkulovlad/orderflow/internal/health"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
	"github.com/merkulovlad/orderflow/internal/order/query"
	"github.com/merkulovlad/orderflow/internal/orderid"
)

// Handler holds the consumer's dependencies.
type Handler struct {
	Query  *query.Service
	Health *health.Reporter
	Logger logger.InterfaceLogger
}

// NewHandler builds a Handler.
func NewHandler(q *query.Service, healthReporter *health.Reporter, log logger.InterfaceLogger) *Handler {
	return &Handler{Query: q, Health: healthReporter, Logger: log}
}

type orderDetailsRequest struct {
	OrderID string `json:"orderId"`
}

func (h *Handler) orderDetailsHandler(c *fiber.Ctx) error {
	var req orderDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "malformed request body")
	}

	order, err := h.Query.GetOrderDetails(req.OrderID)
	if err != nil {
		if errors.Is(err, orderid.ErrEmpty) || errors.Is(err, orderid.ErrNotHex) {
			return h.badRequest(c, "invalid orderId")
		}
		if errors.Is(err, model.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(model.NewErrorResponse(fiber.StatusNotFound, "order not found"))
		}
		h.Logger.Errorf("order server: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(model.NewErrorResponse(fiber.StatusInternalServerError, "internal error"))
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *Handler) listAllOrdersHandler(c *fiber.Ctx) error {
	ids := h.Query.ListAllOrderIds()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"orderIds": ids})
}

func (h *Handler) livenessHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "UP"})
}

func (h *Handler) readinessHandler(c *fiber.Ctx) error {
	if !h.Health.Readiness(c.Context()) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "DOWN"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "UP"})
}

func (h *Handler) badRequest(c *fiber.Ctx, msg string) error {
	h.Logger.Warnf("order server: bad request: %s", msg)
	return c.Status(fiber.StatusBadRequest).JSON(model.NewErrorResponse(fiber.StatusBadRequest, msg))
}
