// Package server is the producer's HTTP surface (spec.md §6): /create-order,
// /update-order, and the liveness/readiness endpoints. Grounded on the
// teacher's internal/server package (Handler/NewServer/registerRoutes split).
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/merkulovlad/orderflow/internal/cart/service"
	"github.com/merkulovlad/orderflow/internal/health"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
	"github.com/merkulovlad/orderflow/internal/orderid"
)

// Handler holds the producer's dependencies, mirroring the teacher's
// Handler{Order, Logger} shape.
type Handler struct {
	Orders *service.Service
	Health *health.Reporter
	Logger logger.InterfaceLogger
}

// NewHandler builds a Handler.
func NewHandler(orders *service.Service, health *health.Reporter, log logger.InterfaceLogger) *Handler {
	return &Handler{Orders: orders, Health: health, Logger: log}
}

func (h *Handler) createOrderHandler(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "malformed request body")
	}

	order, err := h.Orders.CreateOrder(c.Context(), req)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *Handler) updateOrderHandler(c *fiber.Ctx) error {
	var req service.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badRequest(c, "malformed request body")
	}

	order, err := h.Orders.UpdateOrder(c.Context(), req)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(order)
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
	h.Logger.Warnf("cart server: bad request: %s", msg)
	return c.Status(fiber.StatusBadRequest).JSON(model.NewErrorResponse(fiber.StatusBadRequest, msg))
}

// writeDomainError maps the domain error taxonomy of spec.md §7 onto HTTP
// status codes via errors.Is, the same sentinel-error-checking idiom
// internal/cart/service.translatePublishError feeds into.
func (h *Handler) writeDomainError(c *fiber.Ctx, err error) error {
	h.Logger.Errorf("cart server: %v", err)

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, orderid.ErrEmpty), errors.Is(err, orderid.ErrNotHex):
		status = fiber.StatusBadRequest
	case errors.Is(err, model.ErrDuplicateOrder):
		status = fiber.StatusConflict
	case errors.Is(err, model.ErrOrderNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidTransition), errors.Is(err, model.ErrStatusConflict):
		status = fiber.StatusConflict
	case errors.Is(err, model.ErrCircuitOpen):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, model.ErrBrokerDown), errors.Is(err, model.ErrTopicNotFound), errors.Is(err, model.ErrPublishTimeout):
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(model.NewErrorResponse(status, err.Error()))
}
