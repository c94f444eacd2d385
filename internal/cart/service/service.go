// Package service implements OrderService (C9, spec.md §4.9): the producer
// orchestrator that ties normalization, StatusMachine, OrderStore, and
// PublishEngine into the "save -> publish -> commit-or-rollback" pattern
// enforcing I7 on the producer side. Grounded on the teacher's
// internal/service/order.Service, which plays the same coordinator role
// over its own store/repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/merkulovlad/orderflow/internal/cart/publish"
	"github.com/merkulovlad/orderflow/internal/cart/store"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
	"github.com/merkulovlad/orderflow/internal/orderid"
	"github.com/merkulovlad/orderflow/internal/statusmachine"
)

// CreateOrderRequest is the decoded body of POST /create-order.
type CreateOrderRequest struct {
	OrderID    string             `json:"orderId"`
	CustomerID string             `json:"customerId"`
	Items      []model.OrderItem  `json:"items"`
	Currency   string             `json:"currency"`
}

// UpdateOrderRequest is the decoded body of PUT /update-order.
type UpdateOrderRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Publisher is the subset of PublishEngine OrderService needs; narrowed to
// an interface so tests can substitute a fake without a real kafka.Writer.
type Publisher interface {
	Publish(ctx context.Context, orderID string, order model.Order) error
}

// Service is the producer orchestrator.
type Service struct {
	store     *store.Store
	publisher Publisher
	log       logger.InterfaceLogger
}

// New builds a Service.
func New(st *store.Store, publisher Publisher, log logger.InterfaceLogger) *Service {
	return &Service{store: st, publisher: publisher, log: log}
}

// CreateOrder implements spec.md §4.9 createOrder.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (model.Order, error) {
	id, err := orderid.Normalize(req.OrderID)
	if err != nil {
		return model.Order{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	if err := validateItems(req.Items); err != nil {
		return model.Order{}, err
	}

	order := model.Order{
		OrderID:     id,
		CustomerID:  req.CustomerID,
		OrderDate:   time.Now().UTC(),
		Items:       req.Items,
		TotalAmount: model.TotalFromItems(req.Items),
		Currency:    req.Currency,
		Status:      string(model.StatusNew),
	}
	if order.Currency == "" {
		order.Currency = "USD"
	}
	if order.CustomerID == "" {
		order.CustomerID = id
	}

	rollback, err := s.store.CreateTentative(order)
	if err != nil {
		return model.Order{}, err
	}

	if err := s.publisher.Publish(ctx, id, order); err != nil {
		rollback()
		return model.Order{}, translatePublishError(err)
	}

	return order, nil
}

// UpdateOrder implements spec.md §4.9 updateOrder.
func (s *Service) UpdateOrder(ctx context.Context, req UpdateOrderRequest) (model.Order, error) {
	id, err := orderid.Normalize(req.OrderID)
	if err != nil {
		return model.Order{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	if !model.IsKnownStatus(req.Status) {
		return model.Order{}, fmt.Errorf("%w: unknown status %q", model.ErrValidation, req.Status)
	}

	current, ok := s.store.Get(id)
	if !ok {
		return model.Order{}, model.ErrOrderNotFound
	}

	if !statusmachine.IsValidTransition(&current.Status, req.Status) {
		if rank, known := model.Rank(current.Status); known {
			if nextRank, nok := model.Rank(req.Status); nok && nextRank == rank {
				return model.Order{}, model.ErrStatusConflict
			}
		}
		return model.Order{}, model.ErrInvalidTransition
	}

	next := current.WithStatus(string(model.NormalizeStatus(req.Status)))

	rollback, err := s.store.UpdateTentative(next)
	if err != nil {
		return model.Order{}, err
	}

	if err := s.publisher.Publish(ctx, id, next); err != nil {
		rollback()
		return model.Order{}, translatePublishError(err)
	}

	return next, nil
}

func validateItems(items []model.OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items must not be empty", model.ErrValidation)
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", model.ErrValidation)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: price must be non-negative", model.ErrValidation)
		}
	}
	return nil
}

// translatePublishError maps a *publish.Failure onto the domain error
// taxonomy of spec.md §7 so the HTTP layer can status-code it with errors.Is.
func translatePublishError(err error) error {
	var failure *publish.Failure
	if !errors.As(err, &failure) {
		return fmt.Errorf("%w: %v", model.ErrUnexpected, err)
	}

	switch failure.Kind {
	case publish.KindCircuitOpen:
		return model.ErrCircuitOpen
	case publish.KindBrokerDown:
		return model.ErrBrokerDown
	case publish.KindTopicNotFound:
		return model.ErrTopicNotFound
	case publish.KindTimeout, publish.KindInterrupted:
		return model.ErrPublishTimeout
	default:
		return fmt.Errorf("%w: %v", model.ErrUnexpected, failure)
	}
}
