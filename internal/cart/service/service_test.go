package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/merkulovlad/orderflow/internal/cart/publish"
	"github.com/merkulovlad/orderflow/internal/cart/service"
	"github.com/merkulovlad/orderflow/internal/cart/store"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	err error
}

func (f *fakePublisher) Publish(ctx context.Context, orderID string, order model.Order) error {
	return f.err
}

func newService(pub *fakePublisher) (*service.Service, *store.Store) {
	st := store.New(logger.NewNop())
	return service.New(st, pub, logger.NewNop()), st
}

func TestCreateOrder_Success(t *testing.T) {
	svc, st := newService(&fakePublisher{})

	order, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		OrderID: "a1",
		Items:   []model.OrderItem{{ItemID: "sku-1", Quantity: 2, Price: 5}},
	})
	require.NoError(t, err)
	require.Equal(t, "ORD-00A1", order.OrderID)
	require.Equal(t, string(model.StatusNew), order.Status)
	require.Equal(t, 10.0, order.TotalAmount)

	stored, ok := st.Get("ORD-00A1")
	require.True(t, ok)
	require.Equal(t, order, stored)
}

func TestCreateOrder_DuplicateFails(t *testing.T) {
	svc, _ := newService(&fakePublisher{})
	req := service.CreateOrderRequest{OrderID: "a1", Items: []model.OrderItem{{ItemID: "x", Quantity: 1, Price: 1}}}

	_, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), req)
	require.ErrorIs(t, err, model.ErrDuplicateOrder)
}

func TestCreateOrder_InvalidIDFails(t *testing.T) {
	svc, _ := newService(&fakePublisher{})
	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		OrderID: "not-hex!",
		Items:   []model.OrderItem{{ItemID: "x", Quantity: 1, Price: 1}},
	})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestCreateOrder_PublishFailureRollsBack(t *testing.T) {
	svc, st := newService(&fakePublisher{err: &publish.Failure{Kind: publish.KindBrokerDown}})

	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		OrderID: "a1",
		Items:   []model.OrderItem{{ItemID: "x", Quantity: 1, Price: 1}},
	})
	require.ErrorIs(t, err, model.ErrBrokerDown)

	_, ok := st.Get("ORD-00A1")
	require.False(t, ok, "rollback must remove the tentative write")
}

func TestUpdateOrder_NotFound(t *testing.T) {
	svc, _ := newService(&fakePublisher{})
	_, err := svc.UpdateOrder(context.Background(), service.UpdateOrderRequest{OrderID: "a1", Status: "CONFIRMED"})
	require.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestUpdateOrder_SequentialProgression(t *testing.T) {
	svc, _ := newService(&fakePublisher{})
	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		OrderID: "a1",
		Items:   []model.OrderItem{{ItemID: "x", Quantity: 1, Price: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrder(context.Background(), service.UpdateOrderRequest{OrderID: "a1", Status: "COMPLETED"})
	require.ErrorIs(t, err, model.ErrInvalidTransition)

	order, err := svc.UpdateOrder(context.Background(), service.UpdateOrderRequest{OrderID: "a1", Status: "CONFIRMED"})
	require.NoError(t, err)
	require.Equal(t, "CONFIRMED", order.Status)
}

func TestUpdateOrder_SameStatusIsConflict(t *testing.T) {
	svc, _ := newService(&fakePublisher{})
	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		OrderID: "a1",
		Items:   []model.OrderItem{{ItemID: "x", Quantity: 1, Price: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrder(context.Background(), service.UpdateOrderRequest{OrderID: "a1", Status: "NEW"})
	require.ErrorIs(t, err, model.ErrStatusConflict)
}

func TestUpdateOrder_CancelFromNonTerminal(t *testing.T) {
	svc, _ := newService(&fakePublisher{})
	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		OrderID: "a1",
		Items:   []model.OrderItem{{ItemID: "x", Quantity: 1, Price: 1}},
	})
	require.NoError(t, err)

	order, err := svc.UpdateOrder(context.Background(), service.UpdateOrderRequest{OrderID: "a1", Status: "CANCELED"})
	require.NoError(t, err)
	require.Equal(t, "CANCELED", order.Status)

	_, err = svc.UpdateOrder(context.Background(), service.UpdateOrderRequest{OrderID: "a1", Status: "DISPATCHED"})
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestUpdateOrder_PublishFailureRollsBackToPrevious(t *testing.T) {
	pub := &fakePublisher{}
	svc, st := newService(pub)
	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		OrderID: "a1",
		Items:   []model.OrderItem{{ItemID: "x", Quantity: 1, Price: 1}},
	})
	require.NoError(t, err)

	pub.err = errors.New("unexpected write error")
	_, err = svc.UpdateOrder(context.Background(), service.UpdateOrderRequest{OrderID: "a1", Status: "CONFIRMED"})
	require.ErrorIs(t, err, model.ErrUnexpected)

	order, ok := st.Get("ORD-00A1")
	require.True(t, ok)
	require.Equal(t, string(model.StatusNew), order.Status)
}
