// Package query implements QueryService (C10, spec.md §4.10): the
// consumer's read-only API over ProcessedOrderStore. Grounded on the
// teacher's order.Service.Get — but with the cache/singleflight/repository
// layers dropped, since ProcessedOrderStore already is the in-memory cache
// and there is no backing repository to deduplicate reads against.
package query

import (
	"github.com/merkulovlad/orderflow/internal/model"
	"github.com/merkulovlad/orderflow/internal/order/store"
	"github.com/merkulovlad/orderflow/internal/orderid"
)

// Service answers read-only queries against a consumer-local Store. Reads
// are non-blocking and unaffected by broker connectivity; they may return
// stale data when the consumer is disconnected, by design (spec.md §7).
type Service struct {
	store *store.Store
}

// New builds a Service over st.
func New(st *store.Store) *Service {
	return &Service{store: st}
}

// GetOrderDetails returns the ProcessedOrder for orderID (normalized first),
// or model.ErrOrderNotFound.
func (s *Service) GetOrderDetails(rawOrderID string) (model.ProcessedOrder, error) {
	id, err := orderid.Normalize(rawOrderID)
	if err != nil {
		return model.ProcessedOrder{}, err
	}
	order, ok := s.store.Get(id)
	if !ok {
		return model.ProcessedOrder{}, model.ErrOrderNotFound
	}
	return order, nil
}

// ListAllOrderIds returns a point-in-time snapshot of every known orderId.
func (s *Service) ListAllOrderIds() []string {
	return s.store.Keys()
}
