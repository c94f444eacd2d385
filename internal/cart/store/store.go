// Package store implements OrderStore (C3, spec.md §4.3): the producer-local
// orderId -> Order map, with rollback handles for OrderService to invoke when
// PublishEngine signals a definitive failure (I7). Grounded on the teacher's
// internal/service/cache.Cache — same sync.RWMutex + map + logger shape —
// generalized from a bounded FIFO cache to an unbounded ownership map (I1:
// every orderId owns a single writable record for the life of the process,
// so nothing here ever evicts).
package store

import (
	"sync"

	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
)

// RollbackFunc undoes a single tentative write. It is idempotent-safe to call
// at most once; OrderService calls it only when PublishEngine reports a
// definitive failure.
type RollbackFunc func()

// Store is the producer-local OrderStore. Safe for concurrent use across
// distinct keys; per-key mutations are serialized by mu, the same choice the
// teacher's cache.go makes for its own map.
type Store struct {
	mu   sync.RWMutex
	data map[string]model.Order
	log  logger.InterfaceLogger
}

// New builds an empty Store.
func New(log logger.InterfaceLogger) *Store {
	return &Store{
		data: make(map[string]model.Order),
		log:  log,
	}
}

// Get returns the current Order for orderID, if any.
func (s *Store) Get(orderID string) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.data[orderID]
	return o, ok
}

// Readable satisfies health.StateChecker: a constructed Store is always
// readable, since it is a plain in-memory map with no external dependency.
func (s *Store) Readable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// CreateTentative inserts order under order.OrderID. It fails with
// ErrDuplicateOrder if the key is already present. On success it returns a
// RollbackFunc that removes the key, for OrderService to call if the
// subsequent publish fails definitively.
func (s *Store) CreateTentative(order model.Order) (RollbackFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[order.OrderID]; exists {
		return nil, model.ErrDuplicateOrder
	}

	s.data[order.OrderID] = order
	s.log.Infof("store: tentative create %s", order.OrderID)

	id := order.OrderID
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.data, id)
		s.log.Infof("store: rolled back create %s", id)
	}, nil
}

// UpdateTentative replaces the Order for order.OrderID. It fails with
// ErrOrderNotFound if the key is absent. On success it returns a
// RollbackFunc that restores the previous value.
func (s *Store) UpdateTentative(order model.Order) (RollbackFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.data[order.OrderID]
	if !exists {
		return nil, model.ErrOrderNotFound
	}

	s.data[order.OrderID] = order
	s.log.Infof("store: tentative update %s", order.OrderID)

	id := order.OrderID
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.data[id] = previous
		s.log.Infof("store: rolled back update %s", id)
	}, nil
}
