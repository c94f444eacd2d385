// Package store implements ProcessedOrderStore (C4, spec.md §4.4): the
// consumer-local orderId -> ProcessedOrder map. Grounded on the same
// sync.RWMutex + map + logger idiom as the teacher's internal/service/cache.Cache
// and internal/cart/store.Store; unbounded, like its producer-side sibling,
// since I1 forbids evicting a live order's only record.
package store

import (
	"sync"

	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
)

// Store is the consumer-local ProcessedOrderStore. Operations are atomic per
// key: readers observe either the pre- or post-update value, never torn state.
type Store struct {
	mu   sync.RWMutex
	data map[string]model.ProcessedOrder
	log  logger.InterfaceLogger
}

// New builds an empty Store.
func New(log logger.InterfaceLogger) *Store {
	return &Store{
		data: make(map[string]model.ProcessedOrder),
		log:  log,
	}
}

// Get returns the ProcessedOrder for orderID, if any.
func (s *Store) Get(orderID string) (model.ProcessedOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[orderID]
	return p, ok
}

// Set atomically writes (or overwrites) the ProcessedOrder for orderID.
func (s *Store) Set(orderID string, processed model.ProcessedOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[orderID] = processed
	s.log.Infof("store: processed order %s status=%s", orderID, processed.Order.Status)
}

// Readable satisfies health.StateChecker: a constructed Store is always
// readable, since it is a plain in-memory map with no external dependency.
func (s *Store) Readable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// Keys returns a point-in-time snapshot of every orderId currently held, for
// QueryService.ListAllOrderIds.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
