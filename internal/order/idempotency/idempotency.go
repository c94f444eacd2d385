// Package idempotency implements IdempotencyIndex (C5, spec.md §4.5): the
// per-orderId last-processed-offset map ConsumeEngine uses to detect broker
// redeliveries. Same sync.RWMutex + map idiom as the stores in
// internal/cart/store and internal/order/store.
package idempotency

import (
	"sync"
	"time"

	"github.com/merkulovlad/orderflow/internal/model"
)

// Index is safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	data map[string]model.ProcessedMessageInfo
}

// New builds an empty Index.
func New() *Index {
	return &Index{data: make(map[string]model.ProcessedMessageInfo)}
}

// AlreadyProcessed reports whether orderID has an entry whose offset is
// already >= offset — i.e. this exact delivery (or a later one) was already
// applied, so the caller should skip reprocessing and just commit.
func (i *Index) AlreadyProcessed(orderID string, offset int64) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	info, ok := i.data[orderID]
	return ok && info.Offset >= offset
}

// Record sets orderID's entry to offset, enforcing I6 (monotonicity): a lower
// offset never overwrites a higher one already recorded.
func (i *Index) Record(orderID string, offset int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if existing, ok := i.data[orderID]; ok && existing.Offset >= offset {
		return
	}
	i.data[orderID] = model.ProcessedMessageInfo{
		Offset:            offset,
		ProcessedAtMillis: time.Now().UnixMilli(),
	}
}

// Get returns the current ProcessedMessageInfo for orderID, if any. Exposed
// for tests and diagnostics.
func (i *Index) Get(orderID string) (model.ProcessedMessageInfo, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	info, ok := i.data[orderID]
	return info, ok
}
