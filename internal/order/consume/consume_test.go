package consume_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/merkulovlad/orderflow/internal/config"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
	"github.com/merkulovlad/orderflow/internal/order/consume"
	"github.com/merkulovlad/orderflow/internal/order/idempotency"
	"github.com/merkulovlad/orderflow/internal/order/store"
	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	pos       int
	committed []kafka.Message
	block     chan struct{}
}

func newFakeReader(messages []kafka.Message) *fakeReader {
	return &fakeReader{messages: messages, block: make(chan struct{})}
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if f.pos < len(f.messages) {
		m := f.messages[f.pos]
		f.pos++
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()

	select {
	case <-f.block:
		return kafka.Message{}, context.Canceled
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error { return nil }

func (f *fakeReader) committedOffsets() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	offsets := make([]int64, len(f.committed))
	for i, m := range f.committed {
		offsets[i] = m.Offset
	}
	return offsets
}

type fakeDLT struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (f *fakeDLT) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeDLT) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func consumeCfg() config.ConsumeConfig {
	return config.ConsumeConfig{
		RetryInitialDelay: time.Millisecond,
		RetryMultiplier:   2,
		RetryMaxDelay:     5 * time.Millisecond,
		RetryMaxAttempts:  3,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func newOrderMessage(offset int64, orderID, status string) kafka.Message {
	order := model.Order{OrderID: orderID, Status: status, TotalAmount: 100}
	payload, _ := json.Marshal(order)
	return kafka.Message{Key: []byte(orderID), Value: payload, Offset: offset}
}

func TestEngine_HappyPathWritesStoreAndCommits(t *testing.T) {
	reader := newFakeReader([]kafka.Message{newOrderMessage(1, "ORD-0001", "NEW")})
	dlt := &fakeDLT{}
	idx := idempotency.New()
	st := store.New(logger.NewNop())

	e := consume.New(reader, dlt, idx, st, consumeCfg(), "ORDERS", logger.NewNop())
	e.Start(context.Background())
	defer e.Stop(context.Background())

	waitFor(t, func() bool {
		_, ok := st.Get("ORD-0001")
		return ok
	})

	processed, ok := st.Get("ORD-0001")
	require.True(t, ok)
	require.Equal(t, "NEW", processed.Order.Status)
	require.Equal(t, 2.0, processed.ShippingCost)

	waitFor(t, func() bool { return len(reader.committedOffsets()) == 1 })
	require.Equal(t, int64(1), reader.committedOffsets()[0])
}

func TestEngine_PoisonPillGoesToDLTAndCommits(t *testing.T) {
	reader := newFakeReader([]kafka.Message{{Key: []byte("x"), Value: []byte("not-json"), Offset: 1}})
	dlt := &fakeDLT{}
	idx := idempotency.New()
	st := store.New(logger.NewNop())

	e := consume.New(reader, dlt, idx, st, consumeCfg(), "ORDERS", logger.NewNop())
	e.Start(context.Background())
	defer e.Stop(context.Background())

	waitFor(t, func() bool { return dlt.count() == 1 })
	waitFor(t, func() bool { return len(reader.committedOffsets()) == 1 })
}

func TestEngine_InvalidTransitionCommitsWithoutWrite(t *testing.T) {
	reader := newFakeReader([]kafka.Message{
		newOrderMessage(1, "ORD-0001", "NEW"),
		newOrderMessage(2, "ORD-0001", "COMPLETED"), // skips CONFIRMED/DISPATCHED
	})
	dlt := &fakeDLT{}
	idx := idempotency.New()
	st := store.New(logger.NewNop())

	e := consume.New(reader, dlt, idx, st, consumeCfg(), "ORDERS", logger.NewNop())
	e.Start(context.Background())
	defer e.Stop(context.Background())

	waitFor(t, func() bool { return len(reader.committedOffsets()) == 2 })

	processed, ok := st.Get("ORD-0001")
	require.True(t, ok)
	require.Equal(t, "NEW", processed.Order.Status, "invalid transition must not overwrite the store")
}

func TestEngine_RedeliveredOffsetIsIdempotent(t *testing.T) {
	reader := newFakeReader([]kafka.Message{
		newOrderMessage(1, "ORD-0001", "NEW"),
		newOrderMessage(1, "ORD-0001", "NEW"), // exact redelivery, same offset
	})
	dlt := &fakeDLT{}
	idx := idempotency.New()
	st := store.New(logger.NewNop())

	e := consume.New(reader, dlt, idx, st, consumeCfg(), "ORDERS", logger.NewNop())
	e.Start(context.Background())
	defer e.Stop(context.Background())

	waitFor(t, func() bool { return len(reader.committedOffsets()) == 2 })

	info, ok := idx.Get("ORD-0001")
	require.True(t, ok)
	require.EqualValues(t, 1, info.Offset)
}

func TestEngine_StartIsIdempotent(t *testing.T) {
	reader := newFakeReader(nil)
	dlt := &fakeDLT{}
	idx := idempotency.New()
	st := store.New(logger.NewNop())

	e := consume.New(reader, dlt, idx, st, consumeCfg(), "ORDERS", logger.NewNop())
	e.Start(context.Background())
	e.Start(context.Background())
	waitFor(t, func() bool { return e.State() == consume.StateRunning })
	e.Stop(context.Background())
	require.Equal(t, consume.StateStopped, e.State())
}
