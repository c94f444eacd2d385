// Package consume implements ConsumeEngine (C8, spec.md §4.8): the
// consumer's poll loop with manual offset commits, dual-layer idempotency,
// sequencing enforcement, and a retry-with-DLT wrapper around the per-message
// pipeline. Grounded on the teacher's internal/kafka.Consumer (Run loop,
// sendToDLQ, validate-then-delegate shape), generalized from auto-commit
// ReadMessage to manual FetchMessage/CommitMessages and from single-pass
// validation to the full pipeline of spec.md §4.8.
package consume

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/merkulovlad/orderflow/internal/broker"
	"github.com/merkulovlad/orderflow/internal/config"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
	"github.com/merkulovlad/orderflow/internal/order/idempotency"
	"github.com/merkulovlad/orderflow/internal/order/store"
	"github.com/merkulovlad/orderflow/internal/orderid"
	"github.com/merkulovlad/orderflow/internal/retry"
	"github.com/merkulovlad/orderflow/internal/shipping"
	"github.com/merkulovlad/orderflow/internal/statusmachine"
	kafka "github.com/segmentio/kafka-go"
)

// State is the engine's own lifecycle state, spec.md §4.8.
type State string

const (
	StateStopped  State = "STOPPED"
	StateStarting State = "STARTING"
	StateRunning  State = "RUNNING"
	StateStopping State = "STOPPING"
)

// Reader is the subset of *kafka.Reader the engine needs, narrowed for
// manual-commit polling.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Writer is the DLT publish side; identical shape to publish.Writer but kept
// local so this package has no dependency on the producer's package.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Engine drives the poll loop. It implements connectivity.Listener so a
// ConnectivityMonitor can start/stop it as broker health changes.
type Engine struct {
	reader Reader
	dlt    Writer
	idx    *idempotency.Index
	store  *store.Store
	cfg    config.ConsumeConfig
	log    logger.InterfaceLogger
	topic  string

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds an Engine in the STOPPED state.
func New(reader Reader, dlt Writer, idx *idempotency.Index, st *store.Store, cfg config.ConsumeConfig, topic string, log logger.InterfaceLogger) *Engine {
	return &Engine{
		reader: reader,
		dlt:    dlt,
		idx:    idx,
		store:  st,
		cfg:    cfg,
		topic:  topic,
		log:    log,
		state:  StateStopped,
	}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins polling if not already running. Idempotent: a Start on an
// already-running engine is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.state == StateRunning || e.state == StateStarting {
		e.mu.Unlock()
		return
	}
	e.state = StateStarting
	loopCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	e.mu.Unlock()

	go e.run(loopCtx)
}

// Stop drains the in-flight message (if any) and halts polling. Idempotent:
// a Stop on an already-stopped engine is a no-op.
func (e *Engine) Stop(ctx context.Context) {
	e.mu.Lock()
	if e.state == StateStopped || e.state == StateStopping {
		e.mu.Unlock()
		return
	}
	e.state = StateStopping
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	e.mu.Lock()
	e.state = StateStopped
	e.mu.Unlock()
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	e.mu.Lock()
	e.state = StateRunning
	e.mu.Unlock()

	for {
		if ctx.Err() != nil {
			return
		}
		msg, err := e.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			e.log.Errorf("consume: fetch error: %v", err)
			continue
		}

		e.handle(msg)
	}
}

// handle runs the full pipeline of spec.md §4.8 for a single fetched message,
// committing the offset on every definitive outcome (success, duplicate
// skip, sequencing rejection, or DLT recovery).
func (e *Engine) handle(msg kafka.Message) {
	var order model.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		e.log.Errorf("consume: poison pill, orderId key=%s: %v", string(msg.Key), err)
		e.recoverToDLT(msg, "deserialize", err)
		e.commit(msg)
		return
	}

	id, err := orderid.Normalize(order.OrderID)
	if err != nil {
		e.log.Errorf("consume: poison pill, invalid orderId %q: %v", order.OrderID, err)
		e.recoverToDLT(msg, "invalid-order-id", err)
		e.commit(msg)
		return
	}
	order.OrderID = id

	if string(msg.Key) != id {
		e.log.Warnf("consume: key mismatch orderId=%s key=%s", id, string(msg.Key))
	}

	retryCfg := retry.Config{
		MaxAttempts:  e.cfg.RetryMaxAttempts,
		InitialDelay: e.cfg.RetryInitialDelay,
		Multiplier:   e.cfg.RetryMultiplier,
		MaxDelay:     e.cfg.RetryMaxDelay,
	}

	processErr := retry.Do(context.Background(), retryCfg, func(attemptCtx context.Context) error {
		return e.processOnce(attemptCtx, id, order, msg.Offset)
	})

	if processErr != nil {
		e.log.Errorf("consume: processing failed after retries orderId=%s: %v", id, processErr)
		e.recoverToDLT(msg, "processing-exception", processErr)
	}

	e.commit(msg)
}

// processOnce implements pipeline steps 3-9 of spec.md §4.8. It returns nil
// on every definitive (including duplicate-skip and sequencing-rejection)
// outcome; only an unexpected internal error is retried by the caller.
func (e *Engine) processOnce(_ context.Context, id string, order model.Order, offset int64) error {
	if e.idx.AlreadyProcessed(id, offset) {
		e.log.Infof("consume: offset already processed orderId=%s offset=%d", id, offset)
		return nil
	}

	current, exists := e.store.Get(id)

	var currentStatus *string
	if exists {
		currentStatus = &current.Order.Status
		if current.Order.Status == string(model.NormalizeStatus(order.Status)) {
			e.log.Infof("consume: duplicate status orderId=%s status=%s", id, order.Status)
			e.idx.Record(id, offset)
			return nil
		}
	}

	if !statusmachine.IsValidTransition(currentStatus, order.Status) {
		e.log.Warnf("consume: invalid transition orderId=%s current=%v next=%s", id, currentStatus, order.Status)
		e.idx.Record(id, offset)
		return nil
	}

	order.Status = string(model.NormalizeStatus(order.Status))
	processed := model.ProcessedOrder{
		Order:        order,
		ShippingCost: shipping.Cost(order),
	}
	e.store.Set(id, processed)
	e.idx.Record(id, offset)
	return nil
}

func (e *Engine) commit(msg kafka.Message) {
	commitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.reader.CommitMessages(commitCtx, msg); err != nil {
		e.log.Errorf("consume: commit failed offset=%d: %v", msg.Offset, err)
	}
}

// recoverToDLT publishes the original message, unchanged, to ORDERS.DLT with
// failure metadata headers (spec.md §4.8 dead-letter recovery).
func (e *Engine) recoverToDLT(msg kafka.Message, reason string, cause error) {
	headers := broker.Headers(broker.HeaderParams{
		OriginalTopic:     e.topic,
		OriginalPartition: msg.Partition,
		OriginalOffset:    msg.Offset,
		OriginalTimestamp: msg.Time,
		ExceptionClass:    reason,
		ExceptionMessage:  errText(cause),
		CorrelationID:     uuid.NewString(),
	})

	dltCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dltMsg := kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: broker.KafkaHeaders(msg.Headers, headers),
	}
	if err := e.dlt.WriteMessages(dltCtx, dltMsg); err != nil {
		record := model.FailureRecord{Key: string(msg.Key), Payload: msg.Value, Headers: headers}
		encoded, marshalErr := json.Marshal(record)
		if marshalErr != nil {
			e.log.Errorf("consume: DLT publish failed and failure record could not be encoded: %v", err)
			return
		}
		e.log.Errorf("consume: DLT publish failed, record=%s err=%v", encoded, err)
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
