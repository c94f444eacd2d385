// Package publish implements PublishEngine (C7, spec.md §4.7): the
// producer's synchronous, key-preserving publish with bounded retry, a
// circuit breaker, DLT publish, and a file fallback sink. Grounded on the
// teacher's kafka.Writer construction (internal/kafka and cmd/main.go use
// segmentio/kafka-go the same way) plus internal/circuitbreaker and
// internal/retry for the resilience wrapper.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/merkulovlad/orderflow/internal/broker"
	"github.com/merkulovlad/orderflow/internal/circuitbreaker"
	"github.com/merkulovlad/orderflow/internal/config"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/model"
	"github.com/merkulovlad/orderflow/internal/retry"
	kafka "github.com/segmentio/kafka-go"
)

// Kind enumerates the definitive publish failure kinds of spec.md §4.7.
type Kind string

const (
	KindBrokerDown    Kind = "BROKER_DOWN"
	KindTopicNotFound Kind = "TOPIC_NOT_FOUND"
	KindCircuitOpen   Kind = "CIRCUIT_OPEN"
	KindTimeout       Kind = "TIMEOUT"
	KindSerialization Kind = "SERIALIZATION"
	KindInterrupted   Kind = "INTERRUPTED"
	KindUnexpected    Kind = "UNEXPECTED"
)

// Failure is the error type Publish returns on anything but a broker Ack.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("publish: %s", f.Kind)
	}
	return fmt.Sprintf("publish: %s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Writer is the subset of *kafka.Writer the engine needs; satisfied directly
// by *kafka.Writer and by test doubles.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Engine is the producer-local PublishEngine. One Engine instance is shared
// by every HTTP handler goroutine.
type Engine struct {
	cfg     config.PublishConfig
	writer  Writer
	dlt     Writer
	breaker *circuitbreaker.Breaker
	log     logger.InterfaceLogger

	keysMu sync.Mutex
	keys   map[string]*sync.Mutex

	fileMu sync.Mutex
}

// New builds an Engine. writer publishes to ORDERS, dlt publishes to
// ORDERS.DLT; both are normally *kafka.Writer instances built by the caller
// (see cmd/cartservice) with RequiredAcks: kafka.RequireAll and Async: false,
// which is the closest kafka-go equivalent of the idempotent,
// max-in-flight-per-connection=1 durability profile spec.md §4.7 requires —
// kafka-go exposes neither knob directly, so per-key synchronous writes
// (below) plus RequireAll stand in for them.
func New(cfg config.PublishConfig, writer, dlt Writer, log logger.InterfaceLogger) *Engine {
	return &Engine{
		cfg:    cfg,
		writer: writer,
		dlt:    dlt,
		breaker: circuitbreaker.New(circuitbreaker.Config{
			WindowSize:       cfg.BreakerWindowSize,
			FailureThreshold: cfg.BreakerFailureThreshold,
			OpenDuration:     cfg.BreakerOpenDuration,
			HalfOpenProbes:   cfg.BreakerHalfOpenProbes,
		}),
		log:  log,
		keys: make(map[string]*sync.Mutex),
	}
}

// lockKey serializes every Publish call for the same orderId, approximating
// kafka-go's missing max-in-flight-requests-per-connection=1 knob: as long
// as this process is the only writer for a key, per-key calls reach the
// broker one at a time and in caller order.
func (e *Engine) lockKey(orderID string) func() {
	e.keysMu.Lock()
	mu, ok := e.keys[orderID]
	if !ok {
		mu = &sync.Mutex{}
		e.keys[orderID] = mu
	}
	e.keysMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Publish delivers order under key orderID, returning nil on Ack or a
// *Failure describing the definitive outcome. The broker write, retries
// included, is bounded by cfg.DeliveryTimeout inside cfg.APITimeout. Waiting
// for an earlier Publish of the same orderID to release the per-key lock, and
// the DLT write after a failure (bounded by cfg.RequestTimeout), are not
// counted against cfg.APITimeout.
func (e *Engine) Publish(ctx context.Context, orderID string, order model.Order) error {
	unlock := e.lockKey(orderID)
	defer unlock()

	apiCtx, cancel := context.WithTimeout(ctx, e.cfg.APITimeout)
	defer cancel()

	payload, err := json.Marshal(order)
	if err != nil {
		return &Failure{Kind: KindSerialization, Err: err}
	}

	if !e.breaker.Allow() {
		e.log.Warnf("publish: circuit open, orderId=%s", orderID)
		headers := broker.Headers(broker.HeaderParams{
			OriginalPartition: -1,
			OriginalOffset:    -1,
			ExceptionClass:    string(KindCircuitOpen),
			ExceptionMessage:  circuitbreaker.ErrOpen.Error(),
			CorrelationID:     uuid.NewString(),
		})
		e.fallbackFile(KindCircuitOpen, orderID, payload, headers)
		return &Failure{Kind: KindCircuitOpen}
	}

	msg := kafka.Message{Key: []byte(orderID), Value: payload, Time: time.Now()}

	deliveryCtx, deliveryCancel := context.WithTimeout(apiCtx, e.cfg.DeliveryTimeout)
	defer deliveryCancel()

	writeErr := retry.Do(deliveryCtx, retry.Config{
		MaxAttempts:  20,
		InitialDelay: e.cfg.RetryInitialDelay,
		Multiplier:   2,
		MaxDelay:     e.cfg.DeliveryTimeout,
	}, func(attemptCtx context.Context) error {
		reqCtx, reqCancel := context.WithTimeout(attemptCtx, e.cfg.RequestTimeout)
		defer reqCancel()
		return e.writer.WriteMessages(reqCtx, msg)
	})

	if writeErr == nil {
		e.breaker.Report(true)
		return nil
	}

	e.breaker.Report(false)

	kind := e.classify(writeErr, apiCtx)
	e.log.Errorf("publish: failed orderId=%s kind=%s err=%v", orderID, kind, writeErr)

	e.fallbackDLT(kind, orderID, msg, writeErr)
	return &Failure{Kind: kind, Err: writeErr}
}

func (e *Engine) classify(err error, apiCtx context.Context) Kind {
	if errors.Is(err, context.Canceled) {
		return KindInterrupted
	}
	if apiCtx.Err() != nil {
		return KindTimeout
	}
	switch broker.Classify(err) {
	case broker.FaultTopicNotFound:
		return KindTopicNotFound
	case broker.FaultBrokerDown:
		return KindBrokerDown
	default:
		return KindUnexpected
	}
}

// fallbackDLT is the primary fallback path: publish the original payload,
// unchanged, to ORDERS.DLT with failure metadata headers. Falls through to
// the file sink if the DLT publish itself fails.
func (e *Engine) fallbackDLT(kind Kind, orderID string, original kafka.Message, cause error) {
	headers := broker.Headers(broker.HeaderParams{
		OriginalPartition: -1,
		OriginalOffset:    -1,
		OriginalTimestamp: original.Time,
		ExceptionClass:    string(kind),
		ExceptionMessage:  errMessage(cause),
		CorrelationID:     uuid.NewString(),
	})

	dltCtx, cancel := context.WithTimeout(context.Background(), e.cfg.RequestTimeout)
	defer cancel()

	dltMsg := kafka.Message{
		Key:     original.Key,
		Value:   original.Value,
		Headers: broker.KafkaHeaders(original.Headers, headers),
		Time:    time.Now(),
	}

	if err := e.dlt.WriteMessages(dltCtx, dltMsg); err != nil {
		e.log.Errorf("publish: DLT fallback failed orderId=%s err=%v", orderID, err)
		e.fallbackFile(kind, orderID, original.Value, headers)
	}
}

// fallbackFile is the secondary fallback: a local append-only failure log,
// used when the circuit is open (DLT is skipped entirely) or the DLT publish
// itself failed. Each line has the form
// "FAILED | kind=<kind> | orderId=<id> | record=<json>", where <json> is a
// JSON-encoded model.FailureRecord carrying the same key/payload/headers as
// the DLT message would.
func (e *Engine) fallbackFile(kind Kind, orderID string, payload []byte, headers map[string]string) {
	e.fileMu.Lock()
	defer e.fileMu.Unlock()

	path := e.cfg.FailureLogPath
	if path == "" {
		path = "publish-failures.log"
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		e.log.Errorf("publish: failure log open error: %v", err)
		return
	}
	defer f.Close()

	record := model.FailureRecord{Key: orderID, Payload: payload, Headers: headers}
	encoded, err := json.Marshal(record)
	if err != nil {
		e.log.Errorf("publish: failure record encode error: %v", err)
		return
	}

	line := fmt.Sprintf("FAILED | kind=%s | orderId=%s | record=%s\n", kind, orderID, encoded)
	if _, err := f.WriteString(line); err != nil {
		e.log.Errorf("publish: failure log write error: %v", err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
