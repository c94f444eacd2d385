// Package broker holds what both the producer and the consumer need from the
// Kafka-compatible broker contract (spec.md §6) but that isn't specific to
// either side's engine: the failure-record/DLT header contract (spec.md §3)
// and the two-pass BROKER_DOWN-vs-TOPIC_NOT_FOUND fault classification shared
// by ConnectivityMonitor (§4.6) and PublishEngine (§4.7).
package broker

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/merkulovlad/orderflow/internal/model"
	kafka "github.com/segmentio/kafka-go"
)

// FaultKind is the result of classifying a broker-facing error.
type FaultKind string

const (
	FaultNone           FaultKind = ""
	FaultBrokerDown     FaultKind = "BROKER_DOWN"
	FaultTopicNotFound  FaultKind = "TOPIC_NOT_FOUND"
)

// Classify applies the two-pass discipline of spec.md §4.6: first check for a
// transport-level condition (timeout, connection refused, dial/metadata
// failure) and report BROKER_DOWN; only if that doesn't match, check
// specifically for "unknown topic or partition" and report TOPIC_NOT_FOUND.
// Any other error defaults to BROKER_DOWN — an unclassified failure talking to
// the broker is safer to treat as an outage than as a configuration problem,
// which is the whole point of running the passes in this order.
func Classify(err error) FaultKind {
	if err == nil {
		return FaultNone
	}

	// kafka.Error implements Timeout/Temporary and so satisfies net.Error;
	// broker protocol errors are excluded here so they reach the second pass.
	var kafkaErr kafka.Error
	isKafkaErr := errors.As(err, &kafkaErr)
	var netErr net.Error
	if !isKafkaErr && errors.As(err, &netErr) {
		return FaultBrokerDown
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FaultBrokerDown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FaultBrokerDown
	}

	if errors.Is(err, kafka.UnknownTopicOrPartition) {
		return FaultTopicNotFound
	}

	return FaultBrokerDown
}

// Headers builds the spec.md §3 metadata header set for a failure record.
// partition/offset are consumer-only fields (spec.md §3: "original-offset
// (consumer only)"); pass -1 from the producer side to omit them.
type HeaderParams struct {
	OriginalTopic     string
	OriginalPartition int
	OriginalOffset    int64
	OriginalTimestamp time.Time
	ExceptionClass    string
	ExceptionMessage  string
	ExceptionStack    string
	CorrelationID     string
}

// Headers renders HeaderParams into the string-keyed map FailureRecord and the
// kafka.Header slice builders both use.
func Headers(p HeaderParams) map[string]string {
	h := map[string]string{
		model.HeaderOriginalTopic:    p.OriginalTopic,
		model.HeaderOriginalTimestamp: p.OriginalTimestamp.UTC().Format(time.RFC3339Nano),
		model.HeaderExceptionClass:    p.ExceptionClass,
		model.HeaderExceptionMessage:  p.ExceptionMessage,
		model.HeaderExceptionStack:    p.ExceptionStack,
		model.HeaderFailedAt:          time.Now().UTC().Format(time.RFC3339Nano),
	}
	if p.OriginalPartition >= 0 {
		h[model.HeaderOriginalPartition] = strconv.Itoa(p.OriginalPartition)
	}
	if p.OriginalOffset >= 0 {
		h[model.HeaderOriginalOffset] = strconv.FormatInt(p.OriginalOffset, 10)
	}
	if p.CorrelationID != "" {
		h[model.HeaderCorrelationID] = p.CorrelationID
	}
	return h
}

// KafkaHeaders converts a header map into kafka.Header slice form, preserving
// the original message's existing headers (e.g. in the consumer's DLT path,
// which must not mutate the original payload, only append diagnostics).
func KafkaHeaders(existing []kafka.Header, add map[string]string) []kafka.Header {
	out := append([]kafka.Header(nil), existing...)
	for k, v := range add {
		out = append(out, kafka.Header{Key: k, Value: []byte(v)})
	}
	return out
}

// DialProbe opens a short-lived connection to the first reachable broker in
// addrs and verifies that topic exists with every partition assigned a
// leader, per spec.md §4.6 step 1. It returns the classified fault (FaultNone
// on success).
func DialProbe(ctx context.Context, addrs []string, topic string) FaultKind {
	if len(addrs) == 0 {
		return FaultBrokerDown
	}

	var lastErr error
	for _, addr := range addrs {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		partitions, err := conn.ReadPartitions(topic)
		closeErr := conn.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if closeErr != nil {
			lastErr = closeErr
		}
		if len(partitions) == 0 {
			lastErr = kafka.UnknownTopicOrPartition
			continue
		}
		leaderless := false
		for _, p := range partitions {
			if p.Leader.ID == 0 && p.Leader.Host == "" {
				leaderless = true
				break
			}
		}
		if leaderless {
			lastErr = errors.New("broker: partition has no leader")
			continue
		}
		return FaultNone
	}

	return Classify(lastErr)
}
