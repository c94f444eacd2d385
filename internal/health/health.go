// Package health implements HealthReporter (C11, spec.md §4.11): liveness
// and readiness synthesis shared by both services. Grounded on the
// teacher's server/routes.go "/healthz" endpoint, generalized from a single
// always-ok check into the liveness/readiness split spec.md requires.
package health

import (
	"context"

	"github.com/merkulovlad/orderflow/internal/broker"
)

// StateChecker reports whether the local in-memory store is readable. Both
// cart/store.Store and order/store.Store satisfy this trivially (an
// in-memory map is always readable once constructed), but the interface
// exists so HealthReporter stays decoupled from which store it's wired to.
type StateChecker interface {
	Readable() bool
}

// BrokerProbe is the narrow surface HealthReporter needs from
// ConnectivityMonitor: a synchronous fresh probe (spec.md §4.11: "broker:
// ConnectivityMonitor.pingNow() + flags") plus the flags it leaves behind.
type BrokerProbe interface {
	PingNow(ctx context.Context) broker.FaultKind
	BrokerConnected() bool
	TopicReady() bool
}

// Reporter synthesizes liveness/readiness from a BrokerProbe and a
// StateChecker.
type Reporter struct {
	broker BrokerProbe
	state  StateChecker
}

// New builds a Reporter.
func New(brokerProbe BrokerProbe, state StateChecker) *Reporter {
	return &Reporter{broker: brokerProbe, state: state}
}

// Liveness always reports UP: liveness ignores broker status and only
// confirms the process itself is responsive (spec.md §4.11).
func (r *Reporter) Liveness() bool {
	return true
}

// Readiness reports UP iff the state store is readable and the broker
// reports UP or DEGRADED (reachable but topic momentarily not ready).
// Broker DOWN (unreachable) makes readiness DOWN, per spec.md §4.11.
func (r *Reporter) Readiness(ctx context.Context) bool {
	r.broker.PingNow(ctx)

	if !r.state.Readable() {
		return false
	}
	return r.broker.BrokerConnected()
}
