// Package connectivity implements ConnectivityMonitor (C6, spec.md §4.6): a
// background probe of broker + topic readiness with adaptive exponential
// backoff, shared by both services. On the consumer it also drives the
// ConsumeEngine's start/stop lifecycle; on the producer it simply feeds
// HealthReporter.
package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/merkulovlad/orderflow/internal/broker"
	"github.com/merkulovlad/orderflow/internal/logger"
)

// State names the monitor's own lifecycle state, spec.md §4.6.
type State string

const (
	StateDisconnected State = "DISCONNECTED"
	StateConnecting   State = "CONNECTING"
	StateConnected    State = "CONNECTED"
	StateMonitoring   State = "MONITORING"
)

// Listener receives start/stop callbacks when the monitor's overall health
// transitions. Only the consumer wires one in (to drive ConsumeEngine); the
// producer runs the monitor with a nil Listener.
type Listener interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
}

// Config tunes probe cadence and target.
type Config struct {
	Brokers []string
	Topic   string

	ProbeTimeout        time.Duration
	UnhealthyInitialGap time.Duration
	UnhealthyMaxGap     time.Duration
	HealthyInterval     time.Duration
}

// Monitor runs the background probe loop described in spec.md §4.6. All
// flags are atomics so pingNow (called synchronously from HealthReporter) and
// the background loop never race.
type Monitor struct {
	cfg      Config
	log      logger.InterfaceLogger
	listener Listener

	brokerConnected atomic.Bool
	topicReady      atomic.Bool
	topicNotFound   atomic.Bool

	mu    sync.Mutex
	state State
}

// New builds a Monitor. listener may be nil (producer side).
func New(cfg Config, log logger.InterfaceLogger, listener Listener) *Monitor {
	return &Monitor{
		cfg:      cfg,
		log:      log,
		listener: listener,
		state:    StateDisconnected,
	}
}

// BrokerConnected, TopicReady, TopicNotFound reflect the monitor's last probe.
func (m *Monitor) BrokerConnected() bool { return m.brokerConnected.Load() }
func (m *Monitor) TopicReady() bool      { return m.topicReady.Load() }
func (m *Monitor) TopicNotFound() bool   { return m.topicNotFound.Load() }

// State returns the monitor's current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Healthy reports the composite health used to drive the listener and
// HealthReporter: broker reachable AND topic ready.
func (m *Monitor) Healthy() bool {
	return m.brokerConnected.Load() && m.topicReady.Load()
}

// PingNow performs a single fresh probe (no retries) and updates the flags,
// returning the classified fault (FaultNone on success). HealthReporter calls
// this on every readiness query so orchestrators always see current state.
func (m *Monitor) PingNow(ctx context.Context) broker.FaultKind {
	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	defer cancel()

	fault := broker.DialProbe(probeCtx, m.cfg.Brokers, m.cfg.Topic)
	m.applyFault(fault)
	return fault
}

func (m *Monitor) applyFault(fault broker.FaultKind) {
	wasHealthy := m.Healthy()

	switch fault {
	case broker.FaultNone:
		m.brokerConnected.Store(true)
		m.topicReady.Store(true)
		m.topicNotFound.Store(false)
		m.setState(StateMonitoring)
	case broker.FaultTopicNotFound:
		m.brokerConnected.Store(true)
		m.topicReady.Store(false)
		m.topicNotFound.Store(true)
		m.setState(StateConnected)
	default: // FaultBrokerDown and anything unclassified
		m.brokerConnected.Store(false)
		m.topicReady.Store(false)
		m.topicNotFound.Store(false)
		m.setState(StateDisconnected)
	}

	nowHealthy := m.Healthy()
	if nowHealthy == wasHealthy || m.listener == nil {
		return
	}
	if nowHealthy {
		m.log.Infof("connectivity: broker+topic healthy, starting listener")
		m.listener.Start(context.Background())
	} else {
		m.log.Warnf("connectivity: broker/topic unhealthy, stopping listener")
		m.listener.Stop(context.Background())
	}
}

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Run drives the adaptive scheduling loop of spec.md §4.6 point 5 until ctx is
// canceled: unhealthy re-probes with exponential backoff (start 100ms, cap
// 5s); healthy probes every ~30s. Retries are infinite.
func (m *Monitor) Run(ctx context.Context) {
	m.setState(StateConnecting)
	gap := m.cfg.UnhealthyInitialGap
	if gap <= 0 {
		gap = 100 * time.Millisecond
	}

	for {
		m.PingNow(ctx)

		var wait time.Duration
		if m.Healthy() {
			wait = m.cfg.HealthyInterval
			if wait <= 0 {
				wait = 30 * time.Second
			}
			gap = m.cfg.UnhealthyInitialGap
			if gap <= 0 {
				gap = 100 * time.Millisecond
			}
		} else {
			wait = gap
			gap *= 2
			maxGap := m.cfg.UnhealthyMaxGap
			if maxGap <= 0 {
				maxGap = 5 * time.Second
			}
			if gap > maxGap {
				gap = maxGap
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
