package connectivity_test

import (
	"context"
	"testing"
	"time"

	"github.com/merkulovlad/orderflow/internal/connectivity"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/stretchr/testify/require"
)

type fakeListener struct {
	starts int
	stops  int
}

func (f *fakeListener) Start(ctx context.Context) { f.starts++ }
func (f *fakeListener) Stop(ctx context.Context)  { f.stops++ }

func TestPingNow_UnreachableBrokerReportsDown(t *testing.T) {
	m := connectivity.New(connectivity.Config{
		Brokers:      []string{"127.0.0.1:1"},
		Topic:        "ORDERS",
		ProbeTimeout: 200 * time.Millisecond,
	}, logger.NewNop(), nil)

	fault := m.PingNow(context.Background())
	require.NotEmpty(t, fault)
	require.False(t, m.BrokerConnected())
	require.False(t, m.TopicReady())
	require.False(t, m.Healthy())
	require.Equal(t, connectivity.StateDisconnected, m.State())
}

func TestPingNow_NoBrokersConfigured(t *testing.T) {
	m := connectivity.New(connectivity.Config{Brokers: nil, Topic: "ORDERS"}, logger.NewNop(), nil)
	fault := m.PingNow(context.Background())
	require.NotEmpty(t, fault)
	require.False(t, m.Healthy())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	m := connectivity.New(connectivity.Config{
		Brokers:             []string{"127.0.0.1:1"},
		Topic:               "ORDERS",
		ProbeTimeout:        50 * time.Millisecond,
		UnhealthyInitialGap: 10 * time.Millisecond,
		UnhealthyMaxGap:     20 * time.Millisecond,
	}, logger.NewNop(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestListener_NotInvokedWhenHealthUnchanged(t *testing.T) {
	fl := &fakeListener{}
	m := connectivity.New(connectivity.Config{
		Brokers:      []string{"127.0.0.1:1"},
		Topic:        "ORDERS",
		ProbeTimeout: 50 * time.Millisecond,
	}, logger.NewNop(), fl)

	// Starts unhealthy; stays unhealthy across repeated pings, listener.Stop
	// must not be invoked repeatedly for a state that was never healthy.
	m.PingNow(context.Background())
	m.PingNow(context.Background())

	require.Equal(t, 0, fl.starts)
	require.Equal(t, 0, fl.stops)
}
