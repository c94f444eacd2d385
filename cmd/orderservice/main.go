// Command orderservice runs the consumer: HTTP query surface, ConsumeEngine,
// and ConnectivityMonitor driving the engine's start/stop lifecycle.
// Grounded on the teacher's cmd/main.go construction order, generalized with
// errgroup to supervise the monitor and HTTP listener goroutines together.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/merkulovlad/orderflow/internal/config"
	"github.com/merkulovlad/orderflow/internal/connectivity"
	"github.com/merkulovlad/orderflow/internal/health"
	"github.com/merkulovlad/orderflow/internal/logger"
	"github.com/merkulovlad/orderflow/internal/order/consume"
	"github.com/merkulovlad/orderflow/internal/order/idempotency"
	"github.com/merkulovlad/orderflow/internal/order/query"
	orderserver "github.com/merkulovlad/orderflow/internal/order/server"
	"github.com/merkulovlad/orderflow/internal/order/store"
	kafka "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		panic("orderservice: failed to initialize logger: " + err.Error())
	}
	defer func() {
		if err := log.Sync(); err != nil {
			log.Errorf("orderservice: failed to sync logger: %v", err)
		}
	}()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0, // manual commits, spec.md §4.8
	})
	defer func() {
		if err := reader.Close(); err != nil {
			log.Errorf("orderservice: reader close: %v", err)
		}
	}()

	dltWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.DLTTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	defer func() {
		if err := dltWriter.Close(); err != nil {
			log.Errorf("orderservice: DLT writer close: %v", err)
		}
	}()

	processedStore := store.New(log)
	idempotencyIndex := idempotency.New()
	consumeEngine := consume.New(reader, dltWriter, idempotencyIndex, processedStore, cfg.Consume, cfg.Kafka.Topic, log)

	monitor := connectivity.New(connectivity.Config{
		Brokers:             cfg.Kafka.Brokers,
		Topic:               cfg.Kafka.Topic,
		ProbeTimeout:        cfg.Monitor.ProbeTimeout,
		UnhealthyInitialGap: cfg.Monitor.UnhealthyInitialGap,
		UnhealthyMaxGap:     cfg.Monitor.UnhealthyMaxGap,
		HealthyInterval:     cfg.Monitor.HealthyInterval,
	}, log, consumeEngine)

	healthReporter := health.New(monitor, processedStore)
	queryService := query.New(processedStore)
	app := orderserver.NewServer(queryService, healthReporter, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monitor.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := app.Listen(":" + cfg.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("orderservice: shutting down")
	cancel()
	consumeEngine.Stop(context.Background())
	if err := app.Shutdown(); err != nil {
		log.Errorf("orderservice: shutdown error: %v", err)
	}

	if err := g.Wait(); err != nil {
		log.Errorf("orderservice: %v", err)
	}
}
