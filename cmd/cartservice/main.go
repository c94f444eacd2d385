// Command cartservice runs the producer: HTTP surface, PublishEngine, and
// ConnectivityMonitor. Grounded on the teacher's cmd/main.go construction
// order (config -> logger -> dependencies -> server -> signal-wait shutdown),
// generalized with errgroup to supervise the monitor and HTTP listener
// goroutines together.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/merkulovlad/orderflow/internal/cart/publish"
	cartserver "github.com/merkulovlad/orderflow/internal/cart/server"
	"github.com/merkulovlad/orderflow/internal/cart/service"
	"github.com/merkulovlad/orderflow/internal/cart/store"
	"github.com/merkulovlad/orderflow/internal/config"
	"github.com/merkulovlad/orderflow/internal/connectivity"
	"github.com/merkulovlad/orderflow/internal/health"
	"github.com/merkulovlad/orderflow/internal/logger"
	kafka "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		panic("cartservice: failed to initialize logger: " + err.Error())
	}
	defer func() {
		if err := log.Sync(); err != nil {
			log.Errorf("cartservice: failed to sync logger: %v", err)
		}
	}()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Errorf("cartservice: writer close: %v", err)
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
			log.Errorf("cartservice: DLT writer close: %v", err)
		}
	}()

	orderStore := store.New(log)
	publishEngine := publish.New(cfg.Publish, writer, dltWriter, log)
	orderService := service.New(orderStore, publishEngine, log)

	monitor := connectivity.New(connectivity.Config{
		Brokers:             cfg.Kafka.Brokers,
		Topic:               cfg.Kafka.Topic,
		ProbeTimeout:        cfg.Monitor.ProbeTimeout,
		UnhealthyInitialGap: cfg.Monitor.UnhealthyInitialGap,
		UnhealthyMaxGap:     cfg.Monitor.UnhealthyMaxGap,
		HealthyInterval:     cfg.Monitor.HealthyInterval,
	}, log, nil)

	healthReporter := health.New(monitor, orderStore)
	app := cartserver.NewServer(orderService, healthReporter, log)

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

	log.Info("cartservice: shutting down")
	cancel()
	if err := app.Shutdown(); err != nil {
		log.Errorf("cartservice: shutdown error: %v", err)
	}

	if err := g.Wait(); err != nil {
		log.Errorf("cartservice: %v", err)
	}
}
