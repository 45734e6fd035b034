package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/empathybot/config"
	"github.com/spacesedan/empathybot/internal/chat"
	"github.com/spacesedan/empathybot/internal/clients"
	"github.com/spacesedan/empathybot/internal/clients/kafka_client"
	"github.com/spacesedan/empathybot/internal/db"
	"github.com/spacesedan/empathybot/internal/events"
	"github.com/spacesedan/empathybot/internal/logging"
	"github.com/spacesedan/empathybot/internal/metrics"
	"github.com/spacesedan/empathybot/internal/monitoring"
	"github.com/spacesedan/empathybot/internal/replies"
	"github.com/spacesedan/empathybot/internal/sentiment"
	"github.com/spacesedan/empathybot/internal/server"
	"github.com/spacesedan/empathybot/internal/stats"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("[Main] Server exited with error", "env", cfg.AppEnv, "error", err)
		os.Exit(1)
	}
}

// run owns every client it opens; returning an error still runs the
// deferred closes.
func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Info("[Main] Starting empathybot", "env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scorer, err := sentiment.NewVaderScorer()
	if err != nil {
		return fmt.Errorf("[Main] sentiment lexicon unavailable: %w", err)
	}

	table, err := loadReplyTable(ctx, cfg)
	if err != nil {
		return fmt.Errorf("[Main] reply table unavailable: %w", err)
	}
	slog.Info("[Main] Reply table loaded", "source", cfg.ReplyTableSource, "replies", table.Len())

	var opts []sentiment.Option
	if cfg.StripMarkdown {
		opts = append(opts, sentiment.WithMarkdownStripping())
	}
	pipeline := chat.NewPipeline(
		sentiment.NewClassifier(scorer, opts...),
		replies.NewSelector(table, replies.RandomPicker{}),
	)

	healthChecks := []server.HealthCheck{
		{Name: "scorer", Check: func(context.Context) error { return scorer.Check() }},
	}

	var tally stats.Tally = stats.NewMemoryTally()
	if cfg.ValkeyEnabled() {
		valkeyClient, err := clients.NewValkeyClient(clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		})
		if err != nil {
			return fmt.Errorf("[Main] valkey unavailable: %w", err)
		}
		defer valkeyClient.Close()

		monitor := monitoring.NewMonitor("valkey", valkeyClient.Ping, 0)
		go monitor.Run(ctx)

		tally = stats.NewValkeyTally(valkeyClient)
		healthChecks = append(healthChecks, server.HealthCheck{Name: monitor.Name(), Check: monitor.Status})
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaEnabled() {
		producer, err := kafka_client.NewProducer(kafka_client.KafkaConfig{
			Broker:   cfg.KafkaBroker,
			Topic:    cfg.KafkaSentimentTopic,
			ClientID: cfg.KafkaClientID,
		})
		if err != nil {
			return fmt.Errorf("[Main] kafka producer unavailable: %w", err)
		}
		defer producer.Close()

		batching := events.NewBatchingPublisher(producer, cfg.EventBatchSize, cfg.EventFlushInterval)
		batching.Start(ctx)
		publisher = batching
	}

	srv, err := server.NewServer(server.Deps{
		Responder:    pipeline,
		Tally:        tally,
		Publisher:    publisher,
		Registry:     metrics.NewRegistry(),
		HealthChecks: healthChecks,
	})
	if err != nil {
		return fmt.Errorf("[Main] failed to build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Port)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
		if serveErr != nil {
			slog.Error("[Main] Server stopped", "error", serveErr)
		}
	case <-ctx.Done():
		slog.Info("[Main] Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Server shutdown failed", "error", err)
	}
	if err := publisher.Close(shutdownCtx); err != nil {
		slog.Error("[Main] Failed to flush classification events", "error", err)
	}
	slog.Info("[Main] Shutdown complete")
	return serveErr
}

func loadReplyTable(ctx context.Context, cfg config.Config) (*replies.Table, error) {
	switch cfg.ReplyTableSource {
	case config.ReplySourceFile:
		return replies.LoadFile(cfg.ReplyTableFile)
	case config.ReplySourceDynamoDB:
		loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		client, err := clients.NewDynamoDBClient(loadCtx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			return nil, err
		}
		return db.LoadReplyTable(loadCtx, client, cfg.DynamoDBReplyTable)
	case config.ReplySourceBuiltin:
		return replies.DefaultTable(), nil
	default:
		return nil, fmt.Errorf("[Main] unknown reply table source %q", cfg.ReplyTableSource)
	}
}
