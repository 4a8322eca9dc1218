package main

import (
	"context"
	"errors"
	"os"
	"time"

	"dispensa/internal/amqp"
	"dispensa/internal/backend"
	"dispensa/internal/cli"
	"dispensa/internal/log"
	"dispensa/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting dispensa-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.OpenStore(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, stop := cli.NotifyShutdown()
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid export backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	writer, err := backend.NewFactory(logger.Logger).CreateWriter(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize export backend", log.FieldError, err.Error())
		os.Exit(1)
	}
	if writer == nil {
		logger.Info("No export backend configured, nothing to sync")
		return
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect purchase sync broker", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, writer, cfg.SyncBatchSize)

	// Pick up purchases recorded while the worker was down.
	logger.Info("Performing startup sync check")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", log.FieldError, err.Error())
	}

	consumeDone := make(chan struct{})
	go func() {
		defer close(consumeDone)
		handler := func(msg *amqp.PurchaseSyncMessage) error {
			return syncWorker.HandlePurchaseMessage(ctx, msg)
		}
		if err := amqpClient.ConsumePurchaseSync(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", log.FieldError, err.Error())
			}
		}
	}()

	// Periodic scan recovers purchases whose broker message was lost.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")

			select {
			case <-consumeDone:
			case <-time.After(5 * time.Second):
				logger.Warn("Consumer did not stop in time")
			}
			logger.Info("Worker stopped gracefully")
			return
		case <-ticker.C:
			if err := syncWorker.ProcessPendingPurchases(ctx); err != nil {
				logger.Error("Periodic sync failed", log.FieldError, err.Error())
			}
		}
	}
}
