package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"dispensa/internal/amqp"
	"dispensa/internal/cli"
	apphttp "dispensa/internal/http"
	"dispensa/internal/log"
	"dispensa/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.OpenStore(logger, cfg.SQLiteDBPath)

	// AMQP is optional: without a URL purchases are still recorded
	// locally and picked up by the worker's periodic pending scan.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect purchase sync broker", log.FieldError, err.Error())
			os.Exit(1)
		}
		logger.Info("Purchase sync publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Purchase sync publishing disabled, no AMQP URL configured")
	}

	items := services.NewItemService(repo, amqpClient)
	defer func() {
		if err := items.Close(); err != nil {
			logger.Error("Close error", log.FieldError, err.Error())
		}
	}()
	analytics := services.NewAnalyticsService(repo)
	reports := services.NewReportService(items, analytics)

	srv := apphttp.NewServer(cfg, logger, items, analytics, reports, repo)

	ctx, stop := cli.NotifyShutdown()
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
	}()

	logger.Info("Starting dispensa server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-shutdownDone
	logger.Info("Server stopped gracefully")
}
