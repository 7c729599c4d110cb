package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eugenek0529/reservation-system/cmd/consumers/handlers"
	"github.com/eugenek0529/reservation-system/cmd/consumers/jobs"
	"github.com/eugenek0529/reservation-system/internal/config"
	"github.com/eugenek0529/reservation-system/internal/consumers"
	"github.com/eugenek0529/reservation-system/internal/logger"
	"github.com/eugenek0529/reservation-system/internal/models"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting consumers service...")

	// Override NATS client ID for consumers
	cfg.NATS.ClientID = "reservations-consumers"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create and start consumers
	consumerService, err := consumers.NewConsumerService(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	services := consumerService.Services()

	searchSync := handlers.NewSearchSyncHandler(services.Customers)
	consumerService.AddSubscription(consumers.Subscription{
		Subject: models.EventReservationCreated,
		Handler: consumers.NewHandlers(nil, consumerService.Metrics()).
			Ack(models.EventReservationCreated+".search", searchSync.ProcessReservationCreated),
	})

	// Start consuming messages
	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	seedJob := jobs.NewMonthSeedJob(services.Availability, cfg.SeedMonthsAhead, cfg.SeedInterval)
	seedJob.Start(ctx)

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           consumerService.Metrics().Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	slog.Info("Consumers service started successfully", "metrics_port", cfg.MetricsPort)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down consumers service...")

	// Graceful shutdown
	seedJob.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Metrics server forced to shutdown", "error", err)
	}

	if err := consumerService.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	slog.Info("Consumers service stopped")
}
