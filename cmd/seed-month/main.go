package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/eugenek0529/reservation-system/internal/config"
	"github.com/eugenek0529/reservation-system/internal/database"
	"github.com/eugenek0529/reservation-system/internal/logger"
	"github.com/eugenek0529/reservation-system/internal/messaging"
	"github.com/eugenek0529/reservation-system/internal/metrics"
	"github.com/eugenek0529/reservation-system/internal/repository"
	"github.com/eugenek0529/reservation-system/internal/schedule"
	"github.com/eugenek0529/reservation-system/internal/search"
	"github.com/eugenek0529/reservation-system/internal/service"
	"github.com/eugenek0529/reservation-system/internal/validation"
)

var (
	month   = flag.String("month", "", "First month to seed as YYYY-MM-01 (default: current month)")
	ahead   = flag.Int("ahead", 0, "Number of following months to seed as well")
	reindex = flag.Bool("reindex", false, "Rebuild the customer search index")
	timeout = flag.Duration("timeout", 5*time.Minute, "Overall timeout")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")

	began := time.Now()
	first := began
	if *month != "" {
		if err := validation.MonthStart("month", *month); err != nil {
			logger.Fatal("Invalid month", "month", *month, "error", err)
		}
		first, _ = time.Parse(time.DateOnly, *month)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	cfg.NATS.ClientID = "reservations-seed-month"
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, month seeded events will not be published", "error", err)
		natsClient, _ = messaging.NewNATSClient(messaging.Config{})
	}
	defer natsClient.Close()

	var searcher service.CustomerSearcher
	if *reindex {
		index, err := search.NewCustomerIndex(ctx, cfg.Elasticsearch)
		if err != nil {
			logger.Fatal("Failed to connect to Elasticsearch", "error", err)
		}
		searcher = index
	}

	services := service.NewServices(repository.NewRepositories(db), natsClient, searcher, metrics.New())

	total := 0
	for _, m := range schedule.UpcomingMonths(first, *ahead) {
		resp, err := services.Availability.EnsureMonthAvailability(ctx, m)
		if err != nil {
			logger.Fatal("Failed to seed month", "month", m, "error", err)
		}
		slog.Info("Month processed", "month", m, "created", resp.Created)
		total += resp.Created
	}

	if *reindex {
		n, err := services.Customers.Reindex(ctx)
		if err != nil {
			logger.Fatal("Failed to reindex customers", "error", err)
		}
		slog.Info("Customers reindexed", "count", n)
	}

	slog.Info("Seeding completed", "created", total, "duration", time.Since(began))
}
