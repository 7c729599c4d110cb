package consumers

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/nats-io/stan.go"

	"github.com/eugenek0529/reservation-system/internal/cache"
	"github.com/eugenek0529/reservation-system/internal/config"
	"github.com/eugenek0529/reservation-system/internal/database"
	"github.com/eugenek0529/reservation-system/internal/messaging"
	"github.com/eugenek0529/reservation-system/internal/metrics"
	"github.com/eugenek0529/reservation-system/internal/models"
	"github.com/eugenek0529/reservation-system/internal/repository"
	"github.com/eugenek0529/reservation-system/internal/search"
	"github.com/eugenek0529/reservation-system/internal/service"
)

const queueGroup = "consumers"

// Subscription binds an event subject to its handler
type Subscription struct {
	Subject string
	Handler stan.MsgHandler
}

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.ScheduleCache
	services *service.Services
	handlers *Handlers
	metrics  *metrics.Metrics
	extra    []Subscription
	subs     []stan.Subscription
}

func NewConsumerService(ctx context.Context, cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	var scheduleCache *cache.ScheduleCache
	var invalidator DateInvalidator
	if cfg.Redis.Enabled {
		scheduleCache, err = cache.NewScheduleCache(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, cache invalidation disabled", "error", err)
			scheduleCache = nil
		} else {
			invalidator = scheduleCache
		}
	}

	var searcher service.CustomerSearcher
	if cfg.Elasticsearch.URL != "" {
		index, err := search.NewCustomerIndex(ctx, cfg.Elasticsearch)
		if err != nil {
			slog.Warn("Elasticsearch unavailable, customer sync disabled", "error", err)
		} else {
			searcher = index
		}
	}

	m := metrics.New()
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, searcher, m)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		cache:    scheduleCache,
		services: services,
		handlers: NewHandlers(invalidator, m),
		metrics:  m,
	}, nil
}

// Services exposes the facades to jobs and extra handlers
func (cs *ConsumerService) Services() *service.Services {
	return cs.services
}

func (cs *ConsumerService) Metrics() *metrics.Metrics {
	return cs.metrics
}

// AddSubscription registers an extra handler before Start
func (cs *ConsumerService) AddSubscription(sub Subscription) {
	cs.extra = append(cs.extra, sub)
}

// Subscriptions lists the cache handlers followed by the extra ones
func (cs *ConsumerService) Subscriptions() []Subscription {
	subs := []Subscription{
		{Subject: models.EventReservationCreated, Handler: cs.handlers.Ack(models.EventReservationCreated, cs.handlers.ProcessReservationCreated)},
		{Subject: models.EventReservationStatusChanged, Handler: cs.handlers.Ack(models.EventReservationStatusChanged, cs.handlers.ProcessStatusChanged)},
		{Subject: models.EventMonthSeeded, Handler: cs.handlers.Ack(models.EventMonthSeeded, cs.handlers.ProcessMonthSeeded)},
	}
	return append(subs, cs.extra...)
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	for i, sub := range cs.Subscriptions() {
		// one queue per handler, a subject may have several handlers
		queue := queueGroup + "-" + strconv.Itoa(i)
		s, err := cs.nats.SubscribeQueue(sub.Subject, queue, sub.Handler)
		if err != nil {
			return err
		}
		cs.subs = append(cs.subs, s)
	}

	slog.Info("All consumers started successfully", "subscriptions", len(cs.subs))
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	for _, s := range cs.subs {
		if err := s.Close(); err != nil {
			slog.Warn("Error closing subscription", "error", err)
		}
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.cache != nil {
		if err := cs.cache.Close(); err != nil {
			slog.Error("Error closing Redis connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
