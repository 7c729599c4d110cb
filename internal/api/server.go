package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eugenek0529/reservation-system/internal/auth"
	"github.com/eugenek0529/reservation-system/internal/cache"
	"github.com/eugenek0529/reservation-system/internal/config"
	"github.com/eugenek0529/reservation-system/internal/database"
	"github.com/eugenek0529/reservation-system/internal/handlers"
	"github.com/eugenek0529/reservation-system/internal/messaging"
	"github.com/eugenek0529/reservation-system/internal/metrics"
	"github.com/eugenek0529/reservation-system/internal/middleware"
	"github.com/eugenek0529/reservation-system/internal/repository"
	"github.com/eugenek0529/reservation-system/internal/schedule"
	"github.com/eugenek0529/reservation-system/internal/search"
	"github.com/eugenek0529/reservation-system/internal/service"
)

// Server is the HTTP API server
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.ScheduleCache
	services *service.Services
	loader   *schedule.Loader
	metrics  *metrics.Metrics
	verifier *auth.Verifier
}

// NewServer connects to every backend and builds the router. Redis and
// Elasticsearch are optional; failing to reach them only disables them.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	var scheduleCache *cache.ScheduleCache
	var loaderCache schedule.Cache
	if cfg.Redis.Enabled {
		scheduleCache, err = cache.NewScheduleCache(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, schedule cache disabled", "error", err)
			scheduleCache = nil
		} else {
			loaderCache = scheduleCache
		}
	}

	var searcher service.CustomerSearcher
	if cfg.Elasticsearch.URL != "" {
		index, err := search.NewCustomerIndex(ctx, cfg.Elasticsearch)
		if err != nil {
			slog.Warn("Elasticsearch unavailable, customer search falls back to filtering", "error", err)
		} else {
			searcher = index
		}
	}

	m := metrics.New()
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, searcher, m)

	loader := schedule.NewLoader(services.Availability, loaderCache)
	loader.OnCacheLookup(m.RecordCacheLookup)
	services.Availability.SetInvalidator(loader)

	s := NewServerWithServices(cfg, services, loader, m)
	s.db = db
	s.nats = natsClient
	s.cache = scheduleCache
	return s, nil
}

// NewServerWithServices builds the router over already wired services
func NewServerWithServices(cfg *config.Config, services *service.Services, loader *schedule.Loader, m *metrics.Metrics) *Server {
	router := gin.New()
	// c.ClientIP keys the rate limiter; forwarded headers count only from listed proxies
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		slog.Warn("Invalid trusted proxies, using peer addresses", "error", err)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(m))

	s := &Server{
		router:   router,
		config:   cfg,
		services: services,
		loader:   loader,
		metrics:  m,
		verifier: auth.NewVerifier(cfg.JWTSecret),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.loader, s.metrics)

	api := s.router.Group("/api")

	// Booking widget, no authentication
	public := api.Group("/public")
	public.Use(middleware.RateLimit(middleware.NewIPRateLimiter(s.config.PublicRPS, s.config.PublicBurst)))
	{
		public.GET("/availability/slots", h.ListAvailableSlots)
		public.POST("/reservations", h.CreatePublicReservation)
	}

	// Back office
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(s.verifier))
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/me", h.Me)

		availability := admin.Group("/availability")
		{
			availability.GET("/month-exists", h.MonthExists)
			availability.POST("/seed", h.SeedMonth)
		}

		admin.GET("/metrics/monthly", h.MonthlyMetrics)

		sched := admin.Group("/schedule")
		{
			sched.GET("/daily", h.DailySchedule)
			sched.GET("/daily/list", h.DailyScheduleList)
			sched.GET("/daily/timeline", h.DailyScheduleTimeline)
			sched.GET("/feed", h.ScheduleFeed)
		}

		reservations := admin.Group("/reservations")
		{
			reservations.GET("/daily", h.DailyReservations)
			reservations.POST("", h.CreateAdminReservation)
			reservations.PATCH("/:id/status", h.UpdateReservationStatus)
		}

		types := admin.Group("/reservation-types")
		{
			types.GET("", h.ListReservationTypes)
			types.POST("", h.CreateReservationType)
			types.POST("/with-schedule", h.CreateReservationTypeWithSchedule)
			types.PUT("/:id", h.UpdateReservationType)
			types.DELETE("/:id", h.DeleteReservationType)
		}

		customers := admin.Group("/customers")
		{
			customers.GET("", h.ListCustomers)
			customers.POST("", h.CreateCustomer)
			customers.GET("/search", h.SearchCustomers)
			customers.GET("/:id", h.GetCustomer)
			customers.PUT("/:id", h.UpdateCustomer)
			customers.DELETE("/:id", h.DeleteCustomer)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"service": "reservation-api",
		"version": "1.0.0",
	}
	if s.db == nil {
		c.JSON(http.StatusOK, body)
		return
	}

	dbHealth := s.db.HealthCheck(c.Request.Context())
	body["database"] = dbHealth
	if dbHealth.Status != "healthy" {
		body["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// GetRouter returns the router, used by tests and the http.Server
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the backend connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("Error closing Redis connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
