package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"goldcinema/internal/cache"
	"goldcinema/internal/catalog"
	"goldcinema/internal/config"
	"goldcinema/internal/database"
	"goldcinema/internal/external"
	"goldcinema/internal/handlers"
	"goldcinema/internal/jobs"
	"goldcinema/internal/logger"
	"goldcinema/internal/messaging"
	"goldcinema/internal/middleware"
	"goldcinema/internal/repository"
	"goldcinema/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server with its wired dependencies
type Server struct {
	router    *gin.Engine
	config    *config.Config
	db        *database.DB
	nats      *messaging.NATSClient
	valkey    *cache.ValkeyClient
	services  *service.Services
	expiryJob *jobs.BookingExpirationJob
}

// NewServer wires the catalog, store, gateway and messaging together and
// builds the router.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	cat, err := catalog.New(catalog.Default())
	if err != nil {
		logger.Fatal("Failed to build catalog", "error", err)
	}

	var db *database.DB
	var store repository.BookingStore
	switch cfg.BookingStore {
	case "postgres":
		db, err = database.Connect(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		if err := db.RunMigrations(); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
		store = repository.NewPostgresBookingStore(db)
	default:
		slog.Info("Using in-memory booking store")
		store = repository.NewMemoryBookingStore()
	}

	// Messaging is best-effort: the API keeps serving without NATS, events
	// are just dropped with a warning on publish.
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, events will not be published", "error", err)
		natsClient = nil
	}

	var valkeyClient *cache.ValkeyClient
	if cfg.Valkey.Addr != "" {
		valkeyClient, err = cache.NewValkeyClient(cfg.Valkey)
		if err != nil {
			slog.Warn("Valkey unavailable, catalog caching disabled", "error", err)
			valkeyClient = nil
		}
	}

	mpesaClient := external.NewMpesaClient(cfg.Mpesa)

	services := service.NewServices(cat, store, mpesaClient, natsClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.OptionalAuth(cfg.JWTSecret))

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
	}

	server.setupRoutes()

	if cfg.Expiry.Enabled {
		server.expiryJob = jobs.NewBookingExpirationJob(
			cat, store, natsClient, cfg.Expiry.Timeout, cfg.Expiry.CheckInterval)
		server.expiryJob.Start(context.Background())
	}

	return server
}

// setupRoutes registers all API routes
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkey)

	api := s.router.Group("/api")
	{
		api.GET("/productions", h.ListProductions)
		api.GET("/productions/:id", h.GetProduction)
		api.GET("/performances/:id/seats", h.GetPerformanceSeats)

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("/:id", h.GetBooking)
		}
	}

	// Daraja posts payment results here; the path must match the registered
	// callback URL.
	s.router.POST("/mpesa/callback", h.MpesaCallback)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/health", s.healthCheck)
}

// healthCheck reports service liveness and, when configured, database health
func (s *Server) healthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"service": "goldcinema-api",
		"version": "1.0.0",
	}
	if s.db != nil {
		check := s.db.HealthCheck(c.Request.Context())
		body["database"] = check
		if check.Status != "healthy" {
			body["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
	}
	c.JSON(http.StatusOK, body)
}

// GetRouter exposes the router for the HTTP server and tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return fmt.Sprintf(":%s", s.config.Port)
}

// Cleanup stops background work and closes connections
func (s *Server) Cleanup() error {
	if s.expiryJob != nil {
		s.expiryJob.Stop()
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
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
