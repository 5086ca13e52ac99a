package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"happy-jasmine/internal/access"
	"happy-jasmine/internal/config"
	"happy-jasmine/internal/database"
	custommiddleware "happy-jasmine/internal/middleware"
	"happy-jasmine/internal/realtime"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/service"
	"happy-jasmine/internal/storage"
	"happy-jasmine/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
	broker *realtime.Broker
}

func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *database.Service, broker *realtime.Broker) (*Server, error) {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, rate limits are not enforced", zap.Error(err))
	}

	bucket, err := storage.New(ctx, cfg.Storage, cfg.Server.PublicBaseURL, logger)
	if err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("failed to initialize asset storage: %w", err)
	}
	if local, ok := bucket.(*storage.LocalBucket); ok {
		router.Handle(storage.LocalPrefix+"*", local.Handler())
	}

	// Initialize repositories
	sqlDB := db.DB()
	productRepo := repository.NewProductRepository(sqlDB)
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	locationRepo := repository.NewLocationRepository(sqlDB)
	contentRepo := repository.NewContentRepository(sqlDB)
	visitRepo := repository.NewVisitCountRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(sqlDB)

	// Initialize services and accessors
	authService := service.NewAuthService(userRepo, refreshTokenRepo, service.TokenConfigFrom(cfg.JWT), logger)
	content := access.NewContentStore(contentRepo, logger)
	products := access.NewProducts(productRepo, categoryRepo, logger)
	categories := access.NewCategories(categoryRepo, logger)
	locations := access.NewLocations(locationRepo, logger)
	visits := access.NewVisitCounter(visitRepo, broker, logger)
	uploader := access.NewUploader(bucket, logger)

	authMiddleware := custommiddleware.AuthMiddleware(authService, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	admin := func(next http.Handler) http.Handler {
		return authMiddleware(requireAdmin(next))
	}

	loginLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "rate_limit:login",
	}, logger)
	visitLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "rate_limit:visits",
		KeyFunc: func(r *http.Request) string {
			return chi.URLParam(r, "pageType") + ":" + custommiddleware.ClientIP(r)
		},
	}, logger)

	// Register routes
	transport.NewConfigHandler(transport.PublicConfig{
		MapToken: cfg.MapToken,
		AssetURL: bucket.PublicURL(""),
	}).RegisterRoutes(router)
	transport.NewAuthHandler(authService, logger).RegisterRoutes(router, authMiddleware, loginLimit)
	transport.NewContentHandler(content, logger).RegisterRoutes(router, admin)
	transport.NewProductHandler(products, logger).RegisterRoutes(router, admin)
	transport.NewCategoryHandler(categories, logger).RegisterRoutes(router, admin)
	transport.NewLocationHandler(locations, logger).RegisterRoutes(router, admin)
	transport.NewVisitHandler(visits, logger).RegisterRoutes(router, admin, visitLimit)
	transport.NewUploadHandler(uploader, cfg.Storage.MaxBytes, logger).RegisterRoutes(router, admin)

	// Request contexts end when Shutdown starts so open visit streams return
	baseCtx, cancelRequests := context.WithCancel(context.Background())

	server := &Server{
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:     router,
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// no WriteTimeout: visit streams stay open
			BaseContext: func(net.Listener) context.Context { return baseCtx },
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
		broker: broker,
	}
	server.RegisterOnShutdown(cancelRequests)

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	s.broker.Close()

	if err := s.redis.Close(); err != nil {
		s.logger.Error("Failed to close redis client", zap.Error(err))
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
	}

	s.logger.Sync()
	return nil
}
