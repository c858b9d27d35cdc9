package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/commercialspace/backend/internal/adapter/email"
	mongoadapter "github.com/commercialspace/backend/internal/adapter/mongo"
	natsadapter "github.com/commercialspace/backend/internal/adapter/nats"
	redisadapter "github.com/commercialspace/backend/internal/adapter/redis"
	"github.com/commercialspace/backend/internal/adapter/storage/s3"
	"github.com/commercialspace/backend/internal/app/config"
	"github.com/commercialspace/backend/internal/handler"
	"github.com/commercialspace/backend/internal/notifier"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/platform/metrics"
	"github.com/commercialspace/backend/internal/platform/pdf"
	"github.com/commercialspace/backend/internal/platform/token"
	"github.com/commercialspace/backend/internal/router"
	"github.com/commercialspace/backend/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// App owns every long-lived component and their shutdown order.
type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *http.Server
	notifier    *notifier.Notifier
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP port %s", cfg.Env, cfg.HTTPServer.Port)

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDB.Database)
	if err := mongoadapter.EnsureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to ensure MongoDB indexes: %w", err)
	}
	appLogger.Info("MongoDB client initialized")

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized")

	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	publisher, err := natsadapter.NewEventPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	appLogger.Info("NATS connection established")

	sender, err := emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
	}

	photoStorage, err := s3.NewPhotoStorage(cfg.Storage, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	userRepo := mongoadapter.NewUserRepository(db)
	propertyRepo := mongoadapter.NewPropertyRepository(db)
	bookingRepo := mongoadapter.NewBookingRepository(db)
	reviewRepo := mongoadapter.NewReviewRepository(db)
	favoriteRepo := mongoadapter.NewFavoriteRepository(db)
	listingCache := redisadapter.NewListingCache(redisClient)
	resetTokenRepo := redisadapter.NewResetTokenRepository(redisClient)

	notif := notifier.New(sender, appLogger, cfg.Notifier.QueueSize, cfg.Notifier.SendTimeout)
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace)
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	leaseRenderer := pdf.NewLeaseRenderer()

	userService := service.NewUserService(userRepo, tokens, photoStorage, publisher, appLogger)
	resetService := service.NewPasswordResetService(userRepo, resetTokenRepo, notif, cfg.Reset.TokenTTL, cfg.Reset.BaseURL, appLogger)
	propertyService := service.NewPropertyService(propertyRepo, userRepo, listingCache, photoStorage, publisher, metricsManager, cfg.Listings.CacheTTL, appLogger)
	bookingService := service.NewBookingService(bookingRepo, propertyRepo, userRepo, notif, leaseRenderer, publisher, metricsManager, appLogger)
	favoriteService := service.NewFavoriteService(favoriteRepo, propertyRepo, appLogger)
	reviewService := service.NewReviewService(reviewRepo, propertyRepo, userRepo, appLogger)
	analyticsService := service.NewAnalyticsService(propertyRepo, bookingRepo, userRepo, appLogger)

	mux := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(userService, resetService, appLogger),
		User:     handler.NewUserHandler(userService, appLogger),
		Property: handler.NewPropertyHandler(propertyService, reviewService, appLogger),
		Booking:  handler.NewBookingHandler(bookingService, appLogger),
		Favorite: handler.NewFavoriteHandler(favoriteService, appLogger),
		Admin:    handler.NewAdminHandler(propertyService, analyticsService, appLogger),
	}, tokens, metricsManager, appLogger)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		notifier:    notif,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}, nil
}

func (a *App) Run() {
	a.notifier.Start()
	a.log.Info("Notification worker started")

	go func() {
		a.log.Infof("HTTP server listening on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.ShutdownTimeout+5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped")
	}

	// Stop the notifier after the server so in-flight requests can still
	// enqueue their side effects.
	if err := a.notifier.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Notification worker did not drain in time: %v", err)
	} else {
		a.log.Info("Notification worker stopped")
	}

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed")
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed")
		}
	}

	a.log.Info("Application shut down")
}
