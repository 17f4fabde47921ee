package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"socialapi/internal/config"
	"socialapi/internal/handlers"
	"socialapi/internal/metrics"
	"socialapi/internal/middleware"
	"socialapi/internal/models"
	"socialapi/internal/repositories"
	"socialapi/internal/services"
	"socialapi/pkg/logger"
	"socialapi/pkg/rabbitmq"
	"socialapi/pkg/storage"
)

// bodyLimit leaves room for the largest image plus form fields.
const bodyLimit = 12 * 1024 * 1024

// App bundles the HTTP server with the resources it owns.
type App struct {
	Fiber   *fiber.App
	DB      *gorm.DB
	Metrics *metrics.Metrics
	Events  *rabbitmq.Client // nil when RABBITMQ_URL is unset

	closers []func() error
	log     logrus.FieldLogger
}

// Close releases every resource opened by NewApp.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.WithError(err).Warn("error while releasing resources")
		}
	}
}

// OpenDatabase connects to the configured database and migrates the schema.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		dialector = postgres.Open(cfg.DatabaseDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.DatabaseDriver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Post{}, &models.Comment{}, &models.Like{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// openStore builds the configured upload store.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	if cfg.StorageBackend == "gcs" {
		client, err := storage.NewGCSClient(ctx, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create GCS client: %w", err)
		}
		store := storage.NewGCSStore(client, cfg.GCSBucket)
		return store, store.Close, nil
	}

	store := storage.NewLocalStore(cfg.UploadDir)
	if err := store.Init(); err != nil {
		return nil, nil, err
	}
	return store, func() error { return nil }, nil
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{log: log}

	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	// A nil interface keeps services from publishing at all.
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, log)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, events disabled")
		} else {
			a.Events = mq
			a.closers = append(a.closers, mq.Close)
			events = mq
		}
	}

	a.Metrics = metrics.New()

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	// --- Services ---
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	passwords := services.NewPasswordService(cfg.BcryptCost)
	authService := services.NewAuthService(userRepo, passwords, tokens, events, log)
	userService := services.NewUserService(userRepo)
	profileService := services.NewProfileService(userRepo, userRepo, store, events, log)
	postService := services.NewPostService(postRepo, userRepo, store, events, log)

	// --- Handlers ---
	errs := handlers.NewErrorWriter(!cfg.IsProduction(), log)
	userHandler := handlers.NewUserHandler(authService, userService, errs)
	profileHandler := handlers.NewProfileHandler(profileService, store, cfg.ProfileImageMaxBytes, errs)
	postHandler := handlers.NewPostHandler(postService, store, cfg.PostImageMaxBytes, errs)
	systemHandler := handlers.NewSystemHandler(store, cfg.PostImageMaxBytes, errs)

	app := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(fiberlogger.New())
	app.Use(cors.New())
	app.Use(middleware.RequestMetrics(a.Metrics))

	if local, ok := store.(*storage.LocalStore); ok {
		app.Static(local.URLPrefix, local.Root)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.Metrics.Registry, promhttp.HandlerOpts{})))

	// --- Routes ---
	auth := middleware.AuthRequired(tokens, a.Metrics, log)
	systemHandler.RegisterRoutes(app)
	api := app.Group("/api")
	userHandler.RegisterRoutes(api, auth)
	profileHandler.RegisterRoutes(api, auth)
	postHandler.RegisterRoutes(api, auth)

	a.Fiber = app
	return a, nil
}

func main() {
	// --- Configuration ---
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	bootLog := logger.New("development", "info")
	if err := v.ReadInConfig(); err != nil {
		bootLog.WithError(err).Debug("no .env file, using environment only")
	}

	cfg, err := config.Load(v)
	if err != nil {
		bootLog.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	a, err := NewApp(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer a.Close()

	// --- Event consumer ---
	if a.Events != nil {
		err := a.Events.ConsumeEvents(func(evt rabbitmq.Event) error {
			log.WithFields(logrus.Fields{
				"event":       evt.Type,
				"occurred_at": evt.OccurredAt,
				"payload":     evt.Payload,
			}).Info("event received")
			return nil
		})
		if err != nil {
			log.WithError(err).Warn("failed to start event consumer")
		}
	}

	// --- Start HTTP Server ---
	log.WithField("port", cfg.AppPort).Info("starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := a.Fiber.Listen(cfg.AppPort); err != nil {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	<-quit
	log.Info("shutting down server")
	if err := a.Fiber.Shutdown(); err != nil {
		log.WithError(err).Error("error during server shutdown")
	}
	log.Info("server gracefully stopped")
}
