package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/mushola/app/handlers"
	"github.com/amirphl/mushola/app/logging"
	"github.com/amirphl/mushola/app/router"
	"github.com/amirphl/mushola/app/services"
	businessflow "github.com/amirphl/mushola/business_flow"
	"github.com/amirphl/mushola/config"
	"github.com/amirphl/mushola/models"
	"github.com/amirphl/mushola/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// requestTimeoutSlack keeps the request context alive a little longer than the provider call
const requestTimeoutSlack = 10 * time.Second

type Application struct {
	router    *router.FiberRouter
	config    *config.Config
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	accessLog, logCloser := logging.Setup(cfg.Logging)
	defer logCloser.Close()

	log.Printf("Starting mushola API %s (%s, env=%s)...", cfg.Deployment.Version, cfg.Deployment.CommitHash, cfg.Deployment.Environment)

	app, err := initializeApplication(cfg, accessLog)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	for _, fn := range app.stopFuncs {
		fn()
	}

	log.Println("Server stopped")
}

func initializeDatabase(cfg config.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logging.GormLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.UploadRecord{}); err != nil {
			return nil, fmt.Errorf("failed to migrate upload ledger: %w", err)
		}
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

func initializePinningProvider(cfg config.FilebaseConfig) services.PinningProvider {
	if cfg.Mock {
		log.Println("Using mock pinning provider; uploads are not forwarded")
		return services.NewMockPinningProvider()
	}
	if cfg.APIToken == "" {
		log.Println("FILEBASE_API_TOKEN is not set; uploads will fail until it is configured")
	}
	return services.NewFilebaseClient(cfg)
}

func initializeApplication(cfg *config.Config, accessLog io.Writer) (*Application, error) {
	var stopFuncs []func()
	var probes router.HealthProbes

	db, err := initializeDatabase(cfg.Database, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	var uploadRepo repository.UploadRecordRepository
	if db != nil {
		uploadRepo = repository.NewUploadRecordRepository(db)
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		probes.Database = sqlDB.PingContext
		stopFuncs = append(stopFuncs, func() { _ = sqlDB.Close() })
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	var tracker services.ChunkTracker
	if rc != nil {
		tracker = services.NewRedisChunkTracker(rc, cfg.Cache.RedisPrefix, cfg.Cache.DefaultTTL)
		probes.Cache = func(ctx context.Context) error { return rc.Ping(ctx).Err() }

		stopMonitor := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, stopMonitor, func() { _ = rc.Close() })
	}

	provider := initializePinningProvider(cfg.Filebase)

	uploadFlow := businessflow.NewUploadFlow(provider, uploadRepo, cfg.Upload, cfg.Filebase.GatewayURL)
	chunkFlow := businessflow.NewChunkUploadFlow(tracker, uploadRepo, cfg.Filebase.GatewayURL)
	contentFlow := businessflow.NewContentFlow(cfg.Content)

	uploadHandler := handlers.NewUploadHandler(uploadFlow, chunkFlow, cfg.IsProduction(), cfg.Filebase.Timeout+requestTimeoutSlack)
	contentHandler := handlers.NewContentHandler(contentFlow, cfg.IsProduction())

	appRouter := router.NewFiberRouter(cfg, uploadHandler, contentHandler, probes, accessLog)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
