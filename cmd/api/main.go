package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/extraction-service/internal/adapter/chromedp_extractor"
	"github.com/user/extraction-service/internal/adapter/memory"
	mongo_adapter "github.com/user/extraction-service/internal/adapter/mongo"
	"github.com/user/extraction-service/internal/adapter/postgres"
	redis_adapter "github.com/user/extraction-service/internal/adapter/redis"
	"github.com/user/extraction-service/internal/delivery/http/handler"
	"github.com/user/extraction-service/internal/delivery/http/router"
	"github.com/user/extraction-service/internal/repository"
	"github.com/user/extraction-service/internal/usecase"
	"github.com/user/extraction-service/pkg/config"
	"github.com/user/extraction-service/pkg/logger"
	"github.com/user/extraction-service/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		zap.NewExample().Fatal("could not build logger", zap.Error(err))
	}
	defer log.Sync()

	// --- Metrics ---
	metrics.Init()

	ctx := context.Background()
	checks := map[string]handler.HealthCheck{}

	// PostgreSQL holds the status table and the operation log.
	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL())
	if err != nil {
		log.Fatal("unable to connect to database", zap.Error(err))
	}
	defer dbpool.Close()
	if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
		log.Fatal("unable to prepare database schema", zap.Error(err))
	}
	checks["postgres"] = dbpool.Ping
	log.Info("PostgreSQL connection pool established")

	// --- Repositories ---
	var states repository.StateStore
	switch cfg.StateBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("unable to connect to redis", zap.Error(err))
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		states = redis_adapter.NewStateStore(rdb, cfg.StateTTL())
		log.Info("Redis state store enabled", zap.String("addr", cfg.RedisAddr))
	default:
		states = memory.NewStateRegistry()
	}

	var dataRepo repository.ExtractedDataRepository
	switch cfg.StorageBackend {
	case "mongo":
		mongoRepo, err := mongo_adapter.NewExtractedDataRepo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatal("unable to connect to mongo", zap.Error(err))
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoRepo.Close(closeCtx)
		}()
		checks["mongo"] = mongoRepo.Ping
		dataRepo = mongoRepo
		log.Info("MongoDB data store enabled", zap.String("database", cfg.MongoDatabase))
	default:
		dataRepo = postgres.NewExtractedDataRepo(dbpool)
	}

	statusRepo := postgres.NewStatusRepo(dbpool)
	logRepo := postgres.NewOperationLogRepo(dbpool)

	// --- Extractor ---
	loader := chromedp_extractor.NewChromedpLoader(cfg.MaxConcurrency, cfg.PageLoadTimeout(), cfg.UserAgent, log)
	defer loader.Close()

	var robots *chromedp_extractor.RobotsChecker
	if cfg.RespectRobots {
		robots = chromedp_extractor.NewRobotsChecker(&http.Client{Timeout: 10 * time.Second}, cfg.UserAgent, log)
	}
	extractor := chromedp_extractor.NewCompanyExtractor(loader, robots, log)

	// --- Use Cases ---
	ops := usecase.NewOperationLogger(logRepo, log)
	extraction := usecase.NewExtractionUseCase(extractor, dataRepo, statusRepo, states, ops, log, cfg.CleanupDelay())
	controller := usecase.NewController(states, statusRepo, dataRepo, logRepo)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(extraction, controller, checks, log)
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.PageLoadTimeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	apiHandler.Wait()

	log.Info("server exiting")
}
