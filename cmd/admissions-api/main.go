package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/admissions-eligibility-api/api/swagger"
	"github.com/noah-isme/admissions-eligibility-api/internal/eligibility"
	"github.com/noah-isme/admissions-eligibility-api/internal/handler"
	"github.com/noah-isme/admissions-eligibility-api/internal/middleware"
	"github.com/noah-isme/admissions-eligibility-api/internal/repository"
	"github.com/noah-isme/admissions-eligibility-api/internal/service"
	"github.com/noah-isme/admissions-eligibility-api/pkg/cache"
	"github.com/noah-isme/admissions-eligibility-api/pkg/config"
	"github.com/noah-isme/admissions-eligibility-api/pkg/database"
	"github.com/noah-isme/admissions-eligibility-api/pkg/export"
	"github.com/noah-isme/admissions-eligibility-api/pkg/jobs"
	"github.com/noah-isme/admissions-eligibility-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/admissions-eligibility-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/admissions-eligibility-api/pkg/middleware/requestid"
	"github.com/noah-isme/admissions-eligibility-api/pkg/storage"
)

// @title Admissions Eligibility API
// @version 1.0.0
// @description Checks WASSCE results against university programme requirements.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	checks := map[string]handler.Pinger{}

	store, closeStore, err := openCatalogStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var redisClient *redis.Client
	if cfg.Eligibility.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, eligibility caching disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "admissions", logr)
	defer cacheRepo.Close() //nolint:errcheck
	if redisClient != nil {
		checks["redis"] = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Eligibility.CacheTTL, logr, redisClient != nil)

	catalogSvc := service.NewCatalogService(store, metrics, logr, service.CatalogServiceConfig{
		Source:     cfg.Catalog.Source,
		RefreshTTL: cfg.Catalog.RefreshTTL,
	})
	checks["catalog"] = handler.PingFunc(catalogSvc.Ready)
	if _, err := catalogSvc.Snapshot(ctx); err != nil {
		logr.Warn("initial catalog load failed", zap.Error(err))
	}

	if cfg.Catalog.Source == config.CatalogSourceFile {
		watcher, err := service.NewCatalogWatcher(cfg.Catalog.Dir, catalogSvc, cacheSvc, logr)
		if err != nil {
			logr.Warn("catalog hot reload disabled", zap.Error(err))
		} else {
			defer watcher.Close() //nolint:errcheck
			go watcher.Run(ctx)
		}
	}

	eligibilitySvc := service.NewEligibilityService(service.EligibilityServiceParams{
		Engine:   eligibility.NewEngine(),
		Catalog:  catalogSvc,
		Cache:    cacheSvc,
		Metrics:  metrics,
		Logger:   logr,
		CacheTTL: cfg.Eligibility.CacheTTL,
	})
	exportSvc := service.NewExportService(eligibilitySvc, service.ExportConfig{
		Enabled: cfg.Exports.Enabled,
		MaxRows: cfg.Exports.MaxRows,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())

	batchHandler, stopBatches, err := startBatches(ctx, cfg, eligibilitySvc, metrics, logr)
	if err != nil {
		return err
	}
	defer stopBatches()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Eligibility: handler.NewEligibilityHandler(eligibilitySvc),
		Catalog:     handler.NewCatalogHandler(catalogSvc),
		Export:      handler.NewExportHandler(exportSvc),
		Batch:       batchHandler,
		Metrics:     handler.NewMetricsHandler(metrics, checks),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("catalog_source", cfg.Catalog.Source),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logr.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func openCatalogStore(ctx context.Context, cfg *config.Config) (service.CatalogStore, func(), error) {
	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		return repository.NewFileCatalogRepository(cfg.Catalog.Dir), func() {}, nil
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewCatalogRepository(db), func() { _ = db.Close() }, nil
}

func startBatches(ctx context.Context, cfg *config.Config, checker *service.EligibilityService, metrics *service.MetricsService, logr *zap.Logger) (*handler.BatchHandler, func(), error) {
	if !cfg.Batches.Enabled {
		return nil, func() {}, nil
	}
	files, err := storage.NewLocalStorage(cfg.Batches.StorageDir)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewBatchJobRepository()
	worker := service.NewBatchWorker(repo, checker, files, metrics, logr, service.BatchWorkerConfig{
		TopPerStudent: cfg.Batches.TopPerStudent,
		MaxRetries:    cfg.Batches.WorkerRetries,
	}, export.NewCSVExporter(), export.NewPDFExporter())
	queue := jobs.NewQueue("batches", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Batches.WorkerConcurrency,
		MaxRetries: cfg.Batches.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)

	batchSvc := service.NewBatchService(repo, queue, files, storage.NewSigner(cfg.Batches.SignedURLSecret, cfg.Batches.SignedURLTTL), metrics, logr, service.BatchServiceConfig{
		Enabled:         true,
		MaxStudents:     cfg.Batches.MaxStudents,
		ResultTTL:       cfg.Batches.ResultTTL,
		CleanupInterval: cfg.Batches.CleanupInterval,
		BasePath:        strings.TrimSuffix(cfg.APIPrefix, "/") + "/eligibility/batches",
	})
	batchSvc.StartCleanup(ctx)
	return handler.NewBatchHandler(batchSvc), queue.Stop, nil
}
