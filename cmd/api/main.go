package main

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"filerepo/docs"
	"filerepo/internal/config"
	"filerepo/internal/database"
	"filerepo/internal/database/migration"
	"filerepo/internal/embedding"
	"filerepo/internal/extract"
	handlers "filerepo/internal/http/handler"
	"filerepo/internal/http/middleware"
	"filerepo/internal/index"
	"filerepo/internal/ingest"
	"filerepo/internal/logger"
	"filerepo/internal/metrics"
	"filerepo/internal/otel"
	"filerepo/internal/repository/sqlstore"
	"filerepo/internal/service"
	"filerepo/internal/storage"
)

// @title File Repository API
// @version 1.0
// @description Tenant-scoped file storage with policy validation and page-level semantic search.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}

	log, err := logger.New(cfg.Log, loc)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize the database (pgx or embedded SQLite, with pooling via database/sql)
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Driver, log); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Local disk or S3-compatible object storage (MinIO-supported)
	store, err := storage.New(cfg.Storage, cfg.MinIO, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	provider, err := embedding.NewProvider(ctx, cfg.Embedding, log)
	if err != nil {
		log.Fatal("failed to initialize embedding provider", zap.Error(err))
	}

	appMetrics, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	// Initialize repositories and services
	tenantRepo := sqlstore.NewTenantStore(db)
	fileRepo := sqlstore.NewFileStore(db)
	embeddingRepo := sqlstore.NewEmbeddingStore(db)

	ix := index.New(provider, embeddingRepo, appMetrics, log)
	tenantSvc := service.NewTenantService(tenantRepo, log)
	fileSvc := service.NewFileService(tenantRepo, fileRepo, store, ingest.New(cfg.Storage.TempPath, log), ix, appMetrics, log)
	embeddingSvc := service.NewEmbeddingService(fileSvc, ix, index.NewSearcher(ix), extract.PDF{}, cfg.Index.MaxConcurrent, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(httpMetrics.Handler())
	// JSON Logger middleware for structured request logs; renders handler errors
	app.Use(middleware.Logger(log))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, handlers.Services{
		Tenants:    tenantSvc,
		Files:      fileSvc,
		Embeddings: embeddingSvc,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("server_stopping")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}
}
