package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/nail_salon/internal/config"
	"github.com/Skotchmaster/nail_salon/internal/db"
	"github.com/Skotchmaster/nail_salon/internal/es"
	"github.com/Skotchmaster/nail_salon/internal/handlers"
	"github.com/Skotchmaster/nail_salon/internal/hash"
	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/metrics"
	authmw "github.com/Skotchmaster/nail_salon/internal/middleware/auth"
	"github.com/Skotchmaster/nail_salon/internal/mykafka"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/Skotchmaster/nail_salon/internal/repo/gormrepo"
	"github.com/Skotchmaster/nail_salon/internal/repo/mongorepo"
	"github.com/Skotchmaster/nail_salon/internal/service"
	"github.com/Skotchmaster/nail_salon/internal/storage"
	miniostore "github.com/Skotchmaster/nail_salon/internal/storage/minio"
	"github.com/Skotchmaster/nail_salon/internal/tokens"
	httpserver "github.com/Skotchmaster/nail_salon/internal/transport/http"
)

const startupTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	store, err := openStore(ctx, cfg.DB)
	if err != nil {
		cancel()
		logger.Error("store_init_failed", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	files := openStorage(ctx, cfg.S3, logger)
	events := openEvents(cfg.Kafka, logger)
	index := openSearch(ctx, cfg.Elastic, logger)
	cancel()

	issuer := tokens.NewIssuer(
		[]byte(cfg.JWT.AccessSecret),
		[]byte(cfg.JWT.RefreshSecret),
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
	)
	m := metrics.New()

	authSvc := service.NewAuthService(store, hash.NewArgon2(hash.DefaultParams), issuer)
	authSvc.Observer = m

	deps := &httpserver.Deps{
		Guard:          authmw.NewGuard(issuer),
		Metrics:        m,
		AuthHandler:    &handlers.AuthHandler{Auth: authSvc},
		ServiceHandler: &handlers.ServiceHandler{Catalog: service.NewCatalogService(store, index, events)},
		BookingHandler: &handlers.BookingHandler{Bookings: service.NewBookingService(store, store, events)},
		GalleryHandler: &handlers.GalleryHandler{Gallery: service.NewGalleryService(store, files, events)},
		HealthHandler:  &handlers.HealthHandler{Store: store},
	}
	e := httpserver.New(deps, httpserver.Options{
		Logger:       logger,
		AllowOrigins: cfg.CORS.Origins(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("store_close_failed", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}

func openStore(ctx context.Context, cfg config.DBConfig) (repo.Store, error) {
	if cfg.Driver == config.DriverMongo {
		return mongorepo.New(ctx, cfg.MongoURI, cfg.MaxPoolSize)
	}

	gdb, err := db.Open(ctx, cfg.Driver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return gormrepo.New(ctx, gdb)
}

// openStorage returns nil when no bucket is configured or reachable; uploads
// then answer 503.
func openStorage(ctx context.Context, cfg config.S3Config, logger *slog.Logger) storage.FileStorage {
	if !cfg.Enabled() {
		logger.Info("file_storage_disabled")
		return nil
	}
	fs, err := miniostore.New(ctx, cfg)
	if err != nil {
		logger.Error("file_storage_init_failed", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket, "error", err)
		return nil
	}
	return fs
}

func openEvents(cfg config.KafkaConfig, logger *slog.Logger) mykafka.Publisher {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		logger.Info("kafka_disabled")
		return mykafka.Nop{}
	}
	if err := mykafka.EnsureTopics(brokers[0], mykafka.Topics...); err != nil {
		logger.Warn("kafka_ensure_topics_failed", "error", err)
	}
	prod, err := mykafka.NewProducer(brokers, logger.With("component", "kafka"))
	if err != nil {
		logger.Error("kafka_init_failed", "error", err)
		return mykafka.Nop{}
	}
	return prod
}

// openSearch returns a nil interface when the index is unavailable, so the
// catalog falls back to repository search.
func openSearch(ctx context.Context, cfg config.ElasticConfig, logger *slog.Logger) service.ServiceIndexer {
	if !cfg.Enabled() {
		logger.Info("search_index_disabled")
		return nil
	}
	client, err := es.NewClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("search_index_init_failed", "error", err)
		return nil
	}
	idx := es.NewServiceIndex(client, cfg.Index)
	if err := idx.EnsureIndex(ctx); err != nil {
		logger.Error("search_index_init_failed", "index", cfg.Index, "error", err)
		return nil
	}
	return idx
}
