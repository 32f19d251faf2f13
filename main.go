package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/config"
	"github.com/gridbase-inc/import-engine/pkg/database"
	"github.com/gridbase-inc/import-engine/pkg/handlers"
	"github.com/gridbase-inc/import-engine/pkg/logging"
	"github.com/gridbase-inc/import-engine/pkg/middleware"
	"github.com/gridbase-inc/import-engine/pkg/repositories"
	"github.com/gridbase-inc/import-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.String("history_backend", cfg.History.Backend),
	)

	ctx := context.Background()

	store, err := newBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up history storage",
			zap.String("backend", cfg.History.Backend),
			zap.String("error", logging.SanitizeError(err)),
		)
	}

	history := services.NewMappingHistoryService(store, services.HistoryConfig{
		MaxEntries:           cfg.History.MaxEntries,
		SimilarityThreshold:  cfg.History.SimilarityThreshold,
		SuggestionConfidence: cfg.History.SuggestionConfidence,
	}, logger)
	advisor := services.NewImportAdvisor(history, cfg.Matching.NameMatchFloor, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewImportHandler(advisor, logger).RegisterRoutes(mux)
	handlers.NewMatchHandler(cfg.Matching, logger).RegisterRoutes(mux)
	handlers.NewHistoryHandler(history, cfg.History.RetentionDays, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting import-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version),
	)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newBlobStore builds the history storage backend selected by config.
// The postgres backend also applies pending schema migrations.
func newBlobStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.BlobStore, error) {
	switch cfg.History.Backend {
	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repositories.NewRedisBlobStore(client), nil

	case config.BackendPostgres:
		migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(migrationDB, logger); err != nil {
			migrationDB.Close()
			return nil, err
		}
		migrationDB.Close()

		pool, err := database.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return repositories.NewPostgresBlobStore(pool), nil

	default:
		return repositories.NewFileBlobStore(cfg.History.BlobPath), nil
	}
}
