package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/RichardoC/shopchat/internal/cache"
	"github.com/RichardoC/shopchat/internal/catalog"
	"github.com/RichardoC/shopchat/internal/config"
	"github.com/RichardoC/shopchat/internal/db"
	"github.com/RichardoC/shopchat/internal/ingest"
)

func main() {
	cfg := config.Load()
	dataDir := flag.String("data", "data", "directory holding the catalog CSV files")
	dsn := flag.String("db", cfg.DatabaseURL, "SQLite path or postgres:// URL")
	keep := flag.Bool("keep", false, "append to existing rows instead of clearing each table first")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx := context.Background()
	database, err := db.New(ctx, *dsn)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	logger.Info("starting catalog load", zap.String("dir", *dataDir))
	counts, err := ingest.NewLoader(database, *dataDir, !*keep, logger).LoadAll(ctx, ingest.DefaultSources)
	if err != nil {
		logger.Fatal("catalog load failed", zap.Error(err))
	}
	logger.Info("catalog load completed", zap.Any("rows", counts))

	if cfg.RedisURL != "" {
		purgeSummaries(ctx, cfg.RedisURL, logger)
	}
}

// purgeSummaries drops cached catalog summaries so the server recomputes them
// from the freshly loaded tables.
func purgeSummaries(ctx context.Context, url string, logger *zap.Logger) {
	redisCache, err := cache.NewRedisCache(ctx, url)
	if err != nil {
		logger.Warn("cannot reach catalog cache, cached summaries expire on their own", zap.Error(err))
		return
	}
	defer redisCache.Close()

	n, err := redisCache.Purge(ctx, catalog.CacheKeyPrefix)
	if err != nil {
		logger.Warn("failed to purge catalog cache", zap.Error(err))
		return
	}
	logger.Info("purged catalog cache", zap.Int64("keys", n))
}
