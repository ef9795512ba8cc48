package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RichardoC/shopchat/internal/api"
	"github.com/RichardoC/shopchat/internal/cache"
	"github.com/RichardoC/shopchat/internal/catalog"
	"github.com/RichardoC/shopchat/internal/config"
	"github.com/RichardoC/shopchat/internal/conversation"
	"github.com/RichardoC/shopchat/internal/db"
	"github.com/RichardoC/shopchat/internal/llm"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	var routerOpts []catalog.Option
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		routerOpts = append(routerOpts, catalog.WithCache(redisCache, cfg.CacheTTL))
		logger.Info("catalog cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}
	router := catalog.NewRouter(database, logger, routerOpts...)

	llmService, err := llm.New(llm.Config{
		BaseURL: cfg.LLMBaseURL,
		Token:   cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	}, router, logger)
	if err != nil {
		logger.Fatal("failed to initialize LLM service", zap.Error(err))
	}

	manager := conversation.NewManager(database, llmService, logger)
	handler := api.NewHandler(manager, llmService, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(handler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.Bool("llm_online", llmService.Online()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
