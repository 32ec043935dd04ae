package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/config"
	"github.com/Tisseo/mimirsbrunn/app/controllers"
	"github.com/Tisseo/mimirsbrunn/app/services"
	"github.com/Tisseo/mimirsbrunn/internal/search"
	"github.com/Tisseo/mimirsbrunn/routes"
)

func main() {
	cfg := config.Load()

	logger := initLogger(cfg.App.Env)
	defer logger.Sync()

	logger.Info("Starting autocomplete service")

	backend, err := search.NewMeili(search.MeiliConfig{
		Host:        cfg.Meili.Host,
		APIKey:      cfg.Meili.APIKey,
		IndexPrefix: cfg.Meili.IndexPrefix,
		Datasets:    cfg.Meili.Datasets,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize search backend", zap.Error(err))
	}

	cacheService := initCache(cfg, logger)
	if cacheService != nil {
		defer cacheService.Close()
	}

	autocompleteService := services.NewAutocompleteService(
		backend, cacheService, cfg.Query.DefaultTimeout, cfg.Query.MaxTimeout, logger)
	autocompleteController := controllers.NewAutocompleteController(autocompleteService, logger)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, autocompleteController)

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

func initLogger(env string) *zap.Logger {
	var zapCfg zap.Config
	if env == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	return logger
}

// initCache builds the response cache. Redis being down is not fatal, the
// service then runs with the in-process layer only.
func initCache(cfg *config.Config, logger *zap.Logger) services.ICacheService {
	if !cfg.Cache.Enabled {
		return nil
	}
	l1 := services.NewLRUCacheService(cfg.Cache.L1Size, cfg.Cache.TTL)

	l2, err := services.NewRedisCacheService(cfg.Cache.RedisURL, cfg.Cache.TTL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-process cache", zap.Error(err))
		return l1
	}
	return services.NewHybridCacheService(l1, l2, logger)
}
