package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	_ "milkdelivery/docs" // swagger docs

	"milkdelivery/internal/cache"
	"milkdelivery/internal/config"
	"milkdelivery/internal/db"
	"milkdelivery/internal/handler"
	"milkdelivery/internal/logger"
	"milkdelivery/internal/metrics"
	"milkdelivery/internal/repository"
	"milkdelivery/internal/router"
	"milkdelivery/internal/seed"
	"milkdelivery/internal/service"
)

// @title Milk Delivery API
// @version 1.0
// @description Catalog and account API for a milk and dairy delivery app: users, categories and products.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("logger: %v", err)
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("database init: %v", err)
	}
	if cfg.ResetDB {
		logrus.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		logrus.Fatalf("migrate: %v", err)
	}
	logrus.WithField("driver", cfg.DBDriver).Info("database ready")

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logrus.WithError(err).Warn("redis unavailable, serving without cache")
	}
	cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient, collector)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient, collector)
	productService := service.NewProductService(productRepo, categoryRepo, cacheClient, collector)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, router.Handlers{
		Health:     handler.NewHealthHandler(storePinger(gormDB)),
		Users:      handler.NewUserHandler(userService),
		Categories: handler.NewCategoryHandler(categoryService, productService),
		Products:   handler.NewProductHandler(productService),
		Seed:       handler.NewSeedHandler(seed.NewSeeder(categoryRepo, productRepo, cacheClient)),
	}, collector, registry)

	logrus.Infof("Swagger documentation available at: %s", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	logrus.Info("server stopped")
}

func storePinger(gormDB *gorm.DB) handler.Pinger {
	return func(ctx context.Context) error {
		return db.Ping(ctx, gormDB)
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
