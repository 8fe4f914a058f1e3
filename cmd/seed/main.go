package main

import (
	"context"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"milkdelivery/internal/cache"
	"milkdelivery/internal/config"
	"milkdelivery/internal/db"
	"milkdelivery/internal/logger"
	"milkdelivery/internal/repository"
	"milkdelivery/internal/seed"
)

func main() {
	file := flag.String("file", "", "catalog JSON file (defaults to the built-in dairy catalog)")
	flag.Parse()

	cfg := config.Load()
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("logger: %v", err)
	}
	logrus.Info("Starting seed script...")

	gormDB, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB, false); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}
	logrus.Info("Database migrations completed")

	catalog, err := loadCatalog(*file)
	if err != nil {
		logrus.Fatalf("Failed to load catalog: %v", err)
	}

	// The server reads through the same cache; drop what the seed changes.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	seeder := seed.NewSeeder(repository.NewCategoryRepository(gormDB), repository.NewProductRepository(gormDB), cacheClient)
	result, err := seeder.Run(context.Background(), catalog)
	if err != nil {
		logrus.Fatalf("Failed to seed catalog: %v", err)
	}

	logrus.Info("Seed completed successfully!")
	logrus.Infof("  - Categories created: %d, updated: %d", result.CategoriesCreated, result.CategoriesUpdated)
	logrus.Infof("  - Products created: %d, updated: %d", result.ProductsCreated, result.ProductsUpdated)
}

func loadCatalog(path string) (*seed.Catalog, error) {
	if path == "" {
		return seed.DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.Load(f)
}
