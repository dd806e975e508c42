package main

import (
	"context"

	"royalwood-storefront/internal/config"
	"royalwood-storefront/internal/db"
	"royalwood-storefront/internal/logger"
	businessrepo "royalwood-storefront/internal/repository/business"
	catalogrepo "royalwood-storefront/internal/repository/catalog"
	"royalwood-storefront/internal/seed"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat, "seed")
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, catalogrepo.NewPostgres(pool, log), businessrepo.NewPostgres(pool, log), log); err != nil {
		log.Fatal("seed apply", zap.Error(err))
	}

	log.Info("seed applied")
}
