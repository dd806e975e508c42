package main

import (
	"context"
	"flag"

	"royalwood-storefront/internal/config"
	"royalwood-storefront/internal/db"
	"royalwood-storefront/internal/logger"
	"royalwood-storefront/internal/migrate"

	"go.uber.org/zap"
)

func main() {
	var down int
	flag.IntVar(&down, "down", 0, "Roll back this many migrations instead of applying")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat, "migrate")
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if down > 0 {
		if err := migrate.Rollback(ctx, pool, down, log); err != nil {
			log.Fatal("roll back migrations", zap.Error(err))
		}
		log.Info("migrations rolled back", zap.Int("steps", down))
		return
	}

	if err := migrate.Apply(ctx, pool, log); err != nil {
		log.Fatal("apply migrations", zap.Error(err))
	}

	log.Info("migrations applied")
}
