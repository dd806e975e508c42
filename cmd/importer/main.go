package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"royalwood-storefront/internal/config"
	"royalwood-storefront/internal/db"
	"royalwood-storefront/internal/importer"
	"royalwood-storefront/internal/logger"
	catalogrepo "royalwood-storefront/internal/repository/catalog"

	"go.uber.org/zap"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a product CSV (name,price,description,imageUrl)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat, "importer")
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, catalogrepo.NewPostgres(pool, log), log)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatal("import failed", zap.Error(err), zap.Int("imported", count))
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
