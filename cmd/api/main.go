package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"royalwood-storefront/internal/auth"
	"royalwood-storefront/internal/config"
	"royalwood-storefront/internal/db"
	"royalwood-storefront/internal/events"
	"royalwood-storefront/internal/httpserver"
	"royalwood-storefront/internal/kvstore"
	"royalwood-storefront/internal/logger"
	"royalwood-storefront/internal/notify"
	businessrepo "royalwood-storefront/internal/repository/business"
	catalogrepo "royalwood-storefront/internal/repository/catalog"
	"royalwood-storefront/internal/repository/memory"
	orderrepo "royalwood-storefront/internal/repository/order"
	"royalwood-storefront/internal/service/admin"
	catalogsvc "royalwood-storefront/internal/service/catalog"
	"royalwood-storefront/internal/service/checkout"
	"royalwood-storefront/internal/service/session"
	"royalwood-storefront/internal/storage"

	"go.uber.org/zap"
)

// memoryDSN selects the in-process repositories instead of Postgres.
const memoryDSN = "memory"

type repositories struct {
	catalog  catalogrepo.Repository
	orders   orderrepo.Repository
	business businessrepo.Repository
}

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat, "api")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	readyChecks := map[string]httpserver.ReadyCheck{}

	var repos repositories
	if cfg.DBConnString == memoryDSN {
		log.Warn("using in-memory repositories; data is lost on restart")
		store := memory.New()
		repos = repositories{catalog: store, orders: store.Orders(), business: store.Business()}
	} else {
		pool, err := db.Connect(ctx, cfg.DBConnString, log)
		if err != nil {
			log.Fatal("connect to db", zap.Error(err))
		}
		defer pool.Close()
		readyChecks["db"] = db.Ping(pool)
		repos = repositories{
			catalog:  catalogrepo.NewPostgres(pool, log),
			orders:   orderrepo.NewPostgres(pool, log),
			business: businessrepo.NewPostgres(pool, log),
		}
	}

	var carts kvstore.Store
	if cfg.RedisAddr == "" {
		log.Warn("redis not configured; carts are kept in memory")
		carts = kvstore.NewMemory()
	} else {
		client, err := kvstore.Connect(ctx, kvstore.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatal("connect to redis", zap.Error(err))
		}
		defer client.Close()
		readyChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		carts = kvstore.NewRedis(client, "", cfg.CartTTL)
	}

	var orderEvents checkout.OrderEvents = events.Discard{}
	if cfg.AMQPURL != "" {
		publisher, closeConn, err := events.Dial(cfg.AMQPURL, log)
		if err != nil {
			log.Fatal("connect to amqp", zap.Error(err))
		}
		defer closeConn() //nolint:errcheck
		orderEvents = publisher
	}

	var images storage.ImageStore = storage.Disabled{}
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3ImageStore(ctx, storage.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		}, storage.WithLogger(log))
		if err != nil {
			log.Fatal("init object storage", zap.Error(err))
		}
		images = s3Store
	}

	sink := orderrepo.NewBreakerSink(repos.orders, 5, cfg.OrderBreakerTimeout, log)
	readyChecks["order-sink"] = func(context.Context) error {
		if st := sink.State(); st == "open" {
			return fmt.Errorf("circuit breaker %s", st)
		}
		return nil
	}

	sessions := session.NewManager(carts, sink,
		session.WithLogger(log),
		session.WithEvents(orderEvents),
		session.WithNotifier(notify.NewLogNotifier(log)),
		session.WithContactNumber(cfg.WhatsAppNumber),
		session.WithIdleTTL(cfg.SessionIdleTTL),
	)
	go sessions.Run(ctx, time.Minute)

	if cfg.AdminJWTSecret == "" {
		log.Warn("admin JWT secret not set; admin routes will reject every request")
	}

	srv, err := httpserver.New(cfg.HTTPAddr, log, httpserver.Deps{
		Sessions:    sessions,
		Catalog:     catalogsvc.New(repos.catalog, repos.business, cfg.WhatsAppNumber),
		Admin:       admin.New(repos.catalog, repos.orders, repos.business, images, log),
		AdminTokens: auth.NewAdminTokens(cfg.AdminJWTSecret),
		ReadyChecks: readyChecks,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		log.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-serverErr:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("server stopped")
	}
}
