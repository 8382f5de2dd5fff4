package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/cart"
	"github.com/nikolayk812/cartkeeper/internal/config"
	"github.com/nikolayk812/cartkeeper/internal/httpapi"
	"github.com/nikolayk812/cartkeeper/internal/logging"
	"github.com/nikolayk812/cartkeeper/internal/notify"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/nikolayk812/cartkeeper/internal/repository"
	"github.com/nikolayk812/cartkeeper/internal/storefront"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(1)
	}

	log := logging.New("cartd", cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("cartd stopped")
	}
}

func run(cfg config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots, closeStore, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := storefront.NewClient(cfg.StorefrontURL, &http.Client{Timeout: 10 * time.Second}, cfg.StorefrontCurrency)
	if err != nil {
		return fmt.Errorf("storefront.NewClient: %w", err)
	}
	settings := storefront.DefaultBreakerSettings()
	if cfg.LookupTimeout > 0 {
		settings.SharedTimeout = cfg.LookupTimeout
	}
	lookups := storefront.NewBreaker(client, client, settings, log)

	store, err := cart.New(ctx, snapshots, lookups, lookups,
		cart.WithNotifier(notify.NewLogNotifier(log.WithField("component", "notifier"))),
		cart.WithLogger(log.WithField("component", "cart")),
		cart.WithLookupTimeout(cfg.LookupTimeout),
		cart.WithStockCheckOnAdd(cfg.StockCheckOnAdd),
	)
	if err != nil {
		return fmt.Errorf("cart.New: %w", err)
	}

	e := httpapi.NewServer(httpapi.NewHandler(store), log.WithField("component", "http"))

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.HTTPAddr,
			"backend": cfg.CartBackend,
			"slot":    cfg.CartSlot,
		}).Info("cartd listening")

		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("e.Start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("e.Shutdown: %w", err)
	}

	return nil
}

func openSnapshotStore(ctx context.Context, cfg config.Config) (port.CartSnapshotStore, func(), error) {
	switch cfg.CartBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}

		store, err := repository.NewPostgres(pool, cfg.CartSlot)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.NewPostgres: %w", err)
		}
		return store, pool.Close, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closeRedis := func() { _ = rdb.Close() }

		if err := repository.PingWithRetry(ctx, rdb, 5); err != nil {
			closeRedis()
			return nil, nil, fmt.Errorf("repository.PingWithRetry: %w", err)
		}

		store, err := repository.NewRedis(rdb, cfg.CartSlot)
		if err != nil {
			closeRedis()
			return nil, nil, fmt.Errorf("repository.NewRedis: %w", err)
		}
		return store, closeRedis, nil

	default:
		return repository.NewMemory(), func() {}, nil
	}
}
