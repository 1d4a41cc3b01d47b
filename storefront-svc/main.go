package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ram071/market/config"
	httpapi "github.com/Ram071/market/storefront-svc/internal/api/http"
	"github.com/Ram071/market/storefront-svc/internal/catalog"
	"github.com/Ram071/market/storefront-svc/internal/domain"
	"github.com/Ram071/market/storefront-svc/internal/lifecycle"
	"github.com/Ram071/market/storefront-svc/internal/metrics"
	"github.com/Ram071/market/storefront-svc/internal/router"
	"github.com/Ram071/market/storefront-svc/internal/service"
	"github.com/Ram071/market/storefront-svc/internal/session"
	"github.com/Ram071/market/storefront-svc/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("storefront service stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, err := catalog.DefaultSeed()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(ctx, cfg, seed, logger)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.String("source", cfg.CatalogSource),
		zap.Int("restaurants", len(cat.Restaurants())),
		zap.Int("menu_items", len(cat.MenuItems())),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	simOpts := []lifecycle.Option{
		lifecycle.WithUnit(cfg.StatusTick),
		lifecycle.WithLogger(logger.Named("lifecycle")),
	}
	steps := []domain.OrderStatus{domain.StatusConfirmed, domain.StatusPreparing, domain.StatusDelivering}
	if cfg.SimulateDelivered {
		simOpts = append(simOpts, lifecycle.WithDelivered())
		steps = append(steps, domain.StatusDelivered)
	}

	storeOpts := []session.Option{
		session.WithTracker(lifecycle.NewSimulator(simOpts...)),
		session.WithLogger(logger.Named("session")),
		session.WithMetrics(collector),
		session.WithProfile(seed.Profile),
	}

	if cfg.RedisEnabled() {
		client, err := config.InitRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		storeOpts = append(storeOpts, session.WithMirror(storage.NewRedisStatusMirror(client, cfg.OrderStateTTL)))
		logger.Info("mirroring order status to redis", zap.String("host", cfg.RedisHost))
	}

	if cfg.KafkaEnabled() {
		writer := config.NewKafkaWriter(cfg)
		defer writer.Close()
		storeOpts = append(storeOpts, session.WithPublisher(storage.NewKafkaPublisher(writer)))
		logger.Info("publishing order events to kafka", zap.String("topic", cfg.OrderTopic))
	}

	store := session.New(ctx, cat, storeOpts...)
	defer store.Close()

	orders := service.NewOrderQRService(store, service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL})
	pages := router.New(cat, router.WithQRLinker(orders), router.WithSteps(steps...))
	handler := httpapi.NewHandler(store, pages, cat, orders, logger.Named("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(handler, metrics.Handler(reg)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("storefront service starting", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadCatalog(ctx context.Context, cfg *config.Config, seed *catalog.Seed, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogSource != config.CatalogPostgres {
		return seed.Catalog()
	}
	db, err := config.InitPostgres(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	logger.Info("loading catalog from postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	src := catalog.NewPostgresSource(db)
	if err := src.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return src.Load(ctx)
}
