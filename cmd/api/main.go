package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/brewlytics/api/controllers"
	"github.com/angelmondragon/brewlytics/api/routes"
	"github.com/angelmondragon/brewlytics/internal/customeranalytics"
	"github.com/angelmondragon/brewlytics/internal/gateway"
	"github.com/angelmondragon/brewlytics/internal/insights"
	"github.com/angelmondragon/brewlytics/internal/memo"
	"github.com/angelmondragon/brewlytics/internal/recommendations"
	"github.com/angelmondragon/brewlytics/pkg/config"
	"github.com/angelmondragon/brewlytics/pkg/db"
	"github.com/angelmondragon/brewlytics/pkg/logger"
	"github.com/angelmondragon/brewlytics/pkg/metrics"
	"github.com/angelmondragon/brewlytics/pkg/migrate"
	"github.com/angelmondragon/brewlytics/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	analyticsMetrics := metrics.NewAnalyticsMetrics(registry)

	clock := clockwork.NewRealClock()
	var (
		store       memo.Store
		cachePinger controllers.Pinger
	)
	if cfg.Cache.UsesRedis() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisStore := memo.NewRedisStore(redisClient)
		store, cachePinger = redisStore, redisStore
	} else {
		lruStore := memo.NewLRUStore(cfg.Cache.MemorySize, cfg.Cache.TTL, clock)
		store, cachePinger = lruStore, lruStore
	}
	cache := memo.New(store, cfg.Cache.TTL, logg, analyticsMetrics)

	repo := gateway.NewRepository(dbClient.DB())
	recs, err := recommendations.NewEngine(repo, cache, clock, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendation engine", err)
		os.Exit(1)
	}
	insightsEngine, err := insights.NewEngine(repo, cache, clock, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create insights engine", err)
		os.Exit(1)
	}
	analyticsService, err := customeranalytics.NewService(repo, recs, insightsEngine, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"cache_backend": cfg.Cache.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, cachePinger, registry, analyticsService),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-stop.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
