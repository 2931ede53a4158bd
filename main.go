package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/housing-api/feed"
	httpapi "github.com/yourorg/housing-api/http"
	"github.com/yourorg/housing-api/internal/activity"
	"github.com/yourorg/housing-api/internal/catalog"
	"github.com/yourorg/housing-api/internal/env"
	"github.com/yourorg/housing-api/internal/events"
	"github.com/yourorg/housing-api/internal/housing"
	"github.com/yourorg/housing-api/internal/hydrator"
	"github.com/yourorg/housing-api/internal/logger"
	"github.com/yourorg/housing-api/internal/redisx"
	"github.com/yourorg/housing-api/internal/refresh"
	"github.com/yourorg/housing-api/internal/session"
	"github.com/yourorg/housing-api/internal/store"
)

func main() {
	env.Load()
	log := logger.New(logger.Config{
		Level:  env.Get("LOG_LEVEL", "info"),
		Format: env.Get("LOG_FORMAT", "text"),
	})
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("housing-api stopped", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		source housing.Repository
		pg     *store.Store
	)
	switch {
	case env.Get("PG_DSN", "") != "":
		st, err := openStore(rootCtx, env.Get("PG_DSN", ""))
		if err != nil {
			return err
		}
		defer st.Close()
		pg, source = st, st
		log.Info("listings served from postgres")
	case env.Get("LISTINGS_FILE", "") != "":
		path := env.Get("LISTINGS_FILE", "")
		repo, err := housing.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load listings file: %w", err)
		}
		source = repo
		log.Info("listings served from file", "path", path)
	default:
		source = housing.NewStaticRepository(nil)
		log.Warn("no listing source configured; catalog is empty")
	}

	var (
		cache    catalog.Cache
		sessions session.Store = session.NewMemoryStore()
		counter  activity.Counter = activity.NewMemoryCounter()
	)
	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		rc := redisx.New(addr, os.Getenv("REDIS_PASSWORD"), env.GetInt("REDIS_DB", 0))
		ctx, cancel := context.WithTimeout(rootCtx, 5*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		defer rc.Close()
		cache = rc
		sessions = &session.RedisStore{KV: rc, TTL: env.GetDuration("SESSION_TTL", 24*time.Hour)}
		counter = rc
		log.Info("redis enabled", "addr", addr)
	}

	cat := catalog.New(source, cache, catalog.Options{
		TTL:        env.GetDuration("CATALOG_TTL", time.Hour),
		StaleAfter: env.GetDuration("CATALOG_STALE_AFTER", 5*time.Minute),
		Logger:     log.With("component", "catalog"),
	})
	defer cat.Close()

	pub := events.NewInMemory(256)
	tracker := &activity.Tracker{Pub: pub, Catalog: cat, Counter: counter, Logger: log.With("component", "activity")}
	go tracker.Run(rootCtx)

	var hydrate httpapi.HydrateDeps
	if feedURL := env.Get("FEED_URL", ""); feedURL != "" && pg != nil {
		job := &hydrator.Job{
			Client:   feed.NewClient(feedURL, os.Getenv("FEED_API_KEY"), feed.Options{RequestsPerSecond: env.GetFloat("FEED_RPS", 2)}),
			Hydrator: &hydrator.Hydrator{Store: pg, Pub: pub},
			Logger:   log.With("component", "hydrator"),
			Config:   hydratorConfig(),
		}
		runs := refresh.New(1, 1, env.GetDuration("HYDRATOR_RUN_TIMEOUT", 5*time.Minute), func(ctx context.Context, _ refresh.Job) {
			_, err := job.RunOnce(ctx)
			switch {
			case errors.Is(err, hydrator.ErrRunInProgress):
				job.Logger.Info("hydrator run skipped, scheduled run in progress")
			case err != nil:
				job.Logger.Error("hydrator run failed", "error", err)
			}
		})
		defer runs.Close()
		hydrate.Enqueue = func() bool { return runs.Enqueue(refresh.Job{Key: "hydrate"}) }
		if job.Config.Interval > 0 {
			go func() {
				if err := job.Run(rootCtx); err != nil {
					job.Logger.Error("hydrator job stopped", "error", err)
				}
			}()
		}
	}

	router := BuildRouter(RouterDeps{
		Logger:             log,
		RateLimitPerMinute: env.GetInt("RATE_LIMIT_PER_MINUTE", 100),
		Listings:           httpapi.ListingsDeps{Repo: cat, Views: tracker},
		Sessions:           httpapi.SessionsDeps{Sessions: session.NewService(cat, sessions, pub)},
		Hydrate:            hydrate,
	})

	port := env.GetInt("PORT", 4002)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("housing-api listening", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-rootCtx.Done():
	}
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func openStore(ctx context.Context, dsn string) (*store.Store, error) {
	st, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("store open: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return st, nil
}

func hydratorConfig() hydrator.JobConfig {
	return hydrator.JobConfig{
		PageSize:             env.GetInt("HYDRATOR_PAGE_SIZE", 50),
		MaxPages:             env.GetInt("HYDRATOR_MAX_PAGES", 20),
		Interval:             env.GetDuration("HYDRATOR_INTERVAL", 0),
		PauseBetweenRequests: env.GetDuration("HYDRATOR_PAUSE", 500*time.Millisecond),
		RequestTimeout:       env.GetDuration("HYDRATOR_REQUEST_TIMEOUT", 10*time.Second),
		Source:               env.Get("HYDRATOR_SOURCE", "feed"),
	}
}
