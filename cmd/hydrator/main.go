package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/housing-api/feed"
	"github.com/yourorg/housing-api/internal/activity"
	"github.com/yourorg/housing-api/internal/catalog"
	"github.com/yourorg/housing-api/internal/env"
	"github.com/yourorg/housing-api/internal/events"
	"github.com/yourorg/housing-api/internal/hydrator"
	"github.com/yourorg/housing-api/internal/logger"
	"github.com/yourorg/housing-api/internal/redisx"
	"github.com/yourorg/housing-api/internal/store"
)

func main() {
	env.Load()
	log := logger.New(logger.Config{
		Level:  env.Get("LOG_LEVEL", "info"),
		Format: env.Get("LOG_FORMAT", "text"),
	})
	slog.SetDefault(log)

	feedURL := env.Must("FEED_URL")
	dsn := env.Must("PG_DSN")
	runOnce := env.GetBool("HYDRATOR_RUN_ONCE", false)

	client := feed.NewClient(feedURL, os.Getenv("FEED_API_KEY"), feed.Options{
		RequestsPerSecond: env.GetFloat("FEED_RPS", 2),
	})

	st, err := store.Open(dsn)
	if err != nil {
		fatal(log, "store open error", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Ping(ctx); err != nil {
		cancel()
		fatal(log, "postgres ping error", err)
	}
	if err := st.Migrate(ctx); err != nil {
		cancel()
		fatal(log, "postgres migrate error", err)
	}
	cancel()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub := events.NewInMemory(256)
	// Drop the API's cached catalog snapshot whenever this process writes.
	var cat *catalog.Catalog
	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		rc := redisx.New(addr, os.Getenv("REDIS_PASSWORD"), env.GetInt("REDIS_DB", 0))
		defer rc.Close()
		cat = catalog.New(st, rc, catalog.Options{Logger: log})
		defer cat.Close()
		tracker := &activity.Tracker{Pub: pub, Catalog: cat, Logger: log.With("component", "activity")}
		go tracker.Run(rootCtx)
	}

	job := &hydrator.Job{
		Client:   client,
		Hydrator: &hydrator.Hydrator{Store: st, Pub: pub},
		Logger:   log.With("component", "hydrator"),
		Config: hydrator.JobConfig{
			PageSize:             env.GetInt("HYDRATOR_PAGE_SIZE", 50),
			MaxPages:             env.GetInt("HYDRATOR_MAX_PAGES", 20),
			Interval:             env.GetDuration("HYDRATOR_INTERVAL", 6*time.Hour),
			PauseBetweenRequests: env.GetDuration("HYDRATOR_PAUSE", 1500*time.Millisecond),
			RequestTimeout:       env.GetDuration("HYDRATOR_REQUEST_TIMEOUT", 12*time.Second),
			Source:               env.Get("HYDRATOR_SOURCE", "feed"),
		},
	}

	if runOnce {
		n, err := job.RunOnce(rootCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			fatal(log, "hydrator run failed", err)
		}
		if cat != nil && n > 0 {
			if err := cat.Invalidate(context.Background()); err != nil {
				log.Warn("catalog invalidate failed", "error", err)
			}
		}
		log.Info("hydrator run finished", "count", n)
		return
	}

	if err := job.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(log, "hydrator job stopped with error", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
