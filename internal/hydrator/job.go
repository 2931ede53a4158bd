package hydrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yourorg/housing-api/feed"
)

// Fetcher reads pages of the upstream listing feed. *feed.Client satisfies it.
type Fetcher interface {
	FetchListings(ctx context.Context, page, pageSize int) (feed.Page, error)
}

type JobConfig struct {
	PageSize             int
	MaxPages             int
	Interval             time.Duration
	PauseBetweenRequests time.Duration
	RequestTimeout       time.Duration
	Source               string
}

// ErrRunInProgress is returned by RunOnce while another run of the same job
// is walking the feed.
var ErrRunInProgress = errors.New("hydrator run already in progress")

// Job pulls the feed page by page into the hydrator's store. Runs of one Job
// never overlap.
type Job struct {
	Client   Fetcher
	Hydrator *Hydrator
	Logger   *slog.Logger
	Config   JobConfig

	running sync.Mutex
}

func (j *Job) log() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *Job) validate() error {
	if j == nil {
		return errors.New("nil hydrator job")
	}
	if j.Client == nil {
		return errors.New("hydrator job missing feed client")
	}
	if !j.Hydrator.Enabled() {
		return errors.New("hydrator job requires hydrator with store")
	}
	return nil
}

// config returns Config with defaults filled in. Config itself is not
// written so concurrent callers only read it.
func (j *Job) config() JobConfig {
	cfg := j.Config
	if cfg.Source == "" {
		cfg.Source = "feed"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 20
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return cfg
}

// Run hydrates once and then on every interval tick until ctx ends. Without
// an interval it behaves like RunOnce.
func (j *Job) Run(ctx context.Context) error {
	if err := j.validate(); err != nil {
		return err
	}
	interval := j.Config.Interval
	if interval <= 0 {
		_, err := j.RunOnce(ctx)
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	j.log().Info("hydrator job starting", "interval", interval.String())
	if _, err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrRunInProgress) {
		j.log().Error("hydrator job initial run failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			j.log().Info("hydrator job stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrRunInProgress) {
				j.log().Error("hydrator job iteration failed", "error", err)
			}
		}
	}
}

// RunOnce walks the feed until a short page or MaxPages and returns the
// number of listings written. Per-page failures are joined; a rate limit
// stops the walk.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	if err := j.validate(); err != nil {
		return 0, err
	}
	if !j.running.TryLock() {
		return 0, ErrRunInProgress
	}
	defer j.running.Unlock()
	cfg := j.config()
	var joined error
	total := 0
	for page := 1; page <= cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		p, err := j.Client.FetchListings(reqCtx, page, cfg.PageSize)
		cancel()
		if err != nil {
			if errors.Is(err, feed.ErrRateLimited) {
				return total, errors.Join(joined, err)
			}
			joined = errors.Join(joined, fmt.Errorf("page %d fetch: %w", page, err))
			break
		}
		if p.Skipped > 0 {
			j.log().Warn("hydrator skipped feed records", "page", page, "skipped", p.Skipped)
		}
		n, err := j.Hydrator.Write(ctx, cfg.Source, p.Listings)
		total += n
		if err != nil {
			joined = errors.Join(joined, fmt.Errorf("page %d persist: %w", page, err))
		}
		if len(p.Listings)+p.Skipped < cfg.PageSize {
			break
		}
		if pause := cfg.PauseBetweenRequests; pause > 0 {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-time.After(pause):
			}
		}
	}
	if total > 0 {
		j.log().Info("hydrator persisted listings", "source", cfg.Source, "count", total)
	} else if joined == nil {
		j.log().Info("hydrator feed returned no listings", "source", cfg.Source)
	}
	return total, joined
}
