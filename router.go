package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	httpapi "github.com/yourorg/housing-api/http"
	"github.com/yourorg/housing-api/internal/logger"
)

type RouterDeps struct {
	Logger             *slog.Logger
	RateLimitPerMinute int
	Listings           httpapi.ListingsDeps
	Sessions           httpapi.SessionsDeps
	Hydrate            httpapi.HydrateDeps
}

func BuildRouter(d RouterDeps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RateLimitPerMinute <= 0 {
		d.RateLimitPerMinute = 100
	}
	r := chi.NewRouter()
	r.Use(logger.Middleware(d.Logger))
	r.Use(httprate.LimitByIP(d.RateLimitPerMinute, 1*time.Minute))
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterListings(r, d.Listings)
	httpapi.RegisterSessions(r, d.Sessions)
	httpapi.RegisterHydrate(r, d.Hydrate)

	return r
}
