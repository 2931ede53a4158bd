package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type HydrateDeps struct {
	// Enqueue schedules a hydration run and reports whether it was accepted.
	// Nil means no feed is configured.
	Enqueue func() bool
}

func RegisterHydrate(r chi.Router, d HydrateDeps) {
	r.Post("/hydrate", func(w http.ResponseWriter, req *http.Request) {
		if d.Enqueue == nil {
			writeError(w, req, http.StatusServiceUnavailable, "hydrator_disabled", "no listing feed configured")
			return
		}
		queued := d.Enqueue()
		render.Status(req, http.StatusAccepted)
		render.JSON(w, req, map[string]any{"ok": true, "queued": queued})
	})
}
