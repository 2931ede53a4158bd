package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/housing-api/internal/housing"
	"github.com/yourorg/housing-api/internal/paging"
	"github.com/yourorg/housing-api/internal/session"
)

type SessionsDeps struct {
	Sessions *session.Service
}

type sessionResponse struct {
	OK             bool             `json:"ok"`
	ID             string           `json:"id"`
	Filters        housing.Criteria `json:"filters"`
	AppliedFilters housing.Criteria `json:"appliedFilters"`
	SelectedID     string           `json:"selectedListingId,omitempty"`
	Count          int              `json:"count"`
	FilteredCount  int              `json:"filteredCount"`
	Pagination     paging.Meta      `json:"pagination"`
	Options        []int            `json:"itemsPerPageOptions"`
	Listings       []ListingCard    `json:"listings"`
}

func toSessionResponse(v session.View) sessionResponse {
	return sessionResponse{
		OK:             true,
		ID:             v.Session.ID,
		Filters:        v.Session.Draft,
		AppliedFilters: v.Session.Applied,
		SelectedID:     v.Session.SelectedID,
		Count:          len(v.Listings),
		FilteredCount:  v.FilteredCount,
		Pagination:     v.Pagination,
		Options:        paging.ItemsPerPageOptions,
		Listings:       listingsToCards(v.Listings),
	}
}

func RegisterSessions(r chi.Router, d SessionsDeps) {
	svc := d.Sessions

	// writeView renders a session view or maps the error.
	writeView := func(w http.ResponseWriter, req *http.Request, v session.View, err error) {
		if err != nil {
			writeServiceError(w, req, err)
			return
		}
		render.JSON(w, req, toSessionResponse(v))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			v, err := svc.Create(req.Context())
			if err != nil {
				writeServiceError(w, req, err)
				return
			}
			render.Status(req, http.StatusCreated)
			render.JSON(w, req, toSessionResponse(v))
		})

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				v, err := svc.Get(req.Context(), chi.URLParam(req, "sessionID"))
				writeView(w, req, v, err)
			})

			r.Delete("/", func(w http.ResponseWriter, req *http.Request) {
				if err := svc.Delete(req.Context(), chi.URLParam(req, "sessionID")); err != nil {
					writeServiceError(w, req, err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Patch("/filters", func(w http.ResponseWriter, req *http.Request) {
				var patch housing.CriteriaPatch
				if !decodeBody(w, req, &patch) {
					return
				}
				v, err := svc.UpdateFilters(req.Context(), chi.URLParam(req, "sessionID"), patch)
				writeView(w, req, v, err)
			})

			r.Post("/apply", func(w http.ResponseWriter, req *http.Request) {
				v, err := svc.ApplyFilters(req.Context(), chi.URLParam(req, "sessionID"))
				writeView(w, req, v, err)
			})

			r.Put("/items-per-page", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					ItemsPerPage *int `json:"itemsPerPage"`
				}
				if !decodeBody(w, req, &body) {
					return
				}
				if body.ItemsPerPage == nil {
					writeError(w, req, http.StatusBadRequest, "items_per_page_required", "")
					return
				}
				v, err := svc.SetItemsPerPage(req.Context(), chi.URLParam(req, "sessionID"), *body.ItemsPerPage)
				writeView(w, req, v, err)
			})

			r.Put("/page", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					Page *int `json:"page"`
				}
				if !decodeBody(w, req, &body) {
					return
				}
				if body.Page == nil {
					writeError(w, req, http.StatusBadRequest, "page_required", "")
					return
				}
				v, err := svc.GoToPage(req.Context(), chi.URLParam(req, "sessionID"), *body.Page)
				writeView(w, req, v, err)
			})

			r.Post("/page/next", func(w http.ResponseWriter, req *http.Request) {
				v, err := svc.NextPage(req.Context(), chi.URLParam(req, "sessionID"))
				writeView(w, req, v, err)
			})

			r.Post("/page/previous", func(w http.ResponseWriter, req *http.Request) {
				v, err := svc.PreviousPage(req.Context(), chi.URLParam(req, "sessionID"))
				writeView(w, req, v, err)
			})

			r.Post("/listings/{listingID}/select", func(w http.ResponseWriter, req *http.Request) {
				listingID := chi.URLParam(req, "listingID")
				l, err := svc.Select(req.Context(), chi.URLParam(req, "sessionID"), listingID)
				if err != nil {
					writeServiceError(w, req, err)
					return
				}
				render.JSON(w, req, map[string]any{
					"ok":       true,
					"listing":  l,
					"navigate": "/listings/" + l.ID,
				})
			})
		})
	})
}
