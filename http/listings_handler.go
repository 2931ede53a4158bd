package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/housing-api/internal/housing"
	"github.com/yourorg/housing-api/internal/logger"
	"github.com/yourorg/housing-api/internal/paging"
)

// ViewCounter reports how often a listing was opened. *activity.Tracker
// satisfies it.
type ViewCounter interface {
	Views(ctx context.Context, listingID string) (int64, error)
}

type ListingsDeps struct {
	Repo  housing.Repository
	Views ViewCounter
}

func RegisterListings(r chi.Router, d ListingsDeps) {
	r.Get("/listings", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		perPage, err := paging.ParseItemsPerPage(q.Get("itemsPerPage"))
		if err != nil {
			writeError(w, req, http.StatusBadRequest, "invalid_items_per_page", err.Error())
			return
		}
		page := 1
		if v := strings.TrimSpace(q.Get("page")); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, req, http.StatusBadRequest, "invalid_page", "page must be an integer")
				return
			}
			page = i
		}

		all, err := d.Repo.All(req.Context())
		if err != nil {
			writeError(w, req, http.StatusBadGateway, "catalog_unavailable", err.Error())
			return
		}
		filtered := housing.Apply(all, criteriaFromQuery(q))
		listings := paging.Slice(filtered, perPage, page)
		logger.FromContext(req.Context()).Debug("listings filtered",
			"total", len(all), "filtered", len(filtered), "page", page, "items_per_page", perPage)

		render.JSON(w, req, map[string]any{
			"ok":            true,
			"count":         len(listings),
			"filteredCount": len(filtered),
			"pagination":    paging.NewMeta(perPage, page, len(filtered)),
			"listings":      listingsToCards(listings),
		})
	})

	r.Get("/listings/{listingID}", func(w http.ResponseWriter, req *http.Request) {
		listingID := chi.URLParam(req, "listingID")
		l, err := d.Repo.ByID(req.Context(), listingID)
		if err != nil {
			writeServiceError(w, req, err)
			return
		}
		details := ListingDetails{Listing: l, Geohash: l.Geohash()}
		if d.Views != nil {
			n, err := d.Views.Views(req.Context(), listingID)
			if err != nil {
				logger.FromContext(req.Context()).Warn("view count lookup failed", "listing_id", listingID, "error", err)
			}
			details.Views = n
		}
		render.JSON(w, req, map[string]any{"ok": true, "listing": details})
	})
}

// criteriaFromQuery reads the filter form from query parameters. Both the
// short names and the filter* form names are accepted.
func criteriaFromQuery(q url.Values) housing.Criteria {
	return housing.Criteria{
		FormattedAddress: firstOf(q, "address", "filterFormattedAddress"),
		Bathrooms:        firstOf(q, "bathrooms", "filterBathrooms"),
		Bedrooms:         firstOf(q, "bedrooms", "filterBedrooms"),
		UsableArea:       firstOf(q, "usableArea", "filterUsableArea"),
		Price:            firstOf(q, "price", "filterPrice"),
		ParkingSpaces:    firstOf(q, "parkingSpaces", "filterParkingSpaces"),
	}
}

func firstOf(q url.Values, names ...string) string {
	for _, n := range names {
		if v := q.Get(n); v != "" {
			return v
		}
	}
	return ""
}
