package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/yourorg/housing-api/internal/housing"
	"github.com/yourorg/housing-api/internal/logger"
	"github.com/yourorg/housing-api/internal/paging"
	"github.com/yourorg/housing-api/internal/session"
)

func writeError(w http.ResponseWriter, req *http.Request, status int, code string, detail string) {
	body := map[string]any{"error": code}
	if detail != "" {
		body["detail"] = detail
	}
	render.Status(req, status)
	render.JSON(w, req, body)
}

// writeServiceError maps service sentinels onto HTTP errors.
func writeServiceError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, req, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, housing.ErrListingNotFound):
		writeError(w, req, http.StatusNotFound, "listing_not_found", err.Error())
	case errors.Is(err, paging.ErrInvalidItemsPerPage):
		writeError(w, req, http.StatusBadRequest, "invalid_items_per_page", err.Error())
	default:
		logger.FromContext(req.Context()).Error("request failed", "http_path", req.URL.Path, "error", err)
		writeError(w, req, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// decodeBody decodes a JSON request body into dst. It writes the 400 itself
// and reports false on failure.
func decodeBody(w http.ResponseWriter, req *http.Request, dst any) bool {
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		writeError(w, req, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}
