package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adamwonghui/Warehouse-Management-System/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps a store failure to an HTTP response. Typed kinds surface
// their message to the caller; anything else is an internal error.
func storeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidArgument):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInvalidState):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInsufficientStock):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		slog.Error(fallback, "error", err)
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}
