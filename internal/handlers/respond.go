package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, stock.ErrUnknownRecipe), errors.Is(err, store.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrOrderAlreadySettled):
		return http.StatusConflict
	case errors.Is(err, store.ErrOrderNotPaid),
		errors.Is(err, stock.ErrUnresolvedComposition),
		errors.Is(err, stock.ErrCompositionCycle):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		applog.Error(r.Context(), "stock request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, status, "internal error")
		return
	}
	applog.Debug(r.Context(), "stock request rejected", "path", r.URL.Path, "status", status, "error", err)
	writeJSONError(w, status, err.Error())
}

func pathID(r *http.Request, name string) (uint, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || value == 0 {
		applog.Debug(r.Context(), "invalid path identifier", "name", name, "value", r.PathValue(name))
		return 0, false
	}
	return uint(value), true
}
