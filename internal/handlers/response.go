package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/shaibs3/recipebook/internal/model"
	"go.uber.org/zap"
)

const internalError = "Internal server error"

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeStoreError maps a catalog or upload failure to a status code.
// Only client errors echo their message back.
func writeStoreError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidRecipe):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrDuplicateRecipe):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Error(msg, zap.Error(err))
		http.Error(w, internalError, http.StatusInternalServerError)
	}
}

// pathVar returns a decoded route variable. The router matches on the
// encoded path so that values may contain an escaped slash.
func pathVar(r *http.Request, key string) (string, error) {
	raw := mux.Vars(r)[key]
	v, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
