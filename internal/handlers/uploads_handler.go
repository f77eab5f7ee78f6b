package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shaibs3/recipebook/internal/media"
	"go.uber.org/zap"
)

// UploadsHandler serves stored media back by name
type UploadsHandler struct {
	uploader *media.Uploader
}

// NewUploadsHandler creates a new uploads handler
func NewUploadsHandler(uploader *media.Uploader) *UploadsHandler {
	return &UploadsHandler{uploader: uploader}
}

// RegisterRoutes registers the routes for this handler
func (h *UploadsHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	logger = logger.Named("uploads")
	router.HandleFunc("/uploads/{file}", func(w http.ResponseWriter, r *http.Request) {
		name, err := pathVar(r, "file")
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		obj, err := h.uploader.Open(r.Context(), name)
		if errors.Is(err, media.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error("failed to open upload", zap.String("file", name), zap.Error(err))
			http.Error(w, internalError, http.StatusInternalServerError)
			return
		}
		defer obj.Content.Close()

		if obj.ContentType != "" {
			w.Header().Set("Content-Type", obj.ContentType)
		}
		http.ServeContent(w, r, name, obj.ModTime, obj.Content)
	}).Methods(http.MethodGet, http.MethodHead)
}
