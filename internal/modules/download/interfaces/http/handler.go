package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/imsoft/cursumi/internal/modules/download/application"
	"github.com/imsoft/cursumi/internal/modules/download/domain"
)

type DownloadHandler struct {
	service application.DownloadService
}

func NewDownloadHandler(service application.DownloadService) *DownloadHandler {
	return &DownloadHandler{service: service}
}

// Serve handles GET /download/{id}?token= by redirecting to a short-lived
// presigned object URL.
func (h *DownloadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ebookID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ebook id")
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing download token")
		return
	}

	signedURL, err := h.service.ResolveDownload(r.Context(), ebookID, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidToken):
			writeError(w, http.StatusUnauthorized, domain.ErrInvalidToken.Error())
		case errors.Is(err, domain.ErrNotPurchased):
			writeError(w, http.StatusForbidden, domain.ErrNotPurchased.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
		default:
			log.Printf("[DownloadHandler.Serve] %v", err)
			writeError(w, http.StatusInternalServerError, "failed to resolve download")
		}
		return
	}

	http.Redirect(w, r, signedURL, http.StatusFound)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("[download] response encode error: %v", err)
	}
}
