package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/imsoft/cursumi/internal/modules/catalog/application"
	"github.com/imsoft/cursumi/internal/modules/catalog/domain"
	"github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

type EbookHandler struct {
	service     application.CatalogService
	redisClient *redis.Client
}

func NewEbookHandler(service application.CatalogService, redisClient *redis.Client) *EbookHandler {
	return &EbookHandler{service: service, redisClient: redisClient}
}

func (h *EbookHandler) List(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "ebooks:list"

	if h.serveFromCache(w, r.Context(), cacheKey) {
		return
	}

	ebooks, err := h.service.ListEbooks(r.Context())
	if err != nil {
		log.Printf("[EbookHandler.List] %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	h.writeAndCache(w, r.Context(), cacheKey, ToEbookResponses(ebooks))
}

func (h *EbookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ebook id")
		return
	}

	cacheKey := "ebook:" + id.String()
	if h.serveFromCache(w, r.Context(), cacheKey) {
		return
	}

	ebook, err := h.service.GetEbook(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEbookNotFound) {
			writeError(w, http.StatusNotFound, "ebook not found")
			return
		}
		log.Printf("[EbookHandler.Get] %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load ebook")
		return
	}

	h.writeAndCache(w, r.Context(), cacheKey, ToEbookResponse(ebook))
}

func (h *EbookHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := 3
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	ebooks, err := h.service.ListPopularEbooks(r.Context(), limit)
	if err != nil {
		log.Printf("[EbookHandler.Popular] %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load popular ebooks")
		return
	}

	writeJSON(w, http.StatusOK, ToEbookResponses(ebooks))
}

// serveFromCache replies with the cached payload when present. Cache errors
// fall through to the database.
func (h *EbookHandler) serveFromCache(w http.ResponseWriter, ctx context.Context, key string) bool {
	if h.redisClient == nil {
		return false
	}
	val, err := h.redisClient.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(val))
	return true
}

func (h *EbookHandler) writeAndCache(w http.ResponseWriter, ctx context.Context, key string, payload any) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding error")
		return
	}
	if h.redisClient != nil {
		if err := h.redisClient.Set(ctx, key, jsonBytes, cacheTTL).Err(); err != nil {
			log.Printf("[EbookHandler] cache set failed for %s: %v", key, err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[catalog] response encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
