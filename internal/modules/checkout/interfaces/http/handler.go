package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/imsoft/cursumi/internal/modules/checkout/application"
	"github.com/imsoft/cursumi/internal/modules/checkout/domain"
)

// maxWebhookBody caps the raw webhook payload read into memory.
const maxWebhookBody = 64 << 10

type CheckoutHandler struct {
	checkout    application.CheckoutService
	fulfillment application.FulfillmentService
}

func NewCheckoutHandler(checkout application.CheckoutService, fulfillment application.FulfillmentService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, fulfillment: fulfillment}
}

type checkoutRequest struct {
	Cart  []domain.CartItem `json:"cart"`
	Email string            `json:"email"`
}

// CreateSession handles POST /api/checkout.
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url, err := h.checkout.CreateSession(r.Context(), req.Cart, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest.Error())
			return
		}
		log.Printf("[CheckoutHandler.CreateSession] %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Webhook handles POST /api/webhooks/stripe. Failures are returned as
// generic 400s so verification details never leak.
func (h *CheckoutHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "webhook error")
		return
	}

	if err := h.fulfillment.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		log.Printf("[CheckoutHandler.Webhook] %v", err)
		writeError(w, http.StatusBadRequest, "webhook error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// ListPurchases handles GET /api/purchases?email= for the confirmation
// page.
func (h *CheckoutHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing email")
		return
	}

	purchases, err := h.fulfillment.GetCompletedPurchases(r.Context(), email)
	if err != nil {
		log.Printf("[CheckoutHandler.ListPurchases] %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load purchases")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"purchases": purchases})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[checkout] response encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
