package http

import (
	"encoding/json"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/imsoft/cursumi/internal/modules/mailer/application"
)

type ContactHandler struct {
	service *application.MailerService
}

func NewContactHandler(service *application.MailerService) *ContactHandler {
	return &ContactHandler{service: service}
}

type contactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	AcceptTerms bool   `json:"accept_terms"`
}

// Submit validates a contact-form submission and forwards it to the
// operator mailbox. Dispatch failure is fatal here: the submitter must
// know the message did not go through.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	if errs := validateContact(req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors":  errs,
			"message": "There are errors in the form. Please check the fields.",
		})
		return
	}

	if err := h.service.SendContactNotification(r.Context(), req.Name, req.Email, req.Message); err != nil {
		log.Printf("[ContactHandler] %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": "Failed to send the message. Please try again later.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Thank you for your message. We will contact you soon.",
	})
}

func validateContact(req contactRequest) map[string]string {
	errs := make(map[string]string)
	if len(strings.TrimSpace(req.Name)) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs["email"] = "Please enter a valid email address"
	}
	if len(strings.TrimSpace(req.Message)) < 10 {
		errs["message"] = "Message must be at least 10 characters"
	}
	if !req.AcceptTerms {
		errs["accept_terms"] = "You must accept the terms and conditions and privacy policy"
	}
	return errs
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[mailer] response encode error: %v", err)
	}
}
