package domain

import (
	"context"

	"github.com/google/uuid"
)

// CartItem is one client-submitted cart entry.
type CartItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	CoverURL    string    `json:"cover_url,omitempty"`
}

// LineItem is a gateway line item. UnitAmount is in minor currency units
// and already tax-inclusive.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Quantity    int64
	ImageURL    string
}

// SessionRequest asks the gateway to open a hosted checkout session.
type SessionRequest struct {
	LineItems     []LineItem
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	// Metadata carries the ebook id set and customer email so the
	// completion event can be correlated without a secondary lookup.
	Metadata map[string]string
}

// CheckoutSession is the gateway's hosted session handle.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentGateway opens hosted checkout sessions.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*CheckoutSession, error)
}

// CompletedCheckout is a verified "checkout completed" event.
type CompletedCheckout struct {
	EventID       string
	SessionID     string
	CustomerEmail string
	EbookIDs      []string
}

// EventParser authenticates and decodes gateway webhook payloads.
// A verified event of an uninteresting type yields (nil, nil).
type EventParser interface {
	Parse(payload []byte, signatureHeader string) (*CompletedCheckout, error)
}
