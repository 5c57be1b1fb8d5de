package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
)

// Purchase asserts a customer intends to or has acquired an ebook. Rows are
// created pending at checkout, flipped to completed by the webhook, and
// never deleted.
type Purchase struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	EbookID       uuid.UUID      `json:"ebook_id" db:"ebook_id"`
	CustomerEmail string         `json:"customer_email" db:"customer_email"`
	Amount        float64        `json:"amount" db:"amount"`
	Status        PurchaseStatus `json:"status" db:"status"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

type PurchaseRepository interface {
	// CreatePending inserts one pending row per cart item.
	CreatePending(ctx context.Context, purchases []Purchase) error

	// CompleteOrRegister flips the pending row for (email, ebook) to
	// completed. When no row exists at all (the checkout-time insert was
	// lost), a completed row is registered instead. Reports whether any
	// state actually changed, which keys the email dedupe.
	CompleteOrRegister(ctx context.Context, email string, ebookID uuid.UUID, amount float64) (bool, error)

	// ListCompletedByEmail returns the completed purchases for a customer.
	ListCompletedByEmail(ctx context.Context, email string) ([]Purchase, error)

	// HasCompleted reports whether the customer holds a completed purchase
	// for the ebook.
	HasCompleted(ctx context.Context, email string, ebookID uuid.UUID) (bool, error)
}
