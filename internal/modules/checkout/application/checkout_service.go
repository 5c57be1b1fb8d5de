package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/imsoft/cursumi/internal/modules/checkout/domain"
	"github.com/imsoft/cursumi/pkg/retry"
)

// TaxRate is the VAT surcharge applied on top of the listed price when
// building gateway line items. Recorded purchase amounts stay pre-tax.
const TaxRate = 0.16

type CheckoutService interface {
	CreateSession(ctx context.Context, cart []domain.CartItem, email string) (string, error)
}

type checkoutService struct {
	gateway   domain.PaymentGateway
	purchases domain.PurchaseRepository
	baseURL   string
	retry     retry.Policy
}

func NewCheckoutService(
	gateway domain.PaymentGateway,
	purchases domain.PurchaseRepository,
	baseURL string,
	retryPolicy retry.Policy,
) CheckoutService {
	return &checkoutService{
		gateway:   gateway,
		purchases: purchases,
		baseURL:   baseURL,
		retry:     retryPolicy,
	}
}

// CreateSession opens a hosted checkout session for the cart and
// pre-registers one pending purchase row per item. The session is created
// first: a failed row write must never block payment, so insertion errors
// are logged and reconciled later by the webhook.
func (s *checkoutService) CreateSession(ctx context.Context, cart []domain.CartItem, email string) (string, error) {
	if len(cart) == 0 || email == "" {
		return "", domain.ErrInvalidRequest
	}

	lineItems := make([]domain.LineItem, 0, len(cart))
	ebookIDs := make([]string, 0, len(cart))
	for _, item := range cart {
		lineItems = append(lineItems, domain.LineItem{
			Name:        item.Title,
			Description: item.Description,
			UnitAmount:  taxInclusiveUnitAmount(item.Price),
			Quantity:    1,
			ImageURL:    item.CoverURL,
		})
		ebookIDs = append(ebookIDs, item.ID.String())
	}

	idsJSON, err := json.Marshal(ebookIDs)
	if err != nil {
		return "", fmt.Errorf("failed to encode ebook ids: %w", err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, &domain.SessionRequest{
		LineItems:     lineItems,
		CustomerEmail: email,
		SuccessURL:    s.baseURL + "/thank-you?success=true&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.baseURL + "/cart?canceled=true",
		Metadata: map[string]string{
			"ebook_ids":      string(idsJSON),
			"customer_email": email,
		},
	})
	if err != nil {
		return "", fmt.Errorf("checkout session creation failed: %w", err)
	}

	pending := make([]domain.Purchase, 0, len(cart))
	for _, item := range cart {
		pending = append(pending, domain.Purchase{
			ID:            uuid.New(),
			EbookID:       item.ID,
			CustomerEmail: email,
			Amount:        item.Price,
			Status:        domain.PurchaseStatusPending,
		})
	}

	insertErr := s.retry.Do(ctx, func() error {
		return s.purchases.CreatePending(ctx, pending)
	})
	if insertErr != nil {
		// Payment can still proceed; the webhook registers the rows on
		// completion.
		log.Printf("[CheckoutService] failed to pre-register %d purchase(s) for %s: %v", len(pending), email, insertErr)
	}

	return session.URL, nil
}

// taxInclusiveUnitAmount converts a listed price to minor currency units
// with the VAT surcharge applied.
func taxInclusiveUnitAmount(price float64) int64 {
	return int64(math.Round(price * (1 + TaxRate) * 100))
}
