package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imsoft/cursumi/internal/modules/checkout/domain"
	stripesdk "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Gateway implements domain.PaymentGateway and domain.EventParser against
// Stripe hosted checkout.
type Gateway struct {
	api           *client.API
	webhookSecret string
}

func NewGateway(secretKey, webhookSecret string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

// CreateCheckoutSession opens a hosted payment session. The session is
// ephemeral and never persisted locally; only its URL is handed back.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, req *domain.SessionRequest) (*domain.CheckoutSession, error) {
	lineItems := make([]*stripesdk.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		productData := &stripesdk.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripesdk.String(item.Name),
		}
		if item.Description != "" {
			productData.Description = stripesdk.String(item.Description)
		}
		if item.ImageURL != "" {
			productData.Images = stripesdk.StringSlice([]string{item.ImageURL})
		}

		lineItems = append(lineItems, &stripesdk.CheckoutSessionLineItemParams{
			PriceData: &stripesdk.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripesdk.String(string(stripesdk.CurrencyUSD)),
				ProductData: productData,
				UnitAmount:  stripesdk.Int64(item.UnitAmount),
			},
			Quantity: stripesdk.Int64(item.Quantity),
		})
	}

	params := &stripesdk.CheckoutSessionParams{
		Mode:               stripesdk.String(string(stripesdk.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripesdk.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripesdk.String(req.SuccessURL),
		CancelURL:          stripesdk.String(req.CancelURL),
		CustomerEmail:      stripesdk.String(req.CustomerEmail),
		Locale:             stripesdk.String("auto"),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe session creation failed: %w", err)
	}

	return &domain.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// Parse verifies the webhook signature and decodes a checkout completion.
// Signature verification is the sole authentication on this endpoint.
func (g *Gateway) Parse(payload []byte, signatureHeader string) (*domain.CompletedCheckout, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	if event.Type != stripesdk.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	var session stripesdk.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}

	email := session.CustomerEmail
	if email == "" {
		email = session.Metadata["customer_email"]
	}

	var ebookIDs []string
	if raw := session.Metadata["ebook_ids"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &ebookIDs); err != nil {
			return nil, fmt.Errorf("%w: bad ebook_ids metadata", domain.ErrMalformedEvent)
		}
	}

	return &domain.CompletedCheckout{
		EventID:       event.ID,
		SessionID:     session.ID,
		CustomerEmail: email,
		EbookIDs:      ebookIDs,
	}, nil
}
