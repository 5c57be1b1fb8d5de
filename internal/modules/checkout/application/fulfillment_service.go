package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	catalogDomain "github.com/imsoft/cursumi/internal/modules/catalog/domain"
	"github.com/imsoft/cursumi/internal/modules/checkout/domain"
	mailerDomain "github.com/imsoft/cursumi/internal/modules/mailer/domain"
	"github.com/imsoft/cursumi/pkg/retry"
	"github.com/redis/go-redis/v9"
)

// eventDedupeTTL bounds how long a processed gateway event id is remembered.
const eventDedupeTTL = 24 * time.Hour

// ConfirmationMailer dispatches the purchase confirmation. Implemented by
// the mailer module.
type ConfirmationMailer interface {
	SendPurchaseConfirmation(ctx context.Context, email string, items []mailerDomain.DownloadItem) error
}

// DownloadLinkBuilder mints tokened download links for emailed and
// confirmation-page entries. Implemented by the download module.
type DownloadLinkBuilder interface {
	BuildDownloadLink(ebookID uuid.UUID, email string) (string, error)
}

// PurchasedEbook is a completed purchase joined with catalog metadata for
// the confirmation page.
type PurchasedEbook struct {
	EbookID     string  `json:"ebook_id"`
	Title       string  `json:"title"`
	CoverURL    *string `json:"cover_url,omitempty"`
	Amount      float64 `json:"amount"`
	DownloadURL string  `json:"download_url"`
}

type FulfillmentService interface {
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
	GetCompletedPurchases(ctx context.Context, email string) ([]PurchasedEbook, error)
}

type fulfillmentService struct {
	parser      domain.EventParser
	purchases   domain.PurchaseRepository
	ebooks      catalogDomain.EbookFinder
	mailer      ConfirmationMailer
	links       DownloadLinkBuilder
	redisClient *redis.Client
	retry       retry.Policy
}

func NewFulfillmentService(
	parser domain.EventParser,
	purchases domain.PurchaseRepository,
	ebooks catalogDomain.EbookFinder,
	mailer ConfirmationMailer,
	links DownloadLinkBuilder,
	redisClient *redis.Client,
	retryPolicy retry.Policy,
) FulfillmentService {
	return &fulfillmentService{
		parser:      parser,
		purchases:   purchases,
		ebooks:      ebooks,
		mailer:      mailer,
		links:       links,
		redisClient: redisClient,
		retry:       retryPolicy,
	}
}

// HandleEvent processes a gateway completion event. The status update is
// the source of truth and must be attempted before email dispatch; a mail
// failure never rolls it back. Re-delivered events are no-ops.
func (s *fulfillmentService) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	completed, err := s.parser.Parse(payload, signatureHeader)
	if err != nil {
		return err
	}
	if completed == nil {
		// Verified but not a checkout completion; acknowledge and move on.
		return nil
	}

	if completed.CustomerEmail == "" || len(completed.EbookIDs) == 0 {
		return domain.ErrMalformedEvent
	}
	ebookIDs := make([]uuid.UUID, 0, len(completed.EbookIDs))
	for _, raw := range completed.EbookIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: bad ebook id %q", domain.ErrMalformedEvent, raw)
		}
		ebookIDs = append(ebookIDs, id)
	}

	if s.seenBefore(ctx, completed.EventID) {
		log.Printf("[FulfillmentService] duplicate event %s, skipping", completed.EventID)
		return nil
	}

	ebooks, err := s.ebooks.FindByIDs(ctx, ebookIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch purchased ebooks: %w", err)
	}
	byID := make(map[uuid.UUID]*catalogDomain.Ebook, len(ebooks))
	for i := range ebooks {
		byID[ebooks[i].ID] = &ebooks[i]
	}

	transitioned := false
	for _, id := range ebookIDs {
		amount := 0.0
		if ebook, ok := byID[id]; ok {
			amount = ebook.Price
		}
		var changed bool
		err := s.retry.Do(ctx, func() error {
			var inner error
			changed, inner = s.purchases.CompleteOrRegister(ctx, completed.CustomerEmail, id, amount)
			return inner
		})
		if err != nil {
			return fmt.Errorf("failed to complete purchase of %s: %w", id, err)
		}
		transitioned = transitioned || changed
	}

	// Every status update landed; only now is the event safe to remember.
	// A failed delivery must stay eligible for gateway redelivery.
	s.markProcessed(ctx, completed.EventID)

	if !transitioned {
		// The whole batch was already completed; a confirmation email went
		// out on the first delivery.
		log.Printf("[FulfillmentService] purchases for %s already completed, skipping email", completed.CustomerEmail)
		return nil
	}

	items := make([]mailerDomain.DownloadItem, 0, len(ebooks))
	for i := range ebooks {
		link, err := s.links.BuildDownloadLink(ebooks[i].ID, completed.CustomerEmail)
		if err != nil {
			log.Printf("[FulfillmentService] failed to build download link for %s: %v", ebooks[i].ID, err)
			continue
		}
		items = append(items, mailerDomain.DownloadItem{Title: ebooks[i].Title, URL: link})
	}

	mailErr := s.retry.Do(ctx, func() error {
		return s.mailer.SendPurchaseConfirmation(ctx, completed.CustomerEmail, items)
	})
	if mailErr != nil {
		// Payment already succeeded and the rows are completed; the
		// confirmation page still lists the downloads.
		log.Printf("[FulfillmentService] confirmation email to %s failed: %v", completed.CustomerEmail, mailErr)
	}

	return nil
}

// GetCompletedPurchases backs the confirmation page: completed rows joined
// with catalog metadata plus fresh tokened download links.
func (s *fulfillmentService) GetCompletedPurchases(ctx context.Context, email string) ([]PurchasedEbook, error) {
	purchases, err := s.purchases.ListCompletedByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return []PurchasedEbook{}, nil
	}

	ids := make([]uuid.UUID, 0, len(purchases))
	for _, p := range purchases {
		ids = append(ids, p.EbookID)
	}
	ebooks, err := s.ebooks.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalogDomain.Ebook, len(ebooks))
	for i := range ebooks {
		byID[ebooks[i].ID] = &ebooks[i]
	}

	out := make([]PurchasedEbook, 0, len(purchases))
	for _, p := range purchases {
		ebook, ok := byID[p.EbookID]
		if !ok {
			continue
		}
		link, err := s.links.BuildDownloadLink(p.EbookID, email)
		if err != nil {
			log.Printf("[FulfillmentService] failed to build download link for %s: %v", p.EbookID, err)
			continue
		}
		out = append(out, PurchasedEbook{
			EbookID:     p.EbookID.String(),
			Title:       ebook.Title,
			CoverURL:    ebook.CoverURL,
			Amount:      p.Amount,
			DownloadURL: link,
		})
	}
	return out, nil
}

// seenBefore reports whether the event id was already fully processed.
// Redis being down is not fatal: the status update itself is idempotent.
func (s *fulfillmentService) seenBefore(ctx context.Context, eventID string) bool {
	if s.redisClient == nil || eventID == "" {
		return false
	}
	n, err := s.redisClient.Exists(ctx, eventDedupeKey(eventID)).Result()
	if err != nil {
		log.Printf("[FulfillmentService] event dedupe unavailable: %v", err)
		return false
	}
	return n > 0
}

// markProcessed records the event id after all its status updates landed.
func (s *fulfillmentService) markProcessed(ctx context.Context, eventID string) {
	if s.redisClient == nil || eventID == "" {
		return
	}
	if err := s.redisClient.SetNX(ctx, eventDedupeKey(eventID), 1, eventDedupeTTL).Err(); err != nil {
		log.Printf("[FulfillmentService] failed to record processed event %s: %v", eventID, err)
	}
}

func eventDedupeKey(eventID string) string {
	return "checkout:event:" + eventID
}
