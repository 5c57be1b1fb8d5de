package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	catalogDomain "github.com/imsoft/cursumi/internal/modules/catalog/domain"
	"github.com/imsoft/cursumi/internal/modules/download/domain"
	filestorageDomain "github.com/imsoft/cursumi/internal/modules/filestorage/domain"
)

// PurchaseChecker answers whether the customer holds a completed purchase
// of the ebook. Implemented by the checkout purchase repository.
type PurchaseChecker interface {
	HasCompleted(ctx context.Context, email string, ebookID uuid.UUID) (bool, error)
}

type DownloadService interface {
	ResolveDownload(ctx context.Context, ebookID uuid.UUID, token string) (string, error)
}

type downloadService struct {
	tokens    domain.TokenIssuer
	purchases PurchaseChecker
	ebooks    catalogDomain.EbookFinder
	storage   filestorageDomain.ObjectStorage
	urlExpiry time.Duration
}

func NewDownloadService(
	tokens domain.TokenIssuer,
	purchases PurchaseChecker,
	ebooks catalogDomain.EbookFinder,
	storage filestorageDomain.ObjectStorage,
	urlExpiry time.Duration,
) DownloadService {
	return &downloadService{
		tokens:    tokens,
		purchases: purchases,
		ebooks:    ebooks,
		storage:   storage,
		urlExpiry: urlExpiry,
	}
}

// ResolveDownload exchanges a valid token for a short-lived presigned
// object URL. The token must match the requested ebook and the customer
// must hold a completed purchase; the presigned URL itself expires within
// a minute, so the emailed link stays the only durable artifact.
func (s *downloadService) ResolveDownload(ctx context.Context, ebookID uuid.UUID, token string) (string, error) {
	grant, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	if grant.EbookID != ebookID {
		return "", fmt.Errorf("%w: token issued for a different ebook", domain.ErrInvalidToken)
	}

	purchased, err := s.purchases.HasCompleted(ctx, grant.CustomerEmail, ebookID)
	if err != nil {
		return "", fmt.Errorf("purchase lookup failed: %w", err)
	}
	if !purchased {
		return "", domain.ErrNotPurchased
	}

	ebook, err := s.ebooks.FindByID(ctx, ebookID)
	if err != nil {
		if errors.Is(err, catalogDomain.ErrEbookNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	if ebook.FileURL == "" {
		return "", domain.ErrNotFound
	}

	key, err := s.storage.KeyFromLocation(ebook.FileURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidPath, err)
	}

	signed, err := s.storage.PresignDownload(ctx, key, ebook.Title+".pdf", s.urlExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return signed, nil
}

// LinkBuilder mints the tokened links embedded in confirmation emails and
// the confirmation page.
type LinkBuilder struct {
	tokens  domain.TokenIssuer
	baseURL string
}

func NewLinkBuilder(tokens domain.TokenIssuer, baseURL string) *LinkBuilder {
	return &LinkBuilder{tokens: tokens, baseURL: baseURL}
}

func (b *LinkBuilder) BuildDownloadLink(ebookID uuid.UUID, email string) (string, error) {
	token, err := b.tokens.Issue(ebookID, email)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/download/%s?token=%s", b.baseURL, ebookID, url.QueryEscape(token)), nil
}
