package domain

import "github.com/google/uuid"

// DownloadGrant is what a verified token asserts: this email may download
// this ebook until the token expires.
type DownloadGrant struct {
	EbookID       uuid.UUID
	CustomerEmail string
}

// TokenIssuer mints and verifies download tokens carried in emailed links.
type TokenIssuer interface {
	Issue(ebookID uuid.UUID, email string) (string, error)
	Verify(token string) (*DownloadGrant, error)
}
