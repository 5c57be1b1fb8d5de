package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/imsoft/cursumi/internal/modules/download/domain"
)

type downloadClaims struct {
	EbookID string `json:"ebook_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies download grants as HS256 JWTs. The customer
// email rides in the subject claim, the ebook id in a private claim.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(ebookID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := downloadClaims{
		EbookID: ebookID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign download token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Verify(tokenString string) (*domain.DownloadGrant, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &downloadClaims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*downloadClaims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	ebookID, err := uuid.Parse(claims.EbookID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad ebook id claim", domain.ErrInvalidToken)
	}

	return &domain.DownloadGrant{
		EbookID:       ebookID,
		CustomerEmail: claims.Subject,
	}, nil
}
