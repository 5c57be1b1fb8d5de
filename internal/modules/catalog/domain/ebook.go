package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Ebook is a catalog entry. The catalog is read-only to the purchase
// workflow; rows are managed out of band.
type Ebook struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Description     string         `json:"description" db:"description"`
	LongDescription string         `json:"long_description" db:"long_description"`
	Price           float64        `json:"price" db:"price"`
	Category        string         `json:"category" db:"category"`
	Level           string         `json:"level" db:"level"`
	Pages           int            `json:"pages" db:"pages"`
	Language        string         `json:"language" db:"language"`
	PublishDate     time.Time      `json:"publish_date" db:"publish_date"`
	Author          string         `json:"author" db:"author"`
	TableOfContents pq.StringArray `json:"table_of_contents" db:"table_of_contents"`
	Features        pq.StringArray `json:"features" db:"features"`
	Purchases       int            `json:"purchases" db:"purchases"`
	CoverURL        *string        `json:"cover_url,omitempty" db:"cover_url"`
	// FileURL is the stored-file location in the object store. Never
	// serialized to clients; downloads go through the link issuer.
	FileURL   string    `json:"-" db:"file_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EbookRepository is the catalog's own persistence port
type EbookRepository interface {
	List(ctx context.Context) ([]Ebook, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Ebook, error)
	ListPopular(ctx context.Context, limit int) ([]Ebook, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Ebook, error)
}

// EbookFinder is the narrow read interface consumed by other modules
// (checkout correlation, download resolution).
type EbookFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ebook, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Ebook, error)
}
