package http

import (
	"time"

	"github.com/imsoft/cursumi/internal/modules/catalog/domain"
)

// EbookResponse is the catalog view of an ebook. The stored-file location
// stays server-side.
type EbookResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"long_description,omitempty"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	Level           string    `json:"level"`
	Pages           int       `json:"pages"`
	Language        string    `json:"language"`
	PublishDate     time.Time `json:"publish_date"`
	Author          string    `json:"author"`
	TableOfContents []string  `json:"table_of_contents"`
	Features        []string  `json:"features"`
	Purchases       int       `json:"purchases"`
	CoverURL        *string   `json:"cover_url,omitempty"`
}

func ToEbookResponse(e *domain.Ebook) EbookResponse {
	return EbookResponse{
		ID:              e.ID.String(),
		Title:           e.Title,
		Description:     e.Description,
		LongDescription: e.LongDescription,
		Price:           e.Price,
		Category:        e.Category,
		Level:           e.Level,
		Pages:           e.Pages,
		Language:        e.Language,
		PublishDate:     e.PublishDate,
		Author:          e.Author,
		TableOfContents: e.TableOfContents,
		Features:        e.Features,
		Purchases:       e.Purchases,
		CoverURL:        e.CoverURL,
	}
}

func ToEbookResponses(ebooks []domain.Ebook) []EbookResponse {
	out := make([]EbookResponse, 0, len(ebooks))
	for i := range ebooks {
		out = append(out, ToEbookResponse(&ebooks[i]))
	}
	return out
}
