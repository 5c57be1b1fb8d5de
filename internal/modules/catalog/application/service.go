package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/imsoft/cursumi/internal/modules/catalog/domain"
)

type CatalogService interface {
	ListEbooks(ctx context.Context) ([]domain.Ebook, error)
	GetEbook(ctx context.Context, id uuid.UUID) (*domain.Ebook, error)
	ListPopularEbooks(ctx context.Context, limit int) ([]domain.Ebook, error)
}

type catalogService struct {
	repo domain.EbookRepository
}

func NewCatalogService(repo domain.EbookRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListEbooks(ctx context.Context) ([]domain.Ebook, error) {
	return s.repo.List(ctx)
}

func (s *catalogService) GetEbook(ctx context.Context, id uuid.UUID) (*domain.Ebook, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *catalogService) ListPopularEbooks(ctx context.Context, limit int) ([]domain.Ebook, error) {
	if limit <= 0 || limit > 20 {
		limit = 3
	}
	return s.repo.ListPopular(ctx, limit)
}
