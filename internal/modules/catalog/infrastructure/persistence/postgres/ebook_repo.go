package postgres

import (
	"context"
	"database/sql"
	"log"

	"github.com/google/uuid"
	"github.com/imsoft/cursumi/internal/modules/catalog/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PgEbookRepository struct {
	db *sqlx.DB
}

func NewEbookRepository(db *sqlx.DB) *PgEbookRepository {
	return &PgEbookRepository{db: db}
}

func (r *PgEbookRepository) List(ctx context.Context) ([]domain.Ebook, error) {
	ebooks := []domain.Ebook{}
	query := `SELECT * FROM ebooks ORDER BY title ASC`
	if err := r.db.SelectContext(ctx, &ebooks, query); err != nil {
		return nil, err
	}
	return ebooks, nil
}

func (r *PgEbookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ebook, error) {
	ebook := &domain.Ebook{}
	query := `SELECT * FROM ebooks WHERE id = $1`
	err := r.db.GetContext(ctx, ebook, query, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrEbookNotFound
	}
	if err != nil {
		return nil, err
	}
	return ebook, nil
}

// ListPopular orders by purchase count, falling back to the most recently
// published titles when the ordering query fails.
func (r *PgEbookRepository) ListPopular(ctx context.Context, limit int) ([]domain.Ebook, error) {
	ebooks := []domain.Ebook{}
	query := `SELECT * FROM ebooks ORDER BY purchases DESC, publish_date DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &ebooks, query, limit); err != nil {
		log.Printf("[EbookRepository.ListPopular] purchase ordering failed, falling back to recency: %v", err)
		fallback := `SELECT * FROM ebooks ORDER BY publish_date DESC LIMIT $1`
		if err := r.db.SelectContext(ctx, &ebooks, fallback, limit); err != nil {
			return nil, err
		}
	}
	return ebooks, nil
}

func (r *PgEbookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Ebook, error) {
	if len(ids) == 0 {
		return []domain.Ebook{}, nil
	}
	ebooks := []domain.Ebook{}
	query := `SELECT * FROM ebooks WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &ebooks, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	return ebooks, nil
}

// FindByID implements domain.EbookFinder
func (r *PgEbookRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Ebook, error) {
	return r.GetByID(ctx, id)
}
