package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/imsoft/cursumi/internal/modules/checkout/domain"
	"github.com/jmoiron/sqlx"
)

type PgPurchaseRepository struct {
	db *sqlx.DB
}

func NewPurchaseRepository(db *sqlx.DB) *PgPurchaseRepository {
	return &PgPurchaseRepository{db: db}
}

func (r *PgPurchaseRepository) CreatePending(ctx context.Context, purchases []domain.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO purchases (
            id, ebook_id, customer_email, amount, status, created_at, updated_at
        ) VALUES (
            :id, :ebook_id, :customer_email, :amount, :status, :created_at, :updated_at
        )`

	now := time.Now()
	for i := range purchases {
		p := &purchases[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.Status == "" {
			p.Status = domain.PurchaseStatusPending
		}
		p.CreatedAt = now
		p.UpdatedAt = now

		if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CompleteOrRegister flips the customer's pending rows for the ebook to
// completed. When checkout-time insertion was lost, a completed row is
// registered from the event instead, so the webhook reconciles rather than
// drops the purchase.
func (r *PgPurchaseRepository) CompleteOrRegister(ctx context.Context, email string, ebookID uuid.UUID, amount float64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE purchases SET status = $1, updated_at = NOW()
        WHERE ebook_id = $2 AND customer_email = $3 AND status = $4`,
		domain.PurchaseStatusCompleted, ebookID, email, domain.PurchaseStatusPending)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return true, nil
	}

	exists, err := r.HasCompleted(ctx, email, ebookID)
	if err != nil {
		return false, err
	}
	if exists {
		// Re-delivered event; nothing changed.
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO purchases (id, ebook_id, customer_email, amount, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		uuid.New(), ebookID, email, amount, domain.PurchaseStatusCompleted)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PgPurchaseRepository) ListCompletedByEmail(ctx context.Context, email string) ([]domain.Purchase, error) {
	purchases := []domain.Purchase{}
	query := `SELECT * FROM purchases WHERE customer_email = $1 AND status = $2 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &purchases, query, email, domain.PurchaseStatusCompleted); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *PgPurchaseRepository) HasCompleted(ctx context.Context, email string, ebookID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM purchases WHERE ebook_id = $1 AND customer_email = $2 AND status = $3)`
	err := r.db.GetContext(ctx, &exists, query, ebookID, email, domain.PurchaseStatusCompleted)
	return exists, err
}
