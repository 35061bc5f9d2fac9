package promotion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lusakadev/soko-backend/internal/modules/credits"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL promotion repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetActivePricing(ctx context.Context) (*Pricing, error) {
	p := &Pricing{}
	err := r.db.QueryRowContext(ctx, `
		SELECT price_per_day, min_days, max_days
		FROM promotion_pricing WHERE is_active = TRUE
		ORDER BY updated_at DESC LIMIT 1`).Scan(&p.PricePerDay, &p.MinDays, &p.MaxDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PromoteProduct runs the ownership check, the conditional balance debit, the
// ledger append, and the product update as one unit. The debit UPDATE only
// matches when the balance covers the cost, so the balance is untouched on an
// insufficient-credits failure and can never go negative under concurrent
// spends.
func (r *postgresRepo) PromoteProduct(ctx context.Context, actingUserID, productID uuid.UUID, cost float64, start, end time.Time) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var ownerID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT s.owner_id
		FROM products p
		JOIN stores s ON s.id = p.store_id
		WHERE p.id = $1
		FOR UPDATE OF p`, productID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if ownerID != actingUserID {
		return 0, ErrForbidden
	}

	var newBalance float64
	err = tx.QueryRowContext(ctx, `
		UPDATE credit_balances
		SET balance = balance - $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance`, actingUserID, cost).Scan(&newBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, credits.ErrInsufficientCredits
	}
	if err != nil {
		return 0, fmt.Errorf("debit balance: %w", err)
	}

	description := fmt.Sprintf("Promoted product %s for %d days", productID, int(end.Sub(start).Hours()/24))
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount, kind, description)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), actingUserID, -cost, credits.KindPromotionSpend, description); err != nil {
		return 0, fmt.Errorf("insert credit transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE products
		SET is_promoted = TRUE, promoted_start_date = $2, promoted_end_date = $3, updated_at = now()
		WHERE id = $1`, productID, start, end); err != nil {
		return 0, fmt.Errorf("update product promotion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}
