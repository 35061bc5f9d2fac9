package credits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL credits repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetOrCreateBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credit_balances (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure balance row: %w", err)
	}

	b := &Balance{}
	err = r.db.QueryRowContext(ctx, `
		SELECT user_id, balance, created_at, updated_at
		FROM credit_balances WHERE user_id = $1`, userID).Scan(
		&b.UserID, &b.Balance, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Credit performs the balance increment and the ledger append as one unit:
// if either write fails, neither is durable.
func (r *postgresRepo) Credit(ctx context.Context, userID uuid.UUID, amount float64, kind TransactionKind, description string) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO credit_balances (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return 0, err
	}

	var newBalance float64
	err = tx.QueryRowContext(ctx, `
		UPDATE credit_balances
		SET balance = balance + $2, updated_at = now()
		WHERE user_id = $1
		RETURNING balance`, userID, amount).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}

	if err := insertTransaction(ctx, tx, userID, amount, kind, description); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Debit decrements conditionally: the UPDATE only matches when the balance
// covers the amount, so two concurrent spends can never drive it negative.
func (r *postgresRepo) Debit(ctx context.Context, userID uuid.UUID, amount float64, kind TransactionKind, description string) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var newBalance float64
	err = tx.QueryRowContext(ctx, `
		UPDATE credit_balances
		SET balance = balance - $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance`, userID, amount).Scan(&newBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInsufficientCredits
	}
	if err != nil {
		return 0, fmt.Errorf("debit balance: %w", err)
	}

	if err := insertTransaction(ctx, tx, userID, -amount, kind, description); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (r *postgresRepo) GetPackageByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	p := &Package{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, credits_amount, bonus_credits, price, is_active, display_order, created_at, updated_at
		FROM credit_packages WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.CreditsAmount, &p.BonusCredits, &p.Price,
		&p.IsActive, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidPackage
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListActivePackages(ctx context.Context) ([]*Package, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, credits_amount, bonus_credits, price, is_active, display_order, created_at, updated_at
		FROM credit_packages WHERE is_active = TRUE ORDER BY display_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var packages []*Package
	for rows.Next() {
		p := &Package{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreditsAmount, &p.BonusCredits, &p.Price,
			&p.IsActive, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (r *postgresRepo) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, kind, description, created_at
		FROM credit_transactions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transactions []*Transaction
	for rows.Next() {
		t := &Transaction{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Kind, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func insertTransaction(ctx context.Context, tx *sql.Tx, userID uuid.UUID, amount float64, kind TransactionKind, description string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount, kind, description)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), userID, amount, kind, description)
	if err != nil {
		return fmt.Errorf("insert credit transaction: %w", err)
	}
	return nil
}
