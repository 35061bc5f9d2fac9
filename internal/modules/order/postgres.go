package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, buyer_id, store_id, status, total)
		VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.BuyerID, o.StoreID, o.Status, o.Total)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, o.ID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, buyer_id, store_id, status, total, created_at, updated_at
		FROM orders WHERE id = $1`, id).Scan(
		&o.ID, &o.BuyerID, &o.StoreID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrdersByStore(ctx context.Context, storeID uuid.UUID, status string) ([]*Order, error) {
	query := `SELECT id, buyer_id, store_id, status, total, created_at, updated_at
	          FROM orders WHERE store_id = $1`
	args := []interface{}{storeID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT id, buyer_id, store_id, status, total, created_at, updated_at
		FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`, buyerID)
}

// AdvanceStatus re-verifies store ownership at the same layer as the write:
// the order row is locked, the owning store's owner is read in the same
// statement, and the status column is only updated once both the ownership
// and the transition check pass, all before the transaction commits.
func (r *postgresRepo) AdvanceStatus(ctx context.Context, orderID uuid.UUID, to Status, actingUserID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current Status
	var ownerID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT o.status, s.owner_id
		FROM orders o
		JOIN stores s ON s.id = o.store_id
		WHERE o.id = $1
		FOR UPDATE OF o`, orderID).Scan(&current, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if ownerID != actingUserID {
		return ErrForbidden
	}
	if !CanTransition(current, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, to)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		to, time.Now(), orderID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepo) GetProductForOrder(ctx context.Context, productID uuid.UUID) (uuid.UUID, float64, bool, error) {
	var storeID uuid.UUID
	var price float64
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT store_id, price, status FROM products WHERE id = $1`,
		productID).Scan(&storeID, &price, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, 0, false, ErrNotFound
	}
	return storeID, price, status == "active", err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o := &Order{}
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.StoreID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, line_total, created_at
		FROM order_items WHERE order_id = $1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
