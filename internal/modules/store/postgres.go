package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lusakadev/soko-backend/internal/listindex"
	"github.com/lusakadev/soko-backend/internal/pgerr"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL store repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateStore(ctx context.Context, s *Store) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores (id, owner_id, name, description, is_active)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.OwnerID, s.Name, s.Description, s.IsActive)
	if pgerr.IsUniqueViolation(err) {
		return ErrStoreExists
	}
	return err
}

func (r *postgresRepo) GetStoreByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	return r.scanStore(r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, is_active, created_at, updated_at
		FROM stores WHERE id = $1`, id))
}

func (r *postgresRepo) GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (*Store, error) {
	return r.scanStore(r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, is_active, created_at, updated_at
		FROM stores WHERE owner_id = $1`, ownerID))
}

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, store_id, name, description, price, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.StoreID, p.Name, p.Description, p.Price, p.Status)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p := &Product{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, description, price, status,
		       is_promoted, promoted_start_date, promoted_end_date, is_trending,
		       created_at, updated_at
		FROM products WHERE id = $1`, id).Scan(
		&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.Status,
		&p.IsPromoted, &p.PromotedStartDate, &p.PromotedEndDate, &p.IsTrending,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, description, price, status,
		       is_promoted, promoted_start_date, promoted_end_date, is_trending,
		       created_at, updated_at
		FROM products WHERE store_id = $1 ORDER BY created_at DESC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(
			&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.Status,
			&p.IsPromoted, &p.PromotedStartDate, &p.PromotedEndDate, &p.IsTrending,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// AddMedia assigns the next order_index and inserts the media row in one
// serializable transaction, so concurrent appends to the same product never
// share an index.
func (r *postgresRepo) AddMedia(ctx context.Context, m *ProductMedia) (int, error) {
	var index int
	err := listindex.Serialized(ctx, r.db, func(tx *sql.Tx) error {
		next, err := listindex.NextIndex(ctx, tx, "product_media", "product_id", m.ProductID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_media (id, product_id, media_url, order_index, is_cover)
			VALUES ($1, $2, $3, $4, $5)`,
			m.ID, m.ProductID, m.MediaURL, next, m.IsCover); err != nil {
			return err
		}
		index = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return index, nil
}

func (r *postgresRepo) RemoveMedia(ctx context.Context, productID, mediaID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM product_media WHERE product_id = $1 AND id = $2`,
		productID, mediaID)
	return err
}

func (r *postgresRepo) ListMedia(ctx context.Context, productID uuid.UUID) ([]*ProductMedia, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, media_url, order_index, is_cover, created_at
		FROM product_media WHERE product_id = $1 ORDER BY order_index ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var media []*ProductMedia
	for rows.Next() {
		m := &ProductMedia{}
		if err := rows.Scan(&m.ID, &m.ProductID, &m.MediaURL, &m.OrderIndex, &m.IsCover, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func (r *postgresRepo) scanStore(row *sql.Row) (*Store, error) {
	s := &Store{}
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
