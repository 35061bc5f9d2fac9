package collection

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/lusakadev/soko-backend/internal/listindex"
)

type postgresRepo struct {
	db            *sql.DB
	members       *listindex.Manager
	globalMembers *listindex.Manager
}

// NewPostgresRepository creates a new PostgreSQL collection repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{
		db:            db,
		members:       listindex.NewManager(db, "collection_products", "collection_id", "product_id"),
		globalMembers: listindex.NewManager(db, "global_collection_products", "global_collection_id", "product_id"),
	}
}

// CreateCollection assigns the collection's position among its store's
// collections and inserts the row in one serializable transaction.
func (r *postgresRepo) CreateCollection(ctx context.Context, c *Collection) (int, error) {
	var index int
	err := listindex.Serialized(ctx, r.db, func(tx *sql.Tx) error {
		next, err := listindex.NextIndex(ctx, tx, "collections", "store_id", c.StoreID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO collections (id, store_id, title, order_index)
			VALUES ($1, $2, $3, $4)`,
			c.ID, c.StoreID, c.Title, next); err != nil {
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

func (r *postgresRepo) GetCollectionByID(ctx context.Context, id uuid.UUID) (*Collection, error) {
	c := &Collection{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, title, order_index, created_at, updated_at
		FROM collections WHERE id = $1`, id).Scan(
		&c.ID, &c.StoreID, &c.Title, &c.OrderIndex, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListCollectionsByStore(ctx context.Context, storeID uuid.UUID) ([]*Collection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, title, order_index, created_at, updated_at
		FROM collections WHERE store_id = $1 ORDER BY order_index ASC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var collections []*Collection
	for rows.Next() {
		c := &Collection{}
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Title, &c.OrderIndex, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *postgresRepo) AddProduct(ctx context.Context, collectionID, productID uuid.UUID) (int, error) {
	return r.members.Append(ctx, collectionID, productID)
}

func (r *postgresRepo) RemoveProduct(ctx context.Context, collectionID, productID uuid.UUID) error {
	return r.members.Remove(ctx, collectionID, productID)
}

func (r *postgresRepo) ListProducts(ctx context.Context, collectionID uuid.UUID) ([]*Member, error) {
	return r.listMembers(ctx, `
		SELECT product_id, order_index, created_at
		FROM collection_products WHERE collection_id = $1 ORDER BY order_index ASC`, collectionID)
}

func (r *postgresRepo) GetGlobalCollectionByID(ctx context.Context, id uuid.UUID) (*GlobalCollection, error) {
	g := &GlobalCollection{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, is_active, created_at, updated_at
		FROM global_collections WHERE id = $1`, id).Scan(
		&g.ID, &g.Title, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *postgresRepo) ListGlobalCollections(ctx context.Context) ([]*GlobalCollection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, is_active, created_at, updated_at
		FROM global_collections WHERE is_active = TRUE ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var collections []*GlobalCollection
	for rows.Next() {
		g := &GlobalCollection{}
		if err := rows.Scan(&g.ID, &g.Title, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		collections = append(collections, g)
	}
	return collections, rows.Err()
}

func (r *postgresRepo) AddGlobalProduct(ctx context.Context, globalCollectionID, productID uuid.UUID) (int, error) {
	return r.globalMembers.Append(ctx, globalCollectionID, productID)
}

func (r *postgresRepo) RemoveGlobalProduct(ctx context.Context, globalCollectionID, productID uuid.UUID) error {
	return r.globalMembers.Remove(ctx, globalCollectionID, productID)
}

func (r *postgresRepo) ListGlobalProducts(ctx context.Context, globalCollectionID uuid.UUID) ([]*Member, error) {
	return r.listMembers(ctx, `
		SELECT product_id, order_index, created_at
		FROM global_collection_products WHERE global_collection_id = $1 ORDER BY order_index ASC`, globalCollectionID)
}

func (r *postgresRepo) GetProductCurationState(ctx context.Context, productID uuid.UUID) (uuid.UUID, bool, string, error) {
	var storeID uuid.UUID
	var isPromoted bool
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT store_id, is_promoted, status FROM products WHERE id = $1`,
		productID).Scan(&storeID, &isPromoted, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, "", ErrNotFound
	}
	return storeID, isPromoted, status, err
}

func (r *postgresRepo) GetStoreOwner(ctx context.Context, storeID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM stores WHERE id = $1`, storeID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	return ownerID, err
}

func (r *postgresRepo) GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, error) {
	var storeID uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM stores WHERE owner_id = $1`, ownerID).Scan(&storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	return storeID, err
}

func (r *postgresRepo) listMembers(ctx context.Context, query string, parentID uuid.UUID) ([]*Member, error) {
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ProductID, &m.OrderIndex, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
