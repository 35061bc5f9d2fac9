// Package listindex maintains append-ordered membership lists: strictly
// increasing per-parent order_index values for collection products, global
// collection products, product media, and store collections.
package listindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lusakadev/soko-backend/internal/pgerr"
)

// ErrDuplicateMember is returned when a (parent, member) pair is already
// present in the list.
var ErrDuplicateMember = errors.New("member already in list")

// maxAttempts bounds retries after a serialization failure.
const maxAttempts = 3

// Manager assigns strictly increasing order_index values to the members of an
// ordered membership table. Indices start at 0, are unique per parent, and
// are never renumbered — removals leave gaps.
type Manager struct {
	db        *sql.DB
	table     string
	parentCol string
	memberCol string
}

// NewManager creates a Manager for one membership table.
func NewManager(db *sql.DB, table, parentCol, memberCol string) *Manager {
	return &Manager{db: db, table: table, parentCol: parentCol, memberCol: memberCol}
}

// Append inserts memberID at the tail of parentID's list and returns the
// assigned order_index. The max-then-insert pair runs inside a serializable
// transaction so two concurrent appends to the same parent can never be
// assigned the same index; the losing transaction is retried.
func (m *Manager) Append(ctx context.Context, parentID, memberID uuid.UUID) (int, error) {
	var index int
	err := Serialized(ctx, m.db, func(tx *sql.Tx) error {
		next, err := NextIndex(ctx, tx, m.table, m.parentCol, parentID)
		if err != nil {
			return err
		}
		insert := fmt.Sprintf(
			`INSERT INTO %s (%s, %s, order_index) VALUES ($1, $2, $3)`,
			m.table, m.parentCol, m.memberCol)
		if _, err := tx.ExecContext(ctx, insert, parentID, memberID, next); err != nil {
			return err
		}
		index = next
		return nil
	})
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return 0, ErrDuplicateMember
		}
		return 0, err
	}
	return index, nil
}

// Remove deletes the membership tuple. Surviving indices keep their values;
// gaps are not closed, closing them would race against concurrent appends.
func (m *Manager) Remove(ctx context.Context, parentID, memberID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		m.table, m.parentCol, m.memberCol)
	_, err := m.db.ExecContext(ctx, query, parentID, memberID)
	return err
}

// NextIndex returns max(order_index)+1 for parentID within the caller's
// transaction, or 0 for an empty list.
func NextIndex(ctx context.Context, tx *sql.Tx, table, parentCol string, parentID uuid.UUID) (int, error) {
	var next int
	query := fmt.Sprintf(
		`SELECT COALESCE(MAX(order_index), -1) + 1 FROM %s WHERE %s = $1`,
		table, parentCol)
	if err := tx.QueryRowContext(ctx, query, parentID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next index for %s: %w", table, err)
	}
	return next, nil
}

// Serialized runs fn inside a serializable transaction, retrying a bounded
// number of times when the database aborts it with a serialization failure.
func Serialized(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			tx.Rollback()
			if pgerr.IsSerializationFailure(err) {
				lastErr = err
				continue
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			if pgerr.IsSerializationFailure(err) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("serializable transaction retries exhausted: %w", lastErr)
}
