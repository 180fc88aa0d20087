package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"collect/internal/domain"
)

// LedgerStorePG implements domain.LedgerStore backed by PostgreSQL.
// The collection row is the single serialization point per collection:
// WithinApply locks exactly one row and holds it until commit, so
// payments into different collections never block each other.
type LedgerStorePG struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
	txTimeout   time.Duration
}

// NewLedgerStore creates a LedgerStorePG. lockTimeout bounds the wait
// for the collection row lock; txTimeout bounds the whole transaction.
func NewLedgerStore(pool *pgxpool.Pool, lockTimeout, txTimeout time.Duration) *LedgerStorePG {
	return &LedgerStorePG{pool: pool, lockTimeout: lockTimeout, txTimeout: txTimeout}
}

// WithinApply runs fn inside a transaction with a bounded lock wait.
// A caller may abandon the request before the transaction starts; once
// begun, the transaction is detached from the caller's cancellation and
// always runs to commit or rollback.
func (s *LedgerStorePG) WithinApply(ctx context.Context, fn func(ctx context.Context, tx domain.ApplyTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.txTimeout)
	defer cancel()

	tx, err := s.pool.BeginTx(txCtx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin apply tx: %w", mapPgError(err))
	}
	defer func() {
		// No-op after a successful commit.
		if rbErr := tx.Rollback(txCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// SET LOCAL scopes the lock wait bound to this transaction only.
	if _, err := tx.Exec(txCtx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("set lock_timeout: %w", mapPgError(err))
	}

	if err := fn(txCtx, &applyTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(txCtx); err != nil {
		return fmt.Errorf("commit apply tx: %w", mapPgError(err))
	}
	return nil
}

// CreateCollection inserts a new collection owned by its author.
func (s *LedgerStorePG) CreateCollection(ctx context.Context, c *domain.Collection) (*domain.Collection, error) {
	row := s.pool.QueryRow(ctx, `
INSERT INTO collections (id, author_id, title, purpose, description, target_amount)
VALUES ($1, $2, $3, $4, $5, $6::numeric)
RETURNING `+collectionColumns+`;
`, c.ID, c.AuthorID, c.Title, c.Purpose, c.Description, nullableAmount(c.TargetAmount))
	return scanCollection(row)
}

// GetCollection fetches one collection by id.
func (s *LedgerStorePG) GetCollection(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	row := s.pool.QueryRow(ctx, `
SELECT `+collectionColumns+`
FROM collections
WHERE id = $1;
`, id)
	return scanCollection(row)
}

// UpdateCollection applies owner-editable metadata changes. Aggregate
// and lifecycle columns are not reachable from here.
func (s *LedgerStorePG) UpdateCollection(ctx context.Context, id uuid.UUID, upd domain.CollectionUpdate) (*domain.Collection, error) {
	var purpose *string
	if upd.Purpose != nil {
		p := string(*upd.Purpose)
		purpose = &p
	}
	row := s.pool.QueryRow(ctx, `
UPDATE collections
SET title       = COALESCE($2, title),
    purpose     = COALESCE($3, purpose),
    description = COALESCE($4, description)
WHERE id = $1
RETURNING `+collectionColumns+`;
`, id, upd.Title, purpose, upd.Description)
	return scanCollection(row)
}

// DeleteCollection removes the collection; its payments cascade away.
func (s *LedgerStorePG) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM collections WHERE id = $1;`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListCollections returns a page of collections in the stable listing
// order: newest first, then close time, then target amount, with id as
// the final tiebreak so pagination never duplicates or skips rows.
func (s *LedgerStorePG) ListCollections(ctx context.Context, page domain.ListPage) ([]domain.Collection, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+collectionColumns+`
FROM collections
ORDER BY created_at DESC, closed_at, target_amount, id
LIMIT $1 OFFSET $2;
`, page.Limit, page.Offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var items []domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}
	return items, nil
}

// ListPayments returns every payment into one collection, newest first.
func (s *LedgerStorePG) ListPayments(ctx context.Context, collectionID uuid.UUID) ([]domain.Payment, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+paymentColumns+`
FROM payments
WHERE collection_id = $1
ORDER BY created_at DESC, id;
`, collectionID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var items []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}
	return items, nil
}

// GetPayment fetches one payment by id.
func (s *LedgerStorePG) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	row := s.pool.QueryRow(ctx, `
SELECT `+paymentColumns+`
FROM payments
WHERE id = $1;
`, id)
	return scanPayment(row)
}

// ListRecentPayments returns a page of payments across all collections,
// newest first.
func (s *LedgerStorePG) ListRecentPayments(ctx context.Context, page domain.ListPage) ([]domain.Payment, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+paymentColumns+`
FROM payments
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2;
`, page.Limit, page.Offset)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var items []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err)
	}
	return items, nil
}
