package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"collect/internal/domain"
)

// applyTx implements domain.ApplyTx over one pgx transaction. Every
// method is a single statement; the row lock taken by LockCollection
// stays held until the enclosing transaction commits or rolls back.
type applyTx struct {
	tx pgx.Tx
}

// LockCollection acquires the exclusive row-level lock on the target
// collection. The bounded lock_timeout set by WithinApply turns an
// exhausted wait into ErrConflict rather than an indefinite block.
func (t *applyTx) LockCollection(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	row := t.tx.QueryRow(ctx, `
SELECT `+collectionColumns+`
FROM collections
WHERE id = $1
FOR UPDATE;
`, id)
	return scanCollection(row)
}

// InsertPayment appends a payment row with a server-assigned timestamp.
func (t *applyTx) InsertPayment(ctx context.Context, collectionID, payerID uuid.UUID, amount decimal.Decimal) (*domain.Payment, error) {
	row := t.tx.QueryRow(ctx, `
INSERT INTO payments (id, payer_id, collection_id, amount)
VALUES ($1, $2, $3, $4::numeric)
RETURNING `+paymentColumns+`;
`, uuid.New(), payerID, collectionID, amount.StringFixed(2))
	return scanPayment(row)
}

// AddToCurrentAmount increments current_amount relative to its stored
// value. No fetched copy is involved, so concurrent increments on the
// same row can never lose an update.
func (t *applyTx) AddToCurrentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	var total string
	err := t.tx.QueryRow(ctx, `
UPDATE collections
SET current_amount = current_amount + $2::numeric
WHERE id = $1
RETURNING current_amount::text;
`, id, amount.StringFixed(2)).Scan(&total)
	if err != nil {
		return decimal.Zero, mapPgError(err)
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse current_amount: %w", err)
	}
	return d, nil
}

// HasOtherPayment reports whether the payer already has a committed
// payment into the collection besides the excluded one.
func (t *applyTx) HasOtherPayment(ctx context.Context, collectionID, payerID, excludePaymentID uuid.UUID) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM payments
	WHERE collection_id = $1 AND payer_id = $2 AND id <> $3
);
`, collectionID, payerID, excludePaymentID).Scan(&exists)
	if err != nil {
		return false, mapPgError(err)
	}
	return exists, nil
}

// IncrementParticipantCount bumps the distinct-payer counter by one.
func (t *applyTx) IncrementParticipantCount(ctx context.Context, id uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `
UPDATE collections
SET participant_count = participant_count + 1
WHERE id = $1;
`, id)
	return mapPgError(err)
}

// MarkClosed performs the close transition, guarded on closed_at IS
// NULL so two racing payments can never both close the collection or
// overwrite an already-set closing timestamp.
func (t *applyTx) MarkClosed(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
UPDATE collections
SET closed_at = now()
WHERE id = $1 AND closed_at IS NULL;
`, id)
	if err != nil {
		return false, mapPgError(err)
	}
	return tag.RowsAffected() == 1, nil
}
