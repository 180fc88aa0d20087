package repo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"collect/internal/domain"
)

// Numeric columns cross the driver as text so amounts stay
// decimal-exact end to end; no float ever touches a money value.
const collectionColumns = `id, author_id, title, purpose, description,
       target_amount::text, current_amount::text, participant_count,
       created_at, closed_at`

const paymentColumns = `id, payer_id, collection_id, amount::text, created_at`

func scanCollection(row pgx.Row) (*domain.Collection, error) {
	var (
		c       domain.Collection
		target  *string
		current string
	)
	if err := row.Scan(
		&c.ID,
		&c.AuthorID,
		&c.Title,
		&c.Purpose,
		&c.Description,
		&target,
		&current,
		&c.ParticipantCount,
		&c.CreatedAt,
		&c.ClosedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapPgError(err)
	}

	var err error
	if c.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("parse current_amount: %w", err)
	}
	if target != nil {
		t, err := decimal.NewFromString(*target)
		if err != nil {
			return nil, fmt.Errorf("parse target_amount: %w", err)
		}
		c.TargetAmount = &t
	}
	return &c, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p      domain.Payment
		amount string
	)
	if err := row.Scan(&p.ID, &p.PayerID, &p.CollectionID, &amount, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapPgError(err)
	}
	var err error
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	return &p, nil
}

func nullableAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
