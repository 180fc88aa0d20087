package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one contribution of a fixed amount from one payer into one
// collection. Payments are append-only: never mutated after creation,
// removed only when their collection is deleted.
type Payment struct {
	ID           uuid.UUID
	PayerID      *uuid.UUID // nil once the paying identity has been removed
	CollectionID uuid.UUID
	Amount       decimal.Decimal
	CreatedAt    time.Time
}

// ValidateAmount checks the payment amount contract: strictly positive
// with at most two fractional digits (currency subunits).
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(2)) {
		return ErrInvalidAmount
	}
	return nil
}
