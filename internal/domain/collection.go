package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purpose enumerates supported collection purposes.
type Purpose string

const (
	PurposeBirthday Purpose = "birthday"
	PurposeWedding  Purpose = "wedding"
	PurposeCharity  Purpose = "charity"
	PurposeOther    Purpose = "other"
)

// Valid reports whether the purpose is one of the supported values.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeBirthday, PurposeWedding, PurposeCharity, PurposeOther:
		return true
	}
	return false
}

// Collection represents a group money collection accumulating payments
// toward an optional target amount.
type Collection struct {
	ID               uuid.UUID
	AuthorID         uuid.UUID
	Title            string
	Purpose          Purpose
	Description      string
	TargetAmount     *decimal.Decimal // nil means unlimited, never auto-closes
	CurrentAmount    decimal.Decimal
	ParticipantCount int
	CreatedAt        time.Time
	ClosedAt         *time.Time
}

// Closed reports whether the collection has gone through its close transition.
func (c Collection) Closed() bool {
	return c.ClosedAt != nil
}

// TargetReached reports whether the accumulated amount meets a non-nil target.
func (c Collection) TargetReached() bool {
	if c.TargetAmount == nil {
		return false
	}
	return c.CurrentAmount.GreaterThanOrEqual(*c.TargetAmount)
}

// CollectionUpdate carries the owner-editable metadata fields. Nil fields
// are left untouched; aggregates and lifecycle fields are never client-writable.
type CollectionUpdate struct {
	Title       *string
	Purpose     *Purpose
	Description *string
}
