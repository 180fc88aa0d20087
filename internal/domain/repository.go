package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListPage describes limit/offset pagination for listings.
type ListPage struct {
	Limit  int
	Offset int
}

// ApplyTx is the transaction-scoped primitive set a payment application
// runs against. Every method is a single statement inside the enclosing
// transaction; the lock taken by LockCollection is held until commit.
type ApplyTx interface {
	// LockCollection acquires an exclusive row-level lock on one
	// collection. Returns ErrNotFound when the collection does not
	// exist and ErrConflict when the lock wait times out.
	LockCollection(ctx context.Context, id uuid.UUID) (*Collection, error)

	// InsertPayment inserts a payment row with a server-assigned
	// timestamp and returns the stored row.
	InsertPayment(ctx context.Context, collectionID, payerID uuid.UUID, amount decimal.Decimal) (*Payment, error)

	// AddToCurrentAmount applies a relative increment to the
	// collection's current_amount and returns the authoritative
	// post-increment value.
	AddToCurrentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	// HasOtherPayment reports whether the payer has any committed
	// payment into the collection other than the excluded one.
	HasOtherPayment(ctx context.Context, collectionID, payerID, excludePaymentID uuid.UUID) (bool, error)

	// IncrementParticipantCount applies a relative +1 to the
	// collection's participant_count.
	IncrementParticipantCount(ctx context.Context, id uuid.UUID) error

	// MarkClosed sets closed_at, guarded on closed_at IS NULL.
	// It reports whether this call performed the close transition.
	MarkClosed(ctx context.Context, id uuid.UUID) (bool, error)
}

// LedgerStore is the durable, transactional persistence layer for
// collections and payments.
type LedgerStore interface {
	// WithinApply runs fn inside a transaction with a bounded lock
	// wait. fn returning nil commits; any error rolls the whole
	// transaction back, so no partial aggregate update or orphan
	// payment is ever observable.
	WithinApply(ctx context.Context, fn func(ctx context.Context, tx ApplyTx) error) error

	CreateCollection(ctx context.Context, c *Collection) (*Collection, error)
	GetCollection(ctx context.Context, id uuid.UUID) (*Collection, error)
	UpdateCollection(ctx context.Context, id uuid.UUID, upd CollectionUpdate) (*Collection, error)
	// DeleteCollection removes the collection and cascades its payments.
	DeleteCollection(ctx context.Context, id uuid.UUID) error
	ListCollections(ctx context.Context, page ListPage) ([]Collection, error)

	ListPayments(ctx context.Context, collectionID uuid.UUID) ([]Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListRecentPayments(ctx context.Context, page ListPage) ([]Payment, error)
}

// UserStore persists payer/author identities.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// AnonymizeUserPayments nulls payer_id on every payment the user
	// made, leaving the payment rows and collection aggregates intact.
	AnonymizeUserPayments(ctx context.Context, payerID uuid.UUID) error
	// DeleteUser removes the identity: owned collections cascade away,
	// payments into other collections survive with payer_id nulled.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// MutationEvents is consumed by the external cache layer. The engine and
// collection service fire these after every successful mutation; cache
// invalidation itself is the collaborator's responsibility.
type MutationEvents interface {
	OnCollectionListChanged(ctx context.Context)
	OnCollectionChanged(ctx context.Context, id uuid.UUID)
	OnCollectionPaymentsChanged(ctx context.Context, id uuid.UUID)
}
