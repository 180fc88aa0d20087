package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"collect/internal/domain"
)

// Engine applies payments to collections. It is the only write path for
// payments and collection aggregates; all coordination happens through
// the store's transaction, never through in-process locks, so any
// number of engine instances can run against the same database.
type Engine struct {
	store  domain.LedgerStore
	events domain.MutationEvents
	log    zerolog.Logger
}

// NewEngine creates an Engine. events must not be nil; pass a no-op
// implementation when no cache layer is attached.
func NewEngine(store domain.LedgerStore, events domain.MutationEvents, log zerolog.Logger) *Engine {
	return &Engine{store: store, events: events, log: log}
}

// ApplyPayment records one payment against a collection: it persists
// the payment, updates the collection's aggregates and performs the
// close transition at most once, all inside a single transaction
// serialized on the collection row.
//
// Failure modes: domain.ErrInvalidAmount (rejected before any write),
// domain.ErrNotFound, domain.ErrConflict (bounded lock wait exhausted,
// retryable), domain.ErrStoreUnavailable. On any failure nothing is
// applied.
func (e *Engine) ApplyPayment(ctx context.Context, collectionID, payerID uuid.UUID, amount decimal.Decimal) (*domain.Payment, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var payment *domain.Payment
	err := e.store.WithinApply(ctx, func(ctx context.Context, tx domain.ApplyTx) error {
		// The row lock covers everything below, so the closing check
		// observes a total that already includes this payment.
		col, err := tx.LockCollection(ctx, collectionID)
		if err != nil {
			return err
		}

		p, err := tx.InsertPayment(ctx, col.ID, payerID, amount)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		total, err := tx.AddToCurrentAmount(ctx, col.ID, amount)
		if err != nil {
			return fmt.Errorf("increment current_amount: %w", err)
		}

		seen, err := tx.HasOtherPayment(ctx, col.ID, payerID, p.ID)
		if err != nil {
			return fmt.Errorf("check participant: %w", err)
		}
		if !seen {
			if err := tx.IncrementParticipantCount(ctx, col.ID); err != nil {
				return fmt.Errorf("increment participant_count: %w", err)
			}
		}

		if col.TargetAmount != nil && total.GreaterThanOrEqual(*col.TargetAmount) {
			closed, err := tx.MarkClosed(ctx, col.ID)
			if err != nil {
				return fmt.Errorf("close collection: %w", err)
			}
			if closed {
				e.log.Info().
					Str("collection_id", col.ID.String()).
					Str("total", total.StringFixed(2)).
					Msg("collection target reached, closed")
			}
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.events.OnCollectionListChanged(ctx)
	e.events.OnCollectionChanged(ctx, collectionID)
	e.events.OnCollectionPaymentsChanged(ctx, collectionID)

	return payment, nil
}
