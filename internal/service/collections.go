package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"collect/internal/domain"
)

// DefaultPageSize bounds collection and payment listings.
const DefaultPageSize = 20

// Collections covers collection lifecycle and the read-only query
// surface. Reads take no locks and tolerate a cache in front of them;
// writes fire mutation events for the cache collaborator.
type Collections struct {
	store  domain.LedgerStore
	events domain.MutationEvents
	log    zerolog.Logger
}

// NewCollections creates the collection service.
func NewCollections(store domain.LedgerStore, events domain.MutationEvents, log zerolog.Logger) *Collections {
	return &Collections{store: store, events: events, log: log}
}

// CreateCollectionInput carries the author-provided fields.
type CreateCollectionInput struct {
	Title        string
	Purpose      domain.Purpose
	Description  string
	TargetAmount *decimal.Decimal
}

func (in CreateCollectionInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !in.Purpose.Valid() {
		return fmt.Errorf("%w: unknown purpose %q", domain.ErrInvalidInput, in.Purpose)
	}
	if in.TargetAmount != nil {
		if !in.TargetAmount.IsPositive() || !in.TargetAmount.Equal(in.TargetAmount.Truncate(2)) {
			return fmt.Errorf("%w: target amount must be a positive amount with at most two decimals", domain.ErrInvalidInput)
		}
	}
	return nil
}

// Create creates a collection owned by authorID. A nil target amount
// means unlimited: the collection never auto-closes.
func (s *Collections) Create(ctx context.Context, authorID uuid.UUID, in CreateCollectionInput) (*domain.Collection, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	created, err := s.store.CreateCollection(ctx, &domain.Collection{
		ID:           uuid.New(),
		AuthorID:     authorID,
		Title:        strings.TrimSpace(in.Title),
		Purpose:      in.Purpose,
		Description:  in.Description,
		TargetAmount: in.TargetAmount,
	})
	if err != nil {
		return nil, err
	}
	s.events.OnCollectionListChanged(ctx)
	return created, nil
}

// Update applies owner-editable metadata changes. Only the author may
// mutate the collection.
func (s *Collections) Update(ctx context.Context, actorID, id uuid.UUID, upd domain.CollectionUpdate) (*domain.Collection, error) {
	existing, err := s.store.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != actorID {
		return nil, domain.ErrForbidden
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
	}
	if upd.Purpose != nil && !upd.Purpose.Valid() {
		return nil, fmt.Errorf("%w: unknown purpose %q", domain.ErrInvalidInput, *upd.Purpose)
	}
	updated, err := s.store.UpdateCollection(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.events.OnCollectionListChanged(ctx)
	s.events.OnCollectionChanged(ctx, id)
	return updated, nil
}

// Delete removes a collection and, by cascade, all of its payments.
// Only the author may delete.
func (s *Collections) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	existing, err := s.store.GetCollection(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorID != actorID {
		return domain.ErrForbidden
	}
	if err := s.store.DeleteCollection(ctx, id); err != nil {
		return err
	}
	s.events.OnCollectionListChanged(ctx)
	s.events.OnCollectionChanged(ctx, id)
	s.events.OnCollectionPaymentsChanged(ctx, id)
	return nil
}

// Get returns one collection.
func (s *Collections) Get(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	return s.store.GetCollection(ctx, id)
}

// List returns one page of collections.
func (s *Collections) List(ctx context.Context, page int) ([]domain.Collection, error) {
	if page < 1 {
		page = 1
	}
	return s.store.ListCollections(ctx, domain.ListPage{
		Limit:  DefaultPageSize,
		Offset: (page - 1) * DefaultPageSize,
	})
}

// Feed returns every payment into one collection, newest first. The
// collection must exist.
func (s *Collections) Feed(ctx context.Context, id uuid.UUID) ([]domain.Payment, error) {
	if _, err := s.store.GetCollection(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, id)
}

// RecentPayments returns one page of payments across all collections.
func (s *Collections) RecentPayments(ctx context.Context, page int) ([]domain.Payment, error) {
	if page < 1 {
		page = 1
	}
	return s.store.ListRecentPayments(ctx, domain.ListPage{
		Limit:  DefaultPageSize,
		Offset: (page - 1) * DefaultPageSize,
	})
}

// GetPayment returns one payment.
func (s *Collections) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return s.store.GetPayment(ctx, id)
}
