package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"collect/internal/domain"
)

// memStore is an in-memory LedgerStore. WithinApply holds the store
// mutex for the whole callback, which models the row-lock serialization
// the real store gets from the database.
type memStore struct {
	mu          sync.Mutex
	collections map[uuid.UUID]*domain.Collection
	payments    []domain.Payment
	closes      int
}

func newMemStore() *memStore {
	return &memStore{collections: map[uuid.UUID]*domain.Collection{}}
}

func (s *memStore) WithinApply(ctx context.Context, fn func(ctx context.Context, tx domain.ApplyTx) error) error {
	if err := ctx.Err(); err != nil {
		return domain.ErrStoreUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &memTx{s: s})
}

type memTx struct {
	s *memStore
}

func (t *memTx) LockCollection(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	c, ok := t.s.collections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (t *memTx) InsertPayment(ctx context.Context, collectionID, payerID uuid.UUID, amount decimal.Decimal) (*domain.Payment, error) {
	if _, ok := t.s.collections[collectionID]; !ok {
		return nil, domain.ErrNotFound
	}
	pid := payerID
	p := domain.Payment{
		ID:           uuid.New(),
		PayerID:      &pid,
		CollectionID: collectionID,
		Amount:       amount,
		CreatedAt:    time.Now(),
	}
	t.s.payments = append(t.s.payments, p)
	return &p, nil
}

func (t *memTx) AddToCurrentAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	c, ok := t.s.collections[id]
	if !ok {
		return decimal.Decimal{}, domain.ErrNotFound
	}
	c.CurrentAmount = c.CurrentAmount.Add(amount)
	return c.CurrentAmount, nil
}

func (t *memTx) HasOtherPayment(ctx context.Context, collectionID, payerID, excludePaymentID uuid.UUID) (bool, error) {
	for _, p := range t.s.payments {
		if p.CollectionID == collectionID && p.PayerID != nil && *p.PayerID == payerID && p.ID != excludePaymentID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) IncrementParticipantCount(ctx context.Context, id uuid.UUID) error {
	c, ok := t.s.collections[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.ParticipantCount++
	return nil
}

func (t *memTx) MarkClosed(ctx context.Context, id uuid.UUID) (bool, error) {
	c, ok := t.s.collections[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if c.ClosedAt != nil {
		return false, nil
	}
	now := time.Now()
	c.ClosedAt = &now
	t.s.closes++
	return true, nil
}

func (s *memStore) CreateCollection(ctx context.Context, c *domain.Collection) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.collections[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) GetCollection(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) UpdateCollection(ctx context.Context, id uuid.UUID, upd domain.CollectionUpdate) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Purpose != nil {
		c.Purpose = *upd.Purpose
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.collections, id)
	kept := s.payments[:0]
	for _, p := range s.payments {
		if p.CollectionID != id {
			kept = append(kept, p)
		}
	}
	s.payments = kept
	return nil
}

func (s *memStore) ListCollections(ctx context.Context, page domain.ListPage) ([]domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domain.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return pageSlice(all, page), nil
}

func (s *memStore) ListPayments(ctx context.Context, collectionID uuid.UUID) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Payment
	for _, p := range s.payments {
		if p.CollectionID == collectionID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) ListRecentPayments(ctx context.Context, page domain.ListPage) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append([]domain.Payment(nil), s.payments...)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return pageSlice(all, page), nil
}

func pageSlice[T any](all []T, page domain.ListPage) []T {
	if page.Offset >= len(all) {
		return nil
	}
	all = all[page.Offset:]
	if page.Limit > 0 && page.Limit < len(all) {
		all = all[:page.Limit]
	}
	return all
}

// recorder counts mutation events for assertions.
type recorder struct {
	mu               sync.Mutex
	listChanged      int
	detailChanged    int
	paymentsChanged  int
	lastCollectionID uuid.UUID
}

func (r *recorder) OnCollectionListChanged(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listChanged++
}

func (r *recorder) OnCollectionChanged(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detailChanged++
	r.lastCollectionID = id
}

func (r *recorder) OnCollectionPaymentsChanged(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paymentsChanged++
	r.lastCollectionID = id
}
