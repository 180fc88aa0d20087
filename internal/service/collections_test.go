package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"collect/internal/domain"
)

func TestCreateCollectionValidation(t *testing.T) {
	store := newMemStore()
	svc := NewCollections(store, &recorder{}, zerolog.Nop())
	author := uuid.New()

	_, err := svc.Create(context.Background(), author, CreateCollectionInput{
		Title:   "  ",
		Purpose: domain.PurposeCharity,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(context.Background(), author, CreateCollectionInput{
		Title:   "Flood relief",
		Purpose: domain.Purpose("potluck"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := decimal.RequireFromString("-10.00")
	_, err = svc.Create(context.Background(), author, CreateCollectionInput{
		Title:        "Flood relief",
		Purpose:      domain.PurposeCharity,
		TargetAmount: &bad,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	target := decimal.RequireFromString("500.00")
	created, err := svc.Create(context.Background(), author, CreateCollectionInput{
		Title:        "Flood relief",
		Purpose:      domain.PurposeCharity,
		TargetAmount: &target,
	})
	require.NoError(t, err)
	require.Equal(t, author, created.AuthorID)
	require.True(t, created.CurrentAmount.IsZero())
	require.False(t, created.Closed())
}

func TestUpdateCollectionOwnerOnly(t *testing.T) {
	store := newMemStore()
	events := &recorder{}
	svc := NewCollections(store, events, zerolog.Nop())
	author := uuid.New()

	created, err := svc.Create(context.Background(), author, CreateCollectionInput{
		Title:   "Farewell gift",
		Purpose: domain.PurposeOther,
	})
	require.NoError(t, err)

	title := "Farewell gift for Dana"
	_, err = svc.Update(context.Background(), uuid.New(), created.ID, domain.CollectionUpdate{Title: &title})
	require.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.Update(context.Background(), author, created.ID, domain.CollectionUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, 1, events.detailChanged)
}

func TestDeleteCollectionRemovesPayments(t *testing.T) {
	store := newMemStore()
	svc := NewCollections(store, &recorder{}, zerolog.Nop())
	engine := NewEngine(store, &recorder{}, zerolog.Nop())
	author := uuid.New()

	created, err := svc.Create(context.Background(), author, CreateCollectionInput{
		Title:   "Team lunch",
		Purpose: domain.PurposeOther,
	})
	require.NoError(t, err)

	_, err = engine.ApplyPayment(context.Background(), created.ID, uuid.New(), decimal.RequireFromString("20.00"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), created.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), author, created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Empty(t, store.payments)
}

func TestFeedRequiresCollection(t *testing.T) {
	store := newMemStore()
	svc := NewCollections(store, &recorder{}, zerolog.Nop())

	_, err := svc.Feed(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	store := newMemStore()
	svc := NewCollections(store, &recorder{}, zerolog.Nop())
	author := uuid.New()

	for i := 0; i < DefaultPageSize+5; i++ {
		_, err := svc.Create(context.Background(), author, CreateCollectionInput{
			Title:   "Collection",
			Purpose: domain.PurposeBirthday,
		})
		require.NoError(t, err)
	}

	first, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, first, DefaultPageSize)

	second, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, second, 5)

	third, err := svc.List(context.Background(), 3)
	require.NoError(t, err)
	require.Empty(t, third)
}
