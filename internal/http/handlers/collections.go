package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"collect/internal/domain"
	"collect/internal/middleware"
	"collect/internal/service"
)

type createCollectionRequest struct {
	Title        string           `json:"title"`
	Purpose      string           `json:"purpose"`
	Description  string           `json:"description"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
}

type updateCollectionRequest struct {
	Title       *string `json:"title"`
	Purpose     *string `json:"purpose"`
	Description *string `json:"description"`
}

type payRequest struct {
	// decimal accepts both JSON numbers and strings, and keeps the
	// value exact either way.
	Amount decimal.Decimal `json:"amount"`
}

// CollectionsList serves the collection listing. The first page is
// served through the read-through cache.
func (a *App) CollectionsList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	var cached []collectionDTO
	if page == 1 && a.Cache.GetJSON(r.Context(), a.Cache.ListKey(), &cached) {
		a.json(w, http.StatusOK, map[string]any{"items": cached})
		return
	}

	items, err := a.Collections.List(r.Context(), page)
	if err != nil {
		a.domainError(w, err)
		return
	}
	dtos := make([]collectionDTO, 0, len(items))
	for _, c := range items {
		dtos = append(dtos, toCollectionDTO(c))
	}
	if page == 1 {
		a.Cache.SetJSON(r.Context(), a.Cache.ListKey(), dtos)
	}
	a.json(w, http.StatusOK, map[string]any{"items": dtos})
}

// CollectionsCreate creates a collection owned by the caller.
func (a *App) CollectionsCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	created, err := a.Collections.Create(r.Context(), userID, service.CreateCollectionInput{
		Title:        req.Title,
		Purpose:      domain.Purpose(req.Purpose),
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toCollectionDTO(*created))
}

// CollectionsGet serves one collection's detail view, payments
// included, through the read-through cache.
func (a *App) CollectionsGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid collection id")
		return
	}

	var cached collectionDTO
	if a.Cache.GetJSON(r.Context(), a.Cache.DetailKey(id), &cached) {
		a.json(w, http.StatusOK, cached)
		return
	}

	col, err := a.Collections.Get(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	payments, err := a.Collections.Feed(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	dto := toCollectionDTO(*col)
	dto.Payments = toPaymentDTOs(payments)
	a.Cache.SetJSON(r.Context(), a.Cache.DetailKey(id), dto)
	a.json(w, http.StatusOK, dto)
}

// CollectionsUpdate edits owner-editable metadata.
func (a *App) CollectionsUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid collection id")
		return
	}
	var req updateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	upd := domain.CollectionUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Purpose != nil {
		p := domain.Purpose(*req.Purpose)
		upd.Purpose = &p
	}
	updated, err := a.Collections.Update(r.Context(), userID, id, upd)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCollectionDTO(*updated))
}

// CollectionsDelete removes a collection and all of its payments.
func (a *App) CollectionsDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid collection id")
		return
	}
	if err := a.Collections.Delete(r.Context(), userID, id); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CollectionsPay records one payment by the caller into the collection.
func (a *App) CollectionsPay(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid collection id")
		return
	}
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a number")
		return
	}

	// Collections accept payments from anyone but their own author.
	col, err := a.Collections.Get(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if col.AuthorID == userID {
		a.error(w, http.StatusForbidden, "forbidden", "authors cannot pay into their own collection")
		return
	}

	payment, err := a.Engine.ApplyPayment(r.Context(), id, userID, req.Amount)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toPaymentDTO(*payment))
}

// CollectionsFeed serves the payment feed of one collection through the
// read-through cache.
func (a *App) CollectionsFeed(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid collection id")
		return
	}

	var cached []paymentDTO
	if a.Cache.GetJSON(r.Context(), a.Cache.FeedKey(id), &cached) {
		a.json(w, http.StatusOK, map[string]any{"items": cached})
		return
	}

	payments, err := a.Collections.Feed(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	dtos := toPaymentDTOs(payments)
	a.Cache.SetJSON(r.Context(), a.Cache.FeedKey(id), dtos)
	a.json(w, http.StatusOK, map[string]any{"items": dtos})
}

func pageParam(r *http.Request) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			return page
		}
	}
	return 1
}
