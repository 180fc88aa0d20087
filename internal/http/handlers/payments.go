package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PaymentsList serves recent payments across all collections.
func (a *App) PaymentsList(w http.ResponseWriter, r *http.Request) {
	payments, err := a.Collections.RecentPayments(r.Context(), pageParam(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toPaymentDTOs(payments)})
}

// PaymentsGet serves a single payment by id.
func (a *App) PaymentsGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payment id")
		return
	}
	payment, err := a.Collections.GetPayment(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toPaymentDTO(*payment))
}
