package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/dto"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// BookHandler handles book ledger HTTP requests.
type BookHandler struct {
	bookUC *usecase.BookUseCase
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookUC *usecase.BookUseCase) *BookHandler {
	return &BookHandler{bookUC: bookUC}
}

// Credit records a credit entry. Owner only.
func (h *BookHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.recordEntry(w, r, h.bookUC.Credit)
}

// Debit records a debit entry. Owner only.
func (h *BookHandler) Debit(w http.ResponseWriter, r *http.Request) {
	h.recordEntry(w, r, h.bookUC.Debit)
}

func (h *BookHandler) recordEntry(
	w http.ResponseWriter,
	r *http.Request,
	record func(ctx context.Context, caller string, input usecase.RecordEntryInput) (*domain.Entry, decimal.Decimal, error),
) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}

	var req dto.RecordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, balance, err := record(r.Context(), caller, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecordEntryResponse{
		Entry:   dto.EntryFromDomain(entry),
		Balance: balance,
	})
}

// Entries lists an account's entry history in insertion order.
func (h *BookHandler) Entries(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	if account == "" {
		writeError(w, http.StatusBadRequest, "missing account", "")
		return
	}

	entries, err := h.bookUC.GetEntries(r.Context(), account)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Balance returns the account's running balance, or the balance at a
// past instant when ?at=RFC3339 is given.
func (h *BookHandler) Balance(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	if account == "" {
		writeError(w, http.StatusBadRequest, "missing account", "")
		return
	}

	at, err := parseTimeQuery(r, "at")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'at' format (use RFC3339)", err.Error())
		return
	}

	var balance decimal.Decimal
	if at != nil {
		balance, err = h.bookUC.GetBalanceAt(r.Context(), account, *at)
	} else {
		balance, err = h.bookUC.GetBalance(r.Context(), account)
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Account: account,
		Balance: balance,
		At:      at,
	})
}

// Consistency verifies that balances match entry sums.
func (h *BookHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	consistent, err := h.bookUC.CheckConsistency(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrInconsistentBook) {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{Consistent: consistent})
}
