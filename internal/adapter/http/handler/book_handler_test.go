package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/dto"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase/mocks"
)

func newBookHandler(t *testing.T, owner string) *BookHandler {
	t.Helper()

	ownerRepo := mocks.NewMockOwnerRepository()
	if owner != "" {
		if err := ownerRepo.Init(context.Background(), owner); err != nil {
			t.Fatalf("owner init failed: %v", err)
		}
	}

	bookUC := usecase.NewBookUseCase(
		mocks.NewMockTransactionManager(),
		ownerRepo,
		mocks.NewMockBookRepository(),
		mocks.NewMockSequenceRepository(),
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)

	return NewBookHandler(bookUC)
}

func asCaller(r *http.Request, caller string) *http.Request {
	return r.WithContext(domain.WithCaller(r.Context(), caller))
}

func TestBookHandlerCredit(t *testing.T) {
	h := newBookHandler(t, "owner")

	body, _ := json.Marshal(dto.RecordEntryRequest{
		Account: "alice",
		Amount:  decimal.NewFromInt(25),
		Label:   "deposit",
	})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/book/credit", bytes.NewReader(body)), "owner")
	rr := httptest.NewRecorder()

	h.Credit(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dto.RecordEntryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Entry.Account != "alice" || resp.Entry.Kind != "credit" {
		t.Fatalf("unexpected entry: %+v", resp.Entry)
	}
	if !resp.Balance.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected balance 25, got %s", resp.Balance)
	}
}

func TestBookHandlerDebitByNonOwner(t *testing.T) {
	h := newBookHandler(t, "owner")

	body, _ := json.Marshal(dto.RecordEntryRequest{
		Account: "alice",
		Amount:  decimal.NewFromInt(5),
	})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/book/debit", bytes.NewReader(body)), "mallory")
	rr := httptest.NewRecorder()

	h.Debit(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestBookHandlerCreditMissingCaller(t *testing.T) {
	h := newBookHandler(t, "owner")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/book/credit", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()

	h.Credit(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestBookHandlerCreditInvalidBody(t *testing.T) {
	h := newBookHandler(t, "owner")

	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/book/credit", bytes.NewReader([]byte(`{`))), "owner")
	rr := httptest.NewRecorder()

	h.Credit(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestBookHandlerCreditInvalidAmount(t *testing.T) {
	h := newBookHandler(t, "owner")

	body, _ := json.Marshal(dto.RecordEntryRequest{
		Account: "alice",
		Amount:  decimal.NewFromInt(-1),
	})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/book/credit", bytes.NewReader(body)), "owner")
	rr := httptest.NewRecorder()

	h.Credit(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestBookHandlerEntriesEmptyAccount(t *testing.T) {
	h := newBookHandler(t, "owner")

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/book/accounts/ghost/entries", nil), "account", "ghost")
	rr := httptest.NewRecorder()

	h.Entries(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestBookHandlerBalanceDefaultsToZero(t *testing.T) {
	h := newBookHandler(t, "owner")

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/book/accounts/ghost/balance", nil), "account", "ghost")
	rr := httptest.NewRecorder()

	h.Balance(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !resp.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", resp.Balance)
	}
}

func TestBookHandlerBalanceMalformedAt(t *testing.T) {
	h := newBookHandler(t, "owner")

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/book/accounts/alice/balance?at=yesterday", nil), "account", "alice")
	rr := httptest.NewRecorder()

	h.Balance(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestBookHandlerConsistency(t *testing.T) {
	h := newBookHandler(t, "owner")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/book/consistency", nil)
	rr := httptest.NewRecorder()

	h.Consistency(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !resp.Consistent {
		t.Fatal("expected empty book to be consistent")
	}
}
