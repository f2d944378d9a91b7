package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/dto"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase/mocks"
)

func newOwnerHandler(t *testing.T, owner string) *OwnerHandler {
	t.Helper()

	ownerRepo := mocks.NewMockOwnerRepository()
	if owner != "" {
		if err := ownerRepo.Init(context.Background(), owner); err != nil {
			t.Fatalf("owner init failed: %v", err)
		}
	}

	ownershipUC := usecase.NewOwnershipUseCase(
		mocks.NewMockTransactionManager(),
		ownerRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)

	return NewOwnerHandler(ownershipUC)
}

func TestOwnerHandlerShow(t *testing.T) {
	h := newOwnerHandler(t, "deployer")

	rr := httptest.NewRecorder()
	h.Show(rr, httptest.NewRequest(http.MethodGet, "/api/v1/owner", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp dto.OwnerResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Owner != "deployer" {
		t.Fatalf("expected owner deployer, got %q", resp.Owner)
	}
}

func TestOwnerHandlerShowUninitialized(t *testing.T) {
	h := newOwnerHandler(t, "")

	rr := httptest.NewRecorder()
	h.Show(rr, httptest.NewRequest(http.MethodGet, "/api/v1/owner", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestOwnerHandlerTransfer(t *testing.T) {
	h := newOwnerHandler(t, "deployer")

	body, _ := json.Marshal(dto.TransferOwnershipRequest{NewOwner: "successor"})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/owner/transfer", bytes.NewReader(body)), "deployer")
	rr := httptest.NewRecorder()

	h.Transfer(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Show(rr, httptest.NewRequest(http.MethodGet, "/api/v1/owner", nil))

	var resp dto.OwnerResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Owner != "successor" {
		t.Fatalf("expected owner successor, got %q", resp.Owner)
	}
}

func TestOwnerHandlerTransferByNonOwner(t *testing.T) {
	h := newOwnerHandler(t, "deployer")

	body, _ := json.Marshal(dto.TransferOwnershipRequest{NewOwner: "mallory"})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/owner/transfer", bytes.NewReader(body)), "mallory")
	rr := httptest.NewRecorder()

	h.Transfer(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestOwnerHandlerTransferEmptyNewOwner(t *testing.T) {
	h := newOwnerHandler(t, "deployer")

	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/owner/transfer", bytes.NewReader([]byte(`{"new_owner":""}`))), "deployer")
	rr := httptest.NewRecorder()

	h.Transfer(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
