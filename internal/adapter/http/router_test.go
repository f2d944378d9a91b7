package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/dto"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/handler"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/http/middleware"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/adapter/repository/memory"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase/mocks"
)

// newTestServer wires the full router over the memory driver, with the
// owner identity already initialized.
func newTestServer(t *testing.T, owner string) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	ownerRepo := memory.NewOwnerRepository(store)
	bookRepo := memory.NewBookRepository(store)
	pulseRepo := memory.NewPulseRepository(store)
	seqRepo := memory.NewSequenceRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	idGen := mocks.NewMockIDGenerator()

	ownershipUC := usecase.NewOwnershipUseCase(txManager, ownerRepo, outboxRepo, auditRepo, idGen, nil)
	bookUC := usecase.NewBookUseCase(txManager, ownerRepo, bookRepo, seqRepo, outboxRepo, auditRepo, idGen, nil)
	pulseUC := usecase.NewPulseUseCase(txManager, pulseRepo, seqRepo, outboxRepo, auditRepo, nil, nil, domain.DefaultScoringPolicy(), idGen, nil)

	if owner != "" {
		if err := ownershipUC.InitOwner(context.Background(), owner); err != nil {
			t.Fatalf("owner init failed: %v", err)
		}
	}

	router := NewRouter(RouterConfig{
		BookHandler:   handler.NewBookHandler(bookUC),
		OwnerHandler:  handler.NewOwnerHandler(ownershipUC),
		PulseHandler:  handler.NewPulseHandler(pulseUC),
		HealthHandler: handler.NewHealthHandler(nil, nil),
		Logger:        zerolog.New(io.Discard),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, caller string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("request build failed: %v", err)
	}
	if caller != "" {
		req.Header.Set(middleware.CallerIDHeader, caller)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return out
}

func TestRouterBookFlow(t *testing.T) {
	server := newTestServer(t, "owner")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/book/credit", "owner", dto.RecordEntryRequest{
		Account: "alice",
		Amount:  decimal.NewFromInt(100),
		Label:   "seed",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("credit: expected 201, got %d", resp.StatusCode)
	}
	credit := decodeBody[dto.RecordEntryResponse](t, resp)
	if credit.Entry.ID != 0 {
		t.Fatalf("expected first entry id 0, got %d", credit.Entry.ID)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/book/debit", "owner", dto.RecordEntryRequest{
		Account: "alice",
		Amount:  decimal.NewFromInt(30),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("debit: expected 201, got %d", resp.StatusCode)
	}
	debit := decodeBody[dto.RecordEntryResponse](t, resp)
	if debit.Entry.ID != 1 {
		t.Fatalf("expected second entry id 1, got %d", debit.Entry.ID)
	}
	if !debit.Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected balance 70, got %s", debit.Balance)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/book/accounts/alice/balance", "", nil)
	balance := decodeBody[dto.BalanceResponse](t, resp)
	if !balance.Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected balance 70, got %s", balance.Balance)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/book/accounts/alice/entries", "", nil)
	entries := decodeBody[[]*dto.EntryResponse](t, resp)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/book/consistency", "", nil)
	consistency := decodeBody[dto.ConsistencyResponse](t, resp)
	if !consistency.Consistent {
		t.Fatal("expected book to be consistent")
	}
}

func TestRouterBookRejectsNonOwner(t *testing.T) {
	server := newTestServer(t, "owner")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/book/credit", "mallory", dto.RecordEntryRequest{
		Account: "alice",
		Amount:  decimal.NewFromInt(100),
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	// The failed attempt must leave no trace.
	balResp := doJSON(t, http.MethodGet, server.URL+"/api/v1/book/accounts/alice/balance", "", nil)
	balance := decodeBody[dto.BalanceResponse](t, balResp)
	if !balance.Balance.IsZero() {
		t.Fatalf("expected untouched balance, got %s", balance.Balance)
	}
}

func TestRouterOwnershipTransfer(t *testing.T) {
	server := newTestServer(t, "owner")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/owner/transfer", "owner", dto.TransferOwnershipRequest{
		NewOwner: "successor",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("transfer: expected 200, got %d", resp.StatusCode)
	}

	// The previous owner lost its privileges at commit.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/book/credit", "owner", dto.RecordEntryRequest{
		Account: "alice",
		Amount:  decimal.NewFromInt(1),
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for old owner, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/book/credit", "successor", dto.RecordEntryRequest{
		Account: "alice",
		Amount:  decimal.NewFromInt(1),
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for new owner, got %d", resp.StatusCode)
	}
}

func TestRouterPulseFlow(t *testing.T) {
	server := newTestServer(t, "owner")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/pulse/transactions", "alice", dto.RecordTransactionRequest{
		Receiver: "bob",
		Amount:   decimal.RequireFromString("2.5"),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d", resp.StatusCode)
	}
	txn := decodeBody[dto.TransactionResponse](t, resp)
	if txn.Sender != "alice" || txn.Receiver != "bob" {
		t.Fatalf("unexpected transaction: %+v", txn)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/pulse/transactions/"+txn.Hash, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	fetched := decodeBody[dto.TransactionResponse](t, resp)
	if fetched.Hash != txn.Hash {
		t.Fatalf("expected hash %s, got %s", txn.Hash, fetched.Hash)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/pulse/identities/alice/score", "", nil)
	score := decodeBody[dto.PulseScoreResponse](t, resp)
	if score.TotalTransactions != 1 {
		t.Fatalf("expected 1 transaction, got %d", score.TotalTransactions)
	}
	// 1*10 + floor(2.5/1) = 12
	if score.Score != 12 {
		t.Fatalf("expected score 12, got %d", score.Score)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/pulse/identities/bob/transactions", "", nil)
	hashes := decodeBody[dto.HashListResponse](t, resp)
	if len(hashes.Hashes) != 1 || hashes.Hashes[0] != txn.Hash {
		t.Fatalf("expected bob's index to hold the hash, got %v", hashes.Hashes)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/pulse/stats", "", nil)
	stats := decodeBody[dto.SystemStatsResponse](t, resp)
	if stats.TotalTransactions != 1 || !stats.TotalVolume.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/pulse/consistency", "", nil)
	consistency := decodeBody[dto.ConsistencyResponse](t, resp)
	if !consistency.Consistent {
		t.Fatal("expected pulse ledger to be consistent")
	}
}

func TestRouterPulseRequiresCaller(t *testing.T) {
	server := newTestServer(t, "owner")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/pulse/transactions", "", dto.RecordTransactionRequest{
		Receiver: "bob",
		Amount:   decimal.NewFromInt(1),
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRouterUnknownTransaction(t *testing.T) {
	server := newTestServer(t, "owner")

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/pulse/transactions/feedface", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRouterHealthEndpoints(t *testing.T) {
	server := newTestServer(t, "owner")

	for _, path := range []string{"/health", "/ready"} {
		resp := doJSON(t, http.MethodGet, server.URL+path, "", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
