package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

func beginTx(t *testing.T, m *TxManager) usecase.Transaction {
	t.Helper()

	tx, err := m.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx
}

func TestBookRepository_AppendAndRollback(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewBookRepository(store)
	ctx := context.Background()

	entry := &domain.Entry{
		ID:         0,
		Account:    "acct-1",
		Kind:       domain.EntryKindCredit,
		Amount:     decimal.NewFromInt(100),
		RecordedAt: time.Now().UTC(),
	}

	tx := beginTx(t, manager)
	if err := repo.AppendEntry(ctx, tx, entry); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := repo.SetBalance(ctx, tx, "acct-1", decimal.NewFromInt(100), time.Now()); err != nil {
		t.Fatalf("set balance failed: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	entries, err := repo.ListEntries(ctx, "acct-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected rollback to drop the entry, got %d entries", len(entries))
	}

	balance, err := repo.GetBalance(ctx, "acct-1")
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance after rollback, got %s", balance)
	}
}

func TestBookRepository_CommitPersists(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewBookRepository(store)
	ctx := context.Background()

	tx := beginTx(t, manager)
	entry := &domain.Entry{
		ID:         0,
		Account:    "acct-1",
		Kind:       domain.EntryKindDebit,
		Amount:     decimal.NewFromInt(30),
		RecordedAt: time.Now().UTC(),
	}
	if err := repo.AppendEntry(ctx, tx, entry); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := repo.SetBalance(ctx, tx, "acct-1", decimal.NewFromInt(-30), time.Now()); err != nil {
		t.Fatalf("set balance failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	// Deferred rollback after commit must be a no-op.
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback after commit failed: %v", err)
	}

	balance, err := repo.GetBalance(ctx, "acct-1")
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(-30)) {
		t.Fatalf("expected balance -30, got %s", balance)
	}
}

func TestBookRepository_GetBalanceAt(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewBookRepository(store)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tx := beginTx(t, manager)
	for i, amount := range []int64{100, 50} {
		entry := &domain.Entry{
			ID:         uint64(i),
			Account:    "acct-1",
			Kind:       domain.EntryKindCredit,
			Amount:     decimal.NewFromInt(amount),
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.AppendEntry(ctx, tx, entry); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	at, err := repo.GetBalanceAt(ctx, "acct-1", base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("balance at failed: %v", err)
	}
	if !at.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance 100 before second entry, got %s", at)
	}
}

func TestPulseRepository_DuplicateHashRejected(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewPulseRepository(store)
	ctx := context.Background()

	txn := &domain.Transaction{
		Hash:     "abc",
		Sender:   "alice",
		Receiver: "bob",
		Amount:   decimal.NewFromInt(5),
	}

	tx := beginTx(t, manager)
	if err := repo.AppendTransaction(ctx, tx, txn); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	tx = beginTx(t, manager)
	err := repo.AppendTransaction(ctx, tx, txn)
	if err != domain.ErrDuplicateTransaction {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}
	_ = tx.Rollback(ctx)
}

func TestPulseRepository_SelfTransferIndexedTwice(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewPulseRepository(store)
	ctx := context.Background()

	txn := &domain.Transaction{
		Hash:     "self",
		Sender:   "alice",
		Receiver: "alice",
		Amount:   decimal.NewFromInt(1),
	}

	tx := beginTx(t, manager)
	if err := repo.AppendTransaction(ctx, tx, txn); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	hashes, err := repo.ListByIdentity(ctx, "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("expected self-transfer indexed twice, got %d", len(hashes))
	}
}

func TestPulseRepository_ListRecent(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewPulseRepository(store)
	ctx := context.Background()

	tx := beginTx(t, manager)
	for i := 0; i < 5; i++ {
		txn := &domain.Transaction{
			Hash:     fmt.Sprintf("hash-%d", i),
			Sender:   "alice",
			Receiver: "bob",
			Amount:   decimal.NewFromInt(1),
		}
		if err := repo.AppendTransaction(ctx, tx, txn); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	tests := []struct {
		count int
		want  []string
	}{
		{count: 2, want: []string{"hash-4", "hash-3"}},
		{count: 10, want: []string{"hash-4", "hash-3", "hash-2", "hash-1", "hash-0"}},
		{count: 0, want: []string{}},
	}

	for _, tt := range tests {
		got, err := repo.ListRecent(ctx, tt.count)
		if err != nil {
			t.Fatalf("list recent failed: %v", err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("count %d: expected %d hashes, got %d", tt.count, len(tt.want), len(got))
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Fatalf("count %d: expected %v, got %v", tt.count, tt.want, got)
			}
		}
	}
}

func TestPulseRepository_ScoreRollback(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewPulseRepository(store)
	ctx := context.Background()

	tx := beginTx(t, manager)
	score, err := repo.GetScoreForUpdate(ctx, tx, "alice")
	if err != nil {
		t.Fatalf("get score failed: %v", err)
	}
	score.TotalTransactions = 1
	score.TotalVolume = decimal.NewFromInt(5)
	score.Score = 15
	if err := repo.SaveScore(ctx, tx, score); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.BumpSystemStats(ctx, tx, 1, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	after, err := repo.GetScore(ctx, "alice")
	if err != nil {
		t.Fatalf("get score failed: %v", err)
	}
	if after.TotalTransactions != 0 || !after.TotalVolume.IsZero() {
		t.Fatalf("expected zero score after rollback, got %+v", after)
	}

	stats, err := repo.GetSystemStats(ctx)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.TotalTransactions != 0 || !stats.TotalVolume.IsZero() {
		t.Fatalf("expected zero stats after rollback, got %+v", stats)
	}
}

func TestSequenceRepository_NamespacesIndependent(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewSequenceRepository(store)
	ctx := context.Background()

	tx := beginTx(t, manager)
	for want := uint64(0); want < 3; want++ {
		got, err := repo.Next(ctx, tx, "book.entries")
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	got, err := repo.Next(ctx, tx, "pulse.transactions")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected independent namespace to start at 0, got %d", got)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
}

func TestSequenceRepository_RollbackRestoresCounter(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewSequenceRepository(store)
	ctx := context.Background()

	tx := beginTx(t, manager)
	if _, err := repo.Next(ctx, tx, "book.entries"); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	_ = tx.Rollback(ctx)

	tx = beginTx(t, manager)
	got, err := repo.Next(ctx, tx, "book.entries")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected counter restored to 0 after rollback, got %d", got)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
}

func TestOwnerRepository_InitIsIdempotent(t *testing.T) {
	store := NewStore()
	repo := NewOwnerRepository(store)
	ctx := context.Background()

	if _, err := repo.Get(ctx); err != domain.ErrOwnerNotInitialized {
		t.Fatalf("expected ErrOwnerNotInitialized, got %v", err)
	}

	if err := repo.Init(ctx, "alice"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := repo.Init(ctx, "mallory"); err != nil {
		t.Fatalf("second init failed: %v", err)
	}

	owner, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if owner != "alice" {
		t.Fatalf("expected first init to win, got %s", owner)
	}
}

func TestOutboxRepository_RollbackDropsEvent(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewOutboxRepository(store)
	ctx := context.Background()

	tx := beginTx(t, manager)
	event := &domain.OutboxEvent{ID: "evt-1", EventType: domain.EventTypeEntryRecorded}
	if err := repo.Create(ctx, tx, event); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_ = tx.Rollback(ctx)

	events, err := repo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("get unpublished failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events after rollback, got %d", len(events))
	}
}

func TestOutboxRepository_MarkPublished(t *testing.T) {
	store := NewStore()
	manager := NewTxManager(store)
	repo := NewOutboxRepository(store)
	ctx := context.Background()

	tx := beginTx(t, manager)
	if err := repo.Create(ctx, tx, &domain.OutboxEvent{ID: "evt-1", CreatedAt: time.Now().Add(-time.Hour)}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := repo.MarkPublished(ctx, "evt-1", time.Now()); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	events, err := repo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("get unpublished failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected published event excluded, got %d", len(events))
	}

	if err := repo.DeletePublished(ctx, time.Now()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}
