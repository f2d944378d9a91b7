package memory

import (
	"context"
	"errors"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

var errTxFinished = errors.New("memory: transaction already finished")

// TxManager implements usecase.TransactionManager over a Store. Begin
// acquires the store's write lock, so mutating operations serialize
// behind one global critical section.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction, blocking until the write lock is held.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.store.mu.Lock()

	return &Tx{store: m.store}, nil
}

// Tx is an undo-journal transaction. Every mutation performed through a
// repository registers its inverse; Rollback replays the journal in
// reverse, so a failed operation leaves the store exactly as it was.
type Tx struct {
	store    *Store
	undo     []func()
	finished bool
}

// OnRollback registers an inverse operation for a mutation applied
// inside this transaction.
func (t *Tx) OnRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

// Commit discards the undo journal and releases the write lock.
func (t *Tx) Commit(ctx context.Context) error {
	if t.finished {
		return errTxFinished
	}

	t.finished = true
	t.undo = nil
	t.store.mu.Unlock()

	return nil
}

// Rollback replays the undo journal in reverse and releases the write
// lock. Calling it after Commit is a no-op, matching the usual
// defer-Rollback pattern.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.finished {
		return nil
	}

	t.finished = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.store.mu.Unlock()

	return nil
}

// asTx asserts the usecase transaction handle back to the memory Tx.
func asTx(tx usecase.Transaction) *Tx {
	return tx.(*Tx)
}
