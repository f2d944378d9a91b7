package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreyanshxcodes/LedgerPulse/internal/domain"
	"github.com/Shreyanshxcodes/LedgerPulse/internal/usecase"
)

// MockOwnerRepository is a mock implementation of OwnerRepository.
type MockOwnerRepository struct {
	mu    sync.RWMutex
	owner string
	set   bool

	InitFunc         func(ctx context.Context, identity string) error
	GetFunc          func(ctx context.Context) (string, error)
	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction) (string, error)
	SetFunc          func(ctx context.Context, tx usecase.Transaction, identity string, updatedAt time.Time) error
}

func NewMockOwnerRepository() *MockOwnerRepository {
	return &MockOwnerRepository{}
}

func (m *MockOwnerRepository) Init(ctx context.Context, identity string) error {
	if m.InitFunc != nil {
		return m.InitFunc(ctx, identity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		m.owner = identity
		m.set = true
	}
	return nil
}

func (m *MockOwnerRepository) Get(ctx context.Context) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return "", domain.ErrOwnerNotInitialized
	}
	return m.owner, nil
}

func (m *MockOwnerRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction) (string, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx)
	}
	return m.Get(ctx)
}

func (m *MockOwnerRepository) Set(ctx context.Context, tx usecase.Transaction, identity string, updatedAt time.Time) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, tx, identity, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owner = identity
	m.set = true
	return nil
}

// MockBookRepository is a mock implementation of BookRepository.
type MockBookRepository struct {
	mu       sync.RWMutex
	entries  map[string][]*domain.Entry
	balances map[string]decimal.Decimal

	AppendEntryFunc         func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetBalanceFunc          func(ctx context.Context, account string) (decimal.Decimal, error)
	GetBalanceForUpdateFunc func(ctx context.Context, tx usecase.Transaction, account string) (decimal.Decimal, error)
	SetBalanceFunc          func(ctx context.Context, tx usecase.Transaction, account string, balance decimal.Decimal, updatedAt time.Time) error
	ListEntriesFunc         func(ctx context.Context, account string) ([]*domain.Entry, error)
	GetBalanceAtFunc        func(ctx context.Context, account string, at time.Time) (decimal.Decimal, error)
	BalancesFunc            func(ctx context.Context) (map[string]decimal.Decimal, error)
	SumEntriesFunc          func(ctx context.Context) (map[string]decimal.Decimal, error)
}

func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		entries:  make(map[string][]*domain.Entry),
		balances: make(map[string]decimal.Decimal),
	}
}

func (m *MockBookRepository) AppendEntry(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.AppendEntryFunc != nil {
		return m.AppendEntryFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Account] = append(m.entries[entry.Account], entry)
	return nil
}

func (m *MockBookRepository) GetBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, account)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if balance, ok := m.balances[account]; ok {
		return balance, nil
	}
	return decimal.Zero, nil
}

func (m *MockBookRepository) GetBalanceForUpdate(ctx context.Context, tx usecase.Transaction, account string) (decimal.Decimal, error) {
	if m.GetBalanceForUpdateFunc != nil {
		return m.GetBalanceForUpdateFunc(ctx, tx, account)
	}
	return m.GetBalance(ctx, account)
}

func (m *MockBookRepository) SetBalance(ctx context.Context, tx usecase.Transaction, account string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.SetBalanceFunc != nil {
		return m.SetBalanceFunc(ctx, tx, account, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account] = balance
	return nil
}

func (m *MockBookRepository) ListEntries(ctx context.Context, account string) ([]*domain.Entry, error) {
	if m.ListEntriesFunc != nil {
		return m.ListEntriesFunc(ctx, account)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*domain.Entry, len(m.entries[account]))
	copy(entries, m.entries[account])
	return entries, nil
}

func (m *MockBookRepository) GetBalanceAt(ctx context.Context, account string, at time.Time) (decimal.Decimal, error) {
	if m.GetBalanceAtFunc != nil {
		return m.GetBalanceAtFunc(ctx, account, at)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance := decimal.Zero
	for _, entry := range m.entries[account] {
		if !entry.RecordedAt.After(at) {
			balance = balance.Add(entry.SignedAmount())
		}
	}
	return balance, nil
}

func (m *MockBookRepository) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	if m.BalancesFunc != nil {
		return m.BalancesFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	balances := make(map[string]decimal.Decimal, len(m.balances))
	for account, balance := range m.balances {
		balances[account] = balance
	}
	return balances, nil
}

func (m *MockBookRepository) SumEntries(ctx context.Context) (map[string]decimal.Decimal, error) {
	if m.SumEntriesFunc != nil {
		return m.SumEntriesFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := make(map[string]decimal.Decimal, len(m.entries))
	for account, entries := range m.entries {
		sum := decimal.Zero
		for _, entry := range entries {
			sum = sum.Add(entry.SignedAmount())
		}
		sums[account] = sum
	}
	return sums, nil
}

// MockPulseRepository is a mock implementation of PulseRepository.
type MockPulseRepository struct {
	mu     sync.RWMutex
	log    []*domain.Transaction
	byHash map[string]*domain.Transaction
	index  map[string][]string
	scores map[string]*domain.PulseScore
	stats  domain.SystemStats

	AppendTransactionFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByHashFunc         func(ctx context.Context, hash string) (*domain.Transaction, error)
	ListByIdentityFunc    func(ctx context.Context, identity string) ([]string, error)
	ListRecentFunc        func(ctx context.Context, count int) ([]string, error)
	GetScoreFunc          func(ctx context.Context, identity string) (*domain.PulseScore, error)
	GetScoreForUpdateFunc func(ctx context.Context, tx usecase.Transaction, identity string) (*domain.PulseScore, error)
	SaveScoreFunc         func(ctx context.Context, tx usecase.Transaction, score *domain.PulseScore) error
	GetSystemStatsFunc    func(ctx context.Context) (*domain.SystemStats, error)
	BumpSystemStatsFunc   func(ctx context.Context, tx usecase.Transaction, transactions uint64, volume decimal.Decimal) error
	SumTransactionsFunc   func(ctx context.Context) (uint64, decimal.Decimal, error)
}

func NewMockPulseRepository() *MockPulseRepository {
	return &MockPulseRepository{
		byHash: make(map[string]*domain.Transaction),
		index:  make(map[string][]string),
		scores: make(map[string]*domain.PulseScore),
		stats:  domain.SystemStats{TotalVolume: decimal.Zero},
	}
}

func (m *MockPulseRepository) AppendTransaction(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.AppendTransactionFunc != nil {
		return m.AppendTransactionFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byHash[txn.Hash]; exists {
		return domain.ErrDuplicateTransaction
	}
	m.log = append(m.log, txn)
	m.byHash[txn.Hash] = txn
	m.index[txn.Sender] = append(m.index[txn.Sender], txn.Hash)
	m.index[txn.Receiver] = append(m.index[txn.Receiver], txn.Hash)
	return nil
}

func (m *MockPulseRepository) GetByHash(ctx context.Context, hash string) (*domain.Transaction, error) {
	if m.GetByHashFunc != nil {
		return m.GetByHashFunc(ctx, hash)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.byHash[hash]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockPulseRepository) ListByIdentity(ctx context.Context, identity string) ([]string, error) {
	if m.ListByIdentityFunc != nil {
		return m.ListByIdentityFunc(ctx, identity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	hashes := make([]string, len(m.index[identity]))
	copy(hashes, m.index[identity])
	return hashes, nil
}

func (m *MockPulseRepository) ListRecent(ctx context.Context, count int) ([]string, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, count)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if count > len(m.log) {
		count = len(m.log)
	}
	hashes := make([]string, 0, count)
	for i := len(m.log) - 1; i >= len(m.log)-count; i-- {
		hashes = append(hashes, m.log[i].Hash)
	}
	return hashes, nil
}

func (m *MockPulseRepository) GetScore(ctx context.Context, identity string) (*domain.PulseScore, error) {
	if m.GetScoreFunc != nil {
		return m.GetScoreFunc(ctx, identity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if score, ok := m.scores[identity]; ok {
		copied := *score
		return &copied, nil
	}
	return domain.NewPulseScore(identity), nil
}

func (m *MockPulseRepository) GetScoreForUpdate(ctx context.Context, tx usecase.Transaction, identity string) (*domain.PulseScore, error) {
	if m.GetScoreForUpdateFunc != nil {
		return m.GetScoreForUpdateFunc(ctx, tx, identity)
	}
	return m.GetScore(ctx, identity)
}

func (m *MockPulseRepository) SaveScore(ctx context.Context, tx usecase.Transaction, score *domain.PulseScore) error {
	if m.SaveScoreFunc != nil {
		return m.SaveScoreFunc(ctx, tx, score)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *score
	m.scores[score.Identity] = &copied
	return nil
}

func (m *MockPulseRepository) GetSystemStats(ctx context.Context) (*domain.SystemStats, error) {
	if m.GetSystemStatsFunc != nil {
		return m.GetSystemStatsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := m.stats
	return &stats, nil
}

func (m *MockPulseRepository) BumpSystemStats(ctx context.Context, tx usecase.Transaction, transactions uint64, volume decimal.Decimal) error {
	if m.BumpSystemStatsFunc != nil {
		return m.BumpSystemStatsFunc(ctx, tx, transactions, volume)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.TotalTransactions += transactions
	m.stats.TotalVolume = m.stats.TotalVolume.Add(volume)
	return nil
}

func (m *MockPulseRepository) SumTransactions(ctx context.Context) (uint64, decimal.Decimal, error) {
	if m.SumTransactionsFunc != nil {
		return m.SumTransactionsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	volume := decimal.Zero
	for _, txn := range m.log {
		volume = volume.Add(txn.Amount)
	}
	return uint64(len(m.log)), volume, nil
}

// MockSequenceRepository is a mock implementation of SequenceRepository.
type MockSequenceRepository struct {
	mu       sync.Mutex
	counters map[string]uint64

	NextFunc func(ctx context.Context, tx usecase.Transaction, name string) (uint64, error)
}

func NewMockSequenceRepository() *MockSequenceRepository {
	return &MockSequenceRepository{
		counters: make(map[string]uint64),
	}
}

func (m *MockSequenceRepository) Next(ctx context.Context, tx usecase.Transaction, name string) (uint64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, tx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value := m.counters[name]
	m.counters[name] = value + 1
	return value, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, event := range m.events {
		if !event.Published {
			events = append(events, event)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, event := range m.events {
		if !event.Published || event.PublishedAt == nil || !event.PublishedAt.Before(before) {
			kept = append(kept, event)
		}
	}
	m.events = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, log := range m.logs {
		if filter.Actor != "" && log.Actor != filter.Actor {
			continue
		}
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		logs = append(logs, log)
	}
	return logs, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockSettler is a mock implementation of Settler.
type MockSettler struct {
	SettleFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
}

func (m *MockSettler) Settle(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, tx, txn)
	}
	return nil
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
