package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	"github.com/mkorolev/ledger-service/internal/domain/event"
	"github.com/mkorolev/ledger-service/internal/domain/port/persistence"
	mcore "github.com/mkorolev/ledger-service/mocks/port/core"
)

// fakeStore is an in-memory stand-in for the real store. It keeps committed
// state only; uncommitted work lives in fakeTx until Commit applies it, so
// retry loops observe the same semantics as a real transactional store.
type fakeStore struct {
	mu       sync.Mutex
	balances map[uint64]*entity.Balance
	entries  []*entity.LedgerEntry

	// lockRequests records the ID slices passed to LockForUpdate
	lockRequests [][]uint64

	// failLocks makes the next N LockForUpdate calls fail with a
	// transient conflict
	failLocks int

	// failCommits makes the next N Commit calls fail with commitErr
	failCommits int
	commitErr   error

	commitCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{balances: make(map[uint64]*entity.Balance)}
}

func (s *fakeStore) seedBalance(userID uint64, cents int64) {
	now := time.Now()
	s.balances[userID] = entity.RestoreBalance(userID, cents, now, now)
}

func (s *fakeStore) committedAmount(userID uint64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[userID].Amount()
}

func (s *fakeStore) entriesFor(userID uint64) []*entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

type fakeTx struct {
	balances map[uint64]*entity.Balance
	creates  []*entity.Balance
	entries  []*entity.LedgerEntry
}

type fakeTxKeyType struct{}

var fakeTxKey fakeTxKeyType

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	tx := &fakeTx{balances: make(map[uint64]*entity.Balance)}
	return context.WithValue(ctx, fakeTxKey, tx), nil
}

func (u *fakeUnitOfWork) Commit(ctx context.Context) error {
	tx, _ := ctx.Value(fakeTxKey).(*fakeTx)
	if tx == nil {
		return errs.ErrStoreFailure
	}

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitCalls++
	if s.failCommits > 0 {
		s.failCommits--
		return s.commitErr
	}

	for _, b := range tx.creates {
		s.balances[b.UserID] = b
	}
	for id, b := range tx.balances {
		s.balances[id] = b
	}
	s.entries = append(s.entries, tx.entries...)
	return nil
}

func (u *fakeUnitOfWork) Rollback(ctx context.Context) error {
	return nil
}

func (u *fakeUnitOfWork) GetBalanceRepository(ctx context.Context) persistence.BalanceRepository {
	tx, _ := ctx.Value(fakeTxKey).(*fakeTx)
	return &fakeBalanceRepo{store: u.store, tx: tx}
}

func (u *fakeUnitOfWork) GetLedgerRepository(ctx context.Context) persistence.LedgerRepository {
	tx, _ := ctx.Value(fakeTxKey).(*fakeTx)
	return &fakeLedgerRepo{store: u.store, tx: tx}
}

func (u *fakeUnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return nil
}

func (u *fakeUnitOfWork) GetTodoRepository(ctx context.Context) persistence.TodoRepository {
	return nil
}

type fakeBalanceRepo struct {
	store *fakeStore
	tx    *fakeTx
}

func (r *fakeBalanceRepo) copyOf(b *entity.Balance) *entity.Balance {
	return entity.RestoreBalance(b.UserID, b.Amount(), b.CreatedAt, b.UpdatedAt)
}

func (r *fakeBalanceRepo) GetByUserID(ctx context.Context, userID uint64) (*entity.Balance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.balances[userID]
	if !ok {
		return nil, errs.ErrBalanceNotFound
	}
	return r.copyOf(b), nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, userID uint64) (*entity.Balance, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *fakeBalanceRepo) LockForUpdate(ctx context.Context, userIDs []uint64) ([]*entity.Balance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ids := append([]uint64(nil), userIDs...)
	r.store.lockRequests = append(r.store.lockRequests, ids)

	if r.store.failLocks > 0 {
		r.store.failLocks--
		return nil, fmt.Errorf("%w: deadlock detected", errs.ErrTransientConflict)
	}

	var out []*entity.Balance
	for _, id := range userIDs {
		if b, ok := r.store.balances[id]; ok {
			out = append(out, r.copyOf(b))
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) Create(ctx context.Context, balance *entity.Balance) error {
	if r.tx != nil {
		r.tx.creates = append(r.tx.creates, balance)
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.balances[balance.UserID]; ok {
		return errs.ErrDuplicateBalance
	}
	r.store.balances[balance.UserID] = balance
	return nil
}

func (r *fakeBalanceRepo) Update(ctx context.Context, balance *entity.Balance) error {
	if r.tx == nil {
		return errs.ErrStoreFailure
	}
	r.tx.balances[balance.UserID] = balance
	return nil
}

func (r *fakeBalanceRepo) Delete(ctx context.Context, userID uint64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.balances, userID)
	return nil
}

type fakeLedgerRepo struct {
	store *fakeStore
	tx    *fakeTx
}

func (r *fakeLedgerRepo) Append(ctx context.Context, entries ...*entity.LedgerEntry) error {
	if r.tx == nil {
		return errs.ErrStoreFailure
	}
	r.tx.entries = append(r.tx.entries, entries...)
	return nil
}

func (r *fakeLedgerRepo) ListByUserID(ctx context.Context, userID uint64) ([]*entity.LedgerEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.LedgerEntry
	for i := len(r.store.entries) - 1; i >= 0; i-- {
		if r.store.entries[i].UserID == userID {
			out = append(out, r.store.entries[i])
		}
	}
	return out, nil
}

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *recordingPublisher) Publish(topic string, evt any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestEngine(store *fakeStore) (*Engine, *recordingPublisher) {
	logger := new(mcore.MockLogger)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()

	tp := new(mcore.MockTimeProvider)
	tp.On("Now").Return(time.Now())

	publisher := &recordingPublisher{}
	retry := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxJitter: 0}

	return NewEngine(&fakeUnitOfWork{store: store}, publisher, tp, logger, retry), publisher
}

func TestGetBalance(t *testing.T) {
	store := newFakeStore()
	store.seedBalance(1, 10015)
	engine, _ := newTestEngine(store)

	t.Run("Existing balance", func(t *testing.T) {
		resp, err := engine.GetBalance(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), resp.UserID)
		assert.Equal(t, "100.15", resp.Balance)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := engine.GetBalance(context.Background(), 99)
		assert.ErrorIs(t, err, errs.ErrBalanceNotFound)
	})

	t.Run("Zero user ID", func(t *testing.T) {
		_, err := engine.GetBalance(context.Background(), 0)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestInitBalance(t *testing.T) {
	store := newFakeStore()
	engine, _ := newTestEngine(store)

	err := engine.InitBalance(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.committedAmount(5))

	// A second init for the same user must be rejected
	err = engine.InitBalance(context.Background(), 5)
	assert.ErrorIs(t, err, errs.ErrDuplicateBalance)
}

func TestCredit(t *testing.T) {
	t.Run("Adds amount and appends one credit entry", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		engine, publisher := newTestEngine(store)

		resp, err := engine.Credit(context.Background(), 1, "25.50")
		require.NoError(t, err)
		assert.Equal(t, "125.50", resp.Balance)
		assert.Equal(t, int64(12550), store.committedAmount(1))

		entries := store.entriesFor(1)
		require.Len(t, entries, 1)
		assert.Equal(t, entity.EntryTypeCredit, entries[0].Type)
		assert.Equal(t, "25.50", entries[0].Amount)
		assert.Equal(t, entity.ReasonAddBalance, entries[0].Reason)

		require.Len(t, publisher.topics, 1)
		assert.Equal(t, event.TopicBalanceCredited, publisher.topics[0])
	})

	t.Run("Invalid amount never reaches the store", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		engine, _ := newTestEngine(store)

		for _, amount := range []string{"abc", "-5.00", "0", "1.234"} {
			_, err := engine.Credit(context.Background(), 1, amount)
			assert.Error(t, err, amount)
		}

		assert.Equal(t, int64(10000), store.committedAmount(1))
		assert.Empty(t, store.entriesFor(1))
		assert.Zero(t, store.commitCalls)
	})

	t.Run("Unknown user", func(t *testing.T) {
		store := newFakeStore()
		engine, _ := newTestEngine(store)

		_, err := engine.Credit(context.Background(), 42, "10.00")
		assert.ErrorIs(t, err, errs.ErrBalanceNotFound)
	})
}

func TestTransfer(t *testing.T) {
	t.Run("Moves funds and appends a debit/credit pair", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000) // 100.00
		store.seedBalance(2, 5000)  // 50.00
		engine, publisher := newTestEngine(store)

		result, err := engine.Transfer(context.Background(), 1, 2, "30.00")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.Attempts)

		assert.Equal(t, int64(7000), store.committedAmount(1))
		assert.Equal(t, int64(8000), store.committedAmount(2))

		fromEntries := store.entriesFor(1)
		require.Len(t, fromEntries, 1)
		assert.Equal(t, entity.EntryTypeDebit, fromEntries[0].Type)
		assert.Equal(t, "30.00", fromEntries[0].Amount)
		assert.Equal(t, entity.ReasonTransfer, fromEntries[0].Reason)

		toEntries := store.entriesFor(2)
		require.Len(t, toEntries, 1)
		assert.Equal(t, entity.EntryTypeCredit, toEntries[0].Type)
		assert.Equal(t, "30.00", toEntries[0].Amount)
		assert.Equal(t, entity.ReasonTransfer, toEntries[0].Reason)

		require.Len(t, publisher.topics, 1)
		assert.Equal(t, event.TopicTransferCompleted, publisher.topics[0])
	})

	t.Run("Locks rows in ascending ID order regardless of direction", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(3, 10000)
		store.seedBalance(9, 10000)
		engine, _ := newTestEngine(store)

		_, err := engine.Transfer(context.Background(), 9, 3, "10.00")
		require.NoError(t, err)

		require.Len(t, store.lockRequests, 1)
		assert.Equal(t, []uint64{3, 9}, store.lockRequests[0])
	})

	t.Run("Self transfer is rejected before any store access", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		engine, _ := newTestEngine(store)

		_, err := engine.Transfer(context.Background(), 1, 1, "10.00")
		assert.ErrorIs(t, err, errs.ErrSelfTransfer)
		assert.Zero(t, store.commitCalls)
	})

	t.Run("Debit of the entire balance is allowed", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		store.seedBalance(2, 0)
		engine, _ := newTestEngine(store)

		_, err := engine.Transfer(context.Background(), 1, 2, "100.00")
		require.NoError(t, err)
		assert.Equal(t, int64(0), store.committedAmount(1))
		assert.Equal(t, int64(10000), store.committedAmount(2))
	})

	t.Run("Insufficient funds fails fast without retrying", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		store.seedBalance(2, 0)
		engine, _ := newTestEngine(store)

		_, err := engine.Transfer(context.Background(), 1, 2, "100.01")
		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

		var detailed *errs.InsufficientFundsError
		require.True(t, errors.As(err, &detailed))
		assert.Equal(t, uint64(1), detailed.UserID)
		assert.Equal(t, "100.01", detailed.Amount)
		assert.Equal(t, "100.00", detailed.CurrBalance)

		// One attempt only, nothing committed
		assert.Len(t, store.lockRequests, 1)
		assert.Zero(t, store.commitCalls)
		assert.Equal(t, int64(10000), store.committedAmount(1))
		assert.Equal(t, int64(0), store.committedAmount(2))
		assert.Empty(t, store.entriesFor(1))
	})

	t.Run("Missing destination balance aborts the whole transfer", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		engine, _ := newTestEngine(store)

		_, err := engine.Transfer(context.Background(), 1, 2, "10.00")
		assert.ErrorIs(t, err, errs.ErrBalanceNotFound)
		assert.Equal(t, int64(10000), store.committedAmount(1))
	})

	t.Run("Transient conflicts are retried until success", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		store.seedBalance(2, 5000)
		store.failLocks = 2
		engine, _ := newTestEngine(store)

		result, err := engine.Transfer(context.Background(), 1, 2, "30.00")
		require.NoError(t, err)
		assert.Equal(t, 3, result.Attempts)

		// Exactly one committed movement despite three attempts
		assert.Equal(t, int64(7000), store.committedAmount(1))
		assert.Equal(t, int64(8000), store.committedAmount(2))
		assert.Len(t, store.entriesFor(1), 1)
		assert.Len(t, store.entriesFor(2), 1)
	})

	t.Run("Commit-time conflict is retried like any other", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		store.seedBalance(2, 5000)
		store.failCommits = 1
		store.commitErr = fmt.Errorf("%w: could not serialize access", errs.ErrTransientConflict)
		engine, _ := newTestEngine(store)

		result, err := engine.Transfer(context.Background(), 1, 2, "30.00")
		require.NoError(t, err)
		assert.Equal(t, 2, result.Attempts)
		assert.Equal(t, int64(7000), store.committedAmount(1))
	})

	t.Run("Retry exhaustion surfaces as a store failure", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		store.seedBalance(2, 5000)
		store.failLocks = 3
		engine, publisher := newTestEngine(store)

		_, err := engine.Transfer(context.Background(), 1, 2, "30.00")
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrStoreFailure)

		var transferErr *errs.TransferError
		require.True(t, errors.As(err, &transferErr))
		assert.Equal(t, 3, transferErr.Attempts)

		// State untouched, nothing published
		assert.Equal(t, int64(10000), store.committedAmount(1))
		assert.Equal(t, int64(5000), store.committedAmount(2))
		assert.Empty(t, store.entriesFor(1))
		assert.Empty(t, publisher.topics)
	})

	t.Run("Non-transient store failure is not retried", func(t *testing.T) {
		store := newFakeStore()
		store.seedBalance(1, 10000)
		store.seedBalance(2, 5000)
		store.failCommits = 1
		store.commitErr = fmt.Errorf("%w: connection refused", errs.ErrStoreFailure)
		engine, _ := newTestEngine(store)

		_, err := engine.Transfer(context.Background(), 1, 2, "30.00")
		assert.ErrorIs(t, err, errs.ErrStoreFailure)
		assert.Equal(t, 1, store.commitCalls)
	})

	t.Run("Invalid participants are rejected up front", func(t *testing.T) {
		store := newFakeStore()
		engine, _ := newTestEngine(store)

		_, err := engine.Transfer(context.Background(), 0, 2, "10.00")
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)

		_, err = engine.Transfer(context.Background(), 1, 0, "10.00")
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)

		_, err = engine.Transfer(context.Background(), 1, 2, "-10.00")
		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})
}

func TestTransferConservation(t *testing.T) {
	store := newFakeStore()
	store.seedBalance(1, 10000)
	store.seedBalance(2, 10000)
	engine, _ := newTestEngine(store)

	// Opposing transfers in sequence; the total must never change
	for i := 0; i < 10; i++ {
		from, to := uint64(1), uint64(2)
		if i%2 == 1 {
			from, to = to, from
		}
		_, err := engine.Transfer(context.Background(), from, to, "7.77")
		require.NoError(t, err)
	}

	total := store.committedAmount(1) + store.committedAmount(2)
	assert.Equal(t, int64(20000), total)

	// Every committed movement left a debit/credit pair behind
	assert.Len(t, store.entriesFor(1), 10)
	assert.Len(t, store.entriesFor(2), 10)
}

func TestListEntries(t *testing.T) {
	store := newFakeStore()
	store.seedBalance(1, 10000)
	store.seedBalance(2, 0)
	engine, _ := newTestEngine(store)

	_, err := engine.Credit(context.Background(), 1, "5.00")
	require.NoError(t, err)
	_, err = engine.Transfer(context.Background(), 1, 2, "20.00")
	require.NoError(t, err)

	entries, err := engine.ListEntries(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first: the transfer debit precedes the credit
	assert.Equal(t, string(entity.EntryTypeDebit), entries[0].Type)
	assert.Equal(t, "20.00", entries[0].Amount)
	assert.Equal(t, string(entity.EntryTypeCredit), entries[1].Type)
	assert.Equal(t, "5.00", entries[1].Amount)
}
