package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/persistence"
)

// memState is the committed ledger state of the in-memory store.
type memState struct {
	accounts    map[uint64]entity.Account
	profiles    map[uint64]entity.Profile
	history     []entity.TransactionRecord
	nextAccount uint64
	nextTx      uint64
}

func newMemState() *memState {
	return &memState{
		accounts:    make(map[uint64]entity.Account),
		profiles:    make(map[uint64]entity.Profile),
		nextAccount: 1,
		nextTx:      1,
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextAccount = s.nextAccount
	c.nextTx = s.nextTx
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	c.history = append(c.history, s.history...)
	return c
}

type memTxKey struct{}

// memUow is an in-memory persistence.UnitOfWork with real transaction
// semantics: every Begin stages a copy of the state, Commit swaps it in,
// Rollback discards it. The mutex is held for the life of each transaction.
type memUow struct {
	mu        sync.Mutex
	state     *memState
	appendErr error // injected failure for History.Append
}

func newMemUow() *memUow {
	return &memUow{state: newMemState()}
}

func (u *memUow) Begin(ctx context.Context) (context.Context, error) {
	u.mu.Lock()
	return context.WithValue(ctx, memTxKey{}, u.state.clone()), nil
}

func (u *memUow) Commit(ctx context.Context) error {
	staged, ok := ctx.Value(memTxKey{}).(*memState)
	if !ok {
		return fmt.Errorf("no transaction in context")
	}
	u.state = staged
	u.mu.Unlock()
	return nil
}

func (u *memUow) Rollback(ctx context.Context) error {
	if _, ok := ctx.Value(memTxKey{}).(*memState); !ok {
		return fmt.Errorf("no transaction in context")
	}
	u.mu.Unlock()
	return nil
}

func (u *memUow) staged(ctx context.Context) *memState {
	staged, ok := ctx.Value(memTxKey{}).(*memState)
	if !ok {
		panic("repository used outside a transaction")
	}
	return staged
}

func (u *memUow) Accounts(ctx context.Context) persistence.AccountRepository {
	return &memAccounts{state: u.staged(ctx)}
}

func (u *memUow) Profiles(ctx context.Context) persistence.ProfileRepository {
	return &memProfiles{state: u.staged(ctx)}
}

func (u *memUow) History(ctx context.Context) persistence.HistoryRepository {
	return &memHistory{state: u.staged(ctx), appendErr: u.appendErr}
}

// seed installs an account directly into committed state and returns its number.
func (u *memUow) seed(username, passwordHash string, admin bool, balance int64) uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := u.state.nextAccount
	u.state.nextAccount++
	u.state.accounts[n] = entity.Account{
		AccountNumber: n,
		Username:      username,
		Password:      passwordHash,
		Admin:         admin,
	}
	u.state.profiles[n] = entity.Profile{
		AccountNumber: n,
		Name:          username,
		Age:           30,
		Balance:       balance,
	}
	return n
}

func (u *memUow) balance(accountNumber uint64) int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.profiles[accountNumber].Balance
}

func (u *memUow) historyLen(accountNumber uint64) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, r := range u.state.history {
		if r.AccountNumber == accountNumber {
			n++
		}
	}
	return n
}

type memAccounts struct {
	state *memState
}

func (r *memAccounts) Create(_ context.Context, account *entity.Account) (uint64, error) {
	for _, a := range r.state.accounts {
		if strings.EqualFold(a.Username, account.Username) {
			return 0, errs.ErrDuplicateUsername
		}
	}
	n := r.state.nextAccount
	r.state.nextAccount++
	account.AccountNumber = n
	r.state.accounts[n] = *account
	return n, nil
}

func (r *memAccounts) GetByUsername(_ context.Context, username string) (*entity.Account, error) {
	for _, a := range r.state.accounts {
		if strings.EqualFold(a.Username, username) {
			found := a
			return &found, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r *memAccounts) GetByNumber(_ context.Context, accountNumber uint64) (*entity.Account, error) {
	a, ok := r.state.accounts[accountNumber]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return &a, nil
}

func (r *memAccounts) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, a := range r.state.accounts {
		if strings.EqualFold(a.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAccounts) UpdatePassword(_ context.Context, accountNumber uint64, passwordHash string) error {
	a, ok := r.state.accounts[accountNumber]
	if !ok {
		return errs.ErrAccountNotFound
	}
	a.Password = passwordHash
	r.state.accounts[accountNumber] = a
	return nil
}

func (r *memAccounts) Delete(_ context.Context, accountNumber uint64) error {
	if _, ok := r.state.accounts[accountNumber]; !ok {
		return errs.ErrAccountNotFound
	}
	delete(r.state.accounts, accountNumber)
	return nil
}

func (r *memAccounts) ListWithProfiles(_ context.Context) ([]entity.AccountSummary, error) {
	summaries := make([]entity.AccountSummary, 0, len(r.state.accounts))
	for n, a := range r.state.accounts {
		p := r.state.profiles[n]
		summaries = append(summaries, entity.AccountSummary{
			AccountNumber: n,
			Username:      a.Username,
			Admin:         a.Admin,
			Name:          p.Name,
			Balance:       p.Balance,
			Age:           p.Age,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].AccountNumber < summaries[j].AccountNumber
	})
	return summaries, nil
}

type memProfiles struct {
	state *memState
}

func (r *memProfiles) Create(_ context.Context, profile *entity.Profile) error {
	r.state.profiles[profile.AccountNumber] = *profile
	return nil
}

func (r *memProfiles) GetByNumber(_ context.Context, accountNumber uint64) (*entity.Profile, error) {
	p, ok := r.state.profiles[accountNumber]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return &p, nil
}

func (r *memProfiles) BalanceForUpdate(_ context.Context, accountNumber uint64) (int64, error) {
	p, ok := r.state.profiles[accountNumber]
	if !ok {
		return 0, errs.ErrAccountNotFound
	}
	return p.Balance, nil
}

func (r *memProfiles) SetBalance(_ context.Context, accountNumber uint64, balanceInCents int64) error {
	p, ok := r.state.profiles[accountNumber]
	if !ok {
		return errs.ErrAccountNotFound
	}
	p.Balance = balanceInCents
	r.state.profiles[accountNumber] = p
	return nil
}

func (r *memProfiles) UpdateName(_ context.Context, accountNumber uint64, name string) error {
	p, ok := r.state.profiles[accountNumber]
	if !ok {
		return errs.ErrAccountNotFound
	}
	p.Name = name
	r.state.profiles[accountNumber] = p
	return nil
}

func (r *memProfiles) Delete(_ context.Context, accountNumber uint64) error {
	if _, ok := r.state.profiles[accountNumber]; !ok {
		return errs.ErrAccountNotFound
	}
	delete(r.state.profiles, accountNumber)
	return nil
}

type memHistory struct {
	state     *memState
	appendErr error
}

func (r *memHistory) Append(_ context.Context, record *entity.TransactionRecord) (uint64, error) {
	if r.appendErr != nil {
		return 0, r.appendErr
	}
	record.TransactionID = r.state.nextTx
	r.state.nextTx++
	r.state.history = append(r.state.history, *record)
	return record.TransactionID, nil
}

func (r *memHistory) ListByAccount(_ context.Context, accountNumber uint64) ([]entity.TransactionRecord, error) {
	var records []entity.TransactionRecord
	for _, rec := range r.state.history {
		if rec.AccountNumber == accountNumber {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		if records[i].Time != records[j].Time {
			return records[i].Time > records[j].Time
		}
		return records[i].TransactionID > records[j].TransactionID
	})
	return records, nil
}

func (r *memHistory) DeleteByAccount(_ context.Context, accountNumber uint64) error {
	kept := r.state.history[:0]
	for _, rec := range r.state.history {
		if rec.AccountNumber != accountNumber {
			kept = append(kept, rec)
		}
	}
	r.state.history = kept
	return nil
}

// testLogger satisfies core.Logger and drops everything.
type testLogger struct{}

func (testLogger) Debug(string, map[string]any) {}
func (testLogger) Info(string, map[string]any)  {}
func (testLogger) Warn(string, map[string]any)  {}
func (testLogger) Error(string, map[string]any) {}
func (testLogger) Flush() error                 { return nil }

func (l testLogger) With(map[string]any) coreport.Logger { return l }

// testClock satisfies core.TimeProvider with an adjustable wall clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }

func (c *testClock) Sleep(time.Duration) {}

func (c *testClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
