package ledger

import (
	"sync"
)

// accountLocks serializes mutating operations per account. The store's row
// locks already order conflicting transactions; this keeper adds an explicit
// in-process guarantee and, by acquiring transfer locks in ascending account
// order, rules out lock-order deadlocks between opposing transfers.
type accountLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{
		locks: make(map[uint64]*sync.Mutex),
	}
}

// get returns the mutex for an account, creating it on first use. Locks are
// never removed; the account space of a single node is small enough that the
// map does not need reaping.
func (a *accountLocks) get(accountNumber uint64) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	lock, ok := a.locks[accountNumber]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[accountNumber] = lock
	}
	return lock
}

// Lock acquires the lock for one account and returns the unlock function.
func (a *accountLocks) Lock(accountNumber uint64) func() {
	lock := a.get(accountNumber)
	lock.Lock()
	return lock.Unlock
}

// LockPair acquires the locks for two distinct accounts in ascending order
// and returns a function releasing both.
func (a *accountLocks) LockPair(first, second uint64) func() {
	if first > second {
		first, second = second, first
	}
	lo := a.get(first)
	hi := a.get(second)
	lo.Lock()
	hi.Lock()
	return func() {
		hi.Unlock()
		lo.Unlock()
	}
}
