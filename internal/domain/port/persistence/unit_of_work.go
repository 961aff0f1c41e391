package persistence

import (
	"context"
)

// UnitOfWork coordinates a store transaction across the three repositories so
// every ledger operation commits or rolls back as one unit.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// Accounts returns an account repository bound to the current transaction
	Accounts(ctx context.Context) AccountRepository

	// Profiles returns a profile repository bound to the current transaction
	Profiles(ctx context.Context) ProfileRepository

	// History returns a history repository bound to the current transaction
	History(ctx context.Context) HistoryRepository
}
