package usecase

import (
	"context"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
)

// LoginResult is returned on a successful credential check.
type LoginResult struct {
	AccountNumber uint64
	Admin         bool
}

// CreateAccountParams carries the inputs for account creation. Password is the
// plaintext credential; hashing happens inside the engine.
type CreateAccountParams struct {
	Username string
	Password string
	Name     string
	Age      int
	Admin    bool
}

// UpdateProfileParams carries a partial profile update. Empty fields are left
// unchanged.
type UpdateProfileParams struct {
	Username    string
	NewPassword string
	NewName     string
}

// TransferResult reports both post-transfer balances in cents.
type TransferResult struct {
	FromBalance int64
	ToBalance   int64
}

// LedgerEngine implements each banking operation as one atomic transaction
// against the ledger store. Partial application of an operation is never
// observable: every failure path rolls back before returning.
type LedgerEngine interface {
	// Login verifies credentials. Any mismatch yields the same generic error.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// GetAccountNumber resolves a username to its account number.
	GetAccountNumber(ctx context.Context, username string) (uint64, error)

	// GetBalance returns the current balance in cents.
	GetBalance(ctx context.Context, accountNumber uint64) (int64, error)

	// CreateAccount creates the account and its zero-balance profile
	// atomically and returns the assigned account number.
	CreateAccount(ctx context.Context, params CreateAccountParams) (uint64, error)

	// DeleteAccount removes the account, its profile and its history in one
	// transaction.
	DeleteAccount(ctx context.Context, accountNumber uint64) error

	// Transact applies a signed deposit/withdrawal amount in cents and returns
	// the new balance. A result below zero is rejected with no mutation.
	Transact(ctx context.Context, accountNumber uint64, amountInCents int64) (int64, error)

	// Transfer moves a positive amount between two distinct accounts, writing
	// both balances and both history rows in one transaction.
	Transfer(ctx context.Context, fromAccount, toAccount uint64, amountInCents int64) (*TransferResult, error)

	// ViewHistory returns the account's records newest first. An account with
	// no records yields ErrNoTransactions, not an empty list.
	ViewHistory(ctx context.Context, accountNumber uint64) ([]entity.TransactionRecord, error)

	// UpdateProfile applies the provided credential/name changes.
	UpdateProfile(ctx context.Context, params UpdateProfileParams) error

	// ViewAllAccounts returns every account joined with its profile.
	ViewAllAccounts(ctx context.Context) ([]entity.AccountSummary, error)
}
