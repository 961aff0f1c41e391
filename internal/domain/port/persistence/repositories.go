package persistence

import (
	"context"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
)

// AccountRepository persists account credential records.
type AccountRepository interface {
	// Create inserts the account and returns the store-assigned account number.
	Create(ctx context.Context, account *entity.Account) (uint64, error)
	// GetByUsername looks an account up by username, ignoring case.
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	// GetByNumber looks an account up by its account number.
	GetByNumber(ctx context.Context, accountNumber uint64) (*entity.Account, error)
	// UsernameExists reports whether a username is already taken, ignoring case.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// UpdatePassword replaces the stored credential hash.
	UpdatePassword(ctx context.Context, accountNumber uint64, passwordHash string) error
	// Delete removes the account row.
	Delete(ctx context.Context, accountNumber uint64) error
	// ListWithProfiles returns every account joined with its profile.
	ListWithProfiles(ctx context.Context) ([]entity.AccountSummary, error)
}

// ProfileRepository persists the personal data rows tied 1:1 to accounts.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByNumber(ctx context.Context, accountNumber uint64) (*entity.Profile, error)
	// BalanceForUpdate reads a balance under an exclusive row lock. It must be
	// called inside a store transaction; the lock is held until commit or
	// rollback so the subsequent SetBalance cannot lose a concurrent update.
	BalanceForUpdate(ctx context.Context, accountNumber uint64) (int64, error)
	SetBalance(ctx context.Context, accountNumber uint64, balanceInCents int64) error
	UpdateName(ctx context.Context, accountNumber uint64, name string) error
	Delete(ctx context.Context, accountNumber uint64) error
}

// HistoryRepository persists the append-only transaction history.
type HistoryRepository interface {
	// Append inserts a history row and returns its transaction id.
	Append(ctx context.Context, record *entity.TransactionRecord) (uint64, error)
	// ListByAccount returns history rows newest first, ordered by date then time descending.
	ListByAccount(ctx context.Context, accountNumber uint64) ([]entity.TransactionRecord, error)
	// DeleteByAccount removes all history rows for an account.
	DeleteByAccount(ctx context.Context, accountNumber uint64) error
}
