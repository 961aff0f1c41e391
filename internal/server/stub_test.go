package server

import (
	"context"
	"time"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/usecase"
)

// stubEngine lets each test plug in just the operations it exercises.
// Unset operations fail with ErrInternalServer.
type stubEngine struct {
	login            func(ctx context.Context, username, password string) (*usecase.LoginResult, error)
	getAccountNumber func(ctx context.Context, username string) (uint64, error)
	getBalance       func(ctx context.Context, accountNumber uint64) (int64, error)
	createAccount    func(ctx context.Context, params usecase.CreateAccountParams) (uint64, error)
	deleteAccount    func(ctx context.Context, accountNumber uint64) error
	transact         func(ctx context.Context, accountNumber uint64, amountInCents int64) (int64, error)
	transfer         func(ctx context.Context, fromAccount, toAccount uint64, amountInCents int64) (*usecase.TransferResult, error)
	viewHistory      func(ctx context.Context, accountNumber uint64) ([]entity.TransactionRecord, error)
	updateProfile    func(ctx context.Context, params usecase.UpdateProfileParams) error
	viewAllAccounts  func(ctx context.Context) ([]entity.AccountSummary, error)
}

func (s *stubEngine) Login(ctx context.Context, username, password string) (*usecase.LoginResult, error) {
	if s.login == nil {
		return nil, errs.ErrInternalServer
	}
	return s.login(ctx, username, password)
}

func (s *stubEngine) GetAccountNumber(ctx context.Context, username string) (uint64, error) {
	if s.getAccountNumber == nil {
		return 0, errs.ErrInternalServer
	}
	return s.getAccountNumber(ctx, username)
}

func (s *stubEngine) GetBalance(ctx context.Context, accountNumber uint64) (int64, error) {
	if s.getBalance == nil {
		return 0, errs.ErrInternalServer
	}
	return s.getBalance(ctx, accountNumber)
}

func (s *stubEngine) CreateAccount(ctx context.Context, params usecase.CreateAccountParams) (uint64, error) {
	if s.createAccount == nil {
		return 0, errs.ErrInternalServer
	}
	return s.createAccount(ctx, params)
}

func (s *stubEngine) DeleteAccount(ctx context.Context, accountNumber uint64) error {
	if s.deleteAccount == nil {
		return errs.ErrInternalServer
	}
	return s.deleteAccount(ctx, accountNumber)
}

func (s *stubEngine) Transact(ctx context.Context, accountNumber uint64, amountInCents int64) (int64, error) {
	if s.transact == nil {
		return 0, errs.ErrInternalServer
	}
	return s.transact(ctx, accountNumber, amountInCents)
}

func (s *stubEngine) Transfer(ctx context.Context, fromAccount, toAccount uint64, amountInCents int64) (*usecase.TransferResult, error) {
	if s.transfer == nil {
		return nil, errs.ErrInternalServer
	}
	return s.transfer(ctx, fromAccount, toAccount, amountInCents)
}

func (s *stubEngine) ViewHistory(ctx context.Context, accountNumber uint64) ([]entity.TransactionRecord, error) {
	if s.viewHistory == nil {
		return nil, errs.ErrInternalServer
	}
	return s.viewHistory(ctx, accountNumber)
}

func (s *stubEngine) UpdateProfile(ctx context.Context, params usecase.UpdateProfileParams) error {
	if s.updateProfile == nil {
		return errs.ErrInternalServer
	}
	return s.updateProfile(ctx, params)
}

func (s *stubEngine) ViewAllAccounts(ctx context.Context) ([]entity.AccountSummary, error) {
	if s.viewAllAccounts == nil {
		return nil, errs.ErrInternalServer
	}
	return s.viewAllAccounts(ctx)
}

// nopLogger drops everything.
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
func (nopLogger) Flush() error                 { return nil }

func (l nopLogger) With(map[string]any) coreport.Logger { return l }

// sysClock is a plain wall-clock time provider.
type sysClock struct{}

func (sysClock) Now() time.Time                  { return time.Now() }
func (sysClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (sysClock) Sleep(d time.Duration)           { time.Sleep(d) }

func (sysClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}
