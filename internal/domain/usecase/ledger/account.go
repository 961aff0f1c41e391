package ledger

import (
	"context"
	"errors"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/usecase"
)

// Login verifies the given credentials. Every failure collapses to
// ErrInvalidCredentials so a caller cannot probe which usernames exist.
func (e *Engine) Login(ctx context.Context, username, password string) (*usecase.LoginResult, error) {
	var result *usecase.LoginResult

	err := e.withTx(ctx, "login", func(txCtx context.Context) error {
		account, err := e.uow.Accounts(txCtx).GetByUsername(txCtx, username)
		if err != nil {
			if errors.Is(err, errs.ErrUserNotFound) {
				return errs.ErrInvalidCredentials
			}
			return err
		}

		if !verifyPassword(account.Password, password) {
			return errs.ErrInvalidCredentials
		}

		result = &usecase.LoginResult{
			AccountNumber: account.AccountNumber,
			Admin:         account.Admin,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			e.logger.Warn("Login failed", map[string]any{"username": username})
		}
		return nil, err
	}

	e.logger.Info("Login succeeded", map[string]any{
		"username":       username,
		"account_number": result.AccountNumber,
		"admin":          result.Admin,
	})
	return result, nil
}

// GetAccountNumber resolves a username to its account number.
func (e *Engine) GetAccountNumber(ctx context.Context, username string) (uint64, error) {
	var accountNumber uint64

	err := e.withTx(ctx, "get_account_number", func(txCtx context.Context) error {
		account, err := e.uow.Accounts(txCtx).GetByUsername(txCtx, username)
		if err != nil {
			return err
		}
		accountNumber = account.AccountNumber
		return nil
	})
	if err != nil {
		return 0, err
	}
	return accountNumber, nil
}

// CreateAccount creates the account and its zero-balance profile in one
// transaction. The uniqueness pre-check runs inside that same transaction;
// the store's unique index on the lowercased username remains the source of
// truth if two creations race.
func (e *Engine) CreateAccount(ctx context.Context, params usecase.CreateAccountParams) (uint64, error) {
	passwordHash, err := hashPassword(params.Password)
	if err != nil {
		return 0, err
	}

	account, profile, err := entity.NewAccount(params.Username, passwordHash, params.Name, params.Age, params.Admin)
	if err != nil {
		return 0, err
	}

	var accountNumber uint64
	err = e.withTx(ctx, "create_account", func(txCtx context.Context) error {
		accounts := e.uow.Accounts(txCtx)

		taken, err := accounts.UsernameExists(txCtx, account.Username)
		if err != nil {
			return err
		}
		if taken {
			return errs.ErrDuplicateUsername
		}

		accountNumber, err = accounts.Create(txCtx, account)
		if err != nil {
			return err
		}

		profile.AccountNumber = accountNumber
		return e.uow.Profiles(txCtx).Create(txCtx, profile)
	})
	if err != nil {
		return 0, errs.NewLedgerError("create_account", 0, err)
	}

	e.logger.Info("Account created", map[string]any{
		"account_number": accountNumber,
		"username":       account.Username,
		"admin":          account.Admin,
	})
	return accountNumber, nil
}

// DeleteAccount removes the account row, its profile and its entire history
// in one transaction.
func (e *Engine) DeleteAccount(ctx context.Context, accountNumber uint64) error {
	if accountNumber == 0 {
		return errs.ErrInvalidAccountNumber
	}

	unlock := e.locks.Lock(accountNumber)
	defer unlock()

	err := e.withTx(ctx, "delete_account", func(txCtx context.Context) error {
		if _, err := e.uow.Accounts(txCtx).GetByNumber(txCtx, accountNumber); err != nil {
			return err
		}
		// History and profile go first so the account row never dangles
		// references, then the account itself.
		if err := e.uow.History(txCtx).DeleteByAccount(txCtx, accountNumber); err != nil {
			return err
		}
		if err := e.uow.Profiles(txCtx).Delete(txCtx, accountNumber); err != nil {
			return err
		}
		return e.uow.Accounts(txCtx).Delete(txCtx, accountNumber)
	})
	if err != nil {
		return errs.NewLedgerError("delete_account", accountNumber, err)
	}

	e.logger.Info("Account deleted", map[string]any{"account_number": accountNumber})
	return nil
}

// UpdateProfile applies the provided changes; empty fields are skipped. The
// account is resolved by username and both writes share one transaction.
// A fully empty update still verifies the account exists.
func (e *Engine) UpdateProfile(ctx context.Context, params usecase.UpdateProfileParams) error {
	var passwordHash string
	if params.NewPassword != "" {
		var err error
		passwordHash, err = hashPassword(params.NewPassword)
		if err != nil {
			return err
		}
	}

	err := e.withTx(ctx, "update_profile", func(txCtx context.Context) error {
		account, err := e.uow.Accounts(txCtx).GetByUsername(txCtx, params.Username)
		if err != nil {
			if errors.Is(err, errs.ErrUserNotFound) {
				return errs.ErrAccountNotFound
			}
			return err
		}

		if passwordHash != "" {
			if err := e.uow.Accounts(txCtx).UpdatePassword(txCtx, account.AccountNumber, passwordHash); err != nil {
				return err
			}
		}
		if params.NewName != "" {
			if err := e.uow.Profiles(txCtx).UpdateName(txCtx, account.AccountNumber, params.NewName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewLedgerError("update_profile", 0, err)
	}

	e.logger.Info("Profile updated", map[string]any{
		"username":         params.Username,
		"password_changed": params.NewPassword != "",
		"name_changed":     params.NewName != "",
	})
	return nil
}

// ViewAllAccounts returns every account joined with its profile.
func (e *Engine) ViewAllAccounts(ctx context.Context) ([]entity.AccountSummary, error) {
	var summaries []entity.AccountSummary

	err := e.withTx(ctx, "view_all_accounts", func(txCtx context.Context) error {
		var err error
		summaries, err = e.uow.Accounts(txCtx).ListWithProfiles(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
