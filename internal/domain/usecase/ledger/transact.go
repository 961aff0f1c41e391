package ledger

import (
	"context"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
)

// GetBalance returns the account balance in cents.
func (e *Engine) GetBalance(ctx context.Context, accountNumber uint64) (int64, error) {
	if accountNumber == 0 {
		return 0, errs.ErrInvalidAccountNumber
	}

	var balance int64
	err := e.withTx(ctx, "get_balance", func(txCtx context.Context) error {
		profile, err := e.uow.Profiles(txCtx).GetByNumber(txCtx, accountNumber)
		if err != nil {
			return err
		}
		balance = profile.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Transact applies a signed deposit or withdrawal. The balance is read under
// the same transaction and row lock as the write, so concurrent operations on
// one account settle to the sum of all applied amounts.
func (e *Engine) Transact(ctx context.Context, accountNumber uint64, amountInCents int64) (int64, error) {
	if accountNumber == 0 {
		return 0, errs.ErrInvalidAccountNumber
	}
	if amountInCents == 0 {
		return 0, errs.ErrInvalidAmount
	}

	unlock := e.locks.Lock(accountNumber)
	defer unlock()

	var newBalance int64
	err := e.withTx(ctx, "transact", func(txCtx context.Context) error {
		balance, err := e.uow.Profiles(txCtx).BalanceForUpdate(txCtx, accountNumber)
		if err != nil {
			return err
		}

		newBalance, err = entity.AddCents(balance, amountInCents)
		if err != nil {
			return err
		}
		if newBalance < 0 {
			return errs.ErrInsufficientBalance
		}

		if err := e.uow.Profiles(txCtx).SetBalance(txCtx, accountNumber, newBalance); err != nil {
			return err
		}

		record, err := entity.NewTransactionRecord(accountNumber, amountInCents, e.timeProvider.Now())
		if err != nil {
			return err
		}
		_, err = e.uow.History(txCtx).Append(txCtx, record)
		return err
	})
	if err != nil {
		return 0, errs.NewLedgerError("transact", accountNumber, err)
	}

	e.logger.Info("Transaction applied", map[string]any{
		"account_number": accountNumber,
		"amount":         entity.FormatCents(amountInCents),
		"new_balance":    entity.FormatCents(newBalance),
	})
	return newBalance, nil
}
