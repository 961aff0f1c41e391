package ledger

import (
	"context"
	"errors"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/usecase"
)

// Transfer moves amountInCents from one account to another. Both balance
// reads happen under row locks inside the same transaction as the writes, and
// the debit/credit history pair is appended before commit. A failure at any
// step rolls the whole thing back, so no single-sided transfer can persist.
func (e *Engine) Transfer(ctx context.Context, fromAccount, toAccount uint64, amountInCents int64) (*usecase.TransferResult, error) {
	if fromAccount == 0 || toAccount == 0 {
		return nil, errs.ErrInvalidAccountNumber
	}
	if fromAccount == toAccount {
		return nil, errs.ErrSelfTransfer
	}
	if amountInCents <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	unlock := e.locks.LockPair(fromAccount, toAccount)
	defer unlock()

	result := &usecase.TransferResult{}
	err := e.withTx(ctx, "transfer", func(txCtx context.Context) error {
		profiles := e.uow.Profiles(txCtx)

		fromBalance, err := profiles.BalanceForUpdate(txCtx, fromAccount)
		if err != nil {
			return err
		}
		if fromBalance < amountInCents {
			return errs.ErrInsufficientBalance
		}

		toBalance, err := profiles.BalanceForUpdate(txCtx, toAccount)
		if err != nil {
			if errors.Is(err, errs.ErrAccountNotFound) {
				return errs.ErrDestinationNotFound
			}
			return err
		}

		newFromBalance := fromBalance - amountInCents
		newToBalance, err := entity.AddCents(toBalance, amountInCents)
		if err != nil {
			return err
		}

		if err := profiles.SetBalance(txCtx, fromAccount, newFromBalance); err != nil {
			return err
		}
		if err := profiles.SetBalance(txCtx, toAccount, newToBalance); err != nil {
			return err
		}

		now := e.timeProvider.Now()
		debit, err := entity.NewTransactionRecord(fromAccount, -amountInCents, now)
		if err != nil {
			return err
		}
		credit, err := entity.NewTransactionRecord(toAccount, amountInCents, now)
		if err != nil {
			return err
		}

		history := e.uow.History(txCtx)
		if _, err := history.Append(txCtx, debit); err != nil {
			return err
		}
		if _, err := history.Append(txCtx, credit); err != nil {
			return err
		}

		result.FromBalance = newFromBalance
		result.ToBalance = newToBalance
		return nil
	})
	if err != nil {
		return nil, errs.NewLedgerError("transfer", fromAccount, err)
	}

	e.logger.Info("Transfer applied", map[string]any{
		"from_account":     fromAccount,
		"to_account":       toAccount,
		"amount":           entity.FormatCents(amountInCents),
		"new_from_balance": entity.FormatCents(result.FromBalance),
		"new_to_balance":   entity.FormatCents(result.ToBalance),
	})
	return result, nil
}
