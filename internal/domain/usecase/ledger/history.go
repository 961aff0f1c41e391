package ledger

import (
	"context"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
)

// ViewHistory returns the account's transaction records newest first. An
// account with no records is reported explicitly rather than as an empty
// success.
func (e *Engine) ViewHistory(ctx context.Context, accountNumber uint64) ([]entity.TransactionRecord, error) {
	if accountNumber == 0 {
		return nil, errs.ErrInvalidAccountNumber
	}

	var records []entity.TransactionRecord
	err := e.withTx(ctx, "view_history", func(txCtx context.Context) error {
		var err error
		records, err = e.uow.History(txCtx).ListByAccount(txCtx, accountNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errs.ErrNoTransactions
	}
	return records, nil
}
