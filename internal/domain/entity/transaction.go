package entity

import (
	"time"

	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
)

// Layouts used for the persisted date and time columns. ISO dates sort
// lexically in chronological order, which the history ordering relies on.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// TransactionRecord is one append-only ledger history row. Amount is signed:
// positive for credits, negative for debits.
type TransactionRecord struct {
	TransactionID uint64
	AccountNumber uint64
	Date          string
	Time          string
	Amount        int64
}

// NewTransactionRecord stamps a history row for the given account with the
// provided wall-clock time.
func NewTransactionRecord(accountNumber uint64, amountInCents int64, now time.Time) (*TransactionRecord, error) {
	if accountNumber == 0 {
		return nil, errs.ErrInvalidAccountNumber
	}
	if amountInCents == 0 {
		return nil, errs.ErrInvalidAmount
	}
	return &TransactionRecord{
		AccountNumber: accountNumber,
		Date:          now.Format(DateLayout),
		Time:          now.Format(TimeLayout),
		Amount:        amountInCents,
	}, nil
}

// IsCredit reports whether the record added funds to the account.
func (r *TransactionRecord) IsCredit() bool {
	return r.Amount > 0
}
