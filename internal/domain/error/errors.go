package error

import (
	"errors"
	"fmt"
)

// Base error types for ledger operations
var (
	// ErrInvalidCredentials is returned on any login failure; the cause is
	// deliberately not distinguished so nothing leaks about which part of the
	// credential was wrong
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound is returned when a username lookup finds no account
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound is returned when an account number lookup finds no account
	ErrAccountNotFound = errors.New("account not found")

	// ErrDestinationNotFound is returned when a transfer's destination account is missing
	ErrDestinationNotFound = errors.New("destination account does not exist")

	// ErrDuplicateUsername is returned when creating an account whose username
	// already exists, ignoring case
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInsufficientBalance is returned when an operation would drive a balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrSelfTransfer is returned when a transfer names the same account twice
	ErrSelfTransfer = errors.New("cannot transfer to the same account")

	// ErrNoTransactions is returned when a history query finds no records;
	// the original reports this explicitly rather than returning an empty list
	ErrNoTransactions = errors.New("no transaction records found")

	// ErrInvalidAmount is returned when an amount is zero, malformed, or has
	// more than two decimal places
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountOverflow is returned when an amount or balance would overflow int64 cents
	ErrAmountOverflow = errors.New("amount is too large")

	// ErrInvalidAge is returned when an age falls outside the accepted range
	ErrInvalidAge = errors.New("age must be between 18 and 120")

	// ErrInvalidUsername is returned when a username is empty or blank
	ErrInvalidUsername = errors.New("username cannot be empty")

	// ErrInvalidPassword is returned when a password is empty
	ErrInvalidPassword = errors.New("password cannot be empty")

	// ErrInvalidAccountNumber is returned when an account number is zero
	ErrInvalidAccountNumber = errors.New("account number must be positive")

	// ErrConstraintViolation is returned when the store rejects a write on a
	// CHECK or foreign key constraint
	ErrConstraintViolation = errors.New("store constraint violation")

	// ErrStoreUnavailable is returned when the store cannot be reached or a
	// transaction cannot be started or committed
	ErrStoreUnavailable = errors.New("ledger store unavailable")

	// ErrInternalServer is returned for unexpected server-side failures
	ErrInternalServer = errors.New("internal server error")

	// ErrMalformedRequest is returned when an inbound message cannot be decoded
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnknownRequest is returned for an unrecognized operation code
	ErrUnknownRequest = errors.New("unknown request")
)

// businessErrors are the failures caused by the request itself. Anything not
// in this set is treated as infrastructure and fails closed with a generic
// client message.
var businessErrors = []error{
	ErrInvalidCredentials,
	ErrUserNotFound,
	ErrAccountNotFound,
	ErrDestinationNotFound,
	ErrDuplicateUsername,
	ErrInsufficientBalance,
	ErrSelfTransfer,
	ErrNoTransactions,
	ErrInvalidAmount,
	ErrAmountOverflow,
	ErrInvalidAge,
	ErrInvalidUsername,
	ErrInvalidPassword,
	ErrInvalidAccountNumber,
	ErrMalformedRequest,
	ErrUnknownRequest,
}

// IsBusinessError reports whether the error is a business-rule rejection as
// opposed to an infrastructure failure.
func IsBusinessError(err error) bool {
	for _, be := range businessErrors {
		if errors.Is(err, be) {
			return true
		}
	}
	return false
}

// clientMessages maps business errors to the exact strings the wire protocol
// promises to clients. The texts follow the original deployment so existing
// clients keep matching on them.
var clientMessages = map[error]string{
	ErrInvalidCredentials:   "Login failed.",
	ErrUserNotFound:         "User not found.",
	ErrAccountNotFound:      "Account not found.",
	ErrDestinationNotFound:  "The 'to' account does not exist",
	ErrDuplicateUsername:    "Username already exists.",
	ErrInsufficientBalance:  "Insufficient balance",
	ErrSelfTransfer:         "Cannot transfer money to yourself!",
	ErrNoTransactions:       "No transaction history found for the given account number.",
	ErrInvalidAmount:        "Invalid amount.",
	ErrAmountOverflow:       "Amount is too large.",
	ErrInvalidAge:           "Age must be between 18 and 120.",
	ErrInvalidUsername:      "Username cannot be empty.",
	ErrInvalidPassword:      "Password cannot be empty.",
	ErrInvalidAccountNumber: "Invalid account number.",
	ErrMalformedRequest:     "Malformed request.",
	ErrUnknownRequest:       "Unknown request.",
}

// ClientMessage returns the user-visible errorMessage for a failure.
// Infrastructure errors collapse to one generic message so internals never
// leak across the wire.
func ClientMessage(err error) string {
	for sentinel, msg := range clientMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return "Request failed."
}

// LedgerError wraps a failure in a specific ledger operation with enough
// context for structured logging.
type LedgerError struct {
	Operation     string
	AccountNumber uint64
	Err           error
}

// Error implements the error interface for LedgerError
func (e *LedgerError) Error() string {
	if e.AccountNumber != 0 {
		return fmt.Sprintf("%s failed for account %d: %v", e.Operation, e.AccountNumber, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"operation":      e.Operation,
		"account_number": e.AccountNumber,
		"error":          e.Err.Error(),
		"business":       IsBusinessError(e.Err),
	}
}

// NewLedgerError wraps err with operation context.
func NewLedgerError(operation string, accountNumber uint64, err error) error {
	return &LedgerError{Operation: operation, AccountNumber: accountNumber, Err: err}
}
