package protocol

import (
	"github.com/shopspring/decimal"
)

// OpCode identifies which banking action a request performs.
type OpCode int

// Operation codes as consumed by the desktop clients.
const (
	OpLogin OpCode = iota
	OpGetAccountNumber
	OpGetAccountBalance
	OpCreateAccount
	OpDeleteAccount
	OpViewAllAccounts
	OpTransact
	OpTransfer
	OpViewHistory
	OpUpdateProfile
)

// String returns a short name for logging.
func (c OpCode) String() string {
	switch c {
	case OpLogin:
		return "login"
	case OpGetAccountNumber:
		return "get_account_number"
	case OpGetAccountBalance:
		return "get_account_balance"
	case OpCreateAccount:
		return "create_account"
	case OpDeleteAccount:
		return "delete_account"
	case OpViewAllAccounts:
		return "view_all_accounts"
	case OpTransact:
		return "transact"
	case OpTransfer:
		return "transfer"
	case OpViewHistory:
		return "view_history"
	case OpUpdateProfile:
		return "update_profile"
	default:
		return "unknown"
	}
}

// Request is the single inbound message shape. Which fields are meaningful
// depends on the operation code; decimal amounts accept both JSON numbers and
// strings.
type Request struct {
	RequestID         OpCode          `json:"requestId"`
	Username          string          `json:"username,omitempty"`
	Password          string          `json:"password,omitempty"`
	Name              string          `json:"name,omitempty"`
	Age               int             `json:"age,omitempty"`
	Admin             bool            `json:"isAdmin,omitempty"`
	AccountNumber     uint64          `json:"accountNumber,omitempty"`
	FromAccountNumber uint64          `json:"fromAccountNumber,omitempty"`
	ToAccountNumber   uint64          `json:"toAccountNumber,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
}

// LoginResponse answers OpLogin.
type LoginResponse struct {
	ResponseID    OpCode `json:"responseId"`
	LoginSuccess  bool   `json:"loginSuccess"`
	AccountNumber uint64 `json:"accountNumber,omitempty"`
	Admin         bool   `json:"isAdmin,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// AccountNumberResponse answers OpGetAccountNumber.
type AccountNumberResponse struct {
	ResponseID    OpCode `json:"responseId"`
	UserFound     bool   `json:"userFound"`
	AccountNumber uint64 `json:"accountNumber,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// BalanceResponse answers OpGetAccountBalance.
type BalanceResponse struct {
	ResponseID   OpCode `json:"responseId"`
	AccountFound bool   `json:"accountFound"`
	Balance      string `json:"balance,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// CreateAccountResponse answers OpCreateAccount.
type CreateAccountResponse struct {
	ResponseID           OpCode `json:"responseId"`
	CreateAccountSuccess bool   `json:"createAccountSuccess"`
	AccountNumber        uint64 `json:"accountNumber,omitempty"`
	ErrorMessage         string `json:"errorMessage,omitempty"`
}

// DeleteAccountResponse answers OpDeleteAccount.
type DeleteAccountResponse struct {
	ResponseID           OpCode `json:"responseId"`
	DeleteAccountSuccess bool   `json:"deleteAccountSuccess"`
	ErrorMessage         string `json:"errorMessage,omitempty"`
}

// UserRecord is one row of the admin database view. Unlike the envelope
// fields, the row keys are capitalized because the desktop clients index
// them by the column names of the backing tables.
type UserRecord struct {
	AccountNumber uint64 `json:"AccountNumber"`
	Username      string `json:"Username"`
	Admin         bool   `json:"isAdmin"`
	Name          string `json:"Name"`
	Balance       string `json:"Balance"`
	Age           int    `json:"Age"`
}

// ViewAllAccountsResponse answers OpViewAllAccounts.
type ViewAllAccountsResponse struct {
	ResponseID           OpCode       `json:"responseId"`
	FetchUserDataSuccess bool         `json:"fetchUserDataSuccess"`
	UserData             []UserRecord `json:"userData,omitempty"`
	ErrorMessage         string       `json:"errorMessage,omitempty"`
}

// TransactResponse answers OpTransact.
type TransactResponse struct {
	ResponseID         OpCode `json:"responseId"`
	TransactionSuccess bool   `json:"transactionSuccess"`
	NewBalance         string `json:"newBalance,omitempty"`
	ErrorMessage       string `json:"errorMessage,omitempty"`
}

// TransferResponse answers OpTransfer.
type TransferResponse struct {
	ResponseID      OpCode `json:"responseId"`
	TransferSuccess bool   `json:"transferSuccess"`
	NewFromBalance  string `json:"newFromBalance,omitempty"`
	NewToBalance    string `json:"newToBalance,omitempty"`
	ErrorMessage    string `json:"errorMessage,omitempty"`
}

// HistoryRecord is one transaction history row on the wire. The row keys
// are capitalized column names, same as UserRecord.
type HistoryRecord struct {
	TransactionID uint64 `json:"TransactionID"`
	Date          string `json:"Date"`
	Time          string `json:"Time"`
	Amount        string `json:"Amount"`
}

// ViewHistoryResponse answers OpViewHistory.
type ViewHistoryResponse struct {
	ResponseID                    OpCode          `json:"responseId"`
	ViewTransactionHistorySuccess bool            `json:"viewTransactionHistorySuccess"`
	TransactionHistory            []HistoryRecord `json:"transactionHistory,omitempty"`
	ErrorMessage                  string          `json:"errorMessage,omitempty"`
}

// UpdateProfileResponse answers OpUpdateProfile.
type UpdateProfileResponse struct {
	ResponseID    OpCode `json:"responseId"`
	UpdateSuccess bool   `json:"updateSuccess"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// GenericResponse answers malformed or unrecognized requests.
type GenericResponse struct {
	ResponseID   OpCode `json:"responseId"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
