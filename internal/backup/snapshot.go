package backup

// Snapshot is the full ledger state written to one backup file.
type Snapshot struct {
	CreatedAt string          `json:"createdAt"`
	Accounts  []AccountRecord `json:"accounts"`
	History   []HistoryRecord `json:"transactionHistory"`
}

// AccountRecord is one account with its profile, credentials included so a
// restore reproduces the exact state.
type AccountRecord struct {
	AccountNumber uint64 `json:"accountNumber"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Admin         bool   `json:"isAdmin"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Balance       int64  `json:"balanceInCents"`
}

// HistoryRecord is one append-only history row.
type HistoryRecord struct {
	TransactionID uint64 `json:"transactionId"`
	AccountNumber uint64 `json:"accountNumber"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Amount        int64  `json:"amountInCents"`
}
