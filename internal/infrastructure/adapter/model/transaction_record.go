package model

// TransactionRecord represents one append-only history row
type TransactionRecord struct {
	TransactionID uint64 `gorm:"column:transaction_id;primaryKey;autoIncrement"`
	AccountNumber uint64 `gorm:"column:account_number;not null;index"`
	Date          string `gorm:"not null;size:10"` // yyyy-mm-dd
	Time          string `gorm:"not null;size:8"`  // hh:mm:ss
	Amount        int64  `gorm:"not null"`         // signed cents

	Account Account `gorm:"foreignKey:AccountNumber;references:AccountNumber;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for TransactionRecord
func (TransactionRecord) TableName() string {
	return "transaction_history"
}
