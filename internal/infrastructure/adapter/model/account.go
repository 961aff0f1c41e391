package model

// Account represents the database model for account credentials
type Account struct {
	AccountNumber uint64 `gorm:"column:account_number;primaryKey;autoIncrement"`
	Username      string `gorm:"not null;size:255"`
	Password      string `gorm:"not null;size:255"`
	Admin         bool   `gorm:"not null;default:false"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
