package model

// PersonalData represents the profile row tied 1:1 to an account
type PersonalData struct {
	AccountNumber uint64 `gorm:"column:account_number;primaryKey"`
	Name          string `gorm:"size:255"`
	Age           int    `gorm:"not null;check:age >= 18 AND age <= 120"`
	Balance       int64  `gorm:"not null;default:0"` // cents

	Account Account `gorm:"foreignKey:AccountNumber;references:AccountNumber;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for PersonalData
func (PersonalData) TableName() string {
	return "personal_data"
}
