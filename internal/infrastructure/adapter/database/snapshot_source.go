package database

import (
	"context"
	"fmt"

	"github.com/abdelrahman-aldesoky/bank-server/internal/backup"
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// SnapshotSource reads the whole ledger inside one transaction so the
// backup job sees a consistent point-in-time state.
type SnapshotSource struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
}

// NewSnapshotSource creates a new SnapshotSource
func NewSnapshotSource(db *gorm.DB, timeProvider coreport.TimeProvider) *SnapshotSource {
	return &SnapshotSource{db: db, timeProvider: timeProvider}
}

// Snapshot dumps accounts, profiles and history into one snapshot.
func (s *SnapshotSource) Snapshot(ctx context.Context) (*backup.Snapshot, error) {
	snapshot := &backup.Snapshot{
		CreatedAt: s.timeProvider.Now().Format("2006-01-02 15:04:05"),
		Accounts:  []backup.AccountRecord{},
		History:   []backup.HistoryRecord{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var accounts []backup.AccountRecord
		if err := tx.Table("accounts").
			Select("accounts.account_number, accounts.username, accounts.password, accounts.admin, personal_data.name, personal_data.age, personal_data.balance").
			Joins("JOIN personal_data ON personal_data.account_number = accounts.account_number").
			Order("accounts.account_number").
			Scan(&accounts).Error; err != nil {
			return fmt.Errorf("failed to dump accounts: %w", err)
		}

		var history []model.TransactionRecord
		if err := tx.Order("transaction_id").Find(&history).Error; err != nil {
			return fmt.Errorf("failed to dump history: %w", err)
		}

		snapshot.Accounts = append(snapshot.Accounts, accounts...)
		for _, row := range history {
			snapshot.History = append(snapshot.History, backup.HistoryRecord{
				TransactionID: row.TransactionID,
				AccountNumber: row.AccountNumber,
				Date:          row.Date,
				Time:          row.Time,
				Amount:        row.Amount,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
