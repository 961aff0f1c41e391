package migration

import (
	"context"
	"errors"

	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Default administrator seeded on first start so the server is usable
// before any accounts exist.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
	defaultAdminName     = "Administrator"
	defaultAdminAge      = 30
)

// Manager runs the schema migrations for the ledger store
type Manager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewManager creates a new migration manager
func NewManager(db *gorm.DB, logger coreport.Logger) *Manager {
	return &Manager{db: db, logger: logger}
}

// MigrateAll creates the schema and seeds the default administrator
func (m *Manager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting store migrations", nil)

	if err := m.db.WithContext(ctx).AutoMigrate(
		&model.Account{},
		&model.PersonalData{},
		&model.TransactionRecord{},
	); err != nil {
		m.logger.Error("Failed to migrate models", map[string]any{"error": err.Error()})
		return err
	}

	if err := m.createIndexes(ctx); err != nil {
		return err
	}

	if err := m.seedDefaultAdmin(ctx); err != nil {
		return err
	}

	m.logger.Info("Store migrations completed", nil)
	return nil
}

// createIndexes adds the indexes AutoMigrate cannot express. The functional
// unique index enforces case-insensitive username uniqueness at the store
// level, backing up the pre-insert check in the ledger engine.
func (m *Manager) createIndexes(ctx context.Context) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_username_lower
			ON accounts (LOWER(username))`,
		`CREATE INDEX IF NOT EXISTS idx_history_account_date
			ON transaction_history (account_number, date DESC, time DESC)`,
	}
	for _, stmt := range statements {
		if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{"error": err.Error()})
			return err
		}
	}
	return nil
}

// seedDefaultAdmin inserts the bootstrap administrator if no account with
// that username exists yet.
func (m *Manager) seedDefaultAdmin(ctx context.Context) error {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("LOWER(username) = LOWER(?)", defaultAdminUsername).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Join(errs.ErrInternalServer, err)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := model.Account{
			Username: defaultAdminUsername,
			Password: string(hash),
			Admin:    true,
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		profile := model.PersonalData{
			AccountNumber: account.AccountNumber,
			Name:          defaultAdminName,
			Age:           defaultAdminAge,
			Balance:       0,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		m.logger.Info("Seeded default administrator", map[string]any{
			"account_number": account.AccountNumber,
		})
		return nil
	})
}
