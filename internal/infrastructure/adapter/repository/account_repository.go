package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// AccountRepository implements persistence.AccountRepository using GORM
type AccountRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func accountModelToEntity(m *model.Account) *entity.Account {
	return &entity.Account{
		AccountNumber: m.AccountNumber,
		Username:      m.Username,
		Password:      m.Password,
		Admin:         m.Admin,
	}
}

// handleDatabaseError standardizes store error handling
func (r *AccountRepository) handleDatabaseError(operation string, err error) error {
	r.logger.Error(fmt.Sprintf("Store error when %s", operation), map[string]any{
		"error": err.Error(),
	})

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrDuplicateUsername
	}
	if r.errorClassifier.IsConstraintError(err) {
		return errs.ErrConstraintViolation
	}
	if r.errorClassifier.IsConnectionError(err) {
		return fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, err.Error())
	}
	return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
}

// Create inserts the account and returns the store-assigned account number
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) (uint64, error) {
	accountModel := model.Account{
		Username: account.Username,
		Password: account.Password,
		Admin:    account.Admin,
	}

	if err := r.db.WithContext(ctx).Create(&accountModel).Error; err != nil {
		return 0, r.handleDatabaseError("creating account", err)
	}

	account.AccountNumber = accountModel.AccountNumber
	return accountModel.AccountNumber, nil
}

// GetByUsername looks an account up by username, ignoring case
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var accountModel model.Account
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&accountModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, r.handleDatabaseError("fetching account by username", err)
	}
	return accountModelToEntity(&accountModel), nil
}

// GetByNumber looks an account up by its account number
func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber uint64) (*entity.Account, error) {
	var accountModel model.Account
	err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		First(&accountModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, r.handleDatabaseError("fetching account by number", err)
	}
	return accountModelToEntity(&accountModel), nil
}

// UsernameExists reports whether a username is already taken, ignoring case
func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error
	if err != nil {
		return false, r.handleDatabaseError("checking username existence", err)
	}
	return count > 0, nil
}

// UpdatePassword replaces the stored credential hash
func (r *AccountRepository) UpdatePassword(ctx context.Context, accountNumber uint64, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("account_number = ?", accountNumber).
		Update("password", passwordHash)
	if result.Error != nil {
		return r.handleDatabaseError("updating password", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// Delete removes the account row
func (r *AccountRepository) Delete(ctx context.Context, accountNumber uint64) error {
	result := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		Delete(&model.Account{})
	if result.Error != nil {
		return r.handleDatabaseError("deleting account", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// ListWithProfiles returns every account joined with its profile, ordered by
// account number for stable output.
func (r *AccountRepository) ListWithProfiles(ctx context.Context) ([]entity.AccountSummary, error) {
	var rows []entity.AccountSummary
	err := r.db.WithContext(ctx).
		Table("accounts").
		Select("accounts.account_number, accounts.username, accounts.admin, personal_data.name, personal_data.balance, personal_data.age").
		Joins("JOIN personal_data ON personal_data.account_number = accounts.account_number").
		Order("accounts.account_number").
		Scan(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("listing accounts", err)
	}
	return rows, nil
}
