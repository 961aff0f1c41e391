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
	"gorm.io/gorm/clause"
)

// ProfileRepository implements persistence.ProfileRepository using GORM
type ProfileRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewProfileRepository creates a new ProfileRepository instance
func NewProfileRepository(db *gorm.DB, logger coreport.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *ProfileRepository) handleDatabaseError(operation string, err error, accountNumber uint64) error {
	r.logger.Error(fmt.Sprintf("Store error when %s", operation), map[string]any{
		"account_number": accountNumber,
		"error":          err.Error(),
	})

	if r.errorClassifier.IsConstraintError(err) {
		return errs.ErrConstraintViolation
	}
	if r.errorClassifier.IsConnectionError(err) {
		return fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, err.Error())
	}
	return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
}

// Create inserts the profile row
func (r *ProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	profileModel := model.PersonalData{
		AccountNumber: profile.AccountNumber,
		Name:          profile.Name,
		Age:           profile.Age,
		Balance:       profile.Balance,
	}
	if err := r.db.WithContext(ctx).Create(&profileModel).Error; err != nil {
		return r.handleDatabaseError("creating profile", err, profile.AccountNumber)
	}
	return nil
}

// GetByNumber fetches the profile row for an account
func (r *ProfileRepository) GetByNumber(ctx context.Context, accountNumber uint64) (*entity.Profile, error) {
	var profileModel model.PersonalData
	err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		First(&profileModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, r.handleDatabaseError("fetching profile", err, accountNumber)
	}
	return &entity.Profile{
		AccountNumber: profileModel.AccountNumber,
		Name:          profileModel.Name,
		Age:           profileModel.Age,
		Balance:       profileModel.Balance,
	}, nil
}

// BalanceForUpdate reads the balance under SELECT FOR UPDATE. The row lock is
// held until the surrounding transaction commits or rolls back.
func (r *ProfileRepository) BalanceForUpdate(ctx context.Context, accountNumber uint64) (int64, error) {
	var profileModel model.PersonalData
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_number = ?", accountNumber).
		First(&profileModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.ErrAccountNotFound
		}
		return 0, r.handleDatabaseError("locking balance row", err, accountNumber)
	}
	return profileModel.Balance, nil
}

// SetBalance writes an absolute balance value
func (r *ProfileRepository) SetBalance(ctx context.Context, accountNumber uint64, balanceInCents int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.PersonalData{}).
		Where("account_number = ?", accountNumber).
		Update("balance", balanceInCents)
	if result.Error != nil {
		return r.handleDatabaseError("updating balance", result.Error, accountNumber)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// UpdateName replaces the profile holder name
func (r *ProfileRepository) UpdateName(ctx context.Context, accountNumber uint64, name string) error {
	result := r.db.WithContext(ctx).
		Model(&model.PersonalData{}).
		Where("account_number = ?", accountNumber).
		Update("name", name)
	if result.Error != nil {
		return r.handleDatabaseError("updating name", result.Error, accountNumber)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// Delete removes the profile row
func (r *ProfileRepository) Delete(ctx context.Context, accountNumber uint64) error {
	result := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		Delete(&model.PersonalData{})
	if result.Error != nil {
		return r.handleDatabaseError("deleting profile", result.Error, accountNumber)
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}
