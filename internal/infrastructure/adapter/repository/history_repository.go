package repository

import (
	"context"
	"fmt"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// HistoryRepository implements persistence.HistoryRepository using GORM
type HistoryRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewHistoryRepository creates a new HistoryRepository instance
func NewHistoryRepository(db *gorm.DB, logger coreport.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *HistoryRepository) handleDatabaseError(operation string, err error, accountNumber uint64) error {
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

// Append inserts a history row and returns its transaction id
func (r *HistoryRepository) Append(ctx context.Context, record *entity.TransactionRecord) (uint64, error) {
	recordModel := model.TransactionRecord{
		AccountNumber: record.AccountNumber,
		Date:          record.Date,
		Time:          record.Time,
		Amount:        record.Amount,
	}
	if err := r.db.WithContext(ctx).Create(&recordModel).Error; err != nil {
		return 0, r.handleDatabaseError("appending history", err, record.AccountNumber)
	}
	record.TransactionID = recordModel.TransactionID
	return recordModel.TransactionID, nil
}

// ListByAccount returns history rows newest first
func (r *HistoryRepository) ListByAccount(ctx context.Context, accountNumber uint64) ([]entity.TransactionRecord, error) {
	var rows []model.TransactionRecord
	err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		Order("date DESC, time DESC, transaction_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("listing history", err, accountNumber)
	}

	records := make([]entity.TransactionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, entity.TransactionRecord{
			TransactionID: row.TransactionID,
			AccountNumber: row.AccountNumber,
			Date:          row.Date,
			Time:          row.Time,
			Amount:        row.Amount,
		})
	}
	return records, nil
}

// DeleteByAccount removes all history rows for an account
func (r *HistoryRepository) DeleteByAccount(ctx context.Context, accountNumber uint64) error {
	err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		Delete(&model.TransactionRecord{}).Error
	if err != nil {
		return r.handleDatabaseError("deleting history", err, accountNumber)
	}
	return nil
}
