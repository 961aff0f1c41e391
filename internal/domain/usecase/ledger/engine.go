package ledger

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/persistence"
	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/usecase"
)

// Engine implements the ledger operations. Every operation runs as one store
// transaction; mutating operations additionally serialize per account through
// the lock keeper so a read-modify-write can never lose an update regardless
// of the store's isolation level.
type Engine struct {
	uow          persistence.UnitOfWork
	locks        *accountLocks
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewEngine creates a new ledger engine instance
func NewEngine(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.LedgerEngine {
	return &Engine{
		uow:          uow,
		locks:        newAccountLocks(),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// withTx runs fn inside a store transaction, committing on success and
// rolling back on any failure. Rollback errors are logged but the original
// error wins.
func (e *Engine) withTx(ctx context.Context, operation string, fn func(txCtx context.Context) error) error {
	txCtx, err := e.uow.Begin(ctx)
	if err != nil {
		e.logger.Error("Failed to begin transaction", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
		return fmt.Errorf("%w: begin failed for %s", errs.ErrStoreUnavailable, operation)
	}

	if err := fn(txCtx); err != nil {
		if rbErr := e.uow.Rollback(txCtx); rbErr != nil {
			e.logger.Error("Failed to rollback transaction", map[string]any{
				"operation": operation,
				"error":     rbErr.Error(),
			})
		}
		return err
	}

	if err := e.uow.Commit(txCtx); err != nil {
		e.logger.Error("Failed to commit transaction", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
		if rbErr := e.uow.Rollback(txCtx); rbErr != nil {
			e.logger.Error("Failed to rollback after commit failure", map[string]any{
				"operation": operation,
				"error":     rbErr.Error(),
			})
		}
		return fmt.Errorf("%w: commit failed for %s", errs.ErrStoreUnavailable, operation)
	}

	return nil
}

// hashPassword derives the stored credential from a plaintext password.
func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errs.ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}
	return string(hash), nil
}

// verifyPassword compares a plaintext password against a stored hash.
func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
