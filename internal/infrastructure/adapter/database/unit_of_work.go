package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/domain/port/persistence"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/repository"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "tx"

// UnitOfWork implements the unit of work pattern over GORM transactions.
// Repositories obtained through a context returned by Begin run inside that
// transaction; with a plain context they run against the pooled handle.
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	classifier   *repository.ErrorClassifier
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) persistence.UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		classifier:   repository.NewErrorClassifier(),
	}
}

// Begin starts a new database transaction
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.logger.Debug("Beginning database transaction", nil)

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, fmt.Errorf("%w: failed to begin transaction: %s", errs.ErrStoreFailure, tx.Error.Error())
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction. A deadlock or serialization
// failure reported at commit time is mapped to the transient-conflict
// signal so the ledger engine's retry loop can absorb it.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("%w: no transaction found in context", errs.ErrStoreFailure)
	}

	u.logger.Debug("Committing database transaction", nil)
	if err := tx.Commit().Error; err != nil {
		if u.classifier.IsSerializationConflict(err) {
			return fmt.Errorf("%w: %s", errs.ErrTransientConflict, err.Error())
		}
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: failed to commit transaction: %s", errs.ErrStoreFailure, err.Error())
	}

	return nil
}

// Rollback rolls back the current transaction
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("%w: no transaction found in context", errs.ErrStoreFailure)
	}

	u.logger.Debug("Rolling back database transaction", nil)

	err := tx.Rollback().Error
	if err != nil && strings.Contains(err.Error(), "already been committed or rolled back") {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: failed to rollback transaction: %s", errs.ErrStoreFailure, err.Error())
	}

	return nil
}

// GetBalanceRepository returns a balance repository bound to the unit in ctx
func (u *UnitOfWork) GetBalanceRepository(ctx context.Context) persistence.BalanceRepository {
	return repository.NewBalanceRepository(u.dbFromContext(ctx), u.timeProvider, u.logger)
}

// GetLedgerRepository returns a ledger repository bound to the unit in ctx
func (u *UnitOfWork) GetLedgerRepository(ctx context.Context) persistence.LedgerRepository {
	return repository.NewLedgerRepository(u.dbFromContext(ctx), u.logger)
}

// GetUserRepository returns a user repository bound to the unit in ctx
func (u *UnitOfWork) GetUserRepository(ctx context.Context) persistence.UserRepository {
	return repository.NewUserRepository(u.dbFromContext(ctx), u.logger)
}

// GetTodoRepository returns a todo repository bound to the unit in ctx
func (u *UnitOfWork) GetTodoRepository(ctx context.Context) persistence.TodoRepository {
	return repository.NewTodoRepository(u.dbFromContext(ctx), u.timeProvider, u.logger)
}

// dbFromContext retrieves the transactional handle from ctx, falling back to
// the pooled handle for reads outside any unit
func (u *UnitOfWork) dbFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok && tx != nil {
		return tx
	}
	return u.db.WithContext(ctx)
}
