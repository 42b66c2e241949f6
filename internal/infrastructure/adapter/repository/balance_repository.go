package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/model"
)

// BalanceRepository implements persistence.BalanceRepository using GORM
type BalanceRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBalanceRepository creates a new BalanceRepository instance
func NewBalanceRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *BalanceRepository {
	return &BalanceRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *BalanceRepository) modelToEntity(m *model.Balance) *entity.Balance {
	return entity.RestoreBalance(m.UserID, m.AmountInCents, m.CreatedAt, m.UpdatedAt)
}

// mapError translates raw store errors into domain errors. The deadlock and
// serialization signals become ErrTransientConflict so the engine's retry
// loop can distinguish them from plain store failures.
func (r *BalanceRepository) mapError(operation string, err error, userID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrBalanceNotFound
	}

	if r.errorClassifier.IsSerializationConflict(err) {
		r.logger.Warn("Store reported a serialization conflict", map[string]any{
			"operation": operation,
			"user_id":   userID,
			"error":     err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrTransientConflict, err.Error())
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrDuplicateBalance
	}

	r.logger.Error(fmt.Sprintf("Store error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrStoreFailure, err.Error())
}

// GetByUserID retrieves a balance without locking
func (r *BalanceRepository) GetByUserID(ctx context.Context, userID uint64) (*entity.Balance, error) {
	var balanceModel model.Balance
	result := r.db.WithContext(ctx).First(&balanceModel, "user_id = ?", userID)
	if result.Error != nil {
		return nil, r.mapError("getting balance", result.Error, userID)
	}

	return r.modelToEntity(&balanceModel), nil
}

// GetForUpdate retrieves a balance with an exclusive row lock held until the
// enclosing transaction ends
func (r *BalanceRepository) GetForUpdate(ctx context.Context, userID uint64) (*entity.Balance, error) {
	var balanceModel model.Balance
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&balanceModel, "user_id = ?", userID)
	if result.Error != nil {
		return nil, r.mapError("locking balance", result.Error, userID)
	}

	return r.modelToEntity(&balanceModel), nil
}

// LockForUpdate retrieves the balances for the given users in one locking
// query, ordered by user ID. Issuing a single FOR UPDATE select over the
// ascending ID set gives every concurrent transfer the same global lock
// acquisition order, so the store's lock manager cannot form a cycle.
func (r *BalanceRepository) LockForUpdate(ctx context.Context, userIDs []uint64) ([]*entity.Balance, error) {
	var balanceModels []model.Balance
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id IN ?", userIDs).
		Order("user_id ASC").
		Find(&balanceModels)
	if result.Error != nil {
		return nil, r.mapError("locking balances", result.Error, 0)
	}

	balances := make([]*entity.Balance, 0, len(balanceModels))
	for i := range balanceModels {
		balances = append(balances, r.modelToEntity(&balanceModels[i]))
	}
	return balances, nil
}

// Create inserts a new balance row
func (r *BalanceRepository) Create(ctx context.Context, balance *entity.Balance) error {
	balanceModel := model.Balance{
		UserID:        balance.UserID,
		AmountInCents: balance.Amount(),
		CreatedAt:     balance.CreatedAt,
		UpdatedAt:     balance.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&balanceModel)
	if result.Error != nil {
		return r.mapError("creating balance", result.Error, balance.UserID)
	}

	return nil
}

// Update persists the current amount of an existing balance row
func (r *BalanceRepository) Update(ctx context.Context, balance *entity.Balance) error {
	result := r.db.WithContext(ctx).Model(&model.Balance{}).
		Where("user_id = ?", balance.UserID).
		Updates(map[string]any{
			"amount_in_cents": balance.Amount(),
			"updated_at":      balance.UpdatedAt,
		})
	if result.Error != nil {
		return r.mapError("updating balance", result.Error, balance.UserID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrBalanceNotFound
	}

	return nil
}

// Delete removes the balance row for a user
func (r *BalanceRepository) Delete(ctx context.Context, userID uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Balance{}, "user_id = ?", userID)
	if result.Error != nil {
		return r.mapError("deleting balance", result.Error, userID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrBalanceNotFound
	}

	return nil
}
