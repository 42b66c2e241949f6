package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/model"
)

// LedgerRepository implements persistence.LedgerRepository using GORM.
// The backing table is append-only; this type deliberately has no update or
// delete methods.
type LedgerRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, logger coreport.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func entryToModel(entry *entity.LedgerEntry) model.LedgerEntry {
	return model.LedgerEntry{
		ID:            entry.ID,
		UserID:        entry.UserID,
		Type:          string(entry.Type),
		Amount:        entry.Amount,
		AmountInCents: entry.AmountInCents,
		Reason:        entry.Reason,
		CreatedAt:     entry.CreatedAt,
	}
}

func entryToEntity(m *model.LedgerEntry) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:            m.ID,
		UserID:        m.UserID,
		Type:          entity.EntryType(m.Type),
		Amount:        m.Amount,
		AmountInCents: m.AmountInCents,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *LedgerRepository) mapError(operation string, err error) error {
	if r.errorClassifier.IsSerializationConflict(err) {
		return fmt.Errorf("%w: %s", errs.ErrTransientConflict, err.Error())
	}

	r.logger.Error(fmt.Sprintf("Store error when %s", operation), map[string]any{
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrStoreFailure, err.Error())
}

// Append inserts one or more ledger entries
func (r *LedgerRepository) Append(ctx context.Context, entries ...*entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	entryModels := make([]model.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		entryModels = append(entryModels, entryToModel(entry))
	}

	result := r.db.WithContext(ctx).Create(&entryModels)
	if result.Error != nil {
		return r.mapError("appending ledger entries", result.Error)
	}

	return nil
}

// ListByUserID returns the entries for a user, newest first
func (r *LedgerRepository) ListByUserID(ctx context.Context, userID uint64) ([]*entity.LedgerEntry, error) {
	var entryModels []model.LedgerEntry
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entryModels)
	if result.Error != nil {
		return nil, r.mapError("listing ledger entries", result.Error)
	}

	entries := make([]*entity.LedgerEntry, 0, len(entryModels))
	for i := range entryModels {
		entries = append(entries, entryToEntity(&entryModels[i]))
	}
	return entries, nil
}
