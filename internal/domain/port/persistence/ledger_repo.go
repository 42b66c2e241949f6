package persistence

import (
	"context"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
)

// LedgerRepository is the append-only store of ledger entries. There is
// deliberately no update or delete: entries are immutable once written.
type LedgerRepository interface {
	// Append inserts one or more ledger entries. Called inside the same
	// unit of work as the balance mutation the entries document.
	Append(ctx context.Context, entries ...*entity.LedgerEntry) error

	// ListByUserID returns the entries for a user, newest first
	ListByUserID(ctx context.Context, userID uint64) ([]*entity.LedgerEntry, error)
}
