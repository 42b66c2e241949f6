package persistence

import (
	"context"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
)

// BalanceRepository defines the store operations on balance rows.
// All mutations are issued by the ledger engine inside a unit of work.
type BalanceRepository interface {
	// GetByUserID retrieves the balance for a user without locking.
	// Used by the plain read path.
	//
	// Possible errors:
	// - ErrBalanceNotFound: if no balance row exists for the user
	// - ErrStoreFailure: on store errors
	GetByUserID(ctx context.Context, userID uint64) (*entity.Balance, error)

	// GetForUpdate retrieves the balance for a user with an exclusive row
	// lock held until the enclosing unit of work ends. Must be called inside
	// a unit of work.
	GetForUpdate(ctx context.Context, userID uint64) (*entity.Balance, error)

	// LockForUpdate retrieves the balances for the given users in one
	// locking query. Identifiers are canonicalized ascending so any two
	// concurrent transfers over the same pair request row locks in the same
	// global order. Rows are returned ordered by user ID; missing rows are
	// simply absent from the result. Must be called inside a unit of work.
	LockForUpdate(ctx context.Context, userIDs []uint64) ([]*entity.Balance, error)

	// Create inserts a new balance row
	//
	// Possible errors:
	// - ErrDuplicateBalance: if a balance already exists for the user
	Create(ctx context.Context, balance *entity.Balance) error

	// Update persists the current amount of an existing balance row
	Update(ctx context.Context, balance *entity.Balance) error

	// Delete removes the balance row for a user. Only user deletion calls
	// this, inside the same unit of work as the user row removal.
	Delete(ctx context.Context, userID uint64) error
}
