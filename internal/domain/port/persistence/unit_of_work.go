package persistence

import (
	"context"
)

// UnitOfWork coordinates store operations that must commit or roll back
// together. Begin returns a context carrying the open unit; repositories
// obtained through that context join it. Row locks acquired inside a unit
// are released when it ends, never held across unit boundaries.
type UnitOfWork interface {
	// Begin starts a new atomic unit and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the atomic unit in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the atomic unit in the given context
	Rollback(ctx context.Context) error

	// GetBalanceRepository returns a balance repository bound to the unit in ctx
	GetBalanceRepository(ctx context.Context) BalanceRepository

	// GetLedgerRepository returns a ledger repository bound to the unit in ctx
	GetLedgerRepository(ctx context.Context) LedgerRepository

	// GetUserRepository returns a user repository bound to the unit in ctx
	GetUserRepository(ctx context.Context) UserRepository

	// GetTodoRepository returns a todo repository bound to the unit in ctx
	GetTodoRepository(ctx context.Context) TodoRepository
}
