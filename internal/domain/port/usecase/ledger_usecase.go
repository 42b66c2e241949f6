package usecase

import (
	"context"
)

// BalanceResponse represents the standardized balance response
type BalanceResponse struct {
	UserID  uint64 `json:"userId"`
	Balance string `json:"balance"` // formatted with 2 decimal places
}

// TransferResult confirms a committed transfer. Attempts counts how many
// atomic units were opened before one committed, for observability.
type TransferResult struct {
	Success  bool `json:"success"`
	Attempts int  `json:"attempts"`
}

// LedgerUseCase is the caller-facing contract of the ledger engine
type LedgerUseCase interface {
	// GetBalance returns the current balance for a user. Plain read, no
	// locks, no atomic unit.
	GetBalance(ctx context.Context, userID uint64) (*BalanceResponse, error)

	// Credit adds a positive amount to a user's balance and records one
	// CREDIT ledger entry, in one atomic unit.
	Credit(ctx context.Context, userID uint64, amount string) (*BalanceResponse, error)

	// Transfer atomically moves a positive amount between two distinct
	// users, recording a DEBIT/CREDIT entry pair.
	Transfer(ctx context.Context, fromUserID, toUserID uint64, amount string) (*TransferResult, error)

	// InitBalance creates the zero balance row for a freshly created user.
	// When ctx carries an open unit of work the insert joins it, so user
	// creation and balance creation commit together.
	InitBalance(ctx context.Context, userID uint64) error

	// ListEntries returns the ledger entries recorded for a user
	ListEntries(ctx context.Context, userID uint64) ([]LedgerEntryResponse, error)
}

// LedgerEntryResponse is the read model of one ledger entry
type LedgerEntryResponse struct {
	ID        string `json:"id"`
	UserID    uint64 `json:"userId"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"createdAt"`
}
