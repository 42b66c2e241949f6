package entity

import (
	"time"

	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
)

// Balance represents a user's single monetary balance. Exactly one Balance
// exists per user; it is created with amount zero when the user is created
// and mutated only by the ledger engine.
type Balance struct {
	UserID    uint64
	amount    int64 // minor units, kept private so mutations go through Credit/Debit
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBalance creates a zero balance for the given user
func NewBalance(userID uint64, timeProvider coreport.TimeProvider) (*Balance, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	now := timeProvider.Now()
	return &Balance{
		UserID:    userID,
		amount:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RestoreBalance rebuilds a Balance from stored state (repository use only)
func RestoreBalance(userID uint64, amountInCents int64, createdAt, updatedAt time.Time) *Balance {
	return &Balance{
		UserID:    userID,
		amount:    amountInCents,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Amount returns the current balance in minor units
func (b *Balance) Amount() int64 {
	return b.amount
}

// FormattedAmount returns the balance as a decimal string with 2 decimal places
func (b *Balance) FormattedAmount() string {
	return FormatAmount(b.amount)
}

// CanDeduct reports whether the balance covers the given debit.
// The boundary is inclusive: a debit equal to the full balance is allowed.
func (b *Balance) CanDeduct(amountInCents int64) bool {
	return b.amount >= amountInCents
}

// Credit adds the amount to the balance
func (b *Balance) Credit(amountInCents int64, timeProvider coreport.TimeProvider) error {
	newAmount, err := AddAmounts(b.amount, amountInCents)
	if err != nil {
		return err
	}
	b.amount = newAmount
	b.UpdatedAt = timeProvider.Now()
	return nil
}

// Debit subtracts the amount from the balance if funds are sufficient
func (b *Balance) Debit(amountInCents int64, timeProvider coreport.TimeProvider) error {
	if !b.CanDeduct(amountInCents) {
		return errs.ErrInsufficientFunds
	}
	b.amount -= amountInCents
	b.UpdatedAt = timeProvider.Now()
	return nil
}
