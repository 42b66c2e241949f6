package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/mkorolev/ledger-service/internal/domain/error"
)

func TestNewLedgerEntry(t *testing.T) {
	now := time.Now()
	tp := fixedTimeProvider(now)

	t.Run("Credit entry", func(t *testing.T) {
		entry, err := NewLedgerEntry(7, EntryTypeCredit, 2500, ReasonAddBalance, tp)
		assert.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, uint64(7), entry.UserID)
		assert.Equal(t, EntryTypeCredit, entry.Type)
		assert.Equal(t, "25.00", entry.Amount)
		assert.Equal(t, int64(2500), entry.AmountInCents)
		assert.Equal(t, ReasonAddBalance, entry.Reason)
		assert.Equal(t, now, entry.CreatedAt)
	})

	t.Run("Rejects zero user ID", func(t *testing.T) {
		_, err := NewLedgerEntry(0, EntryTypeCredit, 100, ReasonAddBalance, tp)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("Rejects non-positive amount", func(t *testing.T) {
		_, err := NewLedgerEntry(7, EntryTypeDebit, 0, ReasonTransfer, tp)
		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})
}

func TestNewTransferEntries(t *testing.T) {
	now := time.Now()
	tp := fixedTimeProvider(now)

	debit, credit, err := NewTransferEntries(1, 2, 3000, tp)
	assert.NoError(t, err)

	assert.Equal(t, uint64(1), debit.UserID)
	assert.Equal(t, EntryTypeDebit, debit.Type)
	assert.Equal(t, uint64(2), credit.UserID)
	assert.Equal(t, EntryTypeCredit, credit.Type)

	// Both entries document the same movement
	assert.Equal(t, debit.Amount, credit.Amount)
	assert.Equal(t, "30.00", debit.Amount)
	assert.Equal(t, ReasonTransfer, debit.Reason)
	assert.Equal(t, ReasonTransfer, credit.Reason)
	assert.NotEqual(t, debit.ID, credit.ID)
}
