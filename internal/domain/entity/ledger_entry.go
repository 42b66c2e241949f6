package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
)

// EntryType identifies the direction of a ledger entry
type EntryType string

const (
	// EntryTypeCredit marks money added to a balance
	EntryTypeCredit EntryType = "credit"
	// EntryTypeDebit marks money removed from a balance
	EntryTypeDebit EntryType = "debit"
)

// Reason tags recorded on ledger entries
const (
	ReasonAddBalance = "add_balance"
	ReasonTransfer   = "transfer"
)

// LedgerEntry is an immutable record of one monetary movement. Entries are
// created only inside the same atomic unit as the balance mutation they
// document and are never updated or deleted.
type LedgerEntry struct {
	ID            string
	UserID        uint64
	Type          EntryType
	Amount        string // positive magnitude, 2 decimal places
	AmountInCents int64
	Reason        string
	CreatedAt     time.Time
}

// NewLedgerEntry creates a single ledger entry
func NewLedgerEntry(userID uint64, entryType EntryType, amountInCents int64, reason string, timeProvider coreport.TimeProvider) (*LedgerEntry, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if amountInCents <= 0 {
		return nil, errs.ErrNegativeAmount
	}

	return &LedgerEntry{
		ID:            uuid.NewString(),
		UserID:        userID,
		Type:          entryType,
		Amount:        FormatAmount(amountInCents),
		AmountInCents: amountInCents,
		Reason:        reason,
		CreatedAt:     timeProvider.Now(),
	}, nil
}

// NewTransferEntries creates the debit/credit pair documenting one transfer.
// Both entries carry the same amount and the "transfer" reason tag.
func NewTransferEntries(fromUserID, toUserID uint64, amountInCents int64, timeProvider coreport.TimeProvider) (*LedgerEntry, *LedgerEntry, error) {
	debit, err := NewLedgerEntry(fromUserID, EntryTypeDebit, amountInCents, ReasonTransfer, timeProvider)
	if err != nil {
		return nil, nil, err
	}

	credit, err := NewLedgerEntry(toUserID, EntryTypeCredit, amountInCents, ReasonTransfer, timeProvider)
	if err != nil {
		return nil, nil, err
	}

	return debit, credit, nil
}
