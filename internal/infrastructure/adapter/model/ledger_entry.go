package model

import (
	"time"
)

// LedgerEntry represents the database model for ledger entries. The table is
// append-only: rows are inserted inside the same transaction as the balance
// update they document and never touched again.
type LedgerEntry struct {
	ID            string    `gorm:"primaryKey;size:36"`
	UserID        uint64    `gorm:"not null;index"`
	Type          string    `gorm:"not null;size:10"`
	Amount        string    `gorm:"not null;size:50"`
	AmountInCents int64     `gorm:"not null"`
	Reason        string    `gorm:"not null;size:50"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
