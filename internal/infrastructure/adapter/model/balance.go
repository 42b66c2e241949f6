package model

import (
	"time"
)

// Balance represents the database model for account balances.
// One row per user, keyed by the user ID.
type Balance struct {
	UserID        uint64    `gorm:"primaryKey"`
	AmountInCents int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for Balance
func (Balance) TableName() string {
	return "balances"
}
