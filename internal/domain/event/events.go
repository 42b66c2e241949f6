package event

import (
	"time"

	"github.com/google/uuid"
)

// Topic names for published events
const (
	TopicTransferCompleted = "transfer_completed"
	TopicBalanceCredited   = "balance_credited"
)

// TransferCompleted is published after a transfer commits. Publication is
// best-effort and happens outside the atomic unit.
type TransferCompleted struct {
	EventID    string    `json:"event_id"`
	FromUserID uint64    `json:"from_user_id"`
	ToUserID   uint64    `json:"to_user_id"`
	Amount     string    `json:"amount"`
	Attempts   int       `json:"attempts"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTransferCompleted builds a TransferCompleted event
func NewTransferCompleted(fromUserID, toUserID uint64, amount string, attempts int, occurredAt time.Time) TransferCompleted {
	return TransferCompleted{
		EventID:    uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
		Attempts:   attempts,
		OccurredAt: occurredAt,
	}
}

// BalanceCredited is published after a credit commits
type BalanceCredited struct {
	EventID    string    `json:"event_id"`
	UserID     uint64    `json:"user_id"`
	Amount     string    `json:"amount"`
	NewBalance string    `json:"new_balance"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBalanceCredited builds a BalanceCredited event
func NewBalanceCredited(userID uint64, amount, newBalance string, occurredAt time.Time) BalanceCredited {
	return BalanceCredited{
		EventID:    uuid.NewString(),
		UserID:     userID,
		Amount:     amount,
		NewBalance: newBalance,
		OccurredAt: occurredAt,
	}
}
