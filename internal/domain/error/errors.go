package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientFunds = 4001
	CodeInvalidAmount     = 4002
	CodeInvalidUserID     = 4003
	CodeSelfTransfer      = 4004
	CodeAmountOverflow    = 4006
	CodeBalanceNotFound   = 4040
	CodeUserNotFound      = 4041
	CodeTodoNotFound      = 4042
	CodeDuplicateUser     = 4090

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeStoreFailure   = 5001
)

// Base error types
var (
	// ErrInsufficientFunds is returned when a debit would exceed the current balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount is returned when the amount format is invalid
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when the amount is negative or zero
	ErrNegativeAmount = errors.New("amount must be positive")

	// ErrAmountOverflow is returned when the amount does not fit in the minor-unit range
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrSelfTransfer is returned when source and destination of a transfer are the same user
	ErrSelfTransfer = errors.New("cannot transfer to self")

	// ErrBalanceNotFound is returned when no balance row exists for the user
	ErrBalanceNotFound = errors.New("balance not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrTodoNotFound is returned when the requested todo doesn't exist
	ErrTodoNotFound = errors.New("todo not found")

	// ErrDuplicateUser is returned when a user with the same login already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateBalance is returned when a balance row already exists for the user
	ErrDuplicateBalance = errors.New("balance already initialized for user")

	// ErrTransientConflict marks a store-signaled deadlock or serialization failure.
	// The ledger engine retries these; they are never surfaced unless retries exhaust.
	ErrTransientConflict = errors.New("transient store conflict")

	// ErrStoreFailure is returned for non-transient store errors
	ErrStoreFailure = errors.New("store failure")

	// ErrInvalidLogin is returned when the login is empty or malformed
	ErrInvalidLogin = errors.New("login cannot be empty")

	// ErrInvalidTitle is returned when a todo title is empty
	ErrInvalidTitle = errors.New("title cannot be empty")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrSelfTransfer):
		return CodeSelfTransfer
	case errors.Is(err, ErrBalanceNotFound):
		return CodeBalanceNotFound
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTodoNotFound):
		return CodeTodoNotFound
	case errors.Is(err, ErrDuplicateUser), errors.Is(err, ErrDuplicateBalance):
		return CodeDuplicateUser
	case errors.Is(err, ErrStoreFailure), errors.Is(err, ErrTransientConflict):
		return CodeStoreFailure
	default:
		return CodeInternalServer
	}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	UserID      uint64
	Amount      string
	CurrBalance string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %d: required %s, available %s",
		e.UserID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_funds",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID uint64, amount, currentBalance string) error {
	return &InsufficientFundsError{
		UserID:      userID,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// TransferError represents a failure while processing a transfer
type TransferError struct {
	FromUserID uint64
	ToUserID   uint64
	Amount     string
	Attempts   int
	Err        error
}

// Error implements the error interface for TransferError
func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer of %s from user %d to user %d failed after %d attempt(s): %v",
		e.Amount, e.FromUserID, e.ToUserID, e.Attempts, e.Err)
}

// Unwrap returns the underlying error
func (e *TransferError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransferError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "transfer_error",
		"from_user_id": e.FromUserID,
		"to_user_id":   e.ToUserID,
		"amount":       e.Amount,
		"attempts":     e.Attempts,
		"error":        e.Err.Error(),
		"error_code":   ErrorCode(e.Err),
	}
}

// NewTransferError creates a detailed transfer error
func NewTransferError(fromUserID, toUserID uint64, amount string, attempts int, err error) error {
	return &TransferError{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
		Attempts:   attempts,
		Err:        err,
	}
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsTransientConflictError checks if the error is a retriable store conflict
func IsTransientConflictError(err error) bool {
	return errors.Is(err, ErrTransientConflict)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBalanceNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTodoNotFound)
}

// IsInvalidOperationError checks if the error is a malformed request rejected
// before any store access
func IsInvalidOperationError(err error) bool {
	return errors.Is(err, ErrSelfTransfer) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrAmountOverflow) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidLogin) ||
		errors.Is(err, ErrInvalidTitle)
}
