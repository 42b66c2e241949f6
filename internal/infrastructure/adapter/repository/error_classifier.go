package repository

import (
	"strings"
)

// ErrorClassifier inspects raw store errors. The ledger engine only ever
// sees domain errors; the repositories use this classifier to decide which
// domain error a store error maps to, most importantly whether it is the
// store's deadlock/serialization signal (retriable) or not.
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// IsSerializationConflict checks for the store's deadlock or serialization
// failure signal (postgres 40P01/40001 class errors)
func (c *ErrorClassifier) IsSerializationConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "serialization failure") ||
		strings.Contains(msg, "lock wait timeout")
}

// IsDuplicateKeyError checks if the error is a unique-constraint violation
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "Duplicate entry")
}

// IsConnectionError checks if the error is related to store connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "no connection") ||
		strings.Contains(msg, "eof")
}
