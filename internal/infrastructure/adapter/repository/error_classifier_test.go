package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSerializationConflict(t *testing.T) {
	classifier := NewErrorClassifier()

	t.Run("Conflict signals", func(t *testing.T) {
		conflicts := []string{
			"ERROR: deadlock detected (SQLSTATE 40P01)",
			"ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)",
			"serialization failure",
			"Lock wait timeout exceeded; try restarting transaction",
		}

		for _, msg := range conflicts {
			assert.True(t, classifier.IsSerializationConflict(errors.New(msg)), msg)
		}
	})

	t.Run("Other errors are not conflicts", func(t *testing.T) {
		others := []string{
			"connection refused",
			"duplicate key value violates unique constraint",
			"record not found",
		}

		for _, msg := range others {
			assert.False(t, classifier.IsSerializationConflict(errors.New(msg)), msg)
		}
	})

	t.Run("Nil error", func(t *testing.T) {
		assert.False(t, classifier.IsSerializationConflict(nil))
	})
}

func TestIsDuplicateKeyError(t *testing.T) {
	classifier := NewErrorClassifier()

	assert.True(t, classifier.IsDuplicateKeyError(errors.New("duplicate key value violates unique constraint \"idx_users_login_unique\"")))
	assert.True(t, classifier.IsDuplicateKeyError(errors.New("UNIQUE constraint failed: users.login")))
	assert.False(t, classifier.IsDuplicateKeyError(errors.New("deadlock detected")))
	assert.False(t, classifier.IsDuplicateKeyError(nil))
}

func TestIsConnectionError(t *testing.T) {
	classifier := NewErrorClassifier()

	assert.True(t, classifier.IsConnectionError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")))
	assert.True(t, classifier.IsConnectionError(errors.New("write: broken pipe")))
	assert.False(t, classifier.IsConnectionError(errors.New("could not serialize access")))
	assert.False(t, classifier.IsConnectionError(nil))
}
