package persistence

import (
	"context"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
)

// UserRepository defines store operations on user records
type UserRepository interface {
	// Create inserts a new user and fills in its generated ID
	//
	// Possible errors:
	// - ErrDuplicateUser: if the login is already taken
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: if no user exists with the ID
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// List returns all users
	List(ctx context.Context) ([]*entity.User, error)

	// Delete removes a user row
	Delete(ctx context.Context, id uint64) error
}
