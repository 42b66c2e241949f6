package usecase

import (
	"context"
)

// UserResponse is the public view of a user; the password is never exposed
type UserResponse struct {
	ID    uint64 `json:"id"`
	Login string `json:"login"`
}

// UserUseCase defines user-management operations. Registration and deletion
// keep the "every user has exactly one balance" invariant by sharing one
// atomic unit with the corresponding balance mutation.
type UserUseCase interface {
	// Register creates a user and its zero balance in one atomic unit
	Register(ctx context.Context, login, password string) (*UserResponse, error)

	// List returns all users without passwords
	List(ctx context.Context) ([]UserResponse, error)

	// Delete removes the user's balance and the user row in one atomic unit
	Delete(ctx context.Context, userID uint64) error
}
