package entity

import (
	"strings"
	"time"

	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
)

// User represents a registered user. The ledger core never needs the full
// user object; it works with the user ID only.
type User struct {
	ID        uint64
	Login     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a new user with the given login and password
func NewUser(login, password string, timeProvider coreport.TimeProvider) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, errs.ErrInvalidLogin
	}

	now := timeProvider.Now()
	return &User{
		Login:     login,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
