package entity

import (
	"strings"
	"time"

	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
)

// Todo is a plain task item, CRUD glue with no ledger semantics
type Todo struct {
	ID        uint64
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTodo creates an open todo with the given title
func NewTodo(title string, timeProvider coreport.TimeProvider) (*Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.ErrInvalidTitle
	}

	now := timeProvider.Now()
	return &Todo{
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
