package persistence

import (
	"context"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
)

// TodoRepository defines store operations on todo items
type TodoRepository interface {
	Create(ctx context.Context, todo *entity.Todo) error
	List(ctx context.Context) ([]*entity.Todo, error)

	// Toggle marks a todo as completed
	//
	// Possible errors:
	// - ErrTodoNotFound: if no todo exists with the ID
	Toggle(ctx context.Context, id uint64) error

	Delete(ctx context.Context, id uint64) error
}
