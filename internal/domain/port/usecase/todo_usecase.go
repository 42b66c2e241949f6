package usecase

import (
	"context"
)

// TodoResponse is the public view of a todo item
type TodoResponse struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TodoUseCase defines todo CRUD operations
type TodoUseCase interface {
	Create(ctx context.Context, title string) (*TodoResponse, error)
	List(ctx context.Context) ([]TodoResponse, error)
	Toggle(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
}
