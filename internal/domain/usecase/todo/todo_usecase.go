package todo

import (
	"context"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/domain/port/persistence"
	"github.com/mkorolev/ledger-service/internal/domain/port/usecase"
)

// TodoUseCase implements todo CRUD glue
type TodoUseCase struct {
	todoRepo     persistence.TodoRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTodoUseCase creates a new todo use case instance
func NewTodoUseCase(
	todoRepo persistence.TodoRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.TodoUseCase {
	return &TodoUseCase{
		todoRepo:     todoRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create adds a new open todo
func (t *TodoUseCase) Create(ctx context.Context, title string) (*usecase.TodoResponse, error) {
	todo, err := entity.NewTodo(title, t.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := t.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}

	return &usecase.TodoResponse{ID: todo.ID, Title: todo.Title, Completed: todo.Completed}, nil
}

// List returns all todos
func (t *TodoUseCase) List(ctx context.Context) ([]usecase.TodoResponse, error) {
	todos, err := t.todoRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]usecase.TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, usecase.TodoResponse{
			ID:        todo.ID,
			Title:     todo.Title,
			Completed: todo.Completed,
		})
	}
	return responses, nil
}

// Toggle marks a todo as completed
func (t *TodoUseCase) Toggle(ctx context.Context, id uint64) error {
	return t.todoRepo.Toggle(ctx, id)
}

// Delete removes a todo
func (t *TodoUseCase) Delete(ctx context.Context, id uint64) error {
	return t.todoRepo.Delete(ctx, id)
}
