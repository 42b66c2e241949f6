package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/model"
)

// TodoRepository implements persistence.TodoRepository using GORM
type TodoRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTodoRepository creates a new TodoRepository instance
func NewTodoRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TodoRepository {
	return &TodoRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

func todoToEntity(m *model.Todo) *entity.Todo {
	return &entity.Todo{
		ID:        m.ID,
		Title:     m.Title,
		Completed: m.Completed,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *TodoRepository) mapError(operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrTodoNotFound
	}

	r.logger.Error(fmt.Sprintf("Store error when %s", operation), map[string]any{
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrStoreFailure, err.Error())
}

// Create inserts a new todo and fills in the generated ID
func (r *TodoRepository) Create(ctx context.Context, todo *entity.Todo) error {
	todoModel := model.Todo{
		Title:     todo.Title,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&todoModel)
	if result.Error != nil {
		return r.mapError("creating todo", result.Error)
	}

	todo.ID = todoModel.ID
	return nil
}

// List returns all todos
func (r *TodoRepository) List(ctx context.Context) ([]*entity.Todo, error) {
	var todoModels []model.Todo
	result := r.db.WithContext(ctx).Order("id ASC").Find(&todoModels)
	if result.Error != nil {
		return nil, r.mapError("listing todos", result.Error)
	}

	todos := make([]*entity.Todo, 0, len(todoModels))
	for i := range todoModels {
		todos = append(todos, todoToEntity(&todoModels[i]))
	}
	return todos, nil
}

// Toggle marks a todo as completed
func (r *TodoRepository) Toggle(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Model(&model.Todo{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"completed":  true,
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return r.mapError("toggling todo", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrTodoNotFound
	}

	return nil
}

// Delete removes a todo
func (r *TodoRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Todo{}, id)
	if result.Error != nil {
		return r.mapError("deleting todo", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrTodoNotFound
	}

	return nil
}
