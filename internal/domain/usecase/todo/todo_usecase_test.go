package todo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	mcore "github.com/mkorolev/ledger-service/mocks/port/core"
)

type fakeTodoRepo struct {
	todos  map[uint64]*entity.Todo
	nextID uint64
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: make(map[uint64]*entity.Todo), nextID: 1}
}

func (r *fakeTodoRepo) Create(ctx context.Context, todo *entity.Todo) error {
	todo.ID = r.nextID
	r.nextID++
	r.todos[todo.ID] = todo
	return nil
}

func (r *fakeTodoRepo) List(ctx context.Context) ([]*entity.Todo, error) {
	out := make([]*entity.Todo, 0, len(r.todos))
	for id := uint64(1); id < r.nextID; id++ {
		if todo, ok := r.todos[id]; ok {
			out = append(out, todo)
		}
	}
	return out, nil
}

func (r *fakeTodoRepo) Toggle(ctx context.Context, id uint64) error {
	todo, ok := r.todos[id]
	if !ok {
		return errs.ErrTodoNotFound
	}
	todo.Completed = true
	return nil
}

func (r *fakeTodoRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.todos[id]; !ok {
		return errs.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func newTestUseCase(repo *fakeTodoRepo) *TodoUseCase {
	logger := new(mcore.MockLogger)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()

	tp := new(mcore.MockTimeProvider)
	tp.On("Now").Return(time.Now())

	return NewTodoUseCase(repo, tp, logger).(*TodoUseCase)
}

func TestCreate(t *testing.T) {
	t.Run("Creates an open todo", func(t *testing.T) {
		repo := newFakeTodoRepo()
		uc := newTestUseCase(repo)

		resp, err := uc.Create(context.Background(), "write report")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), resp.ID)
		assert.Equal(t, "write report", resp.Title)
		assert.False(t, resp.Completed)
	})

	t.Run("Empty title is rejected", func(t *testing.T) {
		repo := newFakeTodoRepo()
		uc := newTestUseCase(repo)

		_, err := uc.Create(context.Background(), "  ")
		assert.ErrorIs(t, err, errs.ErrInvalidTitle)
		assert.Empty(t, repo.todos)
	})
}

func TestListTodos(t *testing.T) {
	repo := newFakeTodoRepo()
	uc := newTestUseCase(repo)

	_, err := uc.Create(context.Background(), "first")
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), "second")
	require.NoError(t, err)

	todos, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "first", todos[0].Title)
	assert.Equal(t, "second", todos[1].Title)
}

func TestToggle(t *testing.T) {
	repo := newFakeTodoRepo()
	uc := newTestUseCase(repo)

	resp, err := uc.Create(context.Background(), "first")
	require.NoError(t, err)

	err = uc.Toggle(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, repo.todos[resp.ID].Completed)

	err = uc.Toggle(context.Background(), 99)
	assert.ErrorIs(t, err, errs.ErrTodoNotFound)
}

func TestDeleteTodo(t *testing.T) {
	repo := newFakeTodoRepo()
	uc := newTestUseCase(repo)

	resp, err := uc.Create(context.Background(), "first")
	require.NoError(t, err)

	err = uc.Delete(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.todos)

	err = uc.Delete(context.Background(), resp.ID)
	assert.ErrorIs(t, err, errs.ErrTodoNotFound)
}
