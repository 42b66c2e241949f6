package user

import (
	"context"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/domain/port/persistence"
	"github.com/mkorolev/ledger-service/internal/domain/port/usecase"
	"github.com/mkorolev/ledger-service/internal/domain/usecase/ledger"
)

// UserUseCase implements user registration, listing and deletion. It owns no
// balance logic; the ledger engine is called for balance initialization so
// the write path to balances stays in one place.
type UserUseCase struct {
	uow          persistence.UnitOfWork
	engine       *ledger.Engine
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserUseCase creates a new user use case instance
func NewUserUseCase(
	uow persistence.UnitOfWork,
	engine *ledger.Engine,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.UserUseCase {
	return &UserUseCase{
		uow:          uow,
		engine:       engine,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Register creates a user and its zero balance in one atomic unit, so the
// "every user has exactly one balance" invariant holds from creation onward.
func (u *UserUseCase) Register(ctx context.Context, login, password string) (*usecase.UserResponse, error) {
	user, err := entity.NewUser(login, password, u.timeProvider)
	if err != nil {
		return nil, err
	}

	txCtx, err := u.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if err := u.uow.GetUserRepository(txCtx).Create(txCtx, user); err != nil {
		u.abort(txCtx)
		return nil, err
	}

	// Joins the open unit through txCtx: user row and balance row commit together.
	if err := u.engine.InitBalance(txCtx, user.ID); err != nil {
		u.abort(txCtx)
		return nil, err
	}

	if err := u.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	u.logger.Info("User registered", map[string]any{
		"user_id": user.ID,
		"login":   user.Login,
	})

	return &usecase.UserResponse{ID: user.ID, Login: user.Login}, nil
}

// List returns all users without passwords
func (u *UserUseCase) List(ctx context.Context) ([]usecase.UserResponse, error) {
	users, err := u.uow.GetUserRepository(ctx).List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]usecase.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, usecase.UserResponse{ID: user.ID, Login: user.Login})
	}
	return responses, nil
}

// Delete removes the user's balance and the user row in one atomic unit.
// Running both in a single unit closes the partial-failure window where the
// balance is gone but the user row remains.
func (u *UserUseCase) Delete(ctx context.Context, userID uint64) error {
	userRepo := u.uow.GetUserRepository(ctx)
	if _, err := userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	txCtx, err := u.uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := u.uow.GetBalanceRepository(txCtx).Delete(txCtx, userID); err != nil {
		u.abort(txCtx)
		return err
	}

	if err := u.uow.GetUserRepository(txCtx).Delete(txCtx, userID); err != nil {
		u.abort(txCtx)
		return err
	}

	if err := u.uow.Commit(txCtx); err != nil {
		return err
	}

	u.logger.Info("User deleted", map[string]any{
		"user_id": userID,
	})
	return nil
}

func (u *UserUseCase) abort(txCtx context.Context) {
	if err := u.uow.Rollback(txCtx); err != nil {
		u.logger.Error("Failed to roll back atomic unit", map[string]any{
			"error": err.Error(),
		})
	}
}
