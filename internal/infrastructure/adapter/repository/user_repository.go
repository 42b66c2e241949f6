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

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func userToEntity(m *model.User) *entity.User {
	return &entity.User{
		ID:        m.ID,
		Login:     m.Login,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *UserRepository) mapError(operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrUserNotFound
	}
	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrDuplicateUser
	}
	if r.errorClassifier.IsSerializationConflict(err) {
		return fmt.Errorf("%w: %s", errs.ErrTransientConflict, err.Error())
	}

	r.logger.Error(fmt.Sprintf("Store error when %s", operation), map[string]any{
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrStoreFailure, err.Error())
}

// Create inserts a new user and fills in the generated ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := model.User{
		Login:     user.Login,
		Password:  user.Password,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&userModel)
	if result.Error != nil {
		return r.mapError("creating user", result.Error)
	}

	user.ID = userModel.ID
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).First(&userModel, id)
	if result.Error != nil {
		return nil, r.mapError("getting user", result.Error)
	}

	return userToEntity(&userModel), nil
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	var userModels []model.User
	result := r.db.WithContext(ctx).Order("id ASC").Find(&userModels)
	if result.Error != nil {
		return nil, r.mapError("listing users", result.Error)
	}

	users := make([]*entity.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, userToEntity(&userModels[i]))
	}
	return users, nil
}

// Delete removes a user row
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return r.mapError("deleting user", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}

	return nil
}
