package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/domain/port/usecase"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/api/dto"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(userUseCase usecase.UserUseCase, logger coreport.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// Register handles the POST /users endpoint
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidLogin),
			Message: "Invalid request body",
		})
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		switch {
		case errors.Is(err, domainerr.ErrDuplicateUser):
			statusCode = http.StatusConflict
			errorMessage = "Login already taken"
		case errors.Is(err, domainerr.ErrInvalidLogin):
			statusCode = http.StatusBadRequest
			errorMessage = "Invalid login or password"
		}

		h.logger.Error("Error registering user", map[string]any{
			"login": req.Login,
			"error": err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{
		ID:    user.ID,
		Login: user.Login,
	})
}

// List handles the GET /users endpoint
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userUseCase.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Error listing users", map[string]any{
			"error": err.Error(),
		})

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	response := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, dto.UserResponse{
			ID:    u.ID,
			Login: u.Login,
		})
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles the DELETE /users/{userId} endpoint
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), userID); err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		if errors.Is(err, domainerr.ErrUserNotFound) {
			statusCode = http.StatusNotFound
			errorMessage = "User not found"
		}

		h.logger.Error("Error deleting user", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
