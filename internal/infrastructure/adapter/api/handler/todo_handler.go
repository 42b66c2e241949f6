package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/domain/port/usecase"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/api/dto"
)

// TodoHandler handles todo-related HTTP requests
type TodoHandler struct {
	todoUseCase usecase.TodoUseCase
	logger      coreport.Logger
}

// NewTodoHandler creates a new todo handler instance
func NewTodoHandler(todoUseCase usecase.TodoUseCase, logger coreport.Logger) *TodoHandler {
	return &TodoHandler{
		todoUseCase: todoUseCase,
		logger:      logger,
	}
}

// Create handles the POST /todos endpoint
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidTitle),
			Message: "Invalid request body",
		})
		return
	}

	todo, err := h.todoUseCase.Create(c.Request.Context(), req.Title)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMessage := "Internal server error"

		if errors.Is(err, domainerr.ErrInvalidTitle) {
			statusCode = http.StatusBadRequest
			errorMessage = "Title must not be empty"
		}

		h.logger.Error("Error creating todo", map[string]any{
			"error": err.Error(),
		})

		c.JSON(statusCode, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.TodoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
	})
}

// List handles the GET /todos endpoint
func (h *TodoHandler) List(c *gin.Context) {
	todos, err := h.todoUseCase.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Error listing todos", map[string]any{
			"error": err.Error(),
		})

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	response := make([]dto.TodoResponse, 0, len(todos))
	for _, t := range todos {
		response = append(response, dto.TodoResponse{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
		})
	}

	c.JSON(http.StatusOK, response)
}

// Toggle handles the PATCH /todos/{id}/toggle endpoint
func (h *TodoHandler) Toggle(c *gin.Context) {
	id, ok := parseTodoID(c)
	if !ok {
		return
	}

	if err := h.todoUseCase.Toggle(c.Request.Context(), id); err != nil {
		h.respondTodoError(c, "Error toggling todo", id, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete handles the DELETE /todos/{id} endpoint
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseTodoID(c)
	if !ok {
		return
	}

	if err := h.todoUseCase.Delete(c.Request.Context(), id); err != nil {
		h.respondTodoError(c, "Error deleting todo", id, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TodoHandler) respondTodoError(c *gin.Context, logMessage string, id uint64, err error) {
	statusCode := http.StatusInternalServerError
	errorMessage := "Internal server error"

	if errors.Is(err, domainerr.ErrTodoNotFound) {
		statusCode = http.StatusNotFound
		errorMessage = "Todo not found"
	}

	h.logger.Error(logMessage, map[string]any{
		"todoId": id,
		"error":  err.Error(),
	})

	c.JSON(statusCode, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: errorMessage,
	})
}

// parseTodoID extracts the id path parameter, writing a 400 on failure
func parseTodoID(c *gin.Context) (uint64, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrNotFound),
			Message: "Invalid todo ID format",
		})
		return 0, false
	}
	return id, true
}
