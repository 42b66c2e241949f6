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

// LedgerHandler handles balance and transfer HTTP requests
type LedgerHandler struct {
	ledgerUseCase usecase.LedgerUseCase
	logger        coreport.Logger
}

// NewLedgerHandler creates a new ledger handler instance
func NewLedgerHandler(ledgerUseCase usecase.LedgerUseCase, logger coreport.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerUseCase: ledgerUseCase,
		logger:        logger,
	}
}

// GetBalance handles the GET /balances/{userId} endpoint
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	balance, err := h.ledgerUseCase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "Error getting balance", userID, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  balance.UserID,
		Balance: balance.Balance,
	})
}

// Credit handles the POST /balances/{userId}/add endpoint
func (h *LedgerHandler) Credit(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidAmount),
			Message: "Invalid request body",
		})
		return
	}

	balance, err := h.ledgerUseCase.Credit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		h.respondError(c, "Error crediting balance", userID, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  balance.UserID,
		Balance: balance.Balance,
	})
}

// Transfer handles the POST /balances/transfer endpoint
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidAmount),
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.ledgerUseCase.Transfer(c.Request.Context(), req.FromUserID, req.ToUserID, req.Amount)
	if err != nil {
		h.respondError(c, "Error processing transfer", req.FromUserID, err)
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{
		Success:  result.Success,
		Attempts: result.Attempts,
	})
}

// ListEntries handles the GET /balances/{userId}/entries endpoint
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	entries, err := h.ledgerUseCase.ListEntries(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "Error listing ledger entries", userID, err)
		return
	}

	response := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, dto.LedgerEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Type:      e.Type,
			Amount:    e.Amount,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

// respondError maps a domain error to an HTTP response and logs it
func (h *LedgerHandler) respondError(c *gin.Context, logMessage string, userID uint64, err error) {
	statusCode, errorMessage := mapDomainError(err)

	h.logger.Error(logMessage, map[string]any{
		"userId": userID,
		"error":  err.Error(),
	})

	c.JSON(statusCode, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: errorMessage,
	})
}

// parseUserID extracts the userId path parameter, writing a 400 on failure
func parseUserID(c *gin.Context) (uint64, bool) {
	userIDParam := c.Param("userId")
	userID, err := strconv.ParseUint(userIDParam, 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return 0, false
	}
	return userID, true
}

// mapDomainError translates a domain error to an HTTP status and message
func mapDomainError(err error) (int, string) {
	switch {
	case domainerr.IsInsufficientFundsError(err):
		return http.StatusUnprocessableEntity, "Insufficient funds"
	case errors.Is(err, domainerr.ErrSelfTransfer):
		return http.StatusBadRequest, "Cannot transfer to the same user"
	case errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrNegativeAmount),
		errors.Is(err, domainerr.ErrAmountOverflow):
		return http.StatusBadRequest, "Invalid amount"
	case errors.Is(err, domainerr.ErrInvalidUserID):
		return http.StatusBadRequest, "Invalid user ID"
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domainerr.ErrStoreFailure):
		return http.StatusServiceUnavailable, "Store temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
