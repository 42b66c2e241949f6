package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/api/handler"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	ledgerHandler *handler.LedgerHandler,
	userHandler *handler.UserHandler,
	todoHandler *handler.TodoHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	balanceRoutes := router.Group("/balances")
	{
		balanceRoutes.GET("/:userId", ledgerHandler.GetBalance)
		balanceRoutes.GET("/:userId/entries", ledgerHandler.ListEntries)
		balanceRoutes.POST("/:userId/add", ledgerHandler.Credit)
		balanceRoutes.POST("/transfer", ledgerHandler.Transfer)
	}

	userRoutes := router.Group("/users")
	{
		userRoutes.POST("", userHandler.Register)
		userRoutes.GET("", userHandler.List)
		userRoutes.DELETE("/:userId", userHandler.Delete)
	}

	todoRoutes := router.Group("/todos")
	{
		todoRoutes.POST("", todoHandler.Create)
		todoRoutes.GET("", todoHandler.List)
		todoRoutes.PATCH("/:id/toggle", todoHandler.Toggle)
		todoRoutes.DELETE("/:id", todoHandler.Delete)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
