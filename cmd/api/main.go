package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	eventport "github.com/mkorolev/ledger-service/internal/domain/port/event"
	ledgerUseCase "github.com/mkorolev/ledger-service/internal/domain/usecase/ledger"
	todoUseCase "github.com/mkorolev/ledger-service/internal/domain/usecase/todo"
	userUseCase "github.com/mkorolev/ledger-service/internal/domain/usecase/user"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/api/handler"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/api/routes"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/database"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/database/migration"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/events/kafka"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/events/noop"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/logger"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/repository"
	timeProvider "github.com/mkorolev/ledger-service/internal/infrastructure/adapter/time"
	"github.com/mkorolev/ledger-service/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() {
		_ = appLogger.Flush()
	}()

	tp := timeProvider.NewRealTimeProvider()

	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			appLogger.Error("Failed to close database connection", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	migrationMgr := migration.NewMigrationManager(dbManager.DB(), appLogger, tp)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	var publisher eventport.Publisher
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, appLogger)
		appLogger.Info("Kafka event publishing enabled", map[string]any{
			"brokers": cfg.Kafka.Brokers,
		})
	} else {
		publisher = noop.NewPublisher()
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Failed to close event publisher", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	uow := database.NewUnitOfWork(dbManager.DB(), appLogger, tp)

	retryPolicy := ledgerUseCase.RetryPolicy{
		MaxAttempts: cfg.Ledger.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Ledger.BaseDelayMs) * time.Millisecond,
		MaxJitter:   time.Duration(cfg.Ledger.MaxJitterMs) * time.Millisecond,
	}

	engine := ledgerUseCase.NewEngine(uow, publisher, tp, appLogger, retryPolicy)
	userUseCaseImpl := userUseCase.NewUserUseCase(uow, engine, tp, appLogger)

	todoRepo := repository.NewTodoRepository(dbManager.DB(), tp, appLogger)
	todoUseCaseImpl := todoUseCase.NewTodoUseCase(todoRepo, tp, appLogger)

	ledgerHandler := handler.NewLedgerHandler(engine, appLogger)
	userHandler := handler.NewUserHandler(userUseCaseImpl, appLogger)
	todoHandler := handler.NewTodoHandler(todoUseCaseImpl, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, ledgerHandler, userHandler, todoHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or LS_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or LS_DB_USERNAME environment variable)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or LS_DB_NAME environment variable)")
	}

	if cfg.Ledger.MaxAttempts == 0 {
		missingConfigs = append(missingConfigs, "ledger.maxAttempts")
	}

	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		missingConfigs = append(missingConfigs, "kafka.brokers")
	}

	if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	return nil
}
