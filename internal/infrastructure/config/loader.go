package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./.env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
	"../../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Environment variables override config file values
	v.SetEnvPrefix("LS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env

	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("ledger.maxAttempts", 3)
	v.SetDefault("ledger.baseDelayMs", 50)
	v.SetDefault("ledger.maxJitterMs", 25)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
}

// getEnvironment determines the environment to use based on LS_ENV
func getEnvironment() string {
	env := os.Getenv("LS_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values
func processEnvOverrides(v *viper.Viper) {
	// Database sensitive information
	if dbHost := os.Getenv("LS_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := os.Getenv("LS_DB_PORT"); dbPort != "" {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("LS_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("LS_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("LS_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}
	if sslMode := os.Getenv("LS_DB_SSL_MODE"); sslMode != "" {
		v.Set("database.sslMode", sslMode)
	}

	// Database performance settings
	if maxOpenConns := getEnvInt("LS_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}
	if maxIdleConns := getEnvInt("LS_DB_MAX_IDLE_CONNS", 0); maxIdleConns > 0 {
		v.Set("database.maxIdleConns", maxIdleConns)
	}

	// Server settings
	if serverHost := os.Getenv("LS_SERVER_HOST"); serverHost != "" {
		v.Set("server.host", serverHost)
	}
	if serverPort := os.Getenv("LS_SERVER_PORT"); serverPort != "" {
		v.Set("server.port", serverPort)
	}

	// Logger settings
	if logLevel := os.Getenv("LS_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}

	// Ledger settings
	if maxAttempts := getEnvInt("LS_LEDGER_MAX_ATTEMPTS", 0); maxAttempts > 0 {
		v.Set("ledger.maxAttempts", maxAttempts)
	}
	if baseDelay := getEnvInt("LS_LEDGER_BASE_DELAY_MS", 0); baseDelay > 0 {
		v.Set("ledger.baseDelayMs", baseDelay)
	}
	if maxJitter := getEnvInt("LS_LEDGER_MAX_JITTER_MS", 0); maxJitter > 0 {
		v.Set("ledger.maxJitterMs", maxJitter)
	}

	// Kafka settings
	if kafkaEnabled := os.Getenv("LS_KAFKA_ENABLED"); kafkaEnabled != "" {
		v.Set("kafka.enabled", kafkaEnabled == "true" || kafkaEnabled == "1")
	}
	if brokers := os.Getenv("LS_KAFKA_BROKERS"); brokers != "" {
		v.Set("kafka.brokers", strings.Split(brokers, ","))
	}
}

// getEnvInt reads an environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts time.Duration fields from their raw values
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second
}
