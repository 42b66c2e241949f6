package database

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds database connection settings
type Config struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
	LogLevel        string
	RetryAttempts   int
	RetryDelay      time.Duration
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("database port is required")
	}
	if c.Username == "" {
		return fmt.Errorf("database username is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
}

// ParsePort converts a port string to an int, defaulting to 5432
func ParsePort(port string) int {
	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 {
		return 5432
	}
	return p
}
