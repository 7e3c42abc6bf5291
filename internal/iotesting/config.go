// Package iotesting provides shared test utilities for integration tests.
package iotesting

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/mrds-es/minedist/pkg/config"
	"github.com/mrds-es/minedist/pkg/db"
)

// TestDatabaseName is the database name used for all integration tests,
// so tests never run against a production database.
const TestDatabaseName = "minedist_test"

// GetTestConfig returns default settings with database parameters taken
// from MINEDIST_DATABASE_* environment variables when they are set. The
// database name is always TestDatabaseName.
func GetTestConfig() *config.Config {
	cfg := config.New()
	if v := os.Getenv("MINEDIST_DATABASE_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MINEDIST_DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("MINEDIST_DATABASE_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("MINEDIST_DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	cfg.Database.Database = TestDatabaseName
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// ConnectOrSkip connects the operator to the test database. The test is
// skipped in short mode or when PostgreSQL is not reachable.
func ConnectOrSkip(t *testing.T, op db.Operator) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	err := op.Connect(context.Background(), GetTestDatabaseConfig())
	if err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	t.Cleanup(func() { op.Close() })
}
