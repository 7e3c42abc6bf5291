package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mrds-es/minedist/pkg/config"
)

// Operator defines basic database management operations. It exposes
// the pgxpool.Pool so lifecycle components can use CopyFrom and GORM.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)
}
