// Package ioschema implements SchemaManager interface for
// database schema management. It wraps GORM AutoMigrate.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mrds-es/minedist/pkg/db"
	"github.com/mrds-es/minedist/pkg/lifecycle"
	"github.com/mrds-es/minedist/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Migrate creates or updates the statistics table and its indexes.
func (m *manager) Migrate(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	for _, q := range ifNotExists(schema.ZoneYearStat{}.IndexDDL()) {
		if _, err := pool.Exec(ctx, q); err != nil {
			return MigrateSchemaError(err)
		}
	}

	slog.Info("Database schema is up to date",
		"table", schema.ZoneYearStat{}.TableName())
	return nil
}
