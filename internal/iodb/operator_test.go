package iodb_test

import (
	"context"
	"testing"

	"github.com/mrds-es/minedist/internal/iodb"
	"github.com/mrds-es/minedist/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests need PostgreSQL with a 'minedist_test' database.
// Connection settings come from MINEDIST_DATABASE_* variables, for
// example:
//
//	docker run -d -e POSTGRES_PASSWORD=postgres -p 5432:5432 postgres:16
//	createdb -h localhost -U postgres minedist_test

func TestPgxOperatorTableExists(t *testing.T) {
	op := iodb.NewPgxOperator()
	iotesting.ConnectOrSkip(t, op)
	ctx := context.Background()

	_, _ = op.Pool().Exec(ctx, "DROP TABLE IF EXISTS test_table_exists CASCADE")

	exists, err := op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = op.Pool().Exec(ctx, "CREATE TABLE test_table_exists (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)

	exists, err = op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.True(t, exists)

	_, _ = op.Pool().Exec(ctx, "DROP TABLE test_table_exists")
}

func TestPgxOperatorNotConnected(t *testing.T) {
	op := iodb.NewPgxOperator()
	assert.Nil(t, op.Pool())
	_, err := op.TableExists(context.Background(), "zone_year_stats")
	assert.Error(t, err)
	assert.NoError(t, op.Close())
}
