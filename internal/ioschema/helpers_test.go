package ioschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIfNotExists(t *testing.T) {
	res := ifNotExists([]string{
		"CREATE INDEX idx_a ON t(a);",
		"CREATE INDEX IF NOT EXISTS idx_b ON t(b);",
	})
	assert.Equal(t, []string{
		"CREATE INDEX IF NOT EXISTS idx_a ON t(a);",
		"CREATE INDEX IF NOT EXISTS idx_b ON t(b);",
	}, res)
}
