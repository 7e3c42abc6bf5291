package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOptimizeCmd(t *testing.T) {
	assert := assert.New(t)
	cmd := getOptimizeCmd()
	assert.Equal("optimize", cmd.Use)
	assert.Contains(cmd.Long, "VACUUM ANALYZE")

	f := cmd.Flags().Lookup("drop-run")
	require.NotNil(t, f)
	assert.Equal("d", f.Shorthand)
	assert.Equal("", f.DefValue)
}

func TestRunOptimizeBadRunID(t *testing.T) {
	cmd := getOptimizeCmd()
	err := runOptimize(cmd, "not-a-uuid")
	assert.Error(t, err)
}
