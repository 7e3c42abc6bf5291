package cmd

import (
	"testing"

	"github.com/mrds-es/minedist/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigYAML(t *testing.T) {
	assert := assert.New(t)
	c := config.New()
	c.HomeDir = "/home/somebody"
	c.Scope.SiteName = "Mina Vieja"
	c.JobsNumber = 2

	out, err := configYAML(c)
	require.NoError(t, err)
	assert.Contains(out, "jobs_number: 2")
	assert.Contains(out, "season_start_month: 11")
	assert.NotContains(out, "/home/somebody")
	assert.NotContains(out, "Mina Vieja")

	var back config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &back))
	assert.Equal(c.Sites.BuffersM, back.Sites.BuffersM)
	assert.Equal(c.Analysis.EndYear, back.Analysis.EndYear)
}
