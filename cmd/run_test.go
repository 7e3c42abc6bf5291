package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrds-es/minedist/internal/iocatalog"
	"github.com/mrds-es/minedist/pkg/config"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRunCmd_Flags(t *testing.T) {
	assert := assert.New(t)
	cmd := getRunCmd()
	assert.Equal("run", cmd.Use)

	tests := []struct {
		name, short, def string
	}{
		{"site-id", "i", ""},
		{"site-name", "n", ""},
		{"start-year", "s", "0"},
		{"end-year", "e", "0"},
		{"buffers", "b", "[]"},
		{"jobs", "j", "0"},
		{"output", "o", ""},
		{"per-year", "y", "false"},
		{"postgres", "p", "false"},
		{"topo", "t", "false"},
		{"zones", "z", "false"},
		{"quiet", "q", "false"},
		{"partition-count", "", "1"},
		{"include-empty", "", "false"},
	}
	for _, v := range tests {
		f := cmd.Flags().Lookup(v.name)
		require.NotNil(t, f, v.name)
		assert.Equal(v.short, f.Shorthand, v.name)
		assert.Equal(v.def, f.DefValue, v.name)
	}
}

func TestRunFlagsOptions(t *testing.T) {
	assert := assert.New(t)
	var flags runFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)

	err := cmd.ParseFlags([]string{
		"-s", "2000", "-e", "2010", "-b", "2000,500,500",
		"--site-name", "Mina Vieja", "--per-year", "-j", "3",
		"--include-empty",
	})
	require.NoError(t, err)

	c := config.New()
	c.Update(flags.options(cmd))
	assert.Equal(2000, c.Analysis.StartYear)
	assert.Equal(2010, c.Analysis.EndYear)
	assert.Equal([]int{500, 2000}, c.Sites.BuffersM)
	assert.Equal("Mina Vieja", c.Scope.SiteName)
	assert.True(c.Export.PerYear)
	assert.True(c.Analysis.IncludeYearsWithNoImages)
	assert.Equal(3, c.JobsNumber)

	// flags that were not given keep config values
	assert.True(c.Export.Series)
	assert.Equal(1, c.Scope.PartitionCount)
	assert.False(c.Export.Postgres)
}

func TestIsCSV(t *testing.T) {
	assert.True(t, isCSV("data/mrds.csv"))
	assert.True(t, isCSV("MRDS.CSV"))
	assert.False(t, isCSV("catalog.sqlite"))
	assert.False(t, isCSV("mrds"))
}

func TestOpenCatalogs(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "mrds.csv")
	data := "id,Name,X,Y,commod1,dev_stat\n" +
		"1,Mina Vieja,-89.1,13.7,Gold,Producer\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0644))

	c := config.New()
	c.Catalog.SitesPath = csvPath
	c.Catalog.ScenesPath = filepath.Join(dir, "scenes.sqlite")

	ctx := context.Background()
	cats, err := openCatalogs(ctx, c, false)
	require.NoError(t, err)
	assert.Nil(cats.scenes)
	recs, err := cats.sites.Sites(ctx, orb.Bound{})
	require.NoError(t, err)
	assert.Len(recs, 1)
	cats.Close()

	_, err = openCatalogs(ctx, c, true)
	assert.Error(err, "missing scene catalog")
	_, err = os.Stat(c.Catalog.ScenesPath)
	assert.True(os.IsNotExist(err))

	sdb, err := iocatalog.Create(ctx, c.Catalog.ScenesPath, iocatalog.Fields{})
	require.NoError(t, err)
	require.NoError(t, sdb.Close())

	cats, err = openCatalogs(ctx, c, true)
	require.NoError(t, err)
	defer cats.Close()
	assert.NotNil(cats.scenes)
	assert.NotNil(cats.terrain)
	assert.Len(cats.closers, 1)
}
