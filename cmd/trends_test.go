package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrendsCmd(t *testing.T) {
	assert := assert.New(t)
	cmd := getTrendsCmd()
	assert.Equal("trends", cmd.Use)

	minYears := cmd.Flags().Lookup("min-years")
	require.NotNil(t, minYears)
	assert.Equal("8", minYears.DefValue)

	metrics := cmd.Flags().Lookup("metrics")
	require.NotNil(t, metrics)
	assert.True(strings.HasPrefix(metrics.DefValue, "mean_ndvi,mean_ndmi"))
	assert.True(strings.HasSuffix(metrics.DefValue, "valid_px_pct"))

	for _, v := range []string{"input", "summary-out", "clean-out"} {
		assert.NotNil(cmd.Flags().Lookup(v), v)
	}
}

func TestTrends(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "series.csv")
	data := `site_name,site_id,buffer_m,year,image_count,qa_flag,mean_ndvi,bare_pct
B,B_2,1000,2002,4,ok,0.30,10
A,A_1,1000,2001,5,ok,0.20,
A,A_1,1000,2000,3,ok,0.10,5
A,A_1,1000,2002,,ok,nan,7
,X_1,1000,2000,1,ok,0.5,1
A,A_1,1000,abc,1,ok,0.5,1
`
	require.NoError(t, os.WriteFile(input, []byte(data), 0644))

	res, err := trends(trendParams{
		input:    input,
		minYears: 2,
		metrics:  []string{"mean_ndvi", "bare_pct"},
	})
	require.NoError(t, err)
	assert.Equal(6, res.input)
	assert.Equal(4, res.clean)
	// two groups with two metrics each
	assert.Equal(4, res.summary)
	assert.Equal(filepath.Join(dir, "series_clean.csv"), res.cleanPath)
	assert.Equal(filepath.Join(dir, "series_trend_summary.csv"), res.summaryPath)

	clean, err := os.ReadFile(res.cleanPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(clean)), "\n")
	require.Len(t, lines, 5)
	assert.Equal("site_name,site_id,buffer_m,year,image_count,qa_flag,mean_ndvi,bare_pct", lines[0])
	assert.Equal("A,A_1,1000,2000,3,ok,0.1,5", lines[1])
	assert.Equal("A,A_1,1000,2001,5,ok,0.2,", lines[2])
	assert.Equal("A,A_1,1000,2002,,ok,,7", lines[3])

	summary, err := os.ReadFile(res.summaryPath)
	require.NoError(t, err)
	assert.Contains(string(summary), "A,1000,mean_ndvi,2,2000,2001")
}

func TestTrendsEmptyInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(input, []byte("site_name,year\n"), 0644))

	_, err := trends(trendParams{input: input, minYears: 8})
	assert.Error(t, err)
}

func TestTrendsMissingInput(t *testing.T) {
	_, err := trends(trendParams{input: filepath.Join(t.TempDir(), "none.csv")})
	assert.Error(t, err)
}
