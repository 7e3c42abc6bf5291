package ioexport_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrds-es/minedist/internal/ioexport"
	"github.com/mrds-es/minedist/pkg/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seriesCSV = `site_id,site_name,buffer_m,year,mean_ndvi,image_count,qa_flag
A_1,A,1000,2001,0.5,3,ok
A_1,A,1000,2000,0.4,2,ok
A_1,A,1000,2002,,0,low_valid_pixels
B_2,,1000,2000,0.1,1,ok
`

func TestDecodeSamples(t *testing.T) {
	assert := assert.New(t)
	samples, count, err := ioexport.DecodeSamples(
		strings.NewReader(seriesCSV), []string{"mean_ndvi", "bare_pct"},
	)
	require.NoError(t, err)
	assert.Equal(4, count)
	require.Len(t, samples, 3)
	assert.Equal(2001, samples[0].Year)
	require.NotNil(t, samples[0].Values["mean_ndvi"])
	assert.InDelta(0.5, *samples[0].Values["mean_ndvi"], 1e-12)
	assert.Nil(samples[0].Values["bare_pct"])
	assert.Nil(samples[2].Values["mean_ndvi"])
	assert.Equal("low_valid_pixels", samples[2].QAFlag)
}

func TestEncodeClean(t *testing.T) {
	samples, _, err := ioexport.DecodeSamples(
		strings.NewReader(seriesCSV), []string{"mean_ndvi"},
	)
	require.NoError(t, err)
	trend.Sort(samples)

	var buf bytes.Buffer
	require.NoError(t, ioexport.EncodeClean(&buf, samples, []string{"mean_ndvi"}))
	assert.Equal(t, `site_name,site_id,buffer_m,year,image_count,qa_flag,mean_ndvi
A,A_1,1000,2000,2,ok,0.4
A,A_1,1000,2001,3,ok,0.5
A,A_1,1000,2002,0,low_valid_pixels,
`, buf.String())
}

func TestTrendPaths(t *testing.T) {
	s, c := ioexport.TrendPaths("out/mrds_all_sites_1984_2025.csv")
	assert.Equal(t, "out/mrds_all_sites_1984_2025_trend_summary.csv", s)
	assert.Equal(t, "out/mrds_all_sites_1984_2025_clean.csv", c)
}

func TestReadSamplesAndWriteSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping filesystem test in short mode")
	}
	assert := assert.New(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(input, []byte(seriesCSV), 0644))

	metrics := []string{"mean_ndvi"}
	samples, count, err := ioexport.ReadSamples(input, metrics)
	require.NoError(t, err)
	assert.Equal(4, count)

	sum := trend.Summarize(samples, metrics, 2)
	summaryPath, cleanPath := ioexport.TrendPaths(input)
	require.NoError(t, ioexport.WriteSummary(summaryPath, sum))
	require.NoError(t, ioexport.WriteClean(cleanPath, samples, metrics))

	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal("site_name,buffer_m,metric,n_years,start_year,end_year,"+
		"start_value,end_value,abs_change,pct_change,ols_slope_per_year,"+
		"theil_sen_slope_per_year,direction_ols,direction_theil_sen", lines[0])
	assert.True(strings.HasPrefix(lines[1], "A,1000,mean_ndvi,2,2000,2001,"))
	assert.True(strings.HasSuffix(lines[1], ",increasing,increasing"))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("site_name,year\n"), 0644))
	_, _, err = ioexport.ReadSamples(empty, metrics)
	assert.Error(err)
}
