package trend_test

import (
	"math"
	"testing"

	"github.com/mrds-es/minedist/pkg/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		msg, in string
		ok      bool
		out     float64
	}{
		{"empty", "", false, 0},
		{"spaces", "  ", false, 0},
		{"number", " 0.25 ", true, 0.25},
		{"negative", "-3", true, -3},
		{"garbage", "abc", false, 0},
		{"nan", "nan", false, 0},
	}
	for _, v := range tests {
		res := trend.ParseValue(v.in)
		if !v.ok {
			assert.Nil(res, v.msg)
			continue
		}
		require.NotNil(t, res, v.msg)
		assert.InDelta(v.out, *res, 1e-12, v.msg)
	}
	res := trend.ParseValue("inf")
	require.NotNil(t, res)
	assert.True(math.IsInf(*res, 1))
}

func TestParseYear(t *testing.T) {
	assert := assert.New(t)
	y := trend.ParseYear("2020.0")
	require.NotNil(t, y)
	assert.Equal(2020, *y)
	y = trend.ParseYear("2020.5")
	require.NotNil(t, y)
	assert.Equal(2020, *y)
	assert.Nil(trend.ParseYear(""))
	assert.Nil(trend.ParseYear("inf"))
}

func TestNewSample(t *testing.T) {
	assert := assert.New(t)
	cells := map[string]string{"mean_ndvi": "0.3", "bare_pct": ""}
	value := func(m string) string { return cells[m] }
	metrics := []string{"mean_ndvi", "bare_pct", "absent"}

	r := trend.RawSample{
		SiteName: " Mina A ", SiteID: "Mina A_1", BufferM: "1000",
		Year: "2021", ImageCount: "4", QAFlag: "ok",
	}
	s, ok := trend.NewSample(r, metrics, value)
	require.True(t, ok)
	assert.Equal("Mina A", s.SiteName)
	assert.Equal(2021, s.Year)
	require.NotNil(t, s.ImageCount)
	assert.Equal(4, *s.ImageCount)
	require.NotNil(t, s.Values["mean_ndvi"])
	assert.InDelta(0.3, *s.Values["mean_ndvi"], 1e-12)
	assert.Nil(s.Values["bare_pct"])
	assert.Nil(s.Values["absent"])
	assert.Len(s.Values, 3)

	r.Year = "x"
	_, ok = trend.NewSample(r, metrics, value)
	assert.False(ok)

	r.Year = "2021"
	r.BufferM = " "
	_, ok = trend.NewSample(r, metrics, value)
	assert.False(ok)
}

func TestParseMetrics(t *testing.T) {
	assert.Equal(t,
		[]string{"mean_ndvi", "bare_pct"},
		trend.ParseMetrics(" mean_ndvi, ,bare_pct,"),
	)
	assert.Nil(t, trend.ParseMetrics(""))
}
