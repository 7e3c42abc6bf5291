package schema_test

import (
	"testing"
	"time"

	"github.com/mrds-es/minedist/pkg/export"
	"github.com/mrds-es/minedist/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneYearStatTableDDL(t *testing.T) {
	assert := assert.New(t)
	z := schema.ZoneYearStat{}
	ddl := z.TableDDL()

	assert.Contains(ddl, "CREATE TABLE zone_year_stats")
	assert.Contains(ddl, "id BIGSERIAL PRIMARY KEY")
	assert.Contains(ddl, "run_id UUID NOT NULL")
	assert.Contains(ddl, "mean_ndvi DOUBLE PRECISION")
	assert.Contains(ddl, "qa_flag VARCHAR(50) NOT NULL")
	assert.Len(z.IndexDDL(), 2)
	assert.Equal("zone_year_stats", z.TableName())
}

func TestColumnsMatchValues(t *testing.T) {
	cols := schema.Columns(schema.ZoneYearStat{}, "id")
	vals := schema.ZoneYearStat{}.Values()
	require.Len(t, vals, len(cols))
	assert.Equal(t, "run_id", cols[0])
	assert.Equal(t, "qa_flag", cols[len(cols)-1])
	assert.NotContains(t, cols, "id")
}

func TestNewZoneYearStat(t *testing.T) {
	assert := assert.New(t)
	ndvi := 0.15
	r := export.Row{
		SiteID:     "Mina A_1",
		Year:       2021,
		BufferM:    1000,
		MeanNDVI:   &ndvi,
		StartDate:  "2020-11-01",
		EndDate:    "2021-04-30",
		ImageCount: 3,
		QAFlag:     "ok",
	}
	now := time.Now()
	z := schema.NewZoneYearStat("run", now, r)
	assert.Equal("run", z.RunID)
	assert.Equal(now, z.CreatedAt)
	assert.Equal("Mina A_1", z.SiteID)
	assert.Equal(&ndvi, z.MeanNDVI)
	assert.Nil(z.MedianNDVI)
	assert.Equal(time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC), z.StartDate)

	vals := z.Values()
	assert.Equal("run", vals[0])
	assert.Equal("ok", vals[len(vals)-1])
}

var _ schema.DDLGenerator = schema.ZoneYearStat{}
