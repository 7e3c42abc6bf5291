package iocatalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/gnames/gnsys"
	"github.com/mrds-es/minedist/pkg/catalog"
	"github.com/mrds-es/minedist/pkg/raster"
	"github.com/mrds-es/minedist/pkg/reflectance"
	"github.com/mrds-es/minedist/pkg/site"
	"github.com/mrds-es/minedist/pkg/terrain"
	"github.com/paulmach/orb"
	_ "modernc.org/sqlite"
)

// Layer names of QA bands in the scene_bands table.
const (
	QAPixelBand  = "QA_PIXEL"
	QARadsatBand = "QA_RADSAT"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS mrds (
  id TEXT,
  name TEXT,
  x TEXT,
  y TEXT,
  description TEXT,
  commod1 TEXT,
  dev_stat TEXT,
  oper_type TEXT
);
CREATE TABLE IF NOT EXISTS scenes (
  id TEXT PRIMARY KEY,
  sensor TEXT NOT NULL,
  acquired TEXT NOT NULL,
  cloud_cover REAL NOT NULL,
  sun_azimuth REAL,
  sun_elevation REAL,
  west REAL NOT NULL,
  north REAL NOT NULL,
  pixel_deg REAL NOT NULL,
  width INTEGER NOT NULL,
  height INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS scenes_acquired_idx ON scenes (acquired);
CREATE TABLE IF NOT EXISTS scene_bands (
  scene_id TEXT NOT NULL,
  band TEXT NOT NULL,
  data BLOB NOT NULL,
  PRIMARY KEY (scene_id, band)
);
CREATE TABLE IF NOT EXISTS dem (
  west REAL NOT NULL,
  north REAL NOT NULL,
  pixel_deg REAL NOT NULL,
  width INTEGER NOT NULL,
  height INTEGER NOT NULL,
  data BLOB NOT NULL
);
`

// SQLite is a catalog of sites, scenes and elevation in one SQLite file.
type SQLite struct {
	path   string
	db     *sql.DB
	fields Fields
}

// Open opens an existing SQLite catalog. A missing file is an error,
// a mistyped path must not turn into an empty catalog.
func Open(ctx context.Context, path string, f Fields) (*SQLite, error) {
	exists, err := gnsys.FileExists(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	if !exists {
		return nil, OpenError(path, &gnsys.ErrFileMissing{Path: path})
	}
	return open(ctx, path, f)
}

// Create opens an SQLite catalog for writing, creating the file if it
// does not exist.
func Create(ctx context.Context, path string, f Fields) (*SQLite, error) {
	return open(ctx, path, f)
}

// open makes sure catalog tables exist.
func open(ctx context.Context, path string, f Fields) (*SQLite, error) {
	for _, v := range []string{f.X, f.Y, f.Name} {
		if v != "" && !identRe.MatchString(v) {
			return nil, OpenError(path, fmt.Errorf("bad column name '%s'", v))
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	// sqlite does not support concurrent writers
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}
	slog.Debug("Opened catalog", "path", path)
	return &SQLite{path: path, db: db, fields: f}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Sites implements catalog.SiteCatalog. Site columns are taken from the
// 'mrds' table, coordinate and name columns can be renamed by Fields.
func (s *SQLite) Sites(ctx context.Context, bound orb.Bound) ([]site.Record, error) {
	col := func(name, def string) string {
		if name == "" {
			name = def
		}
		return `"` + name + `"`
	}
	q := fmt.Sprintf(
		`SELECT COALESCE(id, ''), COALESCE(%s, ''), COALESCE(CAST(%s AS TEXT), ''),
		COALESCE(CAST(%s AS TEXT), ''), COALESCE(description, ''),
		COALESCE(commod1, ''), COALESCE(dev_stat, ''), COALESCE(oper_type, '')
		FROM mrds ORDER BY rowid`,
		col(s.fields.Name, "name"), col(s.fields.X, "x"), col(s.fields.Y, "y"),
	)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, SitesError(s.path, err)
	}
	defer rows.Close()

	var res []site.Record
	for rows.Next() {
		var r site.Record
		err = rows.Scan(
			&r.RecordID, &r.Name, &r.X, &r.Y,
			&r.Description, &r.Commodity, &r.ProdStage, &r.OperType,
		)
		if err != nil {
			return nil, SitesError(s.path, err)
		}
		res = append(res, r)
	}
	if err = rows.Err(); err != nil {
		return nil, SitesError(s.path, err)
	}
	return filterBound(res, bound), nil
}

// PutSites appends records to the 'mrds' table.
func (s *SQLite) PutSites(ctx context.Context, recs []site.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SitesError(s.path, err)
	}
	defer tx.Rollback()
	q := `INSERT INTO mrds
		(id, name, x, y, description, commod1, dev_stat, oper_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, r := range recs {
		_, err = tx.ExecContext(ctx, q,
			r.RecordID, r.Name, r.X, r.Y,
			r.Description, r.Commodity, r.ProdStage, r.OperType,
		)
		if err != nil {
			return SitesError(s.path, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return SitesError(s.path, err)
	}
	return nil
}

// Scenes implements catalog.SceneCatalog.
func (s *SQLite) Scenes(ctx context.Context, q catalog.Query) ([]reflectance.RawScene, error) {
	var where []string
	var args []any
	if !q.Start.IsZero() {
		where = append(where, "acquired >= ?")
		args = append(args, q.Start.UTC().Format(time.RFC3339))
	}
	if !q.End.IsZero() {
		where = append(where, "acquired < ?")
		args = append(args, q.End.UTC().Format(time.RFC3339))
	}
	if q.MaxCloud > 0 {
		where = append(where, "cloud_cover < ?")
		args = append(args, q.MaxCloud)
	}
	if !q.Bound.IsZero() {
		where = append(where,
			"west < ?", "west + width * pixel_deg > ?",
			"north > ?", "north - height * pixel_deg < ?",
		)
		args = append(args,
			q.Bound.Max.Lon(), q.Bound.Min.Lon(),
			q.Bound.Min.Lat(), q.Bound.Max.Lat(),
		)
	}
	query := `SELECT id, sensor, acquired, cloud_cover, sun_azimuth,
		sun_elevation, west, north, pixel_deg, width, height FROM scenes`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ScenesError(s.path, err)
	}
	var res []reflectance.RawScene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			rows.Close()
			return nil, ScenesError(s.path, err)
		}
		res = append(res, sc)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, ScenesError(s.path, err)
	}

	for i := range res {
		if err = s.loadBands(ctx, &res[i]); err != nil {
			return nil, ScenesError(s.path, err)
		}
	}
	return res, nil
}

func scanScene(rows *sql.Rows) (reflectance.RawScene, error) {
	var sc reflectance.RawScene
	var sensor, acquired string
	var az, el sql.NullFloat64
	err := rows.Scan(
		&sc.ID, &sensor, &acquired, &sc.CloudCover, &az, &el,
		&sc.Grid.West, &sc.Grid.North, &sc.Grid.PixelDeg,
		&sc.Grid.Width, &sc.Grid.Height,
	)
	if err != nil {
		return sc, err
	}
	if sc.Sensor, err = reflectance.ParseSensor(sensor); err != nil {
		return sc, err
	}
	if sc.Acquired, err = time.Parse(time.RFC3339, acquired); err != nil {
		return sc, err
	}
	if az.Valid {
		sc.SunAzimuth = &az.Float64
	}
	if el.Valid {
		sc.SunElevation = &el.Float64
	}
	return sc, nil
}

func (s *SQLite) loadBands(ctx context.Context, sc *reflectance.RawScene) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT band, data FROM scene_bands WHERE scene_id = ?", sc.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	sc.Bands = make(map[string][]uint16)
	for rows.Next() {
		var band string
		var data []byte
		if err = rows.Scan(&band, &data); err != nil {
			return err
		}
		vals, err := decodeUint16(data)
		if err != nil {
			return fmt.Errorf("scene %s band %s: %w", sc.ID, band, err)
		}
		switch band {
		case QAPixelBand:
			sc.QAPixel = vals
		case QARadsatBand:
			sc.QARadsat = vals
		default:
			sc.Bands[band] = vals
		}
	}
	return rows.Err()
}

// PutScene stores a scene with all its bands.
func (s *SQLite) PutScene(ctx context.Context, sc reflectance.RawScene) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ScenesError(s.path, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scenes (id, sensor, acquired, cloud_cover, sun_azimuth,
		sun_elevation, west, north, pixel_deg, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Sensor.String(), sc.Acquired.UTC().Format(time.RFC3339),
		sc.CloudCover, nullable(sc.SunAzimuth), nullable(sc.SunElevation),
		sc.Grid.West, sc.Grid.North, sc.Grid.PixelDeg,
		sc.Grid.Width, sc.Grid.Height,
	)
	if err != nil {
		return ScenesError(s.path, err)
	}

	bands := make(map[string][]uint16, len(sc.Bands)+2)
	for k, v := range sc.Bands {
		bands[k] = v
	}
	bands[QAPixelBand] = sc.QAPixel
	bands[QARadsatBand] = sc.QARadsat
	for k, v := range bands {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO scene_bands (scene_id, band, data) VALUES (?, ?, ?)",
			sc.ID, k, encodeUint16(v),
		)
		if err != nil {
			return ScenesError(s.path, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return ScenesError(s.path, err)
	}
	return nil
}

// DEM implements catalog.TerrainSource. It returns the first elevation
// grid that intersects the bound.
func (s *SQLite) DEM(ctx context.Context, bound orb.Bound) (terrain.DEM, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT west, north, pixel_deg, width, height, data FROM dem ORDER BY rowid",
	)
	if err != nil {
		return terrain.DEM{}, DEMError(s.path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var g raster.Grid
		var data []byte
		err = rows.Scan(&g.West, &g.North, &g.PixelDeg, &g.Width, &g.Height, &data)
		if err != nil {
			return terrain.DEM{}, DEMError(s.path, err)
		}
		if !bound.IsZero() && !bound.Intersects(g.Bound()) {
			continue
		}
		band, err := decodeElevation(data, g.Len())
		if err != nil {
			return terrain.DEM{}, DEMError(s.path, err)
		}
		return terrain.DEM{Grid: g, Elevation: band}, nil
	}
	if err = rows.Err(); err != nil {
		return terrain.DEM{}, DEMError(s.path, err)
	}
	return terrain.DEM{}, catalog.ErrNoTerrain
}

// PutDEM stores an elevation grid. Masked pixels are stored as NaN.
func (s *SQLite) PutDEM(ctx context.Context, dem terrain.DEM) error {
	g := dem.Grid
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dem (west, north, pixel_deg, width, height, data)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.West, g.North, g.PixelDeg, g.Width, g.Height,
		encodeElevation(dem.Elevation),
	)
	if err != nil {
		return DEMError(s.path, err)
	}
	return nil
}

func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
