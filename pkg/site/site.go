// Package site turns raw mineral-occurrence records into validated sites
// and scopes the site set for bounded batch runs.
package site

import (
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gnuuid"
	"github.com/paulmach/orb"
)

const (
	// UnknownSite is used as a name when a record has no name.
	UnknownSite = "unknown_site"
	// Unknown is the default for missing free-text metadata.
	Unknown = "unknown"
)

var coordRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Record is a raw row from a site catalog. Coordinates are kept as text
// because catalogs often contain blanks or garbage in them.
type Record struct {
	RecordID    string `csv:"id"          db:"id"`
	Name        string `csv:"Name"        db:"name"`
	X           string `csv:"X"           db:"x"`
	Y           string `csv:"Y"           db:"y"`
	Description string `csv:"description" db:"description"`
	Commodity   string `csv:"commod1"     db:"commod1"`
	ProdStage   string `csv:"dev_stat"    db:"dev_stat"`
	OperType    string `csv:"oper_type"   db:"oper_type"`
}

// Site is a validated mineral occurrence. It does not change after
// ingestion.
type Site struct {
	ID          string
	Name        string
	RawX        string
	RawY        string
	Point       orb.Point
	ProdStage   string
	Commodities string
	OperType    string
	Valid       bool
}

// Filter narrows ingested sites.
type Filter struct {
	// TargetNames keeps only sites with one of these names when not empty.
	TargetNames []string
	// Bound keeps only sites inside of it when it is not zero.
	Bound orb.Bound
}

// ParseCoord parses a coordinate written as a plain decimal number.
// Exponents, thousands separators, or surrounding text make it invalid.
func ParseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !coordRe.MatchString(s) {
		return 0, false
	}
	res, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return res, true
}

// New creates a Site from a record. The returned site has Valid set to
// false when any of the coordinates cannot be parsed, and its Point is
// zero in that case.
func New(r Record) Site {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = UnknownSite
	}
	recID := strings.TrimSpace(r.RecordID)
	if recID == "" {
		recID = gnuuid.New(name + "|" + r.X + "|" + r.Y).String()
	}

	commod := orDefault(r.Commodity)
	if commod == Unknown && r.Description != "" {
		commod = Commodity(r.Description)
	}

	res := Site{
		ID:          name + "_" + recID,
		Name:        name,
		RawX:        r.X,
		RawY:        r.Y,
		ProdStage:   orDefault(r.ProdStage),
		Commodities: commod,
		OperType:    orDefault(r.OperType),
	}

	x, okX := ParseCoord(r.X)
	y, okY := ParseCoord(r.Y)
	if okX && okY {
		res.Point = orb.Point{x, y}
		res.Valid = true
	}
	return res
}

// Ingest converts records to sites, drops records with invalid
// coordinates, and applies the filter. Order of records is preserved.
// Site IDs are unique in the result, only the first record of an ID is
// kept.
func Ingest(recs []Record, f Filter) []Site {
	res := make([]Site, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		s := New(r)
		if !s.Valid {
			continue
		}
		if !f.Bound.IsZero() && !f.Bound.Contains(s.Point) {
			continue
		}
		if len(f.TargetNames) > 0 && !slices.Contains(f.TargetNames, s.Name) {
			continue
		}
		if _, ok := seen[s.ID]; ok {
			slog.Warn("Duplicate site ignored",
				"site_id", s.ID, "x", s.RawX, "y", s.RawY)
			continue
		}
		seen[s.ID] = struct{}{}
		res = append(res, s)
	}
	return res
}

func orDefault(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}
