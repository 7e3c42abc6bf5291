package site

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"regexp"
)

// DefaultSeed is the partition seed used when none is given.
const DefaultSeed = 1337

var cleanRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Scope selects a subset of sites for one run.
// Modes are checked in this order: SiteID, SiteName, partition, all.
type Scope struct {
	SiteID         string
	SiteName       string
	PartitionCount int
	PartitionIndex int
	Seed           int64
}

// IsPartition returns true if the scope selects a seeded partition.
func (s Scope) IsPartition() bool {
	return s.SiteID == "" && s.SiteName == "" && s.PartitionCount > 1
}

// Validate checks partition settings.
func (s Scope) Validate() error {
	if s.PartitionCount < 0 {
		return fmt.Errorf("partition count %d is negative", s.PartitionCount)
	}
	if s.PartitionCount > 1 &&
		(s.PartitionIndex < 0 || s.PartitionIndex >= s.PartitionCount) {
		return fmt.Errorf(
			"partition index %d is out of range [0, %d)",
			s.PartitionIndex, s.PartitionCount,
		)
	}
	return nil
}

// Apply returns sites selected by the scope. Sites keep their input order.
// Applying the same scope to its own output returns the same sites.
func (s Scope) Apply(sites []Site) []Site {
	var res []Site
	switch {
	case s.SiteID != "":
		for _, v := range sites {
			if v.ID == s.SiteID {
				res = append(res, v)
			}
		}
	case s.SiteName != "":
		for _, v := range sites {
			if v.Name == s.SiteName {
				res = append(res, v)
			}
		}
	case s.PartitionCount > 1:
		lo := float64(s.PartitionIndex) / float64(s.PartitionCount)
		hi := float64(s.PartitionIndex+1) / float64(s.PartitionCount)
		for _, v := range sites {
			r := Random(s.Seed, v.ID)
			if r >= lo && r < hi {
				res = append(res, v)
			}
		}
	default:
		res = make([]Site, len(sites))
		copy(res, sites)
	}
	return res
}

// Tag returns a short label for the scope that is used in file names.
// Site name takes precedence over site id.
func (s Scope) Tag() string {
	switch {
	case s.SiteName != "":
		return "site_" + clean(s.SiteName)
	case s.SiteID != "":
		return "siteid_" + clean(s.SiteID)
	case s.PartitionCount > 1:
		return fmt.Sprintf("part_%d_of_%d", s.PartitionIndex, s.PartitionCount)
	default:
		return "all_sites"
	}
}

// Random returns a deterministic value in [0, 1) for a site id and seed.
func Random(seed int64, id string) float64 {
	h := fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(seed))
	_, _ = h.Write(b[:])
	_, _ = h.Write([]byte(id))
	x := splitmix64(h.Sum64())
	return float64(x>>11) / (1 << 53)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func clean(s string) string {
	res := cleanRe.ReplaceAllString(s, "_")
	if len(res) > 40 {
		res = res[:40]
	}
	return res
}
