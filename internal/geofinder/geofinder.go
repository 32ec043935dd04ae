// Package geofinder answers point-containment queries against
// administrative region boundaries.
package geofinder

import (
	"math"
	"sort"

	"github.com/Tisseo/mimirsbrunn/app/models"
)

// GeoFinder is a spatial index over administrative boundaries. It is built
// once from a snapshot of regions and is immutable afterwards, so any number
// of workers may query it concurrently without locking.
type GeoFinder struct {
	buckets map[int][]entry
}

type entry struct {
	admin *models.Admin
	bbox  bbox
}

// bbox is minLon, minLat, maxLon, maxLat.
type bbox [4]float64

func (b bbox) contains(c models.Coord) bool {
	return c.Lon >= b[0] && c.Lon <= b[2] && c.Lat >= b[1] && c.Lat <= b[3]
}

// New indexes the given regions by bounding box, bucketed per longitude
// degree, so a lookup runs exact geometry tests only against bbox
// candidates. Regions without boundary geometry are skipped.
func New(admins []*models.Admin) *GeoFinder {
	gf := &GeoFinder{buckets: make(map[int][]entry)}
	for _, a := range admins {
		if len(a.Boundary) == 0 {
			continue
		}
		e := entry{admin: a, bbox: boundaryBBox(a.Boundary)}
		lo := int(math.Floor(e.bbox[0]))
		hi := int(math.Floor(e.bbox[2]))
		for d := lo; d <= hi; d++ {
			gf.buckets[d] = append(gf.buckets[d], e)
		}
	}
	return gf
}

// Lookup returns every region whose boundary contains the point, ordered by
// administrative level ascending. Overlapping regions at the same level are
// all returned; deduplication is left to the insee override step of the
// enrichment.
func (gf *GeoFinder) Lookup(c models.Coord) []*models.Admin {
	var out []*models.Admin
	for _, e := range gf.buckets[int(math.Floor(c.Lon))] {
		if !e.bbox.contains(c) {
			continue
		}
		if boundaryContains(e.admin.Boundary, c) {
			out = append(out, e.admin)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}

func boundaryContains(polys []models.Polygon, c models.Coord) bool {
	for _, p := range polys {
		if polygonContains(p, c) {
			return true
		}
	}
	return false
}

// polygonContains applies the even-odd rule: inside the outer ring and
// outside every hole.
func polygonContains(p models.Polygon, c models.Coord) bool {
	if len(p) == 0 || !PointInRing(c, p[0]) {
		return false
	}
	for _, hole := range p[1:] {
		if PointInRing(c, hole) {
			return false
		}
	}
	return true
}

// PointInRing runs a ray-casting test of c against the ring. The epsilon on
// the edge slope keeps horizontal edges from dividing by zero.
func PointInRing(c models.Coord, ring models.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat
		if ((yi > c.Lat) != (yj > c.Lat)) &&
			c.Lon < (xj-xi)*(c.Lat-yi)/(yj-yi+1e-12)+xi {
			inside = !inside
		}
	}
	return inside
}

func boundaryBBox(polys []models.Polygon) bbox {
	b := bbox{180, 90, -180, -90}
	for _, p := range polys {
		for _, ring := range p {
			for _, pt := range ring {
				if pt.Lon < b[0] {
					b[0] = pt.Lon
				}
				if pt.Lat < b[1] {
					b[1] = pt.Lat
				}
				if pt.Lon > b[2] {
					b[2] = pt.Lon
				}
				if pt.Lat > b[3] {
					b[3] = pt.Lat
				}
			}
		}
	}
	return b
}
