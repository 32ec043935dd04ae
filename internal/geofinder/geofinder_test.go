package geofinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tisseo/mimirsbrunn/app/models"
)

func square(minLon, minLat, maxLon, maxLat float64) models.Polygon {
	return models.Polygon{models.Ring{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
		{Lon: minLon, Lat: minLat},
	}}
}

func admin(id string, level int, poly models.Polygon) *models.Admin {
	return &models.Admin{ID: id, Name: id, Level: level, Boundary: []models.Polygon{poly}}
}

func TestLookupContainment(t *testing.T) {
	city := admin("city", 8, square(2.2, 48.8, 2.5, 48.95))
	dept := admin("dept", 6, square(1.5, 48.0, 3.5, 49.5))
	elsewhere := admin("elsewhere", 8, square(5.0, 43.0, 5.5, 43.5))

	gf := New([]*models.Admin{city, dept, elsewhere})

	got := gf.Lookup(models.Coord{Lon: 2.35, Lat: 48.85})
	require.Len(t, got, 2)
	// ordered by level ascending
	assert.Equal(t, "dept", got[0].ID)
	assert.Equal(t, "city", got[1].ID)

	assert.Empty(t, gf.Lookup(models.Coord{Lon: 0.0, Lat: 0.0}))
}

func TestLookupSameLevelOverlap(t *testing.T) {
	a := admin("a", 8, square(2.0, 48.0, 3.0, 49.0))
	b := admin("b", 8, square(2.0, 48.0, 3.0, 49.0))

	gf := New([]*models.Admin{a, b})

	// overlapping same-level regions are both returned, unfiltered
	got := gf.Lookup(models.Coord{Lon: 2.5, Lat: 48.5})
	assert.Len(t, got, 2)
}

func TestLookupSkipsBoundarylessRegions(t *testing.T) {
	stripped := &models.Admin{ID: "stripped", Level: 8}
	gf := New([]*models.Admin{stripped})
	assert.Empty(t, gf.Lookup(models.Coord{Lon: 2.35, Lat: 48.85}))
}

func TestPolygonWithHole(t *testing.T) {
	poly := models.Polygon{
		square(0, 0, 10, 10)[0],
		square(4, 4, 6, 6)[0], // hole
	}
	gf := New([]*models.Admin{{ID: "donut", Level: 8, Boundary: []models.Polygon{poly}}})

	assert.Len(t, gf.Lookup(models.Coord{Lon: 2, Lat: 2}), 1)
	assert.Empty(t, gf.Lookup(models.Coord{Lon: 5, Lat: 5}))
}

func TestBucketSpanningBoundary(t *testing.T) {
	// bbox spans several longitude degrees; the region must be findable
	// from any of them
	wide := admin("wide", 6, square(-1.7, 47.0, 2.3, 49.0))
	gf := New([]*models.Admin{wide})

	assert.Len(t, gf.Lookup(models.Coord{Lon: -1.5, Lat: 48.0}), 1)
	assert.Len(t, gf.Lookup(models.Coord{Lon: 0.5, Lat: 48.0}), 1)
	assert.Len(t, gf.Lookup(models.Coord{Lon: 2.2, Lat: 48.0}), 1)
}

func TestPointInRingTooFewVertices(t *testing.T) {
	ring := models.Ring{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}}
	assert.False(t, PointInRing(models.Coord{Lon: 0.5, Lat: 0.5}, ring))
}
