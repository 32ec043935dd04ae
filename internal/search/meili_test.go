package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tisseo/mimirsbrunn/app/models"
)

func TestBuildFilterTypes(t *testing.T) {
	q := Query{Types: []models.PlaceType{models.PlaceTypeCity, models.PlaceTypeHouse}}
	assert.Equal(t, "type IN [admin, addr]", buildFilter(q))

	assert.Equal(t, "", buildFilter(Query{}), "no types, no shape: no filter")
}

func TestBuildFilterShape(t *testing.T) {
	q := Query{Shape: [][2]float64{{48.8, 2.2}, {48.8, 2.5}, {48.95, 2.5}, {48.8, 2.2}}}
	assert.Equal(t, "_geoBoundingBox([48.95, 2.5], [48.8, 2.2])", buildFilter(q))
}

func TestBuildFilterCombined(t *testing.T) {
	q := Query{
		Types: []models.PlaceType{models.PlaceTypeStreet},
		Shape: [][2]float64{{48.8, 2.2}, {48.95, 2.5}},
	}
	assert.Equal(t,
		"type IN [street] AND _geoBoundingBox([48.95, 2.5], [48.8, 2.2])",
		buildFilter(q))
}

func TestFilterByRing(t *testing.T) {
	ring := [][2]float64{{48.8, 2.2}, {48.8, 2.5}, {48.95, 2.5}, {48.95, 2.2}, {48.8, 2.2}}
	inside := &models.Place{ID: "in", Coord: models.Coord{Lon: 2.35, Lat: 48.85}}
	// inside the bbox the engine prefilters on, but outside nothing here —
	// the exact test is what rejects points the bbox let through
	outside := &models.Place{ID: "out", Coord: models.Coord{Lon: 3.0, Lat: 48.85}}

	kept := filterByRing([]*models.Place{inside, outside}, ring)
	if assert.Len(t, kept, 1) {
		assert.Equal(t, "in", kept[0].ID)
	}
}

func TestPaginate(t *testing.T) {
	hits := []*models.Place{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Len(t, paginate(hits, 0, 10), 3)
	assert.Len(t, paginate(hits, 0, 2), 2)

	page := paginate(hits, 1, 2)
	if assert.Len(t, page, 2) {
		assert.Equal(t, "b", page[0].ID)
	}

	assert.Empty(t, paginate(hits, 3, 10), "offset past the end")
}

func TestDocTypeTableCoversAllPlaceTypes(t *testing.T) {
	for _, pt := range models.AllPlaceTypes {
		assert.NotEmpty(t, docTypes[pt], "missing doc type for %s", pt)
	}
}
