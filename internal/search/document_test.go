package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tisseo/mimirsbrunn/app/models"
)

func TestAddrDoc(t *testing.T) {
	addr := &models.Addr{
		ID:          "addr:2.35;48.85",
		Name:        "12 Rue A",
		HouseNumber: "12",
		Label:       "12 Rue A (Paris)",
		Coord:       models.Coord{Lon: 2.35, Lat: 48.85},
		Weight:      42,
		ZipCodes:    []string{"75001"},
		Street: models.Street{
			ID:    "street:0123456789",
			Name:  "Rue A",
			Label: "Rue A (Paris)",
			Admins: []*models.Admin{
				{ID: "admin:fr:75056", Name: "Paris", Level: 8},
				{ID: "admin:fr:11", Name: "Île-de-France", Level: 4},
			},
		},
	}

	doc := addrDoc(addr, "fr")

	assert.Equal(t, "addr-2-35-48-85", doc["doc_id"], "engine primary key is sanitized")
	assert.Equal(t, "addr:2.35;48.85", doc["id"], "entity id keeps its form")
	assert.Equal(t, "addr", doc["type"])
	assert.Equal(t, "12 rue a (paris)", doc["normalized_label"])
	assert.Equal(t, "Paris", doc["city"])
	assert.Equal(t, "fr", doc["dataset"])
	assert.Equal(t, map[string]any{"lat": 48.85, "lng": 2.35}, doc["_geo"])
}

func TestDecodePlace(t *testing.T) {
	hit := map[string]any{
		"id":            "addr:2.35;48.85",
		"type":          "addr",
		"name":          "12 Rue A",
		"label":         "12 Rue A (Paris)",
		"labels":        map[string]any{"en": "12 A Street (Paris)"},
		"city":          "Paris",
		"weight":        42.0,
		"_rankingScore": 0.93,
		"zip_codes":     []any{"75001"},
		"_geo":          map[string]any{"lat": 48.85, "lng": 2.35},
	}

	p := decodePlace(hit)
	require.NotNil(t, p)
	assert.Equal(t, "addr:2.35;48.85", p.ID)
	assert.Equal(t, 0.93, p.Score)
	assert.Equal(t, 42.0, p.Weight)
	assert.Equal(t, []string{"75001"}, p.ZipCodes)
	assert.Equal(t, models.Coord{Lon: 2.35, Lat: 48.85}, p.Coord)
	assert.Equal(t, "12 A Street (Paris)", p.Labels["en"])
}

func TestDecodePlaceRejectsJunk(t *testing.T) {
	assert.Nil(t, decodePlace("not an object"))
	assert.Nil(t, decodePlace(map[string]any{"name": "no id"}))
}

func TestDecodeAdminWithBoundary(t *testing.T) {
	hit := map[string]any{
		"id":     "admin:fr:75056",
		"name":   "Paris",
		"type":   "admin",
		"level":  8.0,
		"weight": 42.0,
		"insee":  "75056",
		"boundary": []any{
			[]any{ // one polygon
				[]any{ // outer ring
					[]any{2.2, 48.8},
					[]any{2.5, 48.8},
					[]any{2.5, 48.95},
					[]any{2.2, 48.8},
				},
			},
		},
	}

	a := decodeAdmin(hit)
	require.NotNil(t, a)
	assert.Equal(t, 8, a.Level)
	assert.Equal(t, "75056", a.Insee)
	require.Len(t, a.Boundary, 1)
	require.Len(t, a.Boundary[0], 1)
	assert.Equal(t, models.Coord{Lon: 2.2, Lat: 48.8}, a.Boundary[0][0][0])
}
