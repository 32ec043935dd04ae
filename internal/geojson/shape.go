// Package geojson extracts the one accepted geometry shape — a feature
// wrapping a single polygon ring — from a decoded GeoJSON value.
package geojson

import (
	"github.com/Tisseo/mimirsbrunn/app/models"
)

// ExtractRing validates the shape and returns its ring with each vertex
// remapped from GeoJSON (lon, lat, ...) order to the backend's (lat, lon)
// order. Extra dimensions (altitude...) are discarded; vertices with fewer
// than two components are silently dropped.
func ExtractRing(shape map[string]any) ([][2]float64, error) {
	if str(shape, "type") != "Feature" {
		return nil, &models.InvalidShapeError{Reason: "only feature is supported"}
	}
	geom, ok := shape["geometry"].(map[string]any)
	if !ok {
		return nil, &models.InvalidShapeError{Reason: "no geometry"}
	}
	if str(geom, "type") != "Polygon" {
		return nil, &models.InvalidShapeError{Reason: "only polygon are supported"}
	}
	rings, ok := geom["coordinates"].([]any)
	if !ok || len(rings) != 1 {
		return nil, &models.InvalidShapeError{Reason: "only polygon without holes are supported"}
	}
	outer, ok := rings[0].([]any)
	if !ok {
		return nil, &models.InvalidShapeError{Reason: "only polygon without holes are supported"}
	}

	ring := make([][2]float64, 0, len(outer))
	for _, v := range outer {
		vertex, ok := v.([]any)
		if !ok || len(vertex) < 2 {
			continue
		}
		lon, okLon := toFloat(vertex[0])
		lat, okLat := toFloat(vertex[1])
		if !okLon || !okLat {
			continue
		}
		ring = append(ring, [2]float64{lat, lon})
	}
	return ring, nil
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
