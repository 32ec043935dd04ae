package search

import (
	"strings"

	"github.com/Tisseo/mimirsbrunn/app/models"
	"github.com/Tisseo/mimirsbrunn/internal/normalizer"
)

// addrDoc flattens a canonical address into an index document. The entity
// id keeps its "addr:<lon>;<lat>" form in the id field; doc_id is the
// engine primary key, which only accepts [A-Za-z0-9_-].
func addrDoc(a *models.Addr, dataset string) map[string]any {
	regions := make([]map[string]any, 0, len(a.Street.Admins))
	city := ""
	for _, adm := range a.Street.Admins {
		regions = append(regions, map[string]any{
			"id":    adm.ID,
			"name":  adm.Name,
			"level": adm.Level,
		})
		if adm.IsCity() {
			city = adm.Name
		}
	}
	return map[string]any{
		"doc_id":           sanitizeID(a.ID),
		"id":               a.ID,
		"type":             docTypes[models.PlaceTypeHouse],
		"name":             a.Name,
		"label":            a.Label,
		"normalized_label": normalizer.Fold(a.Label),
		"house_number":     a.HouseNumber,
		"street_id":        a.Street.ID,
		"street_name":      a.Street.Name,
		"street_label":     a.Street.Label,
		"administrative_regions": regions,
		"city":             city,
		"weight":           a.Weight,
		"zip_codes":        a.ZipCodes,
		"dataset":          dataset,
		"_geo":             map[string]any{"lat": a.Coord.Lat, "lng": a.Coord.Lon},
	}
}

func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
}

// decodePlace converts one engine hit into a Place. Hits that are not JSON
// objects or carry no id are dropped.
func decodePlace(hit any) *models.Place {
	m, ok := hit.(map[string]any)
	if !ok {
		return nil
	}
	p := &models.Place{
		ID:       str(m, "id"),
		Type:     str(m, "type"),
		Name:     str(m, "name"),
		Label:    str(m, "label"),
		City:     str(m, "city"),
		Weight:   num(m, "weight"),
		Score:    num(m, "_rankingScore"),
		ZipCodes: strSlice(m, "zip_codes"),
		Coord:    decodeGeo(m),
	}
	if p.ID == "" {
		return nil
	}
	if labels, ok := m["labels"].(map[string]any); ok {
		p.Labels = make(map[string]string, len(labels))
		for lang, v := range labels {
			if s, ok := v.(string); ok {
				p.Labels[lang] = s
			}
		}
	}
	return p
}

// decodeAdmin converts one engine hit into an Admin, boundary included.
func decodeAdmin(hit any) *models.Admin {
	m, ok := hit.(map[string]any)
	if !ok {
		return nil
	}
	a := &models.Admin{
		ID:       str(m, "id"),
		Name:     str(m, "name"),
		Level:    int(num(m, "level")),
		Weight:   num(m, "weight"),
		Insee:    str(m, "insee"),
		ZipCodes: strSlice(m, "zip_codes"),
		Coord:    decodeGeo(m),
	}
	if a.ID == "" {
		return nil
	}
	if raw, ok := m["boundary"].([]any); ok {
		a.Boundary = decodeBoundary(raw)
	}
	return a
}

// decodeBoundary reads MultiPolygon-shaped coordinates:
// polygons > rings > vertices in (lon, lat) order.
func decodeBoundary(raw []any) []models.Polygon {
	var polys []models.Polygon
	for _, rawPoly := range raw {
		rings, ok := rawPoly.([]any)
		if !ok {
			continue
		}
		var poly models.Polygon
		for _, rawRing := range rings {
			vertices, ok := rawRing.([]any)
			if !ok {
				continue
			}
			var ring models.Ring
			for _, rawVertex := range vertices {
				v, ok := rawVertex.([]any)
				if !ok || len(v) < 2 {
					continue
				}
				lon, okLon := v[0].(float64)
				lat, okLat := v[1].(float64)
				if !okLon || !okLat {
					continue
				}
				ring = append(ring, models.Coord{Lon: lon, Lat: lat})
			}
			if len(ring) > 0 {
				poly = append(poly, ring)
			}
		}
		if len(poly) > 0 {
			polys = append(polys, poly)
		}
	}
	return polys
}

func decodeGeo(m map[string]any) models.Coord {
	geo, ok := m["_geo"].(map[string]any)
	if !ok {
		return models.Coord{}
	}
	return models.Coord{Lon: num(geo, "lng"), Lat: num(geo, "lat")}
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func num(m map[string]any, key string) float64 {
	f, _ := m[key].(float64)
	return f
}

func strSlice(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
