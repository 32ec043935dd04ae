// Package bano turns raw BANO address records into canonical indexed
// address entities, enriched with their administrative hierarchy.
package bano

import (
	"fmt"
	"strings"

	"github.com/Tisseo/mimirsbrunn/app/models"
	"github.com/Tisseo/mimirsbrunn/internal/geofinder"
)

// Record is one raw BANO row. The composite identifier encodes the insee
// code (first 5 characters) and the fantoir street code (first 10).
type Record struct {
	ID          string
	HouseNumber string
	Street      string
	ZipCode     string
	City        string
	Source      string
	Lat         float64
	Lon         float64
}

// Insee returns the record's insee code, with leading zeros stripped.
// Valid only after the identifier length has been checked.
func (r Record) Insee() string {
	return strings.TrimLeft(r.ID[:5], "0")
}

// Fantoir returns the record's fantoir-like street code.
func (r Record) Fantoir() string {
	return r.ID[:10]
}

// Coord returns the record coordinate in (lon, lat) order.
func (r Record) Coord() models.Coord {
	return models.Coord{Lon: r.Lon, Lat: r.Lat}
}

// ToAddr builds the canonical address for the record.
//
// The admin chain comes from the geofinder; when adminsByInsee holds the
// record's insee code, that region is authoritative: every geofinder region
// at its level is dropped and the override appended, regions at other levels
// are kept. Override entries are expected to have their boundary stripped —
// only id, level, name and weight are read here.
func (r Record) ToAddr(adminsByInsee map[string]*models.Admin, finder *geofinder.GeoFinder) (*models.Addr, error) {
	if len(r.ID) < 10 {
		return nil, &models.MalformedIdentifierError{ID: r.ID}
	}

	coord := r.Coord()
	admins := finder.Lookup(coord)
	if override, ok := adminsByInsee[r.Insee()]; ok {
		kept := admins[:0]
		for _, a := range admins {
			if a.Level != override.Level {
				kept = append(kept, a)
			}
		}
		admins = append(kept, override)
	}

	weight := 0.0
	for _, a := range admins {
		if a.IsCity() {
			weight = a.Weight
			break
		}
	}

	name := fmt.Sprintf("%s %s", r.HouseNumber, r.Street)
	street := models.Street{
		ID:       "street:" + r.Fantoir(),
		Name:     r.Street,
		Label:    fmt.Sprintf("%s (%s)", r.Street, r.City),
		Admins:   admins,
		Weight:   weight,
		ZipCodes: []string{r.ZipCode},
		Coord:    coord,
	}
	return &models.Addr{
		ID:          "addr:" + coord.String(),
		Name:        name,
		HouseNumber: r.HouseNumber,
		Street:      street,
		Label:       fmt.Sprintf("%s (%s)", name, r.City),
		Coord:       coord,
		Weight:      weight,
		ZipCodes:    []string{r.ZipCode},
	}, nil
}
