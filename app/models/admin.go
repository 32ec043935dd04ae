package models

// Ring is a closed sequence of boundary vertices in (lon, lat) order.
type Ring []Coord

// Polygon is a list of rings: the first is the outer ring, any further
// rings are holes, per the GeoJSON convention.
type Polygon []Ring

// Admin is an administrative region (country, region, department, city...).
type Admin struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Level    int       `json:"level"`
	Weight   float64   `json:"weight"`
	Insee    string    `json:"insee,omitempty"`
	ZipCodes []string  `json:"zip_codes,omitempty"`
	Coord    Coord     `json:"coord"`
	Boundary []Polygon `json:"-"` // nil once stripped to save memory
}

// LevelCity is the administrative depth of a city/municipality.
const LevelCity = 8

// IsCity reports whether the region is at city/municipality depth.
func (a *Admin) IsCity() bool {
	return a.Level == LevelCity
}
