package models

import "strconv"

// Coord is a WGS84 coordinate.
//
// Fields follow the ingestion/API convention of (lon, lat). The search
// backend's geo fields use (lat, lon); that swap is done explicitly at the
// backend boundary, never implicitly.
type Coord struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// String renders the coordinate as "lon;lat" with minimal digits,
// matching the format used in document ids.
func (c Coord) String() string {
	return formatFloat(c.Lon) + ";" + formatFloat(c.Lat)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
