package models

import "fmt"

// PlaceType is the closed set of place kinds a caller may filter on.
type PlaceType string

const (
	PlaceTypeCity     PlaceType = "city"
	PlaceTypeHouse    PlaceType = "house"
	PlaceTypePoi      PlaceType = "poi"
	PlaceTypeStopArea PlaceType = "public_transport:stop_area"
	PlaceTypeStreet   PlaceType = "street"
)

// AllPlaceTypes lists the accepted wire names, in a stable order.
var AllPlaceTypes = []PlaceType{
	PlaceTypeCity,
	PlaceTypeHouse,
	PlaceTypePoi,
	PlaceTypeStopArea,
	PlaceTypeStreet,
}

// ParsePlaceType maps a wire name to its PlaceType. Unknown names are
// rejected here, at the request-parsing boundary, so the planner only ever
// sees valid values.
func ParsePlaceType(s string) (PlaceType, error) {
	for _, pt := range AllPlaceTypes {
		if s == string(pt) {
			return pt, nil
		}
	}
	return "", &InvalidParamError{Msg: fmt.Sprintf("invalid type %q", s)}
}

func (pt PlaceType) String() string { return string(pt) }

// Place is a ranked hit returned by the search backend.
type Place struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Label    string            `json:"label"`
	Labels   map[string]string `json:"labels,omitempty"` // lang -> localized label
	Coord    Coord             `json:"coord"`
	Weight   float64           `json:"weight"`
	Score    float64           `json:"score"` // backend ranking score
	ZipCodes []string          `json:"zip_codes,omitempty"`
	City     string            `json:"city,omitempty"`
}

// LabelIn returns the label in the first of langs that has a localized
// label, falling back to the default label, along with the language actually
// used ("" when the default was used).
func (p *Place) LabelIn(langs []string) (string, string) {
	for _, lang := range langs {
		if l, ok := p.Labels[lang]; ok && l != "" {
			return l, lang
		}
	}
	return p.Label, ""
}
