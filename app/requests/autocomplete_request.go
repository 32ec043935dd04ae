package requests

import (
	"math"
	"strings"
	"time"

	"github.com/Tisseo/mimirsbrunn/app/models"
)

// maxTimeoutMs is the largest millisecond value representable as a
// time.Duration; larger caller values are capped here so the conversion
// cannot wrap around and sneak past the server-side clamp.
const maxTimeoutMs = uint64(math.MaxInt64 / int64(time.Millisecond))

// AutocompleteParams are the query-string parameters of /autocomplete.
// Gin's form binding fills defaults for limit and offset; everything else
// is validated by the accessor methods below.
type AutocompleteParams struct {
	Q         string   `form:"q" binding:"required"`
	Datasets  []string `form:"pt_dataset"`
	AllData   bool     `form:"_all_data"`
	Limit     int64    `form:"limit,default=10"`
	Offset    int64    `form:"offset,default=0"`
	TimeoutMs *uint64  `form:"timeout"`
	Lon       *float64 `form:"lon"`
	Lat       *float64 `form:"lat"`
	Types     []string `form:"type"`
	Lang      string   `form:"lang"`
}

// Coord pairs lon and lat into a bias coordinate. Both present yields the
// coordinate, both absent yields nil, one without the other is an error.
func (p *AutocompleteParams) Coord() (*models.Coord, error) {
	switch {
	case p.Lon != nil && p.Lat != nil:
		return &models.Coord{Lon: *p.Lon, Lat: *p.Lat}, nil
	case p.Lon == nil && p.Lat == nil:
		return nil, nil
	default:
		return nil, models.ErrLonLatPair
	}
}

// PlaceTypes parses the raw type tags, rejecting unknown ones.
func (p *AutocompleteParams) PlaceTypes() ([]models.PlaceType, error) {
	if len(p.Types) == 0 {
		return nil, nil
	}
	types := make([]models.PlaceType, 0, len(p.Types))
	for _, raw := range p.Types {
		pt, err := models.ParsePlaceType(raw)
		if err != nil {
			return nil, err
		}
		types = append(types, pt)
	}
	return types, nil
}

// Langs returns the requested languages in preference order.
func (p *AutocompleteParams) Langs() []string {
	if p.Lang == "" {
		return nil
	}
	var langs []string
	for _, l := range strings.Split(p.Lang, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// Timeout converts the millisecond parameter. The boolean tells whether
// the caller supplied one at all. Values too large for time.Duration are
// capped, not wrapped.
func (p *AutocompleteParams) Timeout() (time.Duration, bool) {
	if p.TimeoutMs == nil {
		return 0, false
	}
	ms := *p.TimeoutMs
	if ms > maxTimeoutMs {
		ms = maxTimeoutMs
	}
	return time.Duration(ms) * time.Millisecond, true
}

// ShapeBody is the POST body of a shape-constrained autocomplete call.
// The shape is kept generic here; the geometry layer validates it.
type ShapeBody struct {
	Shape map[string]any `json:"shape" binding:"required"`
}
