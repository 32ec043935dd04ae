package responses

import (
	"time"

	"github.com/Tisseo/mimirsbrunn/app/models"
)

// PlaceResponse is one autocomplete hit, already localized.
type PlaceResponse struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Lang     string   `json:"lang,omitempty"` // language of Label, empty when no lang was requested
	Lon      float64  `json:"lon"`
	Lat      float64  `json:"lat"`
	City     string   `json:"city,omitempty"`
	ZipCodes []string `json:"zip_codes,omitempty"`
	Weight   float64  `json:"weight"`
	Score    float64  `json:"score"`
}

// AutocompleteResponse is the envelope of /autocomplete.
type AutocompleteResponse struct {
	Query            string          `json:"query"`
	Places           []PlaceResponse `json:"places"`
	Total            int             `json:"total"`
	Limit            int64           `json:"limit"`
	Offset           int64           `json:"offset"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	CacheHit         bool            `json:"cache_hit"`
}

// NewPlaceResponse localizes a hit: the label in the first requested
// language that has one, otherwise the default label. The annotated lang
// is the first requested language, regardless of which label matched.
func NewPlaceResponse(p *models.Place, langs []string) PlaceResponse {
	label, _ := p.LabelIn(langs)
	lang := ""
	if len(langs) > 0 {
		lang = langs[0]
	}
	return PlaceResponse{
		ID:       p.ID,
		Type:     p.Type,
		Name:     p.Name,
		Label:    label,
		Lang:     lang,
		Lon:      p.Coord.Lon,
		Lat:      p.Coord.Lat,
		City:     p.City,
		ZipCodes: p.ZipCodes,
		Weight:   p.Weight,
		Score:    p.Score,
	}
}

// ErrorResponse is the common error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse builds the envelope with the current timestamp.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// HealthCheckResponse reports service liveness and dependency status.
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
