// Package search defines the contract with the place index backend and its
// Meilisearch implementation.
package search

import (
	"context"
	"time"

	"github.com/Tisseo/mimirsbrunn/app/models"
)

// IndexSettings carries the provisioning parameters applied once per
// dataset, before any bulk write. Shard mechanics belong to the engine; the
// values are consumed here, not interpreted.
type IndexSettings struct {
	NbShards   int
	NbReplicas int
}

// Query is a planned, validated autocomplete request: every field has been
// checked by the query planner before it reaches a backend.
type Query struct {
	Text     string
	Datasets []string
	AllData  bool
	Types    []models.PlaceType
	Limit    int64
	Offset   int64
	Coord    *models.Coord // proximity bias, nil when absent
	Shape    [][2]float64  // containment ring in (lat, lon) order, nil when absent
	Timeout  time.Duration
}

// Backend is the consumed search/index interface. Implementations wrap all
// engine failures in *models.BackendError.
type Backend interface {
	// EnsureIndex provisions the dataset's index with the given settings.
	EnsureIndex(ctx context.Context, dataset string, settings IndexSettings) error
	// BulkIndex writes a batch of canonical addresses into the dataset.
	BulkIndex(ctx context.Context, dataset string, addrs []*models.Addr) error
	// AdminsByDataset returns the administrative regions indexed for the
	// dataset, boundaries included.
	AdminsByDataset(ctx context.Context, dataset string) ([]*models.Admin, error)
	// Autocomplete runs the planned query and returns ranked hits.
	Autocomplete(ctx context.Context, q Query) ([]*models.Place, error)
}

// docTypes maps public place-type wire names to the doc types stored in the
// index. The table is the single source of truth for that mapping; admins
// are indexed as "admin" whatever their level, and the "city" filter targets
// them.
var docTypes = map[models.PlaceType]string{
	models.PlaceTypeCity:     "admin",
	models.PlaceTypeHouse:    "addr",
	models.PlaceTypePoi:      "poi",
	models.PlaceTypeStopArea: "stop_area",
	models.PlaceTypeStreet:   "street",
}
