package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/models"
	"github.com/Tisseo/mimirsbrunn/internal/geofinder"
)

const (
	bulkBatchSize = 1000
	adminPageSize = 1000
)

// MeiliConfig configures the Meilisearch backend.
type MeiliConfig struct {
	Host        string
	APIKey      string
	IndexPrefix string   // one index per dataset: <prefix>_<dataset>
	Datasets    []string // every dataset known to this deployment
}

// Meili implements Backend against a Meilisearch cluster.
type Meili struct {
	cli      meilisearch.ServiceManager
	logger   *zap.Logger
	prefix   string
	datasets []string
}

// NewMeili connects to Meilisearch and verifies the instance is reachable.
func NewMeili(cfg MeiliConfig, logger *zap.Logger) (*Meili, error) {
	cli := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	if _, err := cli.Health(); err != nil {
		return nil, &models.BackendError{Err: fmt.Errorf("meilisearch unreachable: %w", err)}
	}
	prefix := cfg.IndexPrefix
	if prefix == "" {
		prefix = "munin"
	}
	return &Meili{
		cli:      cli,
		logger:   logger,
		prefix:   prefix,
		datasets: cfg.Datasets,
	}, nil
}

func (m *Meili) indexName(dataset string) string {
	return m.prefix + "_" + dataset
}

// EnsureIndex provisions the dataset index: creation is idempotent and the
// search/filter/sort settings are (re)applied. The shard and replica counts
// are consumed here; Meilisearch manages its physical layout itself.
func (m *Meili) EnsureIndex(ctx context.Context, dataset string, settings IndexSettings) error {
	uid := m.indexName(dataset)
	if _, err := m.cli.CreateIndex(&meilisearch.IndexConfig{Uid: uid, PrimaryKey: "doc_id"}); err != nil {
		// already-existing indexes are fine, anything else surfaces on
		// UpdateSettings below
		m.logger.Debug("create index", zap.String("index", uid), zap.Error(err))
	}

	index := m.cli.Index(uid)
	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"name", "label", "normalized_label", "zip_codes"},
		FilterableAttributes: []string{"type", "level", "insee", "zip_codes", "_geo"},
		SortableAttributes:   []string{"weight", "_geo"},
		RankingRules: []string{
			"words", "typo", "proximity", "attribute", "sort", "exactness",
			"weight:desc",
		},
	})
	if err != nil {
		return &models.BackendError{Err: fmt.Errorf("provision index %s: %w", uid, err)}
	}
	m.logger.Info("index provisioned",
		zap.String("index", uid),
		zap.Int("nb_shards", settings.NbShards),
		zap.Int("nb_replicas", settings.NbReplicas),
		zap.Int64("task_uid", task.TaskUID))
	return nil
}

// BulkIndex writes addresses in batches, addressed by id (last write wins).
func (m *Meili) BulkIndex(ctx context.Context, dataset string, addrs []*models.Addr) error {
	index := m.cli.Index(m.indexName(dataset))
	for start := 0; start < len(addrs); start += bulkBatchSize {
		end := start + bulkBatchSize
		if end > len(addrs) {
			end = len(addrs)
		}
		docs := make([]map[string]any, 0, end-start)
		for _, a := range addrs[start:end] {
			docs = append(docs, addrDoc(a, dataset))
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		task, err := index.AddDocuments(docs, "doc_id")
		if err != nil {
			return &models.BackendError{Err: fmt.Errorf("bulk index %s: %w", dataset, err)}
		}
		m.logger.Debug("bulk batch submitted",
			zap.String("dataset", dataset),
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}
	return nil
}

// AdminsByDataset pages through every admin doc of the dataset.
func (m *Meili) AdminsByDataset(ctx context.Context, dataset string) ([]*models.Admin, error) {
	index := m.cli.Index(m.indexName(dataset))
	var admins []*models.Admin
	for offset := int64(0); ; offset += adminPageSize {
		resp, err := m.search(ctx, index, "", &meilisearch.SearchRequest{
			Filter: `type = "admin"`,
			Limit:  adminPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, &models.BackendError{Err: fmt.Errorf("fetch admins for %s: %w", dataset, err)}
		}
		for _, hit := range resp.Hits {
			if a := decodeAdmin(hit); a != nil {
				admins = append(admins, a)
			}
		}
		if int64(len(resp.Hits)) < adminPageSize {
			return admins, nil
		}
	}
}

// Autocomplete fans the query out to every target dataset index, merges the
// hits by ranking score and applies pagination across the merged list.
func (m *Meili) Autocomplete(ctx context.Context, q Query) ([]*models.Place, error) {
	if q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.Timeout)
		defer cancel()
	}

	targets := q.Datasets
	if q.AllData || len(targets) == 0 {
		targets = m.datasets
	}

	req := &meilisearch.SearchRequest{
		Limit:            q.Limit + q.Offset,
		Filter:           buildFilter(q),
		ShowRankingScore: true,
	}
	if q.Coord != nil {
		// proximity bias goes through the engine's sort rule, in its
		// (lat, lng) order
		req.Sort = []string{fmt.Sprintf("_geoPoint(%v, %v):asc", q.Coord.Lat, q.Coord.Lon)}
	}

	var hits []*models.Place
	for _, dataset := range targets {
		resp, err := m.search(ctx, m.cli.Index(m.indexName(dataset)), q.Text, req)
		if err != nil {
			return nil, &models.BackendError{Err: fmt.Errorf("autocomplete on %s: %w", dataset, err)}
		}
		for _, hit := range resp.Hits {
			if p := decodePlace(hit); p != nil {
				hits = append(hits, p)
			}
		}
	}

	if len(q.Shape) > 0 {
		hits = filterByRing(hits, q.Shape)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return paginate(hits, q.Offset, q.Limit), nil
}

// search runs one engine call under the context deadline. The engine client
// has no context plumbing, so the deadline is enforced around the call; a
// late response is discarded.
func (m *Meili) search(ctx context.Context, index meilisearch.IndexManager, query string, req *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error) {
	type outcome struct {
		resp *meilisearch.SearchResponse
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		resp, err := index.Search(query, req)
		ch <- outcome{resp, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		return out.resp, out.err
	}
}

func buildFilter(q Query) string {
	var clauses []string
	if len(q.Types) > 0 {
		names := make([]string, 0, len(q.Types))
		for _, t := range q.Types {
			names = append(names, docTypes[t])
		}
		clauses = append(clauses, fmt.Sprintf("type IN [%s]", strings.Join(names, ", ")))
	}
	if len(q.Shape) > 0 {
		minLat, minLon, maxLat, maxLon := ringBBox(q.Shape)
		// coarse engine-side prefilter; the exact ring test runs on the hits
		clauses = append(clauses, fmt.Sprintf("_geoBoundingBox([%v, %v], [%v, %v])",
			maxLat, maxLon, minLat, minLon))
	}
	return strings.Join(clauses, " AND ")
}

func ringBBox(ring [][2]float64) (minLat, minLon, maxLat, maxLon float64) {
	minLat, minLon = 90, 180
	maxLat, maxLon = -90, -180
	for _, v := range ring {
		if v[0] < minLat {
			minLat = v[0]
		}
		if v[0] > maxLat {
			maxLat = v[0]
		}
		if v[1] < minLon {
			minLon = v[1]
		}
		if v[1] > maxLon {
			maxLon = v[1]
		}
	}
	return
}

func filterByRing(hits []*models.Place, shape [][2]float64) []*models.Place {
	ring := make(models.Ring, len(shape))
	for i, v := range shape {
		ring[i] = models.Coord{Lat: v[0], Lon: v[1]}
	}
	kept := hits[:0]
	for _, h := range hits {
		if geofinder.PointInRing(h.Coord, ring) {
			kept = append(kept, h)
		}
	}
	return kept
}

func paginate(hits []*models.Place, offset, limit int64) []*models.Place {
	if offset >= int64(len(hits)) {
		return nil
	}
	hits = hits[offset:]
	if limit < int64(len(hits)) {
		hits = hits[:limit]
	}
	return hits
}
