// Package ranker breaks ranking-score ties among backend hits with string
// similarity against the query. Backend relevance order is otherwise
// preserved.
package ranker

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"github.com/Tisseo/mimirsbrunn/app/models"
	"github.com/Tisseo/mimirsbrunn/internal/normalizer"
)

// Rerank reorders each contiguous run of hits sharing a backend score by
// Jaro-Winkler similarity of their name to the query, then by Levenshtein
// distance. Hits with distinct scores keep their backend order.
func Rerank(places []*models.Place, query string) {
	if len(places) < 2 {
		return
	}
	q := normalizer.Fold(query)
	start := 0
	for i := 1; i <= len(places); i++ {
		if i == len(places) || places[i].Score != places[start].Score {
			rerankRun(places[start:i], q)
			start = i
		}
	}
}

func rerankRun(run []*models.Place, q string) {
	if len(run) < 2 {
		return
	}
	sim := make(map[*models.Place]float64, len(run))
	dist := make(map[*models.Place]int, len(run))
	for _, p := range run {
		name := normalizer.Fold(p.Name)
		sim[p] = smetrics.JaroWinkler(q, name, 0.7, 4)
		dist[p] = levenshtein.ComputeDistance(q, name)
	}
	sort.SliceStable(run, func(i, j int) bool {
		if sim[run[i]] != sim[run[j]] {
			return sim[run[i]] > sim[run[j]]
		}
		return dist[run[i]] < dist[run[j]]
	})
}
