package recommendations

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Strategy names, in merge order.
const (
	SourceCollaborative = "collaborative"
	SourceContent       = "content"
	SourcePopularity    = "popularity"
	SourceTimeContext   = "time_context"
)

var sourceWeights = map[string]float64{
	SourceCollaborative: 0.4,
	SourceContent:       0.3,
	SourcePopularity:    0.2,
	SourceTimeContext:   0.1,
}

type candidate struct {
	ProductID uuid.UUID
	Score     float64
	Reason    string
}

type source struct {
	name       string
	weight     float64
	candidates []candidate
}

type merged struct {
	ProductID uuid.UUID
	Score     float64
	Reasons   []string
	Sources   []string
}

// merge folds every source into one list keyed by product:
// score = sum(candidate score x source weight). Ties sort by product id.
func merge(sources []source) []merged {
	byID := make(map[uuid.UUID]*merged)
	order := make([]uuid.UUID, 0)

	for _, src := range sources {
		for _, c := range src.candidates {
			entry, ok := byID[c.ProductID]
			if !ok {
				entry = &merged{ProductID: c.ProductID}
				byID[c.ProductID] = entry
				order = append(order, c.ProductID)
			}
			entry.Score += c.Score * src.weight
			if c.Reason != "" {
				entry.Reasons = append(entry.Reasons, c.Reason)
			}
			if !contains(entry.Sources, src.name) {
				entry.Sources = append(entry.Sources, src.name)
			}
		}
	}

	out := make([]merged, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
