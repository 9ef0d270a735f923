package usecase

import (
	"sort"

	"github.com/farofertas/backend/internal/domain"
)

// Finalize orders candidates by price ascending, then rating and sold
// descending, keeps the first limit entries and drops repeated id|url pairs.
//
// Deduplication runs after truncation, so the result may hold fewer than limit
// products even when more unique candidates were collected.
func Finalize(candidates []domain.Product, limit int) []domain.Product {
	ranked := make([]domain.Product, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(&ranked[i], &ranked[j])
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return dedupe(ranked)
}

func less(a, b *domain.Product) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.Sold > b.Sold
}

// dedupe keeps the first product for each id|url key, preserving order
func dedupe(products []domain.Product) []domain.Product {
	seen := make(map[string]struct{}, len(products))
	out := products[:0]
	for _, p := range products {
		key := p.ID + "|" + p.URL
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
