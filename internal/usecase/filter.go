package usecase

import (
	"strings"

	"github.com/farofertas/backend/internal/domain"
)

// NewFilterSpec builds a FilterSpec from raw request values.
// Matches expects the query already lowercased.
func NewFilterSpec(query, category string, maxPrice *float64, minRating float64) domain.FilterSpec {
	return domain.FilterSpec{
		Query:     strings.ToLower(strings.TrimSpace(query)),
		Category:  strings.TrimSpace(category),
		MaxPrice:  maxPrice,
		MinRating: minRating,
	}
}

// Matches reports whether p satisfies every supplied filter.
// Empty or zero filter fields match everything.
func Matches(p *domain.Product, f domain.FilterSpec) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(p.Title), f.Query) {
		return false
	}

	if f.Category != "" {
		if p.Category == nil || !strings.EqualFold(*p.Category, f.Category) {
			return false
		}
	}

	if f.MaxPrice != nil && *f.MaxPrice > 0 && p.Price > *f.MaxPrice {
		return false
	}

	if f.MinRating > 0 && p.Rating < f.MinRating {
		return false
	}

	return true
}
