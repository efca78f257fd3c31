// Package query holds the browse engine: search and filter predicates, sort
// comparators, the query pipeline and the saved-set projection.
package query

import (
	"strings"

	"estate_browser/models"
)

// Predicate combines a free-text search and a filter into one test. The
// returned function holds no state and may be reused across records.
func Predicate(search string, f models.Filter) func(*models.Property) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	return func(p *models.Property) bool {
		return matchesNeedle(p, needle) && MatchesFilter(p, f)
	}
}

// MatchesSearch reports whether any searchable field contains the text,
// ignoring case. Blank text matches everything.
func MatchesSearch(p *models.Property, search string) bool {
	return matchesNeedle(p, strings.ToLower(strings.TrimSpace(search)))
}

func matchesNeedle(p *models.Property, needle string) bool {
	if needle == "" {
		return true
	}
	fields := []string{p.Address, p.City, p.State, p.PostalCode, string(p.PropertyType)}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// MatchesFilter applies every bound of f. All lower bounds are inclusive.
func MatchesFilter(p *models.Property, f models.Filter) bool {
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if f.BedroomsMin != nil && p.Bedrooms < *f.BedroomsMin {
		return false
	}
	// Half steps are exact in binary floating point, so >= needs no epsilon.
	if f.BathroomsMin != nil && p.Bathrooms < *f.BathroomsMin {
		return false
	}
	if f.SquareFeetMin != nil && p.SquareFeet < *f.SquareFeetMin {
		return false
	}
	if len(f.PropertyTypes) > 0 && !containsType(f.PropertyTypes, p.PropertyType) {
		return false
	}
	for _, feature := range f.Features {
		if !p.HasFeature(feature) {
			return false
		}
	}
	return true
}

func containsType(types []models.PropertyType, t models.PropertyType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
