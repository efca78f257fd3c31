package query

import (
	"estate_browser/models"
)

// Params is everything that drives one browse query
type Params struct {
	Search string         `json:"search"`
	Filter models.Filter  `json:"filter"`
	Sort   models.SortKey `json:"sort"`
	Limit  int            `json:"limit,omitempty"`
	Offset int            `json:"offset,omitempty"`
}

// Result is a page of a query plus the number of matches before paging
type Result struct {
	Properties []models.Property `json:"properties"`
	Total      int               `json:"total"`
}

// Run filters all by search and filter, then sorts by key. The result is
// always a fresh non-nil slice, empty when nothing matches.
func Run(all []models.Property, search string, f models.Filter, key models.SortKey) []models.Property {
	match := Predicate(search, f)

	filtered := make([]models.Property, 0, len(all))
	for i := range all {
		if match(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}

	compare := Comparator(key)
	if compare == nil {
		return filtered
	}
	return Sort(filtered, key)
}

// Execute runs p against all and applies paging after sorting.
func Execute(all []models.Property, p Params) Result {
	matched := Run(all, p.Search, p.Filter, p.Sort)
	return Result{
		Properties: page(matched, p.Offset, p.Limit),
		Total:      len(matched),
	}
}

func page(properties []models.Property, offset, limit int) []models.Property {
	if offset <= 0 && limit <= 0 {
		return properties
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(properties) {
		return []models.Property{}
	}
	end := len(properties)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return properties[offset:end]
}
