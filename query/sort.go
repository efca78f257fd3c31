package query

import (
	"cmp"
	"slices"

	"estate_browser/models"
)

// Comparator returns the ordering for key, or nil when the key is not
// recognized. A nil comparator means "keep input order".
func Comparator(key models.SortKey) func(a, b *models.Property) int {
	switch key {
	case models.SortPriceLow:
		return func(a, b *models.Property) int { return cmp.Compare(a.Price, b.Price) }
	case models.SortPriceHigh:
		return func(a, b *models.Property) int { return cmp.Compare(b.Price, a.Price) }
	case models.SortNewest:
		return func(a, b *models.Property) int { return b.ListingDate.Compare(a.ListingDate) }
	case models.SortSizeLarge:
		return func(a, b *models.Property) int { return cmp.Compare(b.SquareFeet, a.SquareFeet) }
	case models.SortBedrooms:
		return func(a, b *models.Property) int { return cmp.Compare(b.Bedrooms, a.Bedrooms) }
	default:
		return nil
	}
}

// Sort returns a stably sorted copy of properties. The input is not modified.
func Sort(properties []models.Property, key models.SortKey) []models.Property {
	sorted := make([]models.Property, len(properties))
	copy(sorted, properties)

	compare := Comparator(key)
	if compare == nil {
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b models.Property) int {
		return compare(&a, &b)
	})
	return sorted
}
