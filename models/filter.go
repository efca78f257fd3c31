package models

type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNewest    SortKey = "newest"
	SortSizeLarge SortKey = "size-large"
	SortBedrooms  SortKey = "bedrooms"
)

// DefaultSort matches the initial ordering of the browse page
const DefaultSort = SortPriceLow

// Filter holds the filter panel state. A nil bound imposes no constraint and
// empty sets impose no restriction. Features are conjunctive.
type Filter struct {
	PriceMin      *int64         `json:"price_min,omitempty"`
	PriceMax      *int64         `json:"price_max,omitempty"`
	BedroomsMin   *int           `json:"bedrooms_min,omitempty"`
	BathroomsMin  *float64       `json:"bathrooms_min,omitempty"`
	SquareFeetMin *int           `json:"square_feet_min,omitempty"`
	PropertyTypes []PropertyType `json:"property_types,omitempty"`
	Features      []string       `json:"features,omitempty"`
}

// IsEmpty reports whether the filter has no active constraint
func (f *Filter) IsEmpty() bool {
	return f.PriceMin == nil && f.PriceMax == nil && f.BedroomsMin == nil &&
		f.BathroomsMin == nil && f.SquareFeetMin == nil &&
		len(f.PropertyTypes) == 0 && len(f.Features) == 0
}

// Validate rejects bounds no record could meaningfully satisfy.
func (f *Filter) Validate() error {
	if f.PriceMin != nil && *f.PriceMin < 0 {
		return &ValidationError{Field: "price_min", Message: "must not be negative"}
	}
	if f.PriceMax != nil && *f.PriceMax < 0 {
		return &ValidationError{Field: "price_max", Message: "must not be negative"}
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return &ValidationError{Field: "price_min", Message: "must not exceed price_max"}
	}
	if f.BedroomsMin != nil && *f.BedroomsMin < 0 {
		return &ValidationError{Field: "bedrooms_min", Message: "must not be negative"}
	}
	if f.BathroomsMin != nil && *f.BathroomsMin < 0 {
		return &ValidationError{Field: "bathrooms_min", Message: "must not be negative"}
	}
	if f.SquareFeetMin != nil && *f.SquareFeetMin < 0 {
		return &ValidationError{Field: "square_feet_min", Message: "must not be negative"}
	}
	for _, t := range f.PropertyTypes {
		if !t.Valid() {
			return &ValidationError{Field: "property_types", Message: "unknown type " + string(t)}
		}
	}
	for _, feature := range f.Features {
		if feature == "" {
			return &ValidationError{Field: "features", Message: "must not contain empty names"}
		}
	}
	return nil
}
