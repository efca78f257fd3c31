package models

import (
	"time"
)

type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "House"
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeCondo     PropertyType = "Condo"
	PropertyTypeTownhouse PropertyType = "Townhouse"
	PropertyTypeDuplex    PropertyType = "Duplex"
	PropertyTypeLand      PropertyType = "Land"
)

// PropertyTypes lists every property type in display order
var PropertyTypes = []PropertyType{
	PropertyTypeHouse,
	PropertyTypeApartment,
	PropertyTypeCondo,
	PropertyTypeTownhouse,
	PropertyTypeDuplex,
	PropertyTypeLand,
}

func (t PropertyType) Valid() bool {
	for _, known := range PropertyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Listing status
const (
	StatusForSale   = "For Sale"
	StatusPending   = "Pending"
	StatusSold      = "Sold"
	StatusOffMarket = "Off Market"
)

// FeatureVocabulary lists the features the filter offers
var FeatureVocabulary = []string{
	"Garage",
	"Pool",
	"Fireplace",
	"Hardwood Floors",
	"Updated Kitchen",
	"Walk-in Closet",
	"Laundry Room",
	"Basement",
	"Balcony",
	"Garden",
	"Air Conditioning",
	"Dishwasher",
}

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Property is a listing as seen by the browser. Records are created by the
// backing service and treated as read-only snapshots.
type Property struct {
	ID           string       `json:"id" yaml:"id" db:"id"`
	Address      string       `json:"address" yaml:"address" db:"address"`
	City         string       `json:"city" yaml:"city" db:"city"`
	State        string       `json:"state" yaml:"state" db:"state"`
	PostalCode   string       `json:"postal_code" yaml:"postal_code" db:"postal_code"`
	Price        int64        `json:"price" yaml:"price" db:"price"`
	Bedrooms     int          `json:"bedrooms" yaml:"bedrooms" db:"bedrooms"`
	Bathrooms    float64      `json:"bathrooms" yaml:"bathrooms" db:"bathrooms"`
	SquareFeet   int          `json:"square_feet" yaml:"square_feet" db:"square_feet"`
	PropertyType PropertyType `json:"property_type" yaml:"property_type" db:"property_type"`
	YearBuilt    int          `json:"year_built" yaml:"year_built" db:"year_built"`
	Description  string       `json:"description" yaml:"description" db:"description"`
	Features     []string     `json:"features" yaml:"features" db:"features"`
	Images       []string     `json:"images" yaml:"images" db:"images"`
	Coordinates  *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty" db:"-"`
	ListingDate  time.Time    `json:"listing_date" yaml:"listing_date" db:"listing_date"`
	Status       string       `json:"status" yaml:"status" db:"status"`
}

// HasFeature reports whether the exact feature name is present
func (p *Property) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Validate checks the invariants a stored property must satisfy.
func (p *Property) Validate() error {
	switch {
	case p.ID == "":
		return &ValidationError{Field: "id", Message: "is required"}
	case p.Price < 0:
		return &ValidationError{Field: "price", Message: "must not be negative"}
	case p.Bedrooms < 0:
		return &ValidationError{Field: "bedrooms", Message: "must not be negative"}
	case p.Bathrooms < 0:
		return &ValidationError{Field: "bathrooms", Message: "must not be negative"}
	case p.SquareFeet <= 0:
		return &ValidationError{Field: "square_feet", Message: "must be positive"}
	case !p.PropertyType.Valid():
		return &ValidationError{Field: "property_type", Message: "unknown type " + string(p.PropertyType)}
	case len(p.Images) == 0:
		return &ValidationError{Field: "images", Message: "at least one image is required"}
	}
	return nil
}
