package models

import "time"

// SavedProperty is a bookmark pointing at a property by ID
type SavedProperty struct {
	ID         string    `json:"id" yaml:"id" db:"id"`
	PropertyID string    `json:"property_id" yaml:"property_id" db:"property_id"`
	SavedDate  time.Time `json:"saved_date" yaml:"saved_date" db:"saved_date"`
	Notes      string    `json:"notes" yaml:"notes" db:"notes"`
}

// PropertyDetail is a property together with its saved state
type PropertyDetail struct {
	Property
	IsSaved bool   `json:"is_saved"`
	SavedID string `json:"saved_id,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// SavedListing is a saved reference joined with its property
type SavedListing struct {
	Property
	SavedID   string    `json:"saved_id"`
	SavedDate time.Time `json:"saved_date"`
	Notes     string    `json:"notes"`
}
