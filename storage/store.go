package storage

import (
	"context"

	"estate_browser/models"
)

// PropertyStore is the listing store backend. GetProperty returns nil, nil
// when the ID is unknown.
type PropertyStore interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	UpsertProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id string) error
}

// SavedStore persists saved references. Lookups return nil, nil when absent;
// mutations on a missing reference return models.ErrNotFound and inserting a
// second reference for the same property returns models.ErrAlreadySaved.
type SavedStore interface {
	ListSaved(ctx context.Context) ([]models.SavedProperty, error)
	GetSaved(ctx context.Context, id string) (*models.SavedProperty, error)
	GetSavedByPropertyID(ctx context.Context, propertyID string) (*models.SavedProperty, error)
	InsertSaved(ctx context.Context, sp *models.SavedProperty) error
	UpdateSavedNotes(ctx context.Context, id, notes string) (*models.SavedProperty, error)
	DeleteSaved(ctx context.Context, id string) error
	DeleteSavedByPropertyID(ctx context.Context, propertyID string) error
}
