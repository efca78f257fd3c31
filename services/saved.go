package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"estate_browser/models"
	"estate_browser/storage"
)

// SavedPropertyService owns the saved set of one user session
type SavedPropertyService struct {
	store storage.SavedStore
	now   func() time.Time
	newID func() string
}

// NewSavedPropertyService creates a new SavedPropertyService
func NewSavedPropertyService(store storage.SavedStore) *SavedPropertyService {
	return &SavedPropertyService{
		store: store,
		now:   time.Now,
		newID: func() string { return ulid.Make().String() },
	}
}

func (s *SavedPropertyService) GetAll(ctx context.Context) ([]models.SavedProperty, error) {
	saved, err := s.store.ListSaved(ctx)
	if err != nil {
		return nil, serviceError("list saved", err)
	}
	if saved == nil {
		saved = []models.SavedProperty{}
	}
	return saved, nil
}

// GetByID returns models.ErrNotFound when the reference does not exist
func (s *SavedPropertyService) GetByID(ctx context.Context, id string) (*models.SavedProperty, error) {
	sp, err := s.store.GetSaved(ctx, id)
	if err != nil {
		return nil, serviceError("get saved", err)
	}
	if sp == nil {
		return nil, fmt.Errorf("saved property %s: %w", id, models.ErrNotFound)
	}
	return sp, nil
}

// GetByPropertyID returns nil, nil when the property is not saved
func (s *SavedPropertyService) GetByPropertyID(ctx context.Context, propertyID string) (*models.SavedProperty, error) {
	sp, err := s.store.GetSavedByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, serviceError("get saved", err)
	}
	return sp, nil
}

// Create saves a property with the current time and an empty note. A second
// save of the same property fails with models.ErrAlreadySaved.
func (s *SavedPropertyService) Create(ctx context.Context, propertyID string) (*models.SavedProperty, error) {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return nil, &models.ValidationError{Field: "property_id", Message: "is required"}
	}

	existing, err := s.GetByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("property %s: %w", propertyID, models.ErrAlreadySaved)
	}

	sp := &models.SavedProperty{
		ID:         s.newID(),
		PropertyID: propertyID,
		SavedDate:  s.now(),
		Notes:      "",
	}
	if err := s.store.InsertSaved(ctx, sp); err != nil {
		return nil, serviceError("save property", err)
	}
	return sp, nil
}

// RemoveByPropertyID deletes the reference for a property
func (s *SavedPropertyService) RemoveByPropertyID(ctx context.Context, propertyID string) error {
	if err := s.store.DeleteSavedByPropertyID(ctx, propertyID); err != nil {
		return serviceError("remove saved", err)
	}
	return nil
}

// UpdateNotes replaces the note on a saved reference, addressed by its own ID
func (s *SavedPropertyService) UpdateNotes(ctx context.Context, id, notes string) (*models.SavedProperty, error) {
	sp, err := s.store.UpdateSavedNotes(ctx, id, notes)
	if err != nil {
		return nil, serviceError("update notes", err)
	}
	return sp, nil
}

func (s *SavedPropertyService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSaved(ctx, id); err != nil {
		return serviceError("delete saved", err)
	}
	return nil
}
