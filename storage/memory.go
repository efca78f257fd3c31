package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"estate_browser/models"
)

// MemorySavedStore is a saved set owned by one session. Nothing is shared
// between instances.
type MemorySavedStore struct {
	mu    sync.RWMutex
	saved []models.SavedProperty
}

func NewMemorySavedStore(seed []models.SavedProperty) *MemorySavedStore {
	return &MemorySavedStore{saved: slices.Clone(seed)}
}

func (s *MemorySavedStore) ListSaved(ctx context.Context) ([]models.SavedProperty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SavedProperty, len(s.saved))
	copy(out, s.saved)
	return out, nil
}

func (s *MemorySavedStore) GetSaved(ctx context.Context, id string) (*models.SavedProperty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(func(sp models.SavedProperty) bool { return sp.ID == id }), nil
}

func (s *MemorySavedStore) GetSavedByPropertyID(ctx context.Context, propertyID string) (*models.SavedProperty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(func(sp models.SavedProperty) bool { return sp.PropertyID == propertyID }), nil
}

func (s *MemorySavedStore) InsertSaved(ctx context.Context, sp *models.SavedProperty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(func(existing models.SavedProperty) bool { return existing.PropertyID == sp.PropertyID }) != nil {
		return fmt.Errorf("property %s: %w", sp.PropertyID, models.ErrAlreadySaved)
	}
	s.saved = append(s.saved, *sp)
	return nil
}

func (s *MemorySavedStore) UpdateSavedNotes(ctx context.Context, id, notes string) (*models.SavedProperty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.saved, func(sp models.SavedProperty) bool { return sp.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("saved property %s: %w", id, models.ErrNotFound)
	}
	s.saved[i].Notes = notes
	updated := s.saved[i]
	return &updated, nil
}

func (s *MemorySavedStore) DeleteSaved(ctx context.Context, id string) error {
	return s.deleteWhere(func(sp models.SavedProperty) bool { return sp.ID == id }, "saved property "+id)
}

func (s *MemorySavedStore) DeleteSavedByPropertyID(ctx context.Context, propertyID string) error {
	return s.deleteWhere(func(sp models.SavedProperty) bool { return sp.PropertyID == propertyID }, "saved property for "+propertyID)
}

func (s *MemorySavedStore) deleteWhere(match func(models.SavedProperty) bool, what string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.saved, match)
	if i < 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	s.saved = slices.Delete(s.saved, i, i+1)
	return nil
}

func (s *MemorySavedStore) find(match func(models.SavedProperty) bool) *models.SavedProperty {
	if i := slices.IndexFunc(s.saved, match); i >= 0 {
		sp := s.saved[i]
		return &sp
	}
	return nil
}
