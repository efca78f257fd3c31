package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"estate_browser/models"
	"estate_browser/storage"
)

// PropertyService is the catalog facade over a listing store
type PropertyService struct {
	store storage.PropertyStore
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(store storage.PropertyStore) *PropertyService {
	return &PropertyService{store: store}
}

// GetAll returns every property in store order
func (s *PropertyService) GetAll(ctx context.Context) ([]models.Property, error) {
	props, err := s.store.ListProperties(ctx)
	if err != nil {
		return nil, serviceError("list properties", err)
	}
	if props == nil {
		props = []models.Property{}
	}
	return props, nil
}

// GetByID returns models.ErrNotFound when the ID is unknown
func (s *PropertyService) GetByID(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return nil, serviceError("get property", err)
	}
	if p == nil {
		return nil, fmt.Errorf("property %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

// Create stores a new property, assigning an ID when none is given.
func (s *PropertyService) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.New().String()
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpsertProperty(ctx, p); err != nil {
		return nil, serviceError("create property", err)
	}
	return p, nil
}

// Update replaces an existing property wholesale
func (s *PropertyService) Update(ctx context.Context, id string, p *models.Property) (*models.Property, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	p.ID = id
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpsertProperty(ctx, p); err != nil {
		return nil, serviceError("update property", err)
	}
	return p, nil
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProperty(ctx, id); err != nil {
		return serviceError("delete property", err)
	}
	return nil
}

// serviceError passes domain errors through and wraps everything else as a
// backend failure.
func serviceError(op string, err error) error {
	var se *models.ServiceError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrAlreadySaved):
		return err
	case models.IsValidation(err), errors.As(err, &se):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return &models.ServiceError{Op: op, Err: err}
}
