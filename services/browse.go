package services

import (
	"context"
	"strings"

	"estate_browser/models"
	"estate_browser/query"
)

// BrowseService answers the browse and saved pages. Every call refetches the
// catalog and recomputes from scratch.
type BrowseService struct {
	properties *PropertyService
	saved      *SavedPropertyService
}

// NewBrowseService creates a new BrowseService
func NewBrowseService(properties *PropertyService, saved *SavedPropertyService) *BrowseService {
	return &BrowseService{properties: properties, saved: saved}
}

func (s *BrowseService) Properties() *PropertyService {
	return s.properties
}

func (s *BrowseService) Saved() *SavedPropertyService {
	return s.saved
}

// Query validates the filter, fetches the catalog and runs the query engine.
func (s *BrowseService) Query(ctx context.Context, params query.Params) (query.Result, error) {
	if err := params.Filter.Validate(); err != nil {
		return query.Result{}, err
	}
	if params.Limit < 0 {
		return query.Result{}, &models.ValidationError{Field: "limit", Message: "must not be negative"}
	}
	if params.Offset < 0 {
		return query.Result{}, &models.ValidationError{Field: "offset", Message: "must not be negative"}
	}

	all, err := s.properties.GetAll(ctx)
	if err != nil {
		return query.Result{}, err
	}
	return query.Execute(all, params), nil
}

// SavedListings joins the saved set with the current catalog
func (s *BrowseService) SavedListings(ctx context.Context) ([]models.SavedListing, error) {
	saved, err := s.saved.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.properties.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return query.Project(saved, all), nil
}

// Details returns one property and whether it is in the saved set
func (s *BrowseService) Details(ctx context.Context, id string) (*models.PropertyDetail, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.PropertyDetail{Property: *p}
	sp, err := s.saved.GetByPropertyID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if sp != nil {
		detail.IsSaved = true
		detail.SavedID = sp.ID
		detail.Notes = sp.Notes
	}
	return detail, nil
}

// Save bookmarks a property that exists in the catalog
func (s *BrowseService) Save(ctx context.Context, propertyID string) (*models.SavedProperty, error) {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return nil, &models.ValidationError{Field: "property_id", Message: "is required"}
	}
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.saved.Create(ctx, propertyID)
}

func (s *BrowseService) Unsave(ctx context.Context, propertyID string) error {
	return s.saved.RemoveByPropertyID(ctx, propertyID)
}

func (s *BrowseService) UpdateNote(ctx context.Context, savedID, notes string) (*models.SavedProperty, error) {
	return s.saved.UpdateNotes(ctx, savedID, notes)
}
