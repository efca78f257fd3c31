package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"estate_browser/models"
	"estate_browser/query"
	"estate_browser/storage"
)

func int64Ptr(v int64) *int64 { return &v }

func listing(id string, price int64, sqft int, listed string) models.Property {
	date, _ := time.Parse("2006-01-02", listed)
	return models.Property{
		ID:           id,
		Address:      id + " Main Street",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",
		Price:        price,
		Bedrooms:     3,
		Bathrooms:    2,
		SquareFeet:   sqft,
		PropertyType: models.PropertyTypeHouse,
		Features:     []string{"Garage"},
		Images:       []string{"https://img.example/" + id + ".jpg"},
		ListingDate:  date,
		Status:       models.StatusForSale,
	}
}

func catalog() []models.Property {
	return []models.Property{
		listing("1", 250000, 1500, "2024-01-10"),
		listing("2", 600000, 2400, "2024-01-12"),
		listing("3", 300000, 1800, "2024-01-15"),
	}
}

func newBrowse(t *testing.T) (*BrowseService, *storage.StaticStore) {
	t.Helper()
	props := storage.NewStaticStore(catalog())
	saved := NewSavedPropertyService(storage.NewMemorySavedStore(nil))
	return NewBrowseService(NewPropertyService(props), saved), props
}

func TestBrowseQueryPriceWindow(t *testing.T) {
	browse, _ := newBrowse(t)

	res, err := browse.Query(context.Background(), query.Params{
		Filter: models.Filter{PriceMin: int64Ptr(100000), PriceMax: int64Ptr(500000)},
		Sort:   models.SortPriceHigh,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Total != 2 || res.Properties[0].Price != 300000 || res.Properties[1].Price != 250000 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestBrowseQueryRejectsInvalidFilter(t *testing.T) {
	browse, _ := newBrowse(t)

	_, err := browse.Query(context.Background(), query.Params{
		Filter: models.Filter{PriceMin: int64Ptr(500000), PriceMax: int64Ptr(100000)},
	})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = browse.Query(context.Background(), query.Params{Limit: -1})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error for negative limit, got %v", err)
	}
}

func TestSaveRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	browse, _ := newBrowse(t)

	sp, err := browse.Save(ctx, "2")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if sp.ID == "" || sp.Notes != "" || sp.SavedDate.IsZero() {
		t.Errorf("unexpected saved reference %+v", sp)
	}

	if _, err := browse.Save(ctx, "2"); !errors.Is(err, models.ErrAlreadySaved) {
		t.Fatalf("expected ErrAlreadySaved, got %v", err)
	}
	if _, err := browse.Save(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown property, got %v", err)
	}

	detail, err := browse.Details(ctx, "2")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if !detail.IsSaved || detail.SavedID != sp.ID || detail.City != "Springfield" {
		t.Fatalf("expected property 2 to show as saved, got %+v", detail)
	}

	if err := browse.Unsave(ctx, "2"); err != nil {
		t.Fatalf("unsave: %v", err)
	}
	if detail, _ := browse.Details(ctx, "2"); detail == nil || detail.IsSaved || detail.SavedID != "" {
		t.Errorf("expected property 2 to show as unsaved, got %+v", detail)
	}
	if err := browse.Unsave(ctx, "2"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}

	listings, err := browse.SavedListings(ctx)
	if err != nil {
		t.Fatalf("saved listings: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("expected empty saved set, got %+v", listings)
	}
}

func TestSaveTrimsPropertyID(t *testing.T) {
	ctx := context.Background()
	browse, _ := newBrowse(t)

	sp, err := browse.Save(ctx, " 1 ")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if sp.PropertyID != "1" {
		t.Errorf("expected trimmed property id, got %q", sp.PropertyID)
	}
	if _, err := browse.Save(ctx, "1"); !errors.Is(err, models.ErrAlreadySaved) {
		t.Errorf("expected ErrAlreadySaved for the same id, got %v", err)
	}
	if _, err := browse.Save(ctx, "   "); !models.IsValidation(err) {
		t.Errorf("expected ValidationError for blank id, got %v", err)
	}
}

func TestUpdateNotes(t *testing.T) {
	ctx := context.Background()
	browse, _ := newBrowse(t)

	sp, err := browse.Save(ctx, "1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	updated, err := browse.UpdateNote(ctx, sp.ID, "call the agent")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Notes != "call the agent" {
		t.Errorf("expected note to be set, got %q", updated.Notes)
	}

	if _, err := browse.UpdateNote(ctx, "no-such-id", "x"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	listings, _ := browse.SavedListings(ctx)
	if len(listings) != 1 || listings[0].Notes != "call the agent" || listings[0].Price != 250000 {
		t.Errorf("unexpected projection %+v", listings)
	}
}

func TestSavedListingsDropsDeletedProperties(t *testing.T) {
	ctx := context.Background()
	browse, props := newBrowse(t)

	browse.Save(ctx, "1")
	browse.Save(ctx, "3")
	if err := props.DeleteProperty(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	listings, err := browse.SavedListings(ctx)
	if err != nil {
		t.Fatalf("saved listings: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != "3" {
		t.Fatalf("expected only property 3, got %+v", listings)
	}
}

func TestCreateRequiresPropertyID(t *testing.T) {
	svc := NewSavedPropertyService(storage.NewMemorySavedStore(nil))
	if _, err := svc.Create(context.Background(), "  "); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type failingStore struct {
	storage.PropertyStore
}

func (failingStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	return nil, fmt.Errorf("connection refused")
}

func TestStoreFailureBecomesServiceError(t *testing.T) {
	svc := NewPropertyService(failingStore{})
	_, err := svc.GetAll(context.Background())

	var se *models.ServiceError
	if !errors.As(err, &se) || se.Op != "list properties" {
		t.Fatalf("expected ServiceError, got %v", err)
	}
}

func TestPropertyServiceCreateAssignsID(t *testing.T) {
	ctx := context.Background()
	svc := NewPropertyService(storage.NewStaticStore(nil))

	p := listing("", 410000, 1200, "2024-03-01")
	created, err := svc.Create(ctx, &p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.ID) != 36 {
		t.Errorf("expected a uuid, got %q", created.ID)
	}

	bad := listing("x", 1, 0, "2024-03-01")
	if _, err := svc.Create(ctx, &bad); !models.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	upd := listing("", 420000, 1200, "2024-03-01")
	if _, err := svc.Update(ctx, created.ID, &upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := svc.GetByID(ctx, created.ID)
	if got.Price != 420000 {
		t.Errorf("expected updated price, got %d", got.Price)
	}
	if _, err := svc.Update(ctx, "nope", &upd); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
