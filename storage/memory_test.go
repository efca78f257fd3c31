package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"estate_browser/models"
)

func TestMemorySavedStore(t *testing.T) {
	ctx := context.Background()
	seed := []models.SavedProperty{{ID: "s1", PropertyID: "p1", SavedDate: time.Now()}}
	s := NewMemorySavedStore(seed)

	if err := s.InsertSaved(ctx, &models.SavedProperty{ID: "s2", PropertyID: "p1"}); !errors.Is(err, models.ErrAlreadySaved) {
		t.Fatalf("expected ErrAlreadySaved, got %v", err)
	}
	if err := s.InsertSaved(ctx, &models.SavedProperty{ID: "s2", PropertyID: "p2"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, _ := s.ListSaved(ctx)
	if len(all) != 2 || all[0].ID != "s1" || all[1].ID != "s2" {
		t.Fatalf("expected insertion order, got %+v", all)
	}

	updated, err := s.UpdateSavedNotes(ctx, "s2", "needs paint")
	if err != nil || updated.Notes != "needs paint" {
		t.Fatalf("update: %+v, %v", updated, err)
	}
	if _, err := s.UpdateSavedNotes(ctx, "missing", ""); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteSavedByPropertyID(ctx, "p1"); err != nil {
		t.Fatalf("delete by property: %v", err)
	}
	if got, _ := s.GetSavedByPropertyID(ctx, "p1"); got != nil {
		t.Errorf("expected p1 to be gone, got %+v", got)
	}
	if err := s.DeleteSaved(ctx, "s1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// seed slice is not aliased
	if seed[0].ID != "s1" {
		t.Error("seed was modified")
	}
}

func TestMemorySavedStoresAreIndependent(t *testing.T) {
	ctx := context.Background()
	a := NewMemorySavedStore(nil)
	b := NewMemorySavedStore(nil)

	if err := a.InsertSaved(ctx, &models.SavedProperty{ID: "s1", PropertyID: "p1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, _ := b.ListSaved(ctx); len(got) != 0 {
		t.Fatalf("expected second store to be empty, got %+v", got)
	}
}
