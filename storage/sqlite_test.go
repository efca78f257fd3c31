package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"estate_browser/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProperty(id string, price int64) *models.Property {
	return &models.Property{
		ID:           id,
		Address:      "12 Elm Street",
		City:         "Portland",
		State:        "OR",
		PostalCode:   "97201",
		Price:        price,
		Bedrooms:     3,
		Bathrooms:    2.5,
		SquareFeet:   1650,
		PropertyType: models.PropertyTypeHouse,
		YearBuilt:    1998,
		Description:  "Bright corner lot",
		Features:     []string{"Garage", "Garden"},
		Images:       []string{"https://img.example/1.jpg"},
		Coordinates:  &models.Coordinates{Lat: 45.52, Lng: -122.68},
		ListingDate:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Status:       models.StatusForSale,
	}
}

func TestSQLiteProperties(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	for i, id := range []string{"b", "a", "c"} {
		if err := s.UpsertProperty(ctx, sampleProperty(id, int64(100000*(i+1)))); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	all, err := s.ListProperties(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(all))
	}
	if all[0].ID != "b" || all[1].ID != "a" || all[2].ID != "c" {
		t.Fatalf("expected insertion order b,a,c, got %s,%s,%s", all[0].ID, all[1].ID, all[2].ID)
	}

	got, err := s.GetProperty(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected property a")
	}
	if got.Bathrooms != 2.5 || got.Price != 200000 {
		t.Errorf("unexpected numeric fields: %+v", got)
	}
	if len(got.Features) != 2 || got.Features[1] != "Garden" {
		t.Errorf("unexpected features %v", got.Features)
	}
	if got.Coordinates == nil || got.Coordinates.Lat != 45.52 {
		t.Errorf("unexpected coordinates %+v", got.Coordinates)
	}
	if !got.ListingDate.Equal(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected listing date %v", got.ListingDate)
	}

	// Upsert keeps position
	updated := sampleProperty("b", 999)
	updated.Coordinates = nil
	if err := s.UpsertProperty(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ = s.ListProperties(ctx)
	if all[0].ID != "b" || all[0].Price != 999 || all[0].Coordinates != nil {
		t.Errorf("unexpected first property after update: %+v", all[0])
	}

	missing, err := s.GetProperty(ctx, "zzz")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing property, got %v, %v", missing, err)
	}

	if err := s.DeleteProperty(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteProperty(ctx, "a"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSQLiteSaved(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	first := &models.SavedProperty{ID: "s1", PropertyID: "p1", SavedDate: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	second := &models.SavedProperty{ID: "s2", PropertyID: "p3", SavedDate: time.Date(2024, 1, 20, 14, 15, 0, 0, time.UTC), Notes: "corner"}
	for _, sp := range []*models.SavedProperty{second, first} {
		if err := s.InsertSaved(ctx, sp); err != nil {
			t.Fatalf("insert %s: %v", sp.ID, err)
		}
	}

	dup := &models.SavedProperty{ID: "s3", PropertyID: "p1", SavedDate: time.Now()}
	if err := s.InsertSaved(ctx, dup); !errors.Is(err, models.ErrAlreadySaved) {
		t.Fatalf("expected ErrAlreadySaved, got %v", err)
	}

	all, err := s.ListSaved(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != "s1" || all[1].ID != "s2" {
		t.Fatalf("expected [s1 s2] by saved date, got %+v", all)
	}

	byProp, err := s.GetSavedByPropertyID(ctx, "p3")
	if err != nil || byProp == nil || byProp.ID != "s2" {
		t.Fatalf("get by property: %+v, %v", byProp, err)
	}

	updated, err := s.UpdateSavedNotes(ctx, "s1", "Love the light")
	if err != nil {
		t.Fatalf("update notes: %v", err)
	}
	if updated.Notes != "Love the light" || updated.PropertyID != "p1" {
		t.Errorf("unexpected updated row %+v", updated)
	}
	if _, err := s.UpdateSavedNotes(ctx, "nope", "x"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating unknown id, got %v", err)
	}

	if err := s.DeleteSavedByPropertyID(ctx, "p1"); err != nil {
		t.Fatalf("remove by property: %v", err)
	}
	if err := s.DeleteSavedByPropertyID(ctx, "p1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
	if err := s.DeleteSaved(ctx, "s2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	all, _ = s.ListSaved(ctx)
	if len(all) != 0 {
		t.Errorf("expected empty saved set, got %d", len(all))
	}
}

func TestSQLiteResetAllData(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	s.UpsertProperty(ctx, sampleProperty("p1", 1))
	s.InsertSaved(ctx, &models.SavedProperty{ID: "s1", PropertyID: "p1", SavedDate: time.Now()})

	if err := s.ResetAllData(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	props, _ := s.ListProperties(ctx)
	saved, _ := s.ListSaved(ctx)
	if len(props) != 0 || len(saved) != 0 {
		t.Fatalf("expected empty tables, got %d properties and %d saved", len(props), len(saved))
	}
}

func TestSQLiteSyncRuns(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	started := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	run := &models.SyncRun{Source: "remote", StartedAt: started, Status: models.RunStatusRunning}
	id, err := s.CreateSyncRun(ctx, run)
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	run.ID = id

	finished := started.Add(3 * time.Second)
	run.FinishedAt = &finished
	run.Status = models.RunStatusCompleted
	run.Fetched, run.Upserted, run.Skipped, run.Deleted = 12, 11, 1, 2
	if err := s.FinishSyncRun(ctx, run); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	runs, err := s.ListSyncRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Status != models.RunStatusCompleted || got.Skipped != 1 || got.Deleted != 2 || got.Source != "remote" {
		t.Errorf("unexpected run %+v", got)
	}
	if got.Duration() != 3*time.Second {
		t.Errorf("expected 3s duration, got %v", got.Duration())
	}
}

func TestSQLiteCommands(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if err := s.EnqueueCommand(ctx, models.CmdSyncNow); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := s.EnqueueCommand(ctx, models.CmdInvalidateCache); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	cmds, err := s.GetPendingCommands(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(cmds) != 2 || cmds[0].Command != models.CmdSyncNow {
		t.Fatalf("unexpected commands %+v", cmds)
	}

	if err := s.MarkCommandProcessed(ctx, cmds[0].ID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	cmds, _ = s.GetPendingCommands(ctx)
	if len(cmds) != 1 || cmds[0].Command != models.CmdInvalidateCache {
		t.Errorf("expected only the cache command pending, got %+v", cmds)
	}
}
