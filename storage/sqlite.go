package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"estate_browser/models"
)

// SQLiteStore is the local listing cache and saved-set store
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL DEFAULT 0,
		bedrooms INTEGER NOT NULL DEFAULT 0,
		bathrooms REAL NOT NULL DEFAULT 0,
		square_feet INTEGER NOT NULL DEFAULT 0,
		property_type TEXT NOT NULL DEFAULT '',
		year_built INTEGER,
		description TEXT,
		features JSON,
		images JSON,
		lat REAL,
		lng REAL,
		listing_date DATETIME,
		status TEXT,
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS saved_properties (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL UNIQUE,
		saved_date DATETIME NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS sync_runs (
		id INTEGER PRIMARY KEY,
		source TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		fetched INTEGER NOT NULL DEFAULT 0,
		upserted INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY,
		command TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_properties_position ON properties(position);
	CREATE INDEX IF NOT EXISTS idx_commands_pending ON commands(processed_at) WHERE processed_at IS NULL;
	CREATE INDEX IF NOT EXISTS idx_runs_started ON sync_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_saved_date ON saved_properties(saved_date);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Columns added after the first release
	_, err := s.db.Exec(`ALTER TABLE sync_runs ADD COLUMN skipped INTEGER NOT NULL DEFAULT 0`)
	if err != nil && !strings.Contains(err.Error(), "duplicate column") {
		return err
	}
	return nil
}

// =============================================================================
// Properties
// =============================================================================

const propertyColumns = `id, address, city, state, postal_code, price, bedrooms, bathrooms, square_feet,
	property_type, year_built, description, features, images, lat, lng, listing_date, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*models.Property, error) {
	var p models.Property
	var yearBuilt sql.NullInt64
	var description, features, images, status sql.NullString
	var lat, lng sql.NullFloat64
	var listingDate sql.NullTime

	err := row.Scan(&p.ID, &p.Address, &p.City, &p.State, &p.PostalCode, &p.Price, &p.Bedrooms,
		&p.Bathrooms, &p.SquareFeet, &p.PropertyType, &yearBuilt, &description, &features, &images,
		&lat, &lng, &listingDate, &status)
	if err != nil {
		return nil, err
	}

	p.YearBuilt = int(yearBuilt.Int64)
	p.Description = description.String
	p.Status = status.String
	if listingDate.Valid {
		p.ListingDate = listingDate.Time
	}
	if lat.Valid && lng.Valid {
		p.Coordinates = &models.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	if features.Valid && features.String != "" {
		if err := json.Unmarshal([]byte(features.String), &p.Features); err != nil {
			return nil, fmt.Errorf("decode features for %s: %w", p.ID, err)
		}
	}
	if images.Valid && images.String != "" {
		if err := json.Unmarshal([]byte(images.String), &p.Images); err != nil {
			return nil, fmt.Errorf("decode images for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

// ListProperties returns properties in insertion order
func (s *SQLiteStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

func (s *SQLiteStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteStore) UpsertProperty(ctx context.Context, p *models.Property) error {
	features, err := json.Marshal(nonNil(p.Features))
	if err != nil {
		return err
	}
	images, err := json.Marshal(nonNil(p.Images))
	if err != nil {
		return err
	}

	var lat, lng *float64
	if p.Coordinates != nil {
		lat, lng = &p.Coordinates.Lat, &p.Coordinates.Lng
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO properties (`+propertyColumns+`, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM properties))
		ON CONFLICT(id) DO UPDATE SET
			address = excluded.address,
			city = excluded.city,
			state = excluded.state,
			postal_code = excluded.postal_code,
			price = excluded.price,
			bedrooms = excluded.bedrooms,
			bathrooms = excluded.bathrooms,
			square_feet = excluded.square_feet,
			property_type = excluded.property_type,
			year_built = excluded.year_built,
			description = excluded.description,
			features = excluded.features,
			images = excluded.images,
			lat = excluded.lat,
			lng = excluded.lng,
			listing_date = excluded.listing_date,
			status = excluded.status`,
		p.ID, p.Address, p.City, p.State, p.PostalCode, p.Price, p.Bedrooms, p.Bathrooms, p.SquareFeet,
		p.PropertyType, p.YearBuilt, p.Description, string(features), string(images), lat, lng,
		p.ListingDate.UTC(), p.Status)
	return err
}

func (s *SQLiteStore) DeleteProperty(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "property "+id)
}

// =============================================================================
// Saved properties
// =============================================================================

const savedColumns = `id, property_id, saved_date, notes`

func scanSaved(row rowScanner) (*models.SavedProperty, error) {
	var sp models.SavedProperty
	if err := row.Scan(&sp.ID, &sp.PropertyID, &sp.SavedDate, &sp.Notes); err != nil {
		return nil, err
	}
	return &sp, nil
}

// ListSaved returns saved references oldest first
func (s *SQLiteStore) ListSaved(ctx context.Context) ([]models.SavedProperty, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+savedColumns+` FROM saved_properties ORDER BY saved_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saved := []models.SavedProperty{}
	for rows.Next() {
		sp, err := scanSaved(rows)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *sp)
	}
	return saved, rows.Err()
}

func (s *SQLiteStore) GetSaved(ctx context.Context, id string) (*models.SavedProperty, error) {
	return s.getSavedWhere(ctx, "id", id)
}

func (s *SQLiteStore) GetSavedByPropertyID(ctx context.Context, propertyID string) (*models.SavedProperty, error) {
	return s.getSavedWhere(ctx, "property_id", propertyID)
}

func (s *SQLiteStore) getSavedWhere(ctx context.Context, column, value string) (*models.SavedProperty, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+savedColumns+` FROM saved_properties WHERE `+column+` = ?`, value)
	sp, err := scanSaved(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *SQLiteStore) InsertSaved(ctx context.Context, sp *models.SavedProperty) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_properties (`+savedColumns+`)
		VALUES (?, ?, ?, ?)`,
		sp.ID, sp.PropertyID, sp.SavedDate.UTC(), sp.Notes)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("property %s: %w", sp.PropertyID, models.ErrAlreadySaved)
	}
	return err
}

func (s *SQLiteStore) UpdateSavedNotes(ctx context.Context, id, notes string) (*models.SavedProperty, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE saved_properties SET notes = ? WHERE id = ?`, notes, id)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(result, "saved property "+id); err != nil {
		return nil, err
	}
	return s.GetSaved(ctx, id)
}

func (s *SQLiteStore) DeleteSaved(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "saved property "+id)
}

func (s *SQLiteStore) DeleteSavedByPropertyID(ctx context.Context, propertyID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_properties WHERE property_id = ?`, propertyID)
	if err != nil {
		return err
	}
	return requireAffected(result, "saved property for "+propertyID)
}

// =============================================================================
// Sync runs
// =============================================================================

func (s *SQLiteStore) CreateSyncRun(ctx context.Context, run *models.SyncRun) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs (source, started_at, status)
		VALUES (?, ?, ?)`,
		run.Source, run.StartedAt, run.Status)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) FinishSyncRun(ctx context.Context, run *models.SyncRun) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sync_runs SET finished_at = ?, status = ?, fetched = ?, upserted = ?,
			skipped = ?, deleted = ?, error = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.Fetched, run.Upserted, run.Skipped, run.Deleted, run.Error, run.ID)
	return err
}

// ListSyncRuns returns the most recent runs first
func (s *SQLiteStore) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, started_at, finished_at, status, fetched, upserted, skipped, deleted, error
		FROM sync_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		var source, errText sql.NullString
		if err := rows.Scan(&run.ID, &source, &run.StartedAt, &run.FinishedAt, &run.Status,
			&run.Fetched, &run.Upserted, &run.Skipped, &run.Deleted, &errText); err != nil {
			return nil, err
		}
		run.Source = source.String
		run.Error = errText.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// Commands
// =============================================================================

func (s *SQLiteStore) EnqueueCommand(ctx context.Context, cmd models.CommandType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO commands (command, created_at) VALUES (?, ?)`,
		cmd, time.Now())
	return err
}

func (s *SQLiteStore) GetPendingCommands(ctx context.Context) ([]models.Command, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, created_at, processed_at
		FROM commands WHERE processed_at IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []models.Command
	for rows.Next() {
		var cmd models.Command
		if err := rows.Scan(&cmd.ID, &cmd.Command, &cmd.CreatedAt, &cmd.ProcessedAt); err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

func (s *SQLiteStore) MarkCommandProcessed(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE commands SET processed_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

// ResetAllData clears every table
func (s *SQLiteStore) ResetAllData() error {
	tables := []string{
		"saved_properties",
		"properties",
		"sync_runs",
		"commands",
	}

	for _, table := range tables {
		_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	return nil
}

func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
