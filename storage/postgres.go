package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estate_browser/models"
)

// PostgresStore serves the shared property catalog
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS properties (
			id TEXT PRIMARY KEY,
			address TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			postal_code TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL DEFAULT 0,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			bathrooms NUMERIC(4,1) NOT NULL DEFAULT 0,
			square_feet INTEGER NOT NULL DEFAULT 0,
			property_type TEXT NOT NULL DEFAULT '',
			year_built INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			features TEXT[] NOT NULL DEFAULT '{}',
			images TEXT[] NOT NULL DEFAULT '{}',
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			listing_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			status TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// =============================================================================
// Properties
// =============================================================================

const pgPropertyColumns = `id, address, city, state, postal_code, price, bedrooms, bathrooms::float8, square_feet,
	property_type, year_built, description, features, images, lat, lng, listing_date, status`

func scanPGProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	var propertyType string
	var lat, lng *float64

	err := row.Scan(&p.ID, &p.Address, &p.City, &p.State, &p.PostalCode, &p.Price, &p.Bedrooms,
		&p.Bathrooms, &p.SquareFeet, &propertyType, &p.YearBuilt, &p.Description, &p.Features,
		&p.Images, &lat, &lng, &p.ListingDate, &p.Status)
	if err != nil {
		return nil, err
	}

	p.PropertyType = models.PropertyType(propertyType)
	if lat != nil && lng != nil {
		p.Coordinates = &models.Coordinates{Lat: *lat, Lng: *lng}
	}
	return &p, nil
}

func (s *PostgresStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgPropertyColumns+` FROM properties ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := []models.Property{}
	for rows.Next() {
		p, err := scanPGProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

func (s *PostgresStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	p, err := scanPGProperty(s.pool.QueryRow(ctx, `SELECT `+pgPropertyColumns+` FROM properties WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) UpsertProperty(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (
			id, address, city, state, postal_code, price, bedrooms, bathrooms, square_feet,
			property_type, year_built, description, features, images, lat, lng, listing_date, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		ON CONFLICT (id) DO UPDATE SET
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			postal_code = EXCLUDED.postal_code,
			price = EXCLUDED.price,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			square_feet = EXCLUDED.square_feet,
			property_type = EXCLUDED.property_type,
			year_built = EXCLUDED.year_built,
			description = EXCLUDED.description,
			features = EXCLUDED.features,
			images = EXCLUDED.images,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			listing_date = EXCLUDED.listing_date,
			status = EXCLUDED.status,
			updated_at = NOW()`

	var lat, lng *float64
	if p.Coordinates != nil {
		lat, lng = &p.Coordinates.Lat, &p.Coordinates.Lng
	}

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Address, p.City, p.State, p.PostalCode, p.Price, p.Bedrooms, p.Bathrooms, p.SquareFeet,
		string(p.PropertyType), p.YearBuilt, p.Description, nonNil(p.Features), nonNil(p.Images),
		lat, lng, p.ListingDate, p.Status,
	)
	return err
}

func (s *PostgresStore) DeleteProperty(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("property %s: %w", id, models.ErrNotFound)
	}
	return nil
}
