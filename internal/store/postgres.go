package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yourorg/housing-api/internal/housing"
)

type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS listings (
            id                TEXT PRIMARY KEY,
            formatted_address TEXT NOT NULL,
            lat               DOUBLE PRECISION NOT NULL DEFAULT 0,
            lng               DOUBLE PRECISION NOT NULL DEFAULT 0,
            geohash           TEXT NOT NULL DEFAULT '',
            bathrooms         INTEGER NOT NULL DEFAULT 0,
            bedrooms          INTEGER NOT NULL DEFAULT 0,
            usable_area       DOUBLE PRECISION NOT NULL DEFAULT 0,
            price             DOUBLE PRECISION NOT NULL DEFAULT 0,
            parking_spaces    INTEGER NOT NULL DEFAULT 0,
            source            TEXT NOT NULL DEFAULT '',
            position          BIGSERIAL,
            created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_listings_position ON listings(position);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_geohash ON listings(geohash);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// UpsertListing inserts or updates one listing. The insertion position is
// kept on update so catalog order stays stable across refreshes.
func (s *Store) UpsertListing(ctx context.Context, source string, l housing.Listing) error {
	if s.DB == nil {
		return errors.New("nil db")
	}
	if l.ID == "" {
		return errors.New("listing id required")
	}
	_, err := s.DB.ExecContext(ctx, `
        INSERT INTO listings (id, formatted_address, lat, lng, geohash, bathrooms, bedrooms, usable_area, price, parking_spaces, source)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        ON CONFLICT (id)
        DO UPDATE SET formatted_address=EXCLUDED.formatted_address, lat=EXCLUDED.lat, lng=EXCLUDED.lng, geohash=EXCLUDED.geohash,
            bathrooms=EXCLUDED.bathrooms, bedrooms=EXCLUDED.bedrooms, usable_area=EXCLUDED.usable_area, price=EXCLUDED.price,
            parking_spaces=EXCLUDED.parking_spaces, source=EXCLUDED.source, updated_at=now()`,
		l.ID, l.Address.FormattedAddress, l.Address.Geolocation.Lat, l.Address.Geolocation.Lng, l.Geohash(),
		l.Bathrooms, l.Bedrooms, l.UsableArea, l.Price, l.ParkingSpaces, source,
	)
	if err != nil {
		return fmt.Errorf("upsert listing %s: %w", l.ID, err)
	}
	return nil
}

const listingColumns = `id, formatted_address, lat, lng, bathrooms, bedrooms, usable_area, price, parking_spaces`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (housing.Listing, error) {
	var l housing.Listing
	err := row.Scan(&l.ID, &l.Address.FormattedAddress, &l.Address.Geolocation.Lat, &l.Address.Geolocation.Lng,
		&l.Bathrooms, &l.Bedrooms, &l.UsableArea, &l.Price, &l.ParkingSpaces)
	return l, err
}

// All returns every listing in insertion order.
func (s *Store) All(ctx context.Context) ([]housing.Listing, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]housing.Listing, 0, 64)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) ByID(ctx context.Context, id string) (housing.Listing, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id=$1`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return housing.Listing{}, fmt.Errorf("%w: %s", housing.ErrListingNotFound, id)
	}
	return l, err
}
