package observerrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/observer"
)

const schema = `
CREATE TABLE IF NOT EXISTS observers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    latitude DOUBLE PRECISION NOT NULL CHECK (latitude >= -90 AND latitude <= 90),
    longitude DOUBLE PRECISION NOT NULL CHECK (longitude >= -180 AND longitude <= 180),
    elevation DOUBLE PRECISION NOT NULL DEFAULT 0,
    timezone TEXT NOT NULL DEFAULT '',
    horizon JSONB NOT NULL DEFAULT '[]',
    horizon_key TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const observerColumns = `id, name, latitude, longitude, elevation, timezone, horizon, horizon_key`

// PostgresRepository implements observer.Repository using pgx. Horizon
// samples are stored as a JSON array.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the observers table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create observer schema: %w", err)
	}
	return nil
}

// Get implements observer.Repository.
func (r *PostgresRepository) Get(ctx context.Context, id string) (observer.Location, bool, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+observerColumns+" FROM observers WHERE id = $1", id)
	loc, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return observer.Location{}, false, nil
	}
	if err != nil {
		return observer.Location{}, false, err
	}
	return loc, true, nil
}

// List implements observer.Repository.
func (r *PostgresRepository) List(ctx context.Context) ([]observer.Location, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+observerColumns+" FROM observers ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []observer.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// Save implements observer.Repository.
func (r *PostgresRepository) Save(ctx context.Context, loc observer.Location) (observer.Location, error) {
	horizon, err := encodeHorizon(loc.Horizon)
	if err != nil {
		return observer.Location{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO observers (`+observerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			elevation = EXCLUDED.elevation,
			timezone = EXCLUDED.timezone,
			horizon = EXCLUDED.horizon,
			horizon_key = EXCLUDED.horizon_key,
			updated_at = CURRENT_TIMESTAMP
		RETURNING `+observerColumns,
		loc.ID, loc.Name, loc.Latitude, loc.Longitude, loc.Elevation, loc.Timezone, horizon, loc.HorizonKey)
	saved, err := scanLocation(row)
	if err != nil {
		return observer.Location{}, fmt.Errorf("save observer %s: %w", loc.ID, err)
	}
	return saved, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (observer.Location, error) {
	var (
		loc     observer.Location
		horizon []byte
	)
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Elevation, &loc.Timezone, &horizon, &loc.HorizonKey); err != nil {
		return observer.Location{}, err
	}
	profile, err := decodeHorizon(horizon)
	if err != nil {
		return observer.Location{}, fmt.Errorf("decode horizon for %s: %w", loc.ID, err)
	}
	loc.Horizon = profile
	return loc, nil
}

func encodeHorizon(profile astro.HorizonProfile) ([]byte, error) {
	if len(profile) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(profile)
}

func decodeHorizon(data []byte) (astro.HorizonProfile, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var profile astro.HorizonProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	if len(profile) == 0 {
		return nil, nil
	}
	return profile, nil
}

var _ observer.Repository = (*PostgresRepository)(nil)
