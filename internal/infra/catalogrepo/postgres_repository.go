package catalogrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/skyplan/internal/domain/catalog"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS targets (
    seq BIGINT GENERATED ALWAYS AS IDENTITY,
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    ra DOUBLE PRECISION NOT NULL CHECK (ra >= 0 AND ra < 24),
    dec DOUBLE PRECISION NOT NULL CHECK (dec >= -90 AND dec <= 90),
    type TEXT NOT NULL DEFAULT 'Unknown',
    magnitude DOUBLE PRECISION,
    size_arcmin DOUBLE PRECISION,
    constellation TEXT NOT NULL DEFAULT '',
    distance TEXT NOT NULL DEFAULT '',
    position vector(3) NOT NULL
);

ALTER TABLE targets ADD COLUMN IF NOT EXISTS seq BIGINT GENERATED ALWAYS AS IDENTITY;

CREATE INDEX IF NOT EXISTS idx_targets_type ON targets(type);
CREATE INDEX IF NOT EXISTS idx_targets_seq ON targets(seq);
`

const targetColumns = `id, name, ra, dec, type, magnitude, size_arcmin, constellation, distance`

// PostgresRepository implements catalog.Repository using pgx. Cone searches
// run against a pgvector column holding each target's unit vector. Rows are
// listed by seq, the first-insert order, matching MemoryRepository; an upsert
// of an existing id keeps its seq.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the targets table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}

// List implements catalog.Repository.
func (r *PostgresRepository) List(ctx context.Context, filter catalog.Filter) ([]catalog.Target, error) {
	query, args := buildListQuery(filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Target
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, target)
	}
	return out, rows.Err()
}

func buildListQuery(filter catalog.Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if patterns := typePatterns(filter.Types); len(patterns) > 0 {
		args = append(args, patterns)
		clauses = append(clauses, fmt.Sprintf("type ILIKE ANY($%d)", len(args)))
	}
	if filter.MinMagnitude != nil {
		args = append(args, *filter.MinMagnitude)
		clauses = append(clauses, fmt.Sprintf("(magnitude IS NULL OR magnitude >= $%d)", len(args)))
	}
	if filter.MaxMagnitude != nil {
		args = append(args, *filter.MaxMagnitude)
		clauses = append(clauses, fmt.Sprintf("(magnitude IS NULL OR magnitude <= $%d)", len(args)))
	}
	var b strings.Builder
	b.WriteString("SELECT " + targetColumns + " FROM targets")
	if len(clauses) > 0 {
		b.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	b.WriteString(" ORDER BY seq")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

func typePatterns(types []string) []string {
	var out []string
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(t)
		out = append(out, "%"+escaped+"%")
	}
	return out
}

// Get implements catalog.Repository.
func (r *PostgresRepository) Get(ctx context.Context, id string) (catalog.Target, bool, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+targetColumns+" FROM targets WHERE id = $1", id)
	target, err := scanTarget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Target{}, false, nil
	}
	if err != nil {
		return catalog.Target{}, false, err
	}
	return target, true, nil
}

// Near implements catalog.Repository. The chord-length bound is applied in SQL
// and the exact separation is computed from the returned coordinates.
func (r *PostgresRepository) Near(ctx context.Context, raHours, decDeg, radiusDeg float64, limit int) ([]catalog.Match, error) {
	center := pgvector.NewVector(catalog.UnitVector(raHours, decDeg))
	query := `
		SELECT ` + targetColumns + `
		FROM targets
		WHERE position <-> $1 <= $2
		ORDER BY position <-> $1, seq`
	args := []any{center, catalog.ChordLength(radiusDeg)}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Match
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, catalog.Match{
			Target:     target,
			Separation: catalog.Separation(raHours, decDeg, target.RA, target.Dec),
		})
	}
	return out, rows.Err()
}

// Upsert implements catalog.Repository inside a single transaction.
func (r *PostgresRepository) Upsert(ctx context.Context, targets []catalog.Target) (int, error) {
	if len(targets) == 0 {
		return 0, nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, t := range targets {
		_, err := tx.Exec(ctx, `
			INSERT INTO targets (`+targetColumns+`, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				ra = EXCLUDED.ra,
				dec = EXCLUDED.dec,
				type = EXCLUDED.type,
				magnitude = EXCLUDED.magnitude,
				size_arcmin = EXCLUDED.size_arcmin,
				constellation = EXCLUDED.constellation,
				distance = EXCLUDED.distance,
				position = EXCLUDED.position
		`, t.ID, t.Name, t.RA, t.Dec, t.Type, t.Magnitude, t.SizeArcmin, t.Constellation, t.Distance,
			pgvector.NewVector(catalog.UnitVector(t.RA, t.Dec)))
		if err != nil {
			return 0, fmt.Errorf("upsert target %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return len(targets), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTarget(row rowScanner) (catalog.Target, error) {
	var t catalog.Target
	if err := row.Scan(&t.ID, &t.Name, &t.RA, &t.Dec, &t.Type, &t.Magnitude, &t.SizeArcmin, &t.Constellation, &t.Distance); err != nil {
		return catalog.Target{}, err
	}
	return t, nil
}

var _ catalog.Repository = (*PostgresRepository)(nil)
