package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

// Schema creates the catalog table if it does not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS donation_categories (
	category_id       TEXT PRIMARY KEY,
	name              TEXT NOT NULL DEFAULT '',
	urgency           TEXT NOT NULL DEFAULT 'medium',
	base_impact_score INTEGER NOT NULL DEFAULT 0,
	position          INTEGER NOT NULL DEFAULT 0,
	active            BOOLEAN NOT NULL DEFAULT TRUE,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// EnsureSchema applies Schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const categoryColumns = `category_id, name, urgency, base_impact_score, position, active, updated_at`

func (s *PostgresStore) ListCategories(ctx context.Context, includeInactive bool) ([]CategoryRecord, error) {
	query := `SELECT ` + categoryColumns + ` FROM donation_categories`
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY position ASC, category_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryRecord
	for rows.Next() {
		var r CategoryRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Urgency, &r.BaseImpactScore, &r.Position, &r.Active, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetCategory(ctx context.Context, id string) (*CategoryRecord, error) {
	r := &CategoryRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM donation_categories WHERE category_id = $1`, id,
	).Scan(&r.ID, &r.Name, &r.Urgency, &r.BaseImpactScore, &r.Position, &r.Active, &r.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) UpsertCategory(ctx context.Context, rec *CategoryRecord) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO donation_categories (category_id, name, urgency, base_impact_score, position, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (category_id) DO UPDATE SET
			name = EXCLUDED.name,
			urgency = EXCLUDED.urgency,
			base_impact_score = EXCLUDED.base_impact_score,
			position = EXCLUDED.position,
			active = EXCLUDED.active,
			updated_at = now()
		RETURNING updated_at`,
		rec.ID, rec.Name, rec.Urgency, rec.BaseImpactScore, rec.Position, rec.Active,
	).Scan(&rec.UpdatedAt)
}

// CatalogSource adapts a Store to catalog.Source, serving active categories
// in position order.
type CatalogSource struct {
	store Store
}

func NewCatalogSource(s Store) *CatalogSource {
	return &CatalogSource{store: s}
}

func (c *CatalogSource) Categories(ctx context.Context) ([]allocation.Category, error) {
	records, err := c.store.ListCategories(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	cats := make([]allocation.Category, 0, len(records))
	for _, r := range records {
		cats = append(cats, r.Category())
	}
	return cats, nil
}
