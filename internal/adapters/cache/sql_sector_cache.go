package cache

import (
	"astrogation-service/internal/domain"
	"astrogation-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLSectorCache is a Postgres-backed cache for parsed sector data, shared
// between service instances.
type SQLSectorCache struct {
	DB     *sql.DB
	MaxAge time.Duration
}

func NewSQLSectorCache(db *sql.DB, maxAge time.Duration) *SQLSectorCache {
	return &SQLSectorCache{DB: db, MaxAge: maxAge}
}

// InitSQLSchema creates the Postgres cache tables.
func InitSQLSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init cache schema: DB is nil")
	}

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS sector_cache (
		sector TEXT PRIMARY KEY,
		systems_json JSONB NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS sector_offsets (
		sector TEXT PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL
	);
	`,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init cache schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init cache schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init cache schema: commit tx: %w", err)
	}
	return nil
}

func (s *SQLSectorCache) GetSystems(ctx context.Context, sector string) (_ []domain.System, _ bool, err error) {
	defer obs.Time(ctx, "sector.cache.GetSystems")(&err)

	if s.DB == nil {
		return nil, false, errors.New("sector cache: db is nil")
	}

	if strings.TrimSpace(sector) == "" {
		return nil, false, errors.New("get sector cache: sector must not be empty")
	}

	var raw string
	var fetchedAt time.Time
	err = s.DB.QueryRowContext(ctx, `
	SELECT systems_json::text, fetched_at
	FROM sector_cache
	WHERE sector = $1;
	`, sector).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get sector cache: query sector_cache table: %w", err)
	}

	if expired(fetchedAt, s.MaxAge, time.Now()) {
		return nil, false, nil
	}

	systems, err := decodeSystems(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get sector cache sector=%q: %w", sector, err)
	}
	return systems, true, nil
}

func (s *SQLSectorCache) PutSystems(ctx context.Context, sector string, systems []domain.System) error {
	if s.DB == nil {
		return errors.New("sector cache: db is nil")
	}

	if strings.TrimSpace(sector) == "" {
		return errors.New("insert sector cache: sector must not be empty")
	}

	raw, err := encodeSystems(systems)
	if err != nil {
		return fmt.Errorf("insert sector cache sector=%q: %w", sector, err)
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO sector_cache (sector, systems_json, fetched_at)
	VALUES ($1, $2::jsonb, now())
	ON CONFLICT (sector) DO UPDATE
	SET systems_json = EXCLUDED.systems_json,
		fetched_at = EXCLUDED.fetched_at;
	`, sector, raw); err != nil {
		return fmt.Errorf("insert sector cache sector=%q: %w", sector, err)
	}

	return nil
}

func (s *SQLSectorCache) GetOffset(ctx context.Context, sector string) (_ *domain.SectorOffset, _ bool, err error) {
	defer obs.Time(ctx, "sector.cache.GetOffset")(&err)

	if s.DB == nil {
		return nil, false, errors.New("sector cache: db is nil")
	}

	var off domain.SectorOffset
	err = s.DB.QueryRowContext(ctx, `
	SELECT x, y
	FROM sector_offsets
	WHERE sector = $1;
	`, sector).Scan(&off.X, &off.Y)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get sector offset: query sector_offsets table: %w", err)
	}

	return &off, true, nil
}

func (s *SQLSectorCache) PutOffset(ctx context.Context, sector string, off domain.SectorOffset) error {
	if s.DB == nil {
		return errors.New("sector cache: db is nil")
	}

	if strings.TrimSpace(sector) == "" {
		return errors.New("insert sector offset: sector must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO sector_offsets (sector, x, y)
	VALUES ($1, $2, $3)
	ON CONFLICT (sector) DO UPDATE
	SET x = EXCLUDED.x,
		y = EXCLUDED.y;
	`, sector, off.X, off.Y); err != nil {
		return fmt.Errorf("insert sector offset sector=%q: %w", sector, err)
	}

	return nil
}
