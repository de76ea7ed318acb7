package cache

import (
	"astrogation-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLite backed cache for parsed sector data and sector offsets.
// Sector names are expected to be normalized by the caller.
type SqliteSectorCache struct {
	DB *sql.DB

	// Sector data older than MaxAge is treated as a miss. Zero keeps it forever.
	MaxAge time.Duration

	now func() time.Time
}

func NewSqliteSectorCache(db *sql.DB, maxAge time.Duration) *SqliteSectorCache {
	return &SqliteSectorCache{DB: db, MaxAge: maxAge, now: time.Now}
}

// Fetch the cached systems of one sector.
func (s *SqliteSectorCache) GetSystems(ctx context.Context, sector string) ([]domain.System, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("sector cache: db is nil")
	}

	if strings.TrimSpace(sector) == "" {
		return nil, false, errors.New("get sector cache: sector must not be empty")
	}

	var raw string
	var fetchedAt int64
	err := s.DB.QueryRowContext(ctx, `
	SELECT systems_json, fetched_at
	FROM sector_cache
	WHERE sector = ?;
	`, sector).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get sector cache: query sector_cache table: %w", err)
	}

	if expired(time.Unix(fetchedAt, 0), s.MaxAge, s.now()) {
		return nil, false, nil
	}

	systems, err := decodeSystems(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get sector cache sector=%q: %w", sector, err)
	}
	return systems, true, nil
}

// Store the parsed systems of one sector, replacing any earlier copy.
func (s *SqliteSectorCache) PutSystems(ctx context.Context, sector string, systems []domain.System) error {
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
	INSERT OR REPLACE INTO sector_cache (
		sector,
		systems_json,
		fetched_at
	)
	VALUES (?, ?, ?);
	`, sector, raw, s.now().Unix()); err != nil {
		return fmt.Errorf("insert sector cache sector=%q: %w", sector, err)
	}

	return nil
}

// Fetch the cached grid offset of one sector.
func (s *SqliteSectorCache) GetOffset(ctx context.Context, sector string) (*domain.SectorOffset, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("sector cache: db is nil")
	}

	var off domain.SectorOffset
	err := s.DB.QueryRowContext(ctx, `
	SELECT x, y
	FROM sector_offsets
	WHERE sector = ?;
	`, sector).Scan(&off.X, &off.Y)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get sector offset: query sector_offsets table: %w", err)
	}

	return &off, true, nil
}

// Store the grid offset of one sector.
func (s *SqliteSectorCache) PutOffset(ctx context.Context, sector string, off domain.SectorOffset) error {
	if s.DB == nil {
		return errors.New("sector cache: db is nil")
	}

	if strings.TrimSpace(sector) == "" {
		return errors.New("insert sector offset: sector must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO sector_offsets (sector, x, y)
	VALUES (?, ?, ?);
	`, sector, off.X, off.Y); err != nil {
		return fmt.Errorf("insert sector offset sector=%q: %w", sector, err)
	}

	return nil
}
