package repositories

import (
	"astrogation-service/internal/domain"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createShipsQuery := `
	CREATE TABLE IF NOT EXISTS ships (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		jump_rating INTEGER NOT NULL DEFAULT 0,
		hull_tonnage INTEGER NOT NULL DEFAULT 0
	);
	`

	createCampaignsQuery := `
	CREATE TABLE IF NOT EXISTS campaigns (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		day INTEGER,
		year INTEGER
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		ship_id INTEGER NOT NULL REFERENCES ships(id) ON DELETE CASCADE,
		campaign_id INTEGER REFERENCES campaigns(id) ON DELETE SET NULL,
		jump_range INTEGER NOT NULL DEFAULT 0,
		avoid_hostile_zones INTEGER NOT NULL DEFAULT 0,
		require_starport INTEGER NOT NULL DEFAULT 0,
		start_sector TEXT NOT NULL DEFAULT '',
		start_hex TEXT NOT NULL DEFAULT '',
		destination_sector TEXT NOT NULL DEFAULT '',
		destination_hex TEXT NOT NULL DEFAULT '',
		fuel_estimate INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 0
	);
	`

	// At most one active route per ship.
	createActiveIndexQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_routes_ship_active
	ON routes(ship_id) WHERE is_active = 1;
	`

	createWaypointsQuery := `
	CREATE TABLE IF NOT EXISTS waypoints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		route_id INTEGER NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		sector TEXT NOT NULL,
		hex TEXT NOT NULL,
		world_name TEXT NOT NULL DEFAULT '',
		uwp TEXT NOT NULL DEFAULT '',
		trade_codes TEXT NOT NULL DEFAULT '',
		jump_distance INTEGER,
		is_current INTEGER NOT NULL DEFAULT 0,
		UNIQUE (route_id, position)
	);
	`

	createSectorCacheQuery := `
	CREATE TABLE IF NOT EXISTS sector_cache (
		sector TEXT PRIMARY KEY,
		systems_json TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	`

	createSectorOffsetsQuery := `
	CREATE TABLE IF NOT EXISTS sector_offsets (
		sector TEXT PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL
	);
	`

	statements := []string{
		createShipsQuery,
		createCampaignsQuery,
		createRoutesQuery,
		createActiveIndexQuery,
		createWaypointsQuery,
		createSectorCacheQuery,
		createSectorOffsetsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ShipSeed struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	JumpRating  int    `json:"jump_rating"`
	HullTonnage int    `json:"hull_tonnage"`
}

type CampaignSeed struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Day  *int   `json:"day"`
	Year *int   `json:"year"`
}

type RouteSeed struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	ShipID            int64  `json:"ship_id"`
	CampaignID        int64  `json:"campaign_id"`
	JumpRange         int    `json:"jump_range"`
	AvoidHostileZones bool   `json:"avoid_hostile_zones"`
	RequireStarport   bool   `json:"require_starport"`
}

type FleetSeed struct {
	Ships     []ShipSeed     `json:"ships"`
	Campaigns []CampaignSeed `json:"campaigns"`
	Routes    []RouteSeed    `json:"routes"`
}

// Populate the database with ships, campaigns and empty routes from a JSON file.
// Ships are upserted; existing campaigns and routes are left untouched.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed fleet: read %q: %w", jsonPath, err)
	}

	var data FleetSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed fleet: parse json: %w", err)
	}

	for i, s := range data.Ships {
		if s.ID <= 0 {
			return fmt.Errorf("seed fleet: invalid ship id at index %d: %d", i+1, s.ID)
		}
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("seed fleet: ship at index %d: name cannot be empty", i+1)
		}
	}
	for i, c := range data.Campaigns {
		if c.ID <= 0 {
			return fmt.Errorf("seed fleet: invalid campaign id at index %d: %d", i+1, c.ID)
		}
		if c.Day != nil && (*c.Day < 1 || *c.Day > domain.DaysPerYear) {
			return fmt.Errorf("seed fleet: campaign id=%d: day %d out of range", c.ID, *c.Day)
		}
	}
	for i, r := range data.Routes {
		if r.ID <= 0 || r.ShipID <= 0 {
			return fmt.Errorf("seed fleet: invalid route at index %d: id=%d ship_id=%d", i+1, r.ID, r.ShipID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, s := range data.Ships {
		if _, err := tx.Exec(`
		INSERT INTO ships (id, name, jump_rating, hull_tonnage)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = excluded.name,
			jump_rating = excluded.jump_rating,
			hull_tonnage = excluded.hull_tonnage;
		`, s.ID, strings.TrimSpace(s.Name), s.JumpRating, s.HullTonnage); err != nil {
			return fmt.Errorf("seed fleet: insert ship id=%d: %w", s.ID, err)
		}
	}

	for _, c := range data.Campaigns {
		if _, err := tx.Exec(`
		INSERT OR IGNORE INTO campaigns (id, name, day, year)
		VALUES (?, ?, ?, ?);
		`, c.ID, c.Name, nullInt(c.Day), nullInt(c.Year)); err != nil {
			return fmt.Errorf("seed fleet: insert campaign id=%d: %w", c.ID, err)
		}
	}

	for _, r := range data.Routes {
		var campaignID any
		if r.CampaignID > 0 {
			campaignID = r.CampaignID
		}
		if _, err := tx.Exec(`
		INSERT OR IGNORE INTO routes (
			id,
			name,
			ship_id,
			campaign_id,
			jump_range,
			avoid_hostile_zones,
			require_starport
		)
		VALUES (?, ?, ?, ?, ?, ?, ?);
		`, r.ID, r.Name, r.ShipID, campaignID, r.JumpRange, r.AvoidHostileZones, r.RequireStarport); err != nil {
			return fmt.Errorf("seed fleet: insert route id=%d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
