package repositories

import (
	"astrogation-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite-backed implementation of the RouteRepository port.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectRoutes = `
	SELECT
		r.id,
		r.name,
		r.ship_id,
		COALESCE(r.campaign_id, 0),
		r.jump_range,
		r.avoid_hostile_zones,
		r.require_starport,
		r.start_sector,
		r.start_hex,
		r.destination_sector,
		r.destination_hex,
		r.fuel_estimate,
		r.is_active,
		s.name,
		s.jump_rating,
		s.hull_tonnage
	FROM routes r
	JOIN ships s ON s.id = r.ship_id
	`

// Insert a route with its waypoints and assign its ID.
func (s *SqliteRouteRepository) CreateRoute(ctx context.Context, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO routes (
		name,
		ship_id,
		campaign_id,
		jump_range,
		avoid_hostile_zones,
		require_starport,
		start_sector,
		start_hex,
		destination_sector,
		destination_hex,
		fuel_estimate,
		is_active
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		route.Name,
		route.ShipID,
		nullID(route.CampaignID),
		route.JumpRange,
		route.Policy.AvoidHostileZones,
		route.Policy.RequireStarport,
		route.StartSector,
		route.StartHex,
		route.DestinationSector,
		route.DestinationHex,
		route.FuelEstimate,
		route.IsActive,
	)
	if err != nil {
		return fmt.Errorf("create route: insert route: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create route: last insert id: %w", err)
	}
	route.ID = id

	if err := replaceWaypoints(ctx, tx, route); err != nil {
		return fmt.Errorf("create route: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create route: commit tx: %w", err)
	}
	return nil
}

// Return a route with its ship and waypoints.
func (s *SqliteRouteRepository) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	routes, err := s.loadRoutes(ctx, selectRoutes+"WHERE r.id = ?;", id)
	if err != nil {
		return nil, fmt.Errorf("get route id=%d: %w", id, err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("get route id=%d: %w", id, domain.ErrRouteNotFound)
	}
	return routes[0], nil
}

// Return every route owned by a ship, ordered by ID.
func (s *SqliteRouteRepository) ListRoutesForShip(ctx context.Context, shipID int64) ([]*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	routes, err := s.loadRoutes(ctx, selectRoutes+"WHERE r.ship_id = ? ORDER BY r.id;", shipID)
	if err != nil {
		return nil, fmt.Errorf("list routes ship_id=%d: %w", shipID, err)
	}
	return routes, nil
}

// Store route fields and replace its waypoints in one transaction.
func (s *SqliteRouteRepository) SaveRoute(ctx context.Context, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save route id=%d: begin tx: %w", route.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveRoute(ctx, tx, route); err != nil {
		return fmt.Errorf("save route id=%d: %w", route.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save route id=%d: commit tx: %w", route.ID, err)
	}
	return nil
}

func (s *SqliteRouteRepository) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	var c domain.Campaign
	var day, year sql.NullInt64
	err := s.DB.QueryRowContext(ctx, `
	SELECT id, name, day, year
	FROM campaigns
	WHERE id = ?;
	`, id).Scan(&c.ID, &c.Name, &day, &year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get campaign id=%d: %w", id, domain.ErrCampaignNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign id=%d: %w", id, err)
	}

	c.Day = intPtr(day)
	c.Year = intPtr(year)
	return &c, nil
}

// Store a route and its campaign calendar together.
func (s *SqliteRouteRepository) SaveTravel(ctx context.Context, route *domain.Route, campaign *domain.Campaign) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save travel: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveRoute(ctx, tx, route); err != nil {
		return fmt.Errorf("save travel: %w", err)
	}

	if campaign != nil {
		if _, err := tx.ExecContext(ctx, `
		UPDATE campaigns
		SET day = ?, year = ?
		WHERE id = ?;
		`, nullInt(campaign.Day), nullInt(campaign.Year), campaign.ID); err != nil {
			return fmt.Errorf("save travel: update campaign id=%d: %w", campaign.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save travel: commit tx: %w", err)
	}
	return nil
}

func saveRoute(ctx context.Context, q execer, route *domain.Route) error {
	res, err := q.ExecContext(ctx, `
	UPDATE routes
	SET name = ?,
		campaign_id = ?,
		jump_range = ?,
		avoid_hostile_zones = ?,
		require_starport = ?,
		start_sector = ?,
		start_hex = ?,
		destination_sector = ?,
		destination_hex = ?,
		fuel_estimate = ?,
		is_active = ?
	WHERE id = ?;
	`,
		route.Name,
		nullID(route.CampaignID),
		route.JumpRange,
		route.Policy.AvoidHostileZones,
		route.Policy.RequireStarport,
		route.StartSector,
		route.StartHex,
		route.DestinationSector,
		route.DestinationHex,
		route.FuelEstimate,
		route.IsActive,
		route.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update route: ship %d already has an active route: %w", route.ShipID, domain.ErrStateConflict)
		}
		return fmt.Errorf("update route: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update route: rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrRouteNotFound
	}

	return replaceWaypoints(ctx, q, route)
}

// replaceWaypoints deletes a route's stored waypoints and inserts the
// current list, assigning fresh waypoint IDs.
func replaceWaypoints(ctx context.Context, q execer, route *domain.Route) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM waypoints WHERE route_id = ?;`, route.ID); err != nil {
		return fmt.Errorf("replace waypoints: delete: %w", err)
	}

	for i := range route.Waypoints {
		wp := &route.Waypoints[i]
		wp.RouteID = route.ID

		var dist sql.NullInt64
		if wp.JumpDistance != nil {
			dist = sql.NullInt64{Int64: int64(*wp.JumpDistance), Valid: true}
		}

		res, err := q.ExecContext(ctx, `
		INSERT INTO waypoints (
			route_id,
			position,
			sector,
			hex,
			world_name,
			uwp,
			trade_codes,
			jump_distance,
			is_current
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
		`, route.ID, wp.Position, wp.Sector, wp.Hex, wp.WorldName, wp.UWP, wp.TradeCodes, dist, wp.IsCurrent)
		if err != nil {
			return fmt.Errorf("replace waypoints: insert position=%d: %w", wp.Position, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("replace waypoints: last insert id: %w", err)
		}
		wp.ID = id
	}
	return nil
}

func (s *SqliteRouteRepository) loadRoutes(ctx context.Context, query string, args ...any) ([]*domain.Route, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query routes table: %w", err)
	}

	routes := make([]*domain.Route, 0, 4)
	for rows.Next() {
		r := &domain.Route{Ship: &domain.Ship{}}
		if err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.ShipID,
			&r.CampaignID,
			&r.JumpRange,
			&r.Policy.AvoidHostileZones,
			&r.Policy.RequireStarport,
			&r.StartSector,
			&r.StartHex,
			&r.DestinationSector,
			&r.DestinationHex,
			&r.FuelEstimate,
			&r.IsActive,
			&r.Ship.Name,
			&r.Ship.JumpRating,
			&r.Ship.HullTonnage,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		r.Ship.ID = r.ShipID
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("route row iteration: %w", err)
	}
	rows.Close()

	for _, r := range routes {
		wps, err := s.loadWaypoints(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		r.Waypoints = wps
	}
	return routes, nil
}

func (s *SqliteRouteRepository) loadWaypoints(ctx context.Context, routeID int64) ([]domain.Waypoint, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		id,
		route_id,
		position,
		sector,
		hex,
		world_name,
		uwp,
		trade_codes,
		jump_distance,
		is_current
	FROM waypoints
	WHERE route_id = ?
	ORDER BY position;
	`, routeID)
	if err != nil {
		return nil, fmt.Errorf("query waypoints route_id=%d: %w", routeID, err)
	}
	defer rows.Close()

	wps := make([]domain.Waypoint, 0, 8)
	for rows.Next() {
		var wp domain.Waypoint
		var dist sql.NullInt64
		if err := rows.Scan(
			&wp.ID,
			&wp.RouteID,
			&wp.Position,
			&wp.Sector,
			&wp.Hex,
			&wp.WorldName,
			&wp.UWP,
			&wp.TradeCodes,
			&dist,
			&wp.IsCurrent,
		); err != nil {
			return nil, fmt.Errorf("scan waypoint row: %w", err)
		}
		wp.JumpDistance = intPtr(dist)
		wps = append(wps, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("waypoint row iteration: %w", err)
	}
	return wps, nil
}

// isUniqueViolation reports a UNIQUE constraint failure. On routes the only
// such constraint is idx_routes_ship_active.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}
