package services

import (
	"astrogation-service/internal/domain"
	"astrogation-service/internal/ports"
	"context"
	"fmt"
	"log"
)

// RouteSynchronizer keeps a route's waypoint positions, per-segment distances,
// endpoint fields and fuel estimate consistent across edits.
//
// Every method either fully applies its change or returns an error and leaves
// the route untouched.
type RouteSynchronizer struct {
	Source    ports.SystemDataSource
	Optimizer *Optimizer
}

func NewRouteSynchronizer(source ports.SystemDataSource) *RouteSynchronizer {
	return &RouteSynchronizer{Source: source, Optimizer: NewOptimizer(source)}
}

// Outcome of a structural recalculation.
type RecalcResult struct {
	Plan *domain.RoutePlan
	// The previous current waypoint is no longer on the route and position 1
	// was marked current instead.
	OffCourse bool
}

// SetStart creates or updates the waypoint at position 1 and, when other
// waypoints exist, recomputes every downstream distance.
func (s *RouteSynchronizer) SetStart(ctx context.Context, route *domain.Route, sector, hex string) error {
	if _, _, err := domain.HexToAxial(hex); err != nil {
		return fmt.Errorf("set route start: %w", err)
	}

	next := route.CloneWaypoints()
	first := domain.Waypoint{Position: 1, Sector: sector, Hex: hex}
	if len(next) == 0 {
		next = append(next, first)
	} else {
		first.ID = next[0].ID
		first.IsCurrent = next[0].IsCurrent
		next[0] = first
	}
	s.enrich(ctx, &next[0])

	if err := s.computeDistances(ctx, next, 1); err != nil {
		return fmt.Errorf("set route start: %w", err)
	}

	s.commit(route, next)
	return nil
}

// AddWaypoint appends a waypoint at the next position. Only the new segment's
// distance is computed; the optimizer is not run.
func (s *RouteSynchronizer) AddWaypoint(ctx context.Context, route *domain.Route, sector, hex string) (*domain.Waypoint, error) {
	if _, _, err := domain.HexToAxial(hex); err != nil {
		return nil, fmt.Errorf("add waypoint: %w", err)
	}

	next := route.CloneWaypoints()
	next = append(next, domain.Waypoint{Position: len(next) + 1, Sector: sector, Hex: hex})
	added := len(next) - 1
	s.enrich(ctx, &next[added])

	if err := s.computeDistances(ctx, next, added); err != nil {
		return nil, fmt.Errorf("add waypoint: %w", err)
	}

	s.commit(route, next)
	return &route.Waypoints[added], nil
}

// RemoveWaypoint drops the waypoint at position, renumbers the rest from 1 and
// recomputes every distance. Removing the current waypoint of an active route
// moves the marker to the previous waypoint (or the new first one).
func (s *RouteSynchronizer) RemoveWaypoint(ctx context.Context, route *domain.Route, position int) error {
	if route.WaypointAt(position) == nil {
		return fmt.Errorf("remove waypoint %d: %w", position, domain.ErrWaypointNotFound)
	}

	old := route.CloneWaypoints()
	removed := old[position-1]
	next := append(old[:position-1:position-1], old[position:]...)

	if err := s.computeDistances(ctx, next, 1); err != nil {
		return fmt.Errorf("remove waypoint %d: %w", position, err)
	}

	if removed.IsCurrent && route.IsActive && len(next) > 0 {
		target := max(position-1, 1)
		next[target-1].IsCurrent = true
	}

	s.commit(route, next)
	return nil
}

// Recalculate re-optimizes the route: the first waypoint is the start, the
// rest are destinations, and the waypoint list is replaced by the stitched
// path. The current marker follows the old current system when it is still
// on the route. An active route that lost it is marked current at position 1
// and reported OffCourse.
func (s *RouteSynchronizer) Recalculate(ctx context.Context, route *domain.Route) (RecalcResult, error) {
	if len(route.Waypoints) < 2 {
		return RecalcResult{}, nil
	}

	jumpRange := route.ResolvedJumpRange()
	if jumpRange < 1 {
		return RecalcResult{}, fmt.Errorf("recalculate route %d: %w", route.ID, domain.ErrInvalidJumpRange)
	}

	start := route.Waypoints[0].Location()
	destinations := make([]domain.Location, 0, len(route.Waypoints)-1)
	for _, wp := range route.Waypoints[1:] {
		destinations = append(destinations, wp.Location())
	}

	plan, err := s.Optimizer.Optimize(ctx, start, destinations, jumpRange, route.Policy)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("recalculate route %d: %w", route.ID, err)
	}

	next := make([]domain.Waypoint, 0, len(plan.Path))
	for i, sys := range plan.Path {
		wp := domain.Waypoint{
			Position:   i + 1,
			Sector:     sys.Sector,
			Hex:        sys.Hex,
			WorldName:  sys.Name,
			UWP:        sys.UWP,
			TradeCodes: sys.Remarks,
		}
		if i > 0 {
			d := domain.Distance(plan.Path[i-1].Cube, sys.Cube)
			wp.JumpDistance = &d
		}
		next = append(next, wp)
	}

	result := RecalcResult{Plan: plan}
	if current := route.Current(); current != nil {
		result.OffCourse = restoreCurrent(next, current.Location(), route.IsActive)
		if result.OffCourse {
			log.Printf(
				"route sync: route_id=%d off course: current %s %s not on new route, reset to position 1",
				route.ID, current.Sector, current.Hex,
			)
		}
	} else if route.IsActive {
		next[0].IsCurrent = true
	}

	s.commit(route, next)
	return result, nil
}

// restoreCurrent marks the first waypoint at loc as current. When loc is gone
// and the route is active, position 1 becomes current and true is returned.
func restoreCurrent(wps []domain.Waypoint, loc domain.Location, active bool) bool {
	for i := range wps {
		if wps[i].Sector == loc.Sector && wps[i].Hex == loc.Hex {
			wps[i].IsCurrent = true
			return false
		}
	}
	if active && len(wps) > 0 {
		wps[0].IsCurrent = true
		return true
	}
	return false
}

// commit installs the new waypoint list. An active route always keeps
// exactly one current waypoint; position 1 takes the marker when none has it.
func (s *RouteSynchronizer) commit(route *domain.Route, waypoints []domain.Waypoint) {
	route.Waypoints = waypoints
	route.Refresh()
	if route.IsActive && len(route.Waypoints) > 0 && route.Current() == nil {
		route.SetCurrent(1)
	}
}

// computeDistances sets JumpDistance for every waypoint from index from onward.
func (s *RouteSynchronizer) computeDistances(ctx context.Context, wps []domain.Waypoint, from int) error {
	if len(wps) == 0 {
		return nil
	}
	wps[0].JumpDistance = nil
	from = max(from, 1)
	if from >= len(wps) {
		return nil
	}

	offsets := make(map[string]domain.SectorOffset)
	cubeOf := func(wp domain.Waypoint) (domain.Cube, error) {
		off, ok := offsets[wp.Sector]
		if !ok {
			var err error
			off, err = sectorOffset(ctx, s.Source, wp.Sector)
			if err != nil {
				return domain.Cube{}, err
			}
			offsets[wp.Sector] = off
		}
		return domain.GlobalCube(wp.Hex, off)
	}

	prev, err := cubeOf(wps[from-1])
	if err != nil {
		return fmt.Errorf("compute distances: %w", err)
	}
	for i := from; i < len(wps); i++ {
		cur, err := cubeOf(wps[i])
		if err != nil {
			return fmt.Errorf("compute distances: %w", err)
		}
		d := domain.Distance(prev, cur)
		wps[i].JumpDistance = &d
		prev = cur
	}
	return nil
}

// enrich fills world name, UWP and trade codes from the data source.
// Lookup failures leave the fields empty.
func (s *RouteSynchronizer) enrich(ctx context.Context, wp *domain.Waypoint) {
	wp.WorldName, wp.UWP, wp.TradeCodes = "", "", ""

	sys, err := lookupWorld(ctx, s.Source, wp.Sector, wp.Hex)
	if err != nil {
		log.Printf("route sync: enrich sector=%q hex=%q failed: %v", wp.Sector, wp.Hex, err)
		return
	}
	if sys == nil {
		return
	}
	wp.WorldName = sys.Name
	wp.UWP = sys.UWP
	wp.TradeCodes = sys.Remarks
}

// Prefer a direct world lookup when supported over scanning the whole sector.
func lookupWorld(ctx context.Context, source ports.SystemDataSource, sector, hex string) (*domain.System, error) {
	if wl, ok := source.(ports.WorldLookup); ok {
		return wl.LookupWorld(ctx, sector, hex)
	}

	systems, err := source.ParseSector(ctx, sector)
	if err != nil {
		return nil, err
	}
	for i := range systems {
		if systems[i].Hex == hex {
			return &systems[i], nil
		}
	}
	return nil, nil
}
