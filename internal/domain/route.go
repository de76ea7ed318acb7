package domain

// One stop in an ordered route.
// JumpDistance is nil only for the waypoint at position 1.
type Waypoint struct {
	ID           int64
	RouteID      int64
	Position     int
	Sector       string
	Hex          string
	WorldName    string
	UWP          string
	TradeCodes   string
	JumpDistance *int
	IsCurrent    bool
}

func (w *Waypoint) Location() Location { return Location{Sector: w.Sector, Hex: w.Hex} }

// Route aggregate owning an ordered list of waypoints.
//
// Invariants:
//   - Waypoint positions are exactly 1..len(Waypoints), in slice order.
//   - Start*/Destination* mirror the first and last waypoint.
//   - While active, exactly one waypoint is current.
type Route struct {
	ID         int64
	Name       string
	ShipID     int64
	CampaignID int64
	Ship       *Ship

	// Explicit jump range; zero means "use the ship's jump rating".
	JumpRange int
	Policy    RoutingPolicy

	StartSector       string
	StartHex          string
	DestinationSector string
	DestinationHex    string
	FuelEstimate      int
	IsActive          bool

	Waypoints []Waypoint
}

// ResolvedJumpRange returns the explicit jump range, else the ship's rating.
// Zero means no range could be resolved.
func (r *Route) ResolvedJumpRange() int {
	if r.JumpRange > 0 {
		return r.JumpRange
	}
	if r.Ship != nil && r.Ship.JumpRating > 0 {
		return r.Ship.JumpRating
	}
	return 0
}

// WaypointAt returns the waypoint at a 1-based position, or nil.
func (r *Route) WaypointAt(position int) *Waypoint {
	if position < 1 || position > len(r.Waypoints) {
		return nil
	}
	return &r.Waypoints[position-1]
}

// Current returns the waypoint currently marked as the travel position, or nil.
func (r *Route) Current() *Waypoint {
	for i := range r.Waypoints {
		if r.Waypoints[i].IsCurrent {
			return &r.Waypoints[i]
		}
	}
	return nil
}

// SetCurrent marks exactly the waypoint at position as current.
func (r *Route) SetCurrent(position int) {
	for i := range r.Waypoints {
		r.Waypoints[i].IsCurrent = r.Waypoints[i].Position == position
	}
}

// HasInvalidJumps reports whether any waypoint lies further from its
// predecessor than the route's resolved jump range.
func (r *Route) HasInvalidJumps() bool {
	jumpRange := r.ResolvedJumpRange()
	if jumpRange == 0 {
		return false
	}
	for _, wp := range r.Waypoints {
		if wp.JumpDistance != nil && *wp.JumpDistance > jumpRange {
			return true
		}
	}
	return false
}

// TotalParsecs sums the per-segment jump distances.
func (r *Route) TotalParsecs() int {
	total := 0
	for _, wp := range r.Waypoints {
		if wp.JumpDistance != nil {
			total += *wp.JumpDistance
		}
	}
	return total
}

// Refresh re-derives positions, endpoint fields and the fuel estimate
// from the waypoint list.
func (r *Route) Refresh() {
	for i := range r.Waypoints {
		r.Waypoints[i].Position = i + 1
		r.Waypoints[i].RouteID = r.ID
	}
	if len(r.Waypoints) > 0 {
		r.Waypoints[0].JumpDistance = nil
	}

	r.StartSector, r.StartHex = "", ""
	r.DestinationSector, r.DestinationHex = "", ""
	if n := len(r.Waypoints); n > 0 {
		r.StartSector, r.StartHex = r.Waypoints[0].Sector, r.Waypoints[0].Hex
		r.DestinationSector, r.DestinationHex = r.Waypoints[n-1].Sector, r.Waypoints[n-1].Hex
	}

	r.FuelEstimate = r.Ship.JumpFuel(r.TotalParsecs())
}

// CloneWaypoints returns a deep copy of the waypoint list.
func (r *Route) CloneWaypoints() []Waypoint {
	out := make([]Waypoint, len(r.Waypoints))
	copy(out, r.Waypoints)
	for i := range out {
		if d := out[i].JumpDistance; d != nil {
			v := *d
			out[i].JumpDistance = &v
		}
	}
	return out
}

// Planned multi-stop itinerary produced by the optimizer.
// Path runs from the start to the final destination inclusive.
type RoutePlan struct {
	Order      []Location
	Path       []*System
	TotalJumps int
	Exact      bool
}
