package domain

import "strings"

// Travel zone as published in sector data. Green worlds carry an empty code.
type Zone string

const (
	ZoneGreen Zone = ""
	ZoneAmber Zone = "A"
	ZoneRed   Zone = "R"
)

// Hostile reports whether a zone is closed to ships avoiding hostile space.
func (z Zone) Hostile() bool {
	return z == ZoneAmber || z == ZoneRed
}

// A star system read from external sector data.
// Cube is derived per optimization run and never stored.
type System struct {
	Sector    string `json:"sector"`
	Hex       string `json:"hex"`
	Name      string `json:"name"`
	UWP       string `json:"uwp"`
	Remarks   string `json:"remarks"`
	Zone      Zone   `json:"zone"`
	GasGiants int    `json:"gas_giants"`
	Cube      Cube   `json:"-"`
}

// SystemKey identifies a system across sectors as "sector:hex".
func SystemKey(sector, hex string) string {
	return sector + ":" + hex
}

func (s *System) Key() string { return SystemKey(s.Sector, s.Hex) }

// Starport returns the starport class, the first character of the UWP.
func (s *System) Starport() byte {
	if s.UWP == "" {
		return 'X'
	}
	return strings.ToUpper(s.UWP[:1])[0]
}

// HasFuelStarport reports a class A-D starport, the classes that sell fuel.
func (s *System) HasFuelStarport() bool {
	switch s.Starport() {
	case 'A', 'B', 'C', 'D':
		return true
	}
	return false
}

// Sector + hex pair addressing a system.
type Location struct {
	Sector string `json:"sector"`
	Hex    string `json:"hex"`
}

func (l Location) Key() string { return SystemKey(l.Sector, l.Hex) }

// Routing constraints applied to every intermediate stop.
type RoutingPolicy struct {
	AvoidHostileZones bool
	RequireStarport   bool
}

// AllowsStop reports whether a ship may stop at s on the way to somewhere else.
// A stop must be able to refuel the ship: a fuel starport, or a gas giant
// when the policy does not insist on a starport.
func (p RoutingPolicy) AllowsStop(s *System) bool {
	if p.AvoidHostileZones && s.Zone.Hostile() {
		return false
	}
	if p.RequireStarport {
		return s.HasFuelStarport()
	}
	return s.HasFuelStarport() || s.GasGiants > 0
}
