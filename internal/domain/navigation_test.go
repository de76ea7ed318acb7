package domain

import (
	"errors"
	"testing"
)

func newTestRoute(id int64, hexes ...string) *Route {
	r := &Route{ID: id, ShipID: 1, Ship: &Ship{ID: 1, JumpRating: 2, HullTonnage: 200}}
	for _, h := range hexes {
		r.Waypoints = append(r.Waypoints, Waypoint{Sector: "Spinward Marches", Hex: h})
	}
	r.Refresh()
	return r
}

func countCurrent(r *Route) int {
	n := 0
	for _, wp := range r.Waypoints {
		if wp.IsCurrent {
			n++
		}
	}
	return n
}

func intp(v int) *int { return &v }

func TestRouteActivateMarksFirstWaypoint(t *testing.T) {
	r := newTestRoute(1, "1910", "2010", "2111")

	if err := r.Activate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsActive {
		t.Fatalf("route should be active")
	}
	if cur := r.Current(); cur == nil || cur.Position != 1 {
		t.Fatalf("current = %+v, want position 1", cur)
	}
}

func TestRouteActivateKeepsBookmark(t *testing.T) {
	r := newTestRoute(1, "1910", "2010", "2111")
	r.SetCurrent(2)

	if err := r.Activate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur := r.Current(); cur == nil || cur.Position != 2 {
		t.Fatalf("current = %+v, want position 2", cur)
	}
}

func TestRouteActivateConflict(t *testing.T) {
	active := newTestRoute(1, "1910", "2010")
	if err := active.Activate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := newTestRoute(2, "0101", "0102")

	err := other.Activate([]*Route{active, other})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("err = %v, want ErrStateConflict", err)
	}
	if other.IsActive || other.Current() != nil {
		t.Fatalf("conflicting route was modified: active=%v current=%v", other.IsActive, other.Current())
	}
	if !active.IsActive || active.Current().Position != 1 {
		t.Fatalf("sibling route was modified")
	}
}

func TestRouteCloseKeepsBookmark(t *testing.T) {
	r := newTestRoute(1, "1910", "2010", "2111")
	_ = r.Activate(nil)
	if _, err := r.Travel(Forward, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Close()
	if r.IsActive {
		t.Fatalf("route should be inactive")
	}
	if cur := r.Current(); cur == nil || cur.Position != 2 {
		t.Fatalf("bookmark lost: current = %+v", cur)
	}

	_ = r.Activate(nil)
	if cur := r.Current(); cur.Position != 2 {
		t.Fatalf("resume position = %d, want 2", cur.Position)
	}
}

func TestRouteTravel(t *testing.T) {
	r := newTestRoute(1, "1910", "2010", "2111")
	campaign := &Campaign{ID: 1, Day: intp(100), Year: intp(1105)}

	if _, err := r.Travel(Forward, campaign); !errors.Is(err, ErrNavigationOffline) {
		t.Fatalf("err = %v, want ErrNavigationOffline", err)
	}

	r.IsActive = true
	if _, err := r.Travel(Forward, campaign); !errors.Is(err, ErrSyncFailure) {
		t.Fatalf("err = %v, want ErrSyncFailure", err)
	}

	r.SetCurrent(1)
	if _, err := r.Travel(Backward, campaign); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if *campaign.Day != 100 {
		t.Fatalf("failed travel advanced the calendar to day %d", *campaign.Day)
	}

	steps := []struct {
		dir     Direction
		wantPos int
		wantDay int
	}{
		{Forward, 2, 107},
		{Forward, 3, 114},
		{Backward, 2, 121},
		{Backward, 1, 128},
	}
	for _, s := range steps {
		wp, err := r.Travel(s.dir, campaign)
		if err != nil {
			t.Fatalf("travel %s: unexpected error: %v", s.dir, err)
		}
		if wp.Position != s.wantPos {
			t.Fatalf("travel %s: position = %d, want %d", s.dir, wp.Position, s.wantPos)
		}
		if n := countCurrent(r); n != 1 {
			t.Fatalf("travel %s: %d current waypoints, want 1", s.dir, n)
		}
		if *campaign.Day != s.wantDay {
			t.Fatalf("travel %s: day = %d, want %d", s.dir, *campaign.Day, s.wantDay)
		}
	}

	r.SetCurrent(3)
	if _, err := r.Travel(Forward, campaign); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if cur := r.Current(); cur.Position != 3 {
		t.Fatalf("failed travel moved current to %d", cur.Position)
	}
}

func TestRouteTravelWithoutCalendar(t *testing.T) {
	r := newTestRoute(1, "1910", "2010")
	_ = r.Activate(nil)
	campaign := &Campaign{ID: 1, Day: intp(10)}

	if _, err := r.Travel(Forward, campaign); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *campaign.Day != 10 || campaign.Year != nil {
		t.Fatalf("calendar without a year must not advance")
	}
}

func TestCampaignAdvanceWrapsYear(t *testing.T) {
	c := &Campaign{Day: intp(363), Year: intp(1105)}
	if !c.AdvanceDays(JumpDurationDays) {
		t.Fatalf("calendar should advance")
	}
	if *c.Day != 5 || *c.Year != 1106 {
		t.Fatalf("calendar = %d-%d, want 005-1106", *c.Day, *c.Year)
	}
}

func TestRouteHasInvalidJumps(t *testing.T) {
	r := newTestRoute(1, "1910", "2010", "2111")
	r.Waypoints[1].JumpDistance = intp(1)
	r.Waypoints[2].JumpDistance = intp(2)
	if r.HasInvalidJumps() {
		t.Fatalf("jumps within rating flagged invalid")
	}

	r.Waypoints[2].JumpDistance = intp(3)
	if !r.HasInvalidJumps() {
		t.Fatalf("jump of 3 with rating 2 not flagged")
	}

	r.JumpRange = 4
	if r.HasInvalidJumps() {
		t.Fatalf("explicit jump range should override ship rating")
	}
}

func TestRoutePolicyAllowsStop(t *testing.T) {
	tests := []struct {
		name   string
		sys    System
		policy RoutingPolicy
		want   bool
	}{
		{"starport", System{UWP: "B000000-0"}, RoutingPolicy{}, true},
		{"gas giant only", System{UWP: "X000000-0", GasGiants: 2}, RoutingPolicy{}, true},
		{"no fuel", System{UWP: "E000000-0"}, RoutingPolicy{}, false},
		{"gas giant, starport required", System{UWP: "X000000-0", GasGiants: 1}, RoutingPolicy{RequireStarport: true}, false},
		{"red zone avoided", System{UWP: "A000000-0", Zone: ZoneRed}, RoutingPolicy{AvoidHostileZones: true}, false},
		{"amber zone avoided", System{UWP: "A000000-0", Zone: ZoneAmber}, RoutingPolicy{AvoidHostileZones: true}, false},
		{"red zone allowed", System{UWP: "A000000-0", Zone: ZoneRed}, RoutingPolicy{}, true},
	}
	for _, tt := range tests {
		if got := tt.policy.AllowsStop(&tt.sys); got != tt.want {
			t.Errorf("%s: AllowsStop = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestShipJumpFuel(t *testing.T) {
	ship := &Ship{HullTonnage: 200}
	if got := ship.JumpFuel(3); got != 60 {
		t.Fatalf("JumpFuel(3) = %d, want 60", got)
	}
	ship.HullTonnage = 105
	if got := ship.JumpFuel(1); got != 11 {
		t.Fatalf("JumpFuel(1) = %d, want 11", got)
	}
	var none *Ship
	if got := none.JumpFuel(4); got != 0 {
		t.Fatalf("nil ship JumpFuel = %d, want 0", got)
	}
}
