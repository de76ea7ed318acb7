package domain

import "fmt"

type Direction int

const (
	Forward Direction = iota
	Backward
)

// ParseDirection accepts "forward" or "backward".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward":
		return Forward, nil
	case "backward":
		return Backward, nil
	}
	return Forward, fmt.Errorf("parse direction %q: want forward or backward", s)
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

func (d Direction) step() int {
	if d == Backward {
		return -1
	}
	return 1
}

// Activate puts the route into navigation. siblings are the other routes of
// the same ship; none of them may be active. The existing current-waypoint
// bookmark is kept, otherwise position 1 becomes current.
func (r *Route) Activate(siblings []*Route) error {
	for _, s := range siblings {
		if s == nil || s == r || (s.ID != 0 && s.ID == r.ID) {
			continue
		}
		if s.IsActive {
			return fmt.Errorf("activate route %d: route %d is active: %w", r.ID, s.ID, ErrStateConflict)
		}
	}

	r.IsActive = true
	if r.Current() == nil && len(r.Waypoints) > 0 {
		r.SetCurrent(1)
	}
	return nil
}

// Close takes the route out of navigation. The current waypoint stays marked
// so a later Activate resumes from it.
func (r *Route) Close() {
	r.IsActive = false
}

// Travel moves the current marker one waypoint in the given direction and,
// when the campaign calendar is set, advances it by one jump's duration.
// The calendar always moves forward regardless of direction.
func (r *Route) Travel(dir Direction, campaign *Campaign) (*Waypoint, error) {
	if !r.IsActive {
		return nil, fmt.Errorf("travel route %d: %w", r.ID, ErrNavigationOffline)
	}

	current := r.Current()
	if current == nil {
		return nil, fmt.Errorf("travel route %d: %w", r.ID, ErrSyncFailure)
	}

	target := r.WaypointAt(current.Position + dir.step())
	if target == nil {
		return nil, fmt.Errorf("travel route %d: %s from position %d: %w", r.ID, dir, current.Position, ErrOutOfRange)
	}

	current.IsCurrent = false
	target.IsCurrent = true
	campaign.AdvanceDays(JumpDurationDays)
	return target, nil
}
