package domain

import "errors"

var (
	// Malformed hex address.
	ErrInvalidFormat = errors.New("invalid hex format")

	// A start or destination is absent from the loaded systems.
	ErrSystemNotFound = errors.New("system not found")

	// No route exists under the current jump range and routing policy.
	ErrNoPathFound = errors.New("no path found")

	// Another route for the same ship is already active.
	ErrStateConflict = errors.New("another route is already active for this ship")

	ErrNavigationOffline = errors.New("navigation offline: route is not active")
	ErrSyncFailure       = errors.New("navigation sync failure: no current waypoint")
	ErrOutOfRange        = errors.New("no waypoint in that direction")

	ErrInvalidJumpRange = errors.New("jump range must be at least 1")
	ErrWaypointNotFound = errors.New("waypoint not found")
	ErrRouteNotFound    = errors.New("route not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)
