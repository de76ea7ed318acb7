package ports

import (
	"astrogation-service/internal/domain"
	"context"
)

// Port: a boundary for loading and storing routes and their campaign.
type RouteRepository interface {
	CreateRoute(ctx context.Context, route *domain.Route) error
	// Return a route with its ship and waypoints, or domain.ErrRouteNotFound.
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	// Return every route owned by a ship.
	ListRoutesForShip(ctx context.Context, shipID int64) ([]*domain.Route, error)
	// Store route fields and replace its waypoints wholesale.
	SaveRoute(ctx context.Context, route *domain.Route) error

	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	// Store a route and its campaign calendar in one transaction.
	SaveTravel(ctx context.Context, route *domain.Route, campaign *domain.Campaign) error
}
