package services

import (
	"astrogation-service/internal/domain"
	"astrogation-service/internal/ports"
	"context"
	"fmt"
)

// Navigator loads routes, applies navigation transitions and stores the result.
type Navigator struct {
	Repo ports.RouteRepository
}

func NewNavigator(repo ports.RouteRepository) *Navigator {
	return &Navigator{Repo: repo}
}

// Activate starts navigation on a route unless another route of the same ship
// is already active.
func (n *Navigator) Activate(ctx context.Context, routeID int64) (*domain.Route, error) {
	route, err := n.Repo.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("activate route: %w", err)
	}

	siblings, err := n.Repo.ListRoutesForShip(ctx, route.ShipID)
	if err != nil {
		return nil, fmt.Errorf("activate route: list ship routes: %w", err)
	}

	if err := route.Activate(siblings); err != nil {
		return nil, err
	}
	if err := n.Repo.SaveRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("activate route: %w", err)
	}
	return route, nil
}

// Close stops navigation, keeping the current-waypoint bookmark.
func (n *Navigator) Close(ctx context.Context, routeID int64) (*domain.Route, error) {
	route, err := n.Repo.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("close route: %w", err)
	}

	route.Close()
	if err := n.Repo.SaveRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("close route: %w", err)
	}
	return route, nil
}

// Travel jumps one waypoint in dir and advances the campaign calendar.
func (n *Navigator) Travel(ctx context.Context, routeID int64, dir domain.Direction) (*domain.Waypoint, *domain.Campaign, error) {
	route, err := n.Repo.GetRoute(ctx, routeID)
	if err != nil {
		return nil, nil, fmt.Errorf("travel: %w", err)
	}

	var campaign *domain.Campaign
	if route.CampaignID != 0 {
		campaign, err = n.Repo.GetCampaign(ctx, route.CampaignID)
		if err != nil {
			return nil, nil, fmt.Errorf("travel: %w", err)
		}
	}

	wp, err := route.Travel(dir, campaign)
	if err != nil {
		return nil, nil, err
	}
	if err := n.Repo.SaveTravel(ctx, route, campaign); err != nil {
		return nil, nil, fmt.Errorf("travel: %w", err)
	}
	return wp, campaign, nil
}
