package services

import (
	"astrogation-service/internal/domain"
	"context"
	"errors"
	"testing"
)

// memRepo is an in-memory RouteRepository.
type memRepo struct {
	routes    map[int64]*domain.Route
	campaigns map[int64]*domain.Campaign
	saves     int
}

func newMemRepo() *memRepo {
	return &memRepo{routes: map[int64]*domain.Route{}, campaigns: map[int64]*domain.Campaign{}}
}

func (m *memRepo) CreateRoute(ctx context.Context, r *domain.Route) error {
	m.routes[r.ID] = r
	return nil
}

func (m *memRepo) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	r, ok := m.routes[id]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	return r, nil
}

func (m *memRepo) ListRoutesForShip(ctx context.Context, shipID int64) ([]*domain.Route, error) {
	out := []*domain.Route{}
	for _, r := range m.routes {
		if r.ShipID == shipID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) SaveRoute(ctx context.Context, r *domain.Route) error {
	m.saves++
	m.routes[r.ID] = r
	return nil
}

func (m *memRepo) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	return c, nil
}

func (m *memRepo) SaveTravel(ctx context.Context, r *domain.Route, c *domain.Campaign) error {
	m.saves++
	m.routes[r.ID] = r
	if c != nil {
		m.campaigns[c.ID] = c
	}
	return nil
}

func routeWith(id, shipID int64, hexes ...string) *domain.Route {
	r := &domain.Route{ID: id, ShipID: shipID, CampaignID: 1}
	for _, h := range hexes {
		r.Waypoints = append(r.Waypoints, domain.Waypoint{Sector: marches, Hex: h})
	}
	r.Refresh()
	return r
}

func TestNavigatorActivateConflict(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	repo.routes[1] = routeWith(1, 7, "0101", "0102")
	repo.routes[2] = routeWith(2, 7, "0103", "0104")
	repo.routes[3] = routeWith(3, 8, "0105", "0106")
	nav := NewNavigator(repo)

	if _, err := nav.Activate(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := nav.Activate(ctx, 3); err != nil {
		t.Fatalf("other ship's route should activate: %v", err)
	}

	saves := repo.saves
	if _, err := nav.Activate(ctx, 2); !errors.Is(err, domain.ErrStateConflict) {
		t.Fatalf("err = %v, want ErrStateConflict", err)
	}
	if repo.saves != saves {
		t.Fatalf("conflicting activation was saved")
	}
	if repo.routes[2].IsActive || !repo.routes[1].IsActive {
		t.Fatalf("route states changed on conflict")
	}

	if _, err := nav.Close(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := nav.Activate(ctx, 2); err != nil {
		t.Fatalf("activation after close: %v", err)
	}
}

func TestNavigatorTravelAdvancesCalendar(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	repo.routes[1] = routeWith(1, 7, "0101", "0102", "0103")
	day, year := 363, 1105
	repo.campaigns[1] = &domain.Campaign{ID: 1, Day: &day, Year: &year}
	nav := NewNavigator(repo)

	if _, _, err := nav.Travel(ctx, 1, domain.Forward); !errors.Is(err, domain.ErrNavigationOffline) {
		t.Fatalf("err = %v, want ErrNavigationOffline", err)
	}

	if _, err := nav.Activate(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wp, campaign, err := nav.Travel(ctx, 1, domain.Forward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wp.Hex != "0102" {
		t.Fatalf("current = %s, want 0102", wp.Hex)
	}
	if *campaign.Day != 5 || *campaign.Year != 1106 {
		t.Fatalf("calendar = %d/%d, want 5/1106", *campaign.Day, *campaign.Year)
	}

	if _, err := nav.Activate(ctx, 99); !errors.Is(err, domain.ErrRouteNotFound) {
		t.Fatalf("err = %v, want ErrRouteNotFound", err)
	}
}
