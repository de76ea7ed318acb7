package services

import (
	"astrogation-service/internal/domain"
	"astrogation-service/internal/platform/obs"
	"astrogation-service/internal/ports"
	"context"
	"fmt"
)

// Up to this many destinations are ordered exactly; beyond it, greedily.
const exactSolveLimit = 6

// Optimizer orders a start point and destinations into a minimal-jump itinerary.
type Optimizer struct {
	Source ports.SystemDataSource
}

func NewOptimizer(source ports.SystemDataSource) *Optimizer {
	return &Optimizer{Source: source}
}

// Optimize loads the sectors involved, then plans the itinerary with
// PlanItinerary. System data is fetched fresh on every call.
func (o *Optimizer) Optimize(
	ctx context.Context,
	start domain.Location,
	destinations []domain.Location,
	jumpRange int,
	policy domain.RoutingPolicy,
) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	if jumpRange < 1 {
		return nil, fmt.Errorf("optimize route: jump range %d: %w", jumpRange, domain.ErrInvalidJumpRange)
	}

	sectors := make([]string, 0, 1+len(destinations))
	for _, loc := range append([]domain.Location{start}, destinations...) {
		if _, _, err := domain.HexToAxial(loc.Hex); err != nil {
			return nil, fmt.Errorf("optimize route: %w", err)
		}
		sectors = append(sectors, loc.Sector)
	}

	galaxy, err := LoadGalaxy(ctx, o.Source, sectors)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	destKeys := make([]string, 0, len(destinations))
	for _, d := range destinations {
		destKeys = append(destKeys, d.Key())
	}

	plan, err := PlanItinerary(galaxy, start.Key(), destKeys, jumpRange, policy)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}
	return plan, nil
}

// PlanItinerary orders destinations from start over an already loaded galaxy.
//
// Pairwise paths are computed once per ordered pair. Up to exactSolveLimit
// destinations are ordered by exhaustive enumeration; larger sets fall back to
// nearest neighbor. The legs are stitched into one continuous path.
func PlanItinerary(
	galaxy *Galaxy,
	start string,
	destinations []string,
	jumpRange int,
	policy domain.RoutingPolicy,
) (*domain.RoutePlan, error) {
	if _, ok := galaxy.Get(start); !ok {
		return nil, fmt.Errorf("plan itinerary: start %q: %w", start, domain.ErrSystemNotFound)
	}
	for _, d := range destinations {
		if _, ok := galaxy.Get(d); !ok {
			return nil, fmt.Errorf("plan itinerary: destination %q: %w", d, domain.ErrSystemNotFound)
		}
	}

	finder := NewPathFinder(galaxy)
	keys := append([]string{start}, destinations...)
	cache, err := BuildPairwiseCache(finder, keys, jumpRange, policy)
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}

	exact := len(destinations) <= exactSolveLimit
	var order []int
	if exact {
		order, _, err = ExactOrder(cache, start, destinations)
	} else {
		order, _, err = NearestNeighborOrder(cache, start, destinations)
	}
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}

	ordered := make([]string, 0, len(order))
	for _, i := range order {
		ordered = append(ordered, destinations[i])
	}

	pathKeys, jumps, err := cache.Stitch(start, ordered)
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}

	plan := &domain.RoutePlan{
		Order:      make([]domain.Location, 0, len(ordered)),
		Path:       make([]*domain.System, 0, len(pathKeys)),
		TotalJumps: jumps,
		Exact:      exact,
	}
	for _, k := range ordered {
		s := galaxy.Systems[k]
		plan.Order = append(plan.Order, domain.Location{Sector: s.Sector, Hex: s.Hex})
	}
	for _, k := range pathKeys {
		plan.Path = append(plan.Path, galaxy.Systems[k])
	}

	return plan, nil
}
