package systems

import (
	"astrogation-service/internal/domain"
	"astrogation-service/internal/platform/obs"
	"astrogation-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultTravellerMapURL = "https://travellermap.com"

// TravellerMapSource implements SystemDataSource and WorldLookup against the
// Traveller Map API.
//
// It coordinates:
//   - Sector name normalization
//   - Static sector offset overrides
//   - Persistent sector caching (optional)
//   - De-duplication of concurrent fetches for the same sector
//   - External API calls with retry/backoff
//
// The source is safe for concurrent use.
type TravellerMapSource struct {
	session     *http.Client
	baseURL     string
	cache       ports.SectorCache
	overrides   map[string]domain.SectorOffset
	group       singleflight.Group
	maxAttempts int
	backoff     time.Duration
}

func NewTravellerMapSource(
	baseURL string,
	timeout time.Duration,
	cache ports.SectorCache,
	overrides map[string]domain.SectorOffset,
) (*TravellerMapSource, error) {
	if baseURL == "" {
		return nil, errors.New("traveller map base url is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TravellerMapSource{
		session:     &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		cache:       cache,
		overrides:   overrides,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

// ParseSector returns every system in a sector, from cache when possible.
func (t *TravellerMapSource) ParseSector(ctx context.Context, sector string) (_ []domain.System, err error) {
	defer obs.Time(ctx, "travellermap.ParseSector")(&err)

	name := normalize(sector)
	if name == "" {
		return nil, errors.New("parse sector: sector name must be non-empty")
	}

	if t.cache != nil {
		systems, ok, err := t.cache.GetSystems(ctx, name)
		if err != nil {
			log.Printf("sector cache read failed sector=%q: %v", name, err)
		} else if ok {
			return withSector(systems, sector), nil
		}
	}

	v, err := t.shared(ctx, "sec:"+name, func(fetchCtx context.Context) (any, error) {
		return t.fetchSector(fetchCtx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("parse sector %q: %w", name, err)
	}
	systems := v.([]domain.System)

	if t.cache != nil {
		if err := t.cache.PutSystems(ctx, name, systems); err != nil {
			log.Printf("sector cache write failed sector=%q: %v", name, err)
		}
	}

	return withSector(systems, sector), nil
}

func (t *TravellerMapSource) fetchSector(ctx context.Context, name string) ([]domain.System, error) {
	resp, err := t.get(ctx, "/api/sec", map[string]string{"sector": name, "type": "TabDelimited"})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("sector %q not found: %w", name, err)
		}
		return nil, fmt.Errorf("fetch sector data: %w", err)
	}
	defer resp.Body.Close()

	return ParseTabDelimited(resp.Body, name)
}

type coordinatesResponse struct {
	SX int `json:"sx"`
	SY int `json:"sy"`
}

// SectorCoordinates returns the sector's offset on the sector grid, or nil
// when Traveller Map does not know the sector.
func (t *TravellerMapSource) SectorCoordinates(ctx context.Context, sector string) (_ *domain.SectorOffset, err error) {
	defer obs.Time(ctx, "travellermap.SectorCoordinates")(&err)

	name := normalize(sector)
	if name == "" {
		return nil, nil
	}

	if off, ok := t.overrides[name]; ok {
		return &off, nil
	}

	if t.cache != nil {
		off, ok, err := t.cache.GetOffset(ctx, name)
		if err != nil {
			log.Printf("sector cache read failed sector=%q: %v", name, err)
		} else if ok {
			return off, nil
		}
	}

	v, err := t.shared(ctx, "coord:"+name, func(fetchCtx context.Context) (any, error) {
		return t.fetchCoordinates(fetchCtx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("sector coordinates %q: %w", name, err)
	}
	off, _ := v.(*domain.SectorOffset)
	if off == nil {
		return nil, nil
	}

	if t.cache != nil {
		if err := t.cache.PutOffset(ctx, name, *off); err != nil {
			log.Printf("sector cache write failed sector=%q: %v", name, err)
		}
	}
	return off, nil
}

func (t *TravellerMapSource) fetchCoordinates(ctx context.Context, name string) (*domain.SectorOffset, error) {
	resp, err := t.get(ctx, "/api/coordinates", map[string]string{"sector": name})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch coordinates: %w", err)
	}
	defer resp.Body.Close()

	var decoded coordinatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode coordinates response: %w", err)
	}
	return &domain.SectorOffset{X: decoded.SX, Y: decoded.SY}, nil
}

// LookupWorld returns the system at sector/hex, or nil when the hex is empty.
func (t *TravellerMapSource) LookupWorld(ctx context.Context, sector, hex string) (*domain.System, error) {
	systems, err := t.ParseSector(ctx, sector)
	if err != nil {
		return nil, fmt.Errorf("lookup world %s %s: %w", sector, hex, err)
	}
	for i := range systems {
		if systems[i].Hex == hex {
			return &systems[i], nil
		}
	}
	return nil, nil
}

// shared runs fetch once for all concurrent callers of key. The fetch is
// detached from any single caller's cancellation and bounded by the client
// timeout; each caller stops waiting when its own ctx is done.
func (t *TravellerMapSource) shared(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := t.group.DoChan(key, func() (any, error) {
		return fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// withSector copies systems labelled with the caller's sector name so
// galaxy keys match the names routes were built with.
func withSector(systems []domain.System, sector string) []domain.System {
	out := make([]domain.System, len(systems))
	copy(out, systems)
	for i := range out {
		out[i].Sector = sector
	}
	return out
}
