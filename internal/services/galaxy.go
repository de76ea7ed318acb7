package services

import (
	"astrogation-service/internal/domain"
	"astrogation-service/internal/ports"
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Systems loaded for one optimization run, keyed by "sector:hex".
// Keys keeps load order so every scan over the galaxy is deterministic.
type Galaxy struct {
	Systems map[string]*domain.System
	Keys    []string
}

// NewGalaxy indexes systems whose Cube is already set. The first system
// listed for a key wins.
func NewGalaxy(systems []domain.System) *Galaxy {
	g := &Galaxy{
		Systems: make(map[string]*domain.System, len(systems)),
		Keys:    make([]string, 0, len(systems)),
	}
	for i := range systems {
		s := systems[i]
		k := s.Key()
		if _, ok := g.Systems[k]; ok {
			continue
		}
		g.Systems[k] = &s
		g.Keys = append(g.Keys, k)
	}
	return g
}

func (g *Galaxy) Get(key string) (*domain.System, bool) {
	s, ok := g.Systems[key]
	return s, ok
}

type sectorLoad struct {
	systems []domain.System
	offset  domain.SectorOffset
}

// Bounded fan-out for sector fetches against the external source.
const sectorFetchLimit = 4

// LoadGalaxy fetches every named sector, places its systems on the global cube
// grid, and returns them in sector order. Sectors without published
// coordinates default to the origin.
func LoadGalaxy(ctx context.Context, source ports.SystemDataSource, sectors []string) (*Galaxy, error) {
	names := uniqueSectors(sectors)
	loads := make([]sectorLoad, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sectorFetchLimit)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			systems, err := source.ParseSector(gctx, name)
			if err != nil {
				return fmt.Errorf("load galaxy: parse sector %q: %w", name, err)
			}
			offset, err := sectorOffset(gctx, source, name)
			if err != nil {
				return fmt.Errorf("load galaxy: %w", err)
			}
			loads[i] = sectorLoad{systems: systems, offset: offset}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]domain.System, 0)
	for i, name := range names {
		for _, s := range loads[i].systems {
			if s.Sector == "" {
				s.Sector = name
			}
			cube, err := domain.GlobalCube(s.Hex, loads[i].offset)
			if err != nil {
				log.Printf("load galaxy: skip system sector=%q hex=%q: %v", s.Sector, s.Hex, err)
				continue
			}
			s.Cube = cube
			all = append(all, s)
		}
	}

	return NewGalaxy(all), nil
}

// sectorOffset resolves a sector's offset, defaulting unknown sectors to {0, 0}.
func sectorOffset(ctx context.Context, source ports.SystemDataSource, sector string) (domain.SectorOffset, error) {
	off, err := source.SectorCoordinates(ctx, sector)
	if err != nil {
		return domain.SectorOffset{}, fmt.Errorf("sector coordinates %q: %w", sector, err)
	}
	if off == nil {
		return domain.SectorOffset{}, nil
	}
	return *off, nil
}

func uniqueSectors(sectors []string) []string {
	seen := make(map[string]struct{}, len(sectors))
	out := make([]string, 0, len(sectors))
	for _, s := range sectors {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
