package services

import (
	"astrogation-service/internal/domain"
	"errors"
	"fmt"
)

// PairwiseCache memoizes shortest paths for every ordered pair of a waypoint
// set. A pair with no path under the constraints has no entry.
type PairwiseCache struct {
	paths map[string][]string
}

func pairKey(from, to string) string { return from + "|" + to }

// BuildPairwiseCache runs one search per ordered pair (i != j) of keys.
// Unreachable pairs are left out; any other search failure aborts the build.
func BuildPairwiseCache(
	finder *PathFinder,
	keys []string,
	jumpRange int,
	policy domain.RoutingPolicy,
) (*PairwiseCache, error) {
	c := &PairwiseCache{paths: make(map[string][]string, len(keys)*len(keys))}

	for i, from := range keys {
		for j, to := range keys {
			if i == j {
				continue
			}
			k := pairKey(from, to)
			if _, ok := c.paths[k]; ok {
				continue
			}

			path, err := finder.FindPath(from, to, jumpRange, policy)
			if errors.Is(err, domain.ErrNoPathFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("build pairwise cache: %w", err)
			}
			c.paths[k] = path
		}
	}

	return c, nil
}

// Path returns the cached path from one key to another.
func (c *PairwiseCache) Path(from, to string) ([]string, bool) {
	p, ok := c.paths[pairKey(from, to)]
	return p, ok
}

// Jumps returns the number of jumps (edges) of the cached path.
func (c *PairwiseCache) Jumps(from, to string) (int, bool) {
	if from == to {
		return 0, true
	}
	p, ok := c.paths[pairKey(from, to)]
	if !ok {
		return 0, false
	}
	return len(p) - 1, true
}

// Stitch joins the legs start->order[0]->order[1]... into one path, dropping
// the junction system duplicated between consecutive legs.
func (c *PairwiseCache) Stitch(start string, order []string) ([]string, int, error) {
	path := []string{start}
	jumps := 0
	current := start
	for _, next := range order {
		if next == current {
			continue
		}
		leg, ok := c.Path(current, next)
		if !ok {
			return nil, 0, fmt.Errorf("stitch route: %q -> %q: %w", current, next, domain.ErrNoPathFound)
		}
		path = append(path, leg[1:]...)
		jumps += len(leg) - 1
		current = next
	}
	return path, jumps, nil
}
