package services

import (
	"astrogation-service/internal/domain"
	"fmt"
	"math"
)

// ExactOrder enumerates every permutation of destinations in lexicographic
// index order and returns the feasible one with the fewest total jumps.
// The first minimum found wins. A permutation is infeasible when any of its
// legs has no cached path.
func ExactOrder(cache *PairwiseCache, start string, destinations []string) ([]int, int, error) {
	n := len(destinations)
	if n == 0 {
		return []int{}, 0, nil
	}
	used := make([]bool, n)
	perm := make([]int, 0, n)

	var best []int
	bestTotal := math.MaxInt

	var walk func(current string, total int)
	walk = func(current string, total int) {
		// No completion of this prefix can beat the incumbent.
		if total >= bestTotal {
			return
		}
		if len(perm) == n {
			bestTotal = total
			best = append(best[:0], perm...)
			return
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			jumps, ok := cache.Jumps(current, destinations[i])
			if !ok {
				continue
			}
			used[i] = true
			perm = append(perm, i)
			walk(destinations[i], total+jumps)
			perm = perm[:len(perm)-1]
			used[i] = false
		}
	}
	walk(start, 0)

	if best == nil {
		return nil, 0, fmt.Errorf("exact order: no valid route through %d destinations: %w", n, domain.ErrNoPathFound)
	}
	return best, bestTotal, nil
}
