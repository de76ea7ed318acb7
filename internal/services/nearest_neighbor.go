package services

import (
	"astrogation-service/internal/domain"
	"fmt"
	"math"
)

// NearestNeighborOrder orders destinations greedily: from the current
// position, always travel to the unvisited destination with the fewest
// cached jumps. It does not attempt global optimization.
//
// Ties go to the destination listed first, so the order is deterministic.
// Returns indexes into destinations and the total jump count.
func NearestNeighborOrder(cache *PairwiseCache, start string, destinations []string) ([]int, int, error) {
	visited := make([]bool, len(destinations))
	order := make([]int, 0, len(destinations))
	current := start
	total := 0

	for len(order) < len(destinations) {
		best := -1
		minJumps := math.MaxInt

		// Select next stop by minimum jump count (greedy step).
		for i, d := range destinations {
			if visited[i] {
				continue
			}
			jumps, ok := cache.Jumps(current, d)
			if !ok {
				continue
			}
			if jumps < minJumps {
				minJumps = jumps
				best = i
			}
		}

		if best == -1 {
			return nil, 0, fmt.Errorf(
				"nearest neighbor: cannot reach remaining destinations from %q: %w",
				current, domain.ErrNoPathFound,
			)
		}

		visited[best] = true
		order = append(order, best)
		total += minJumps
		current = destinations[best]
	}

	return order, total, nil
}
