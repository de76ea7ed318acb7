package services

import (
	"astrogation-service/internal/domain"
	"container/heap"
	"fmt"
)

// openItem is one entry of the A* open set.
type openItem struct {
	key   string
	g     int     // jumps from the start
	f     float64 // g + heuristic
	seq   int     // insertion order, breaks f ties
	index int
}

// openSet is a min-heap on f; equal f pops in insertion order.
type openSet []*openItem

func (q openSet) Len() int { return len(q) }
func (q openSet) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}
func (q openSet) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*q)
	*q = append(*q, item)
}
func (q *openSet) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// PathFinder runs jump-range constrained A* searches over one galaxy.
type PathFinder struct {
	galaxy *Galaxy
	index  *SpatialIndex
}

func NewPathFinder(g *Galaxy) *PathFinder {
	return &PathFinder{galaxy: g, index: NewSpatialIndex(g)}
}

// FindPath returns the fewest-jumps path from start to end, both inclusive.
//
// Every jump covers at most jumpRange parsecs. Every system on the path other
// than the start and the destination must satisfy policy.AllowsStop; the
// destination itself is always reachable. Returns domain.ErrNoPathFound when the
// search space is exhausted.
func (f *PathFinder) FindPath(start, end string, jumpRange int, policy domain.RoutingPolicy) ([]string, error) {
	if jumpRange < 1 {
		return nil, fmt.Errorf("find path: jump range %d: %w", jumpRange, domain.ErrInvalidJumpRange)
	}
	startSys, ok := f.galaxy.Get(start)
	if !ok {
		return nil, fmt.Errorf("find path: start %q: %w", start, domain.ErrSystemNotFound)
	}
	goal, ok := f.galaxy.Get(end)
	if !ok {
		return nil, fmt.Errorf("find path: destination %q: %w", end, domain.ErrSystemNotFound)
	}
	if start == end {
		return []string{start}, nil
	}

	heuristic := func(s *domain.System) float64 {
		return float64(domain.Distance(s.Cube, goal.Cube)) / float64(jumpRange)
	}

	gScore := map[string]int{start: 0}
	cameFrom := make(map[string]string)
	closed := make(map[string]bool)

	seq := 0
	open := &openSet{}
	heap.Push(open, &openItem{key: start, g: 0, f: heuristic(startSys), seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		if closed[current.key] || current.g > gScore[current.key] {
			continue
		}
		if current.key == end {
			return reconstructPath(cameFrom, end), nil
		}
		closed[current.key] = true

		sys := f.galaxy.Systems[current.key]
		for _, nb := range f.index.NeighborsWithin(sys.Cube, jumpRange) {
			if nb == current.key || closed[nb] {
				continue
			}
			nbSys := f.galaxy.Systems[nb]
			if nb != end && !policy.AllowsStop(nbSys) {
				continue
			}

			g := current.g + 1
			if best, seen := gScore[nb]; seen && g >= best {
				continue
			}
			gScore[nb] = g
			cameFrom[nb] = current.key
			seq++
			heap.Push(open, &openItem{key: nb, g: g, f: float64(g) + heuristic(nbSys), seq: seq})
		}
	}

	return nil, fmt.Errorf("find path: %q -> %q within jump-%d: %w", start, end, jumpRange, domain.ErrNoPathFound)
}

func reconstructPath(cameFrom map[string]string, end string) []string {
	path := []string{end}
	for k, ok := cameFrom[end]; ok; k, ok = cameFrom[k] {
		path = append(path, k)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
