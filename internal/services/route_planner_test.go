package services

import (
	"astrogation-service/internal/adapters/systems"
	"astrogation-service/internal/domain"
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

// bruteForceMin returns the fewest total jumps over every feasible permutation.
func bruteForceMin(cache *PairwiseCache, start string, dests []string) int {
	best := math.MaxInt
	var permute func(current string, remaining []string, total int)
	permute = func(current string, remaining []string, total int) {
		if len(remaining) == 0 {
			best = min(best, total)
			return
		}
		for i, d := range remaining {
			jumps, ok := cache.Jumps(current, d)
			if !ok {
				continue
			}
			rest := append(append([]string{}, remaining[:i]...), remaining[i+1:]...)
			permute(d, rest, total+jumps)
		}
	}
	permute(start, dests, 0)
	return best
}

func TestPlanItineraryExactMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	policy := domain.RoutingPolicy{}

	checked := 0
	for round := 0; round < 40; round++ {
		g := randomGalaxy(r, 80, 20)
		jumpRange := 2 + r.Intn(3)
		n := 1 + r.Intn(exactSolveLimit)

		keys := append([]string{}, g.Keys...)
		r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		start, dests := keys[0], keys[1:1+n]

		cache, err := BuildPairwiseCache(NewPathFinder(g), append([]string{start}, dests...), jumpRange, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := bruteForceMin(cache, start, dests)

		plan, err := PlanItinerary(g, start, dests, jumpRange, policy)
		if want == math.MaxInt {
			if !errors.Is(err, domain.ErrNoPathFound) {
				t.Fatalf("round %d: err = %v, want ErrNoPathFound", round, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}
		checked++

		if !plan.Exact {
			t.Fatalf("round %d: %d destinations should be solved exactly", round, n)
		}
		if plan.TotalJumps != want {
			t.Fatalf("round %d: total jumps = %d, brute force minimum = %d", round, plan.TotalJumps, want)
		}
		if len(plan.Path)-1 != plan.TotalJumps {
			t.Fatalf("round %d: path has %d systems for %d jumps", round, len(plan.Path), plan.TotalJumps)
		}
		if plan.Path[0].Key() != start {
			t.Fatalf("round %d: path starts at %s, want %s", round, plan.Path[0].Key(), start)
		}
		for i := 1; i < len(plan.Path); i++ {
			if d := domain.Distance(plan.Path[i-1].Cube, plan.Path[i].Cube); d > jumpRange {
				t.Fatalf("round %d: jump of %d exceeds range %d", round, d, jumpRange)
			}
		}
	}
	if checked == 0 {
		t.Fatalf("no feasible rounds were checked")
	}
}

func TestPlanItineraryGreedyForManyDestinations(t *testing.T) {
	systems := []domain.System{cubeSystem("S", 0, 0, "A000000-0")}
	for _, x := range []int{2, 4, 6, 8, 10, 12, 14} {
		systems = append(systems, cubeSystem(string(rune('A'+x/2-1)), x, 0, "A000000-0"))
	}
	g := NewGalaxy(systems)

	// Listed out of order; nearest neighbor walks them left to right.
	dests := []string{key("G"), key("B"), key("E"), key("A"), key("D"), key("F"), key("C")}
	plan, err := PlanItinerary(g, key("S"), dests, 2, domain.RoutingPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.Exact {
		t.Fatalf("%d destinations should use the greedy solver", len(dests))
	}
	if plan.TotalJumps != 7 {
		t.Fatalf("total jumps = %d, want 7", plan.TotalJumps)
	}
	wantOrder := "ABCDEFG"
	for i, loc := range plan.Order {
		if loc.Hex != string(wantOrder[i]) {
			t.Fatalf("stop %d = %s, want %c", i, loc.Hex, wantOrder[i])
		}
	}
	if len(plan.Path) != 8 {
		t.Fatalf("path length = %d, want 8", len(plan.Path))
	}
}

func TestPlanItineraryUnreachableDestination(t *testing.T) {
	systems := []domain.System{cubeSystem("S", 0, 0, "A000000-0")}
	for i := 1; i <= 7; i++ {
		systems = append(systems, cubeSystem(string(rune('A'+i-1)), i, 0, "A000000-0"))
	}
	systems = append(systems, cubeSystem("Z", 40, 0, "A000000-0"))
	g := NewGalaxy(systems)

	few := []string{key("A"), key("Z")}
	if _, err := PlanItinerary(g, key("S"), few, 1, domain.RoutingPolicy{}); !errors.Is(err, domain.ErrNoPathFound) {
		t.Fatalf("exact: err = %v, want ErrNoPathFound", err)
	}

	many := []string{key("A"), key("B"), key("C"), key("D"), key("E"), key("F"), key("Z")}
	if _, err := PlanItinerary(g, key("S"), many, 1, domain.RoutingPolicy{}); !errors.Is(err, domain.ErrNoPathFound) {
		t.Fatalf("greedy: err = %v, want ErrNoPathFound", err)
	}

	if _, err := PlanItinerary(g, key("S"), []string{key("Q")}, 1, domain.RoutingPolicy{}); !errors.Is(err, domain.ErrSystemNotFound) {
		t.Fatalf("err = %v, want ErrSystemNotFound", err)
	}
}

func TestNearestNeighborOrderTieGoesToFirstListed(t *testing.T) {
	g := NewGalaxy([]domain.System{
		cubeSystem("S", 0, 0, "A000000-0"),
		cubeSystem("L", -1, 0, "A000000-0"),
		cubeSystem("R", 1, 0, "A000000-0"),
	})
	dests := []string{key("R"), key("L")}
	cache, err := BuildPairwiseCache(NewPathFinder(g), append([]string{key("S")}, dests...), 1, domain.RoutingPolicy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, total, err := NearestNeighborOrder(cache, key("S"), dests)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order[0] != 0 || order[1] != 1 {
		t.Fatalf("order = %v, want [0 1]", order)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
}

func TestOptimizerAcrossSectors(t *testing.T) {
	source := systems.NewMockSystemSource()
	source.AddSector("Spinward Marches", &domain.SectorOffset{X: -4, Y: -1},
		domain.System{Hex: "3101", Name: "Edge", UWP: "B000000-0"},
		domain.System{Hex: "3201", Name: "Rim", UWP: "C000000-0"},
	)
	source.AddSector("Deneb", &domain.SectorOffset{X: -3, Y: -1},
		domain.System{Hex: "0101", Name: "Across", UWP: "A000000-0"},
		domain.System{Hex: "0301", Name: "Beyond", UWP: "A000000-0"},
	)

	opt := NewOptimizer(source)
	plan, err := opt.Optimize(
		context.Background(),
		domain.Location{Sector: "Spinward Marches", Hex: "3101"},
		[]domain.Location{{Sector: "Deneb", Hex: "0301"}},
		2,
		domain.RoutingPolicy{},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.TotalJumps != 2 {
		t.Fatalf("total jumps = %d, want 2", plan.TotalJumps)
	}
	if last := plan.Path[len(plan.Path)-1]; last.Sector != "Deneb" || last.Hex != "0301" {
		t.Fatalf("path ends at %s %s, want Deneb 0301", last.Sector, last.Hex)
	}

	_, err = opt.Optimize(
		context.Background(),
		domain.Location{Sector: "Spinward Marches", Hex: "31O1"},
		nil, 2, domain.RoutingPolicy{},
	)
	if !errors.Is(err, domain.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}
