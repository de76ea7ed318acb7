package systems

import (
	"astrogation-service/internal/domain"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type memSectorCache struct {
	mu      sync.Mutex
	systems map[string][]domain.System
	offsets map[string]domain.SectorOffset
}

func newMemSectorCache() *memSectorCache {
	return &memSectorCache{
		systems: make(map[string][]domain.System),
		offsets: make(map[string]domain.SectorOffset),
	}
}

func (m *memSectorCache) GetSystems(ctx context.Context, s string) ([]domain.System, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.systems[s]
	return v, ok, nil
}

func (m *memSectorCache) PutSystems(ctx context.Context, s string, systems []domain.System) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems[s] = systems
	return nil
}

func (m *memSectorCache) GetOffset(ctx context.Context, s string) (*domain.SectorOffset, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.offsets[s]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (m *memSectorCache) PutOffset(ctx context.Context, s string, off domain.SectorOffset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offsets[s] = off
	return nil
}

type fakeTravellerMap struct {
	secHits   atomic.Int32
	coordHits atomic.Int32
	failFirst atomic.Int32
}

func (f *fakeTravellerMap) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.failFirst.Load() > 0 {
		f.failFirst.Add(-1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
		return
	}

	sector := r.URL.Query().Get("sector")
	switch r.URL.Path {
	case "/api/sec":
		f.secHits.Add(1)
		if sector != "Spinward Marches" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("type") != "TabDelimited" {
			http.Error(w, "bad type", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, sampleSector)
	case "/api/coordinates":
		f.coordHits.Add(1)
		if sector != "Spinward Marches" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sx":-4,"sy":-1}`)
	default:
		http.NotFound(w, r)
	}
}

func newTestSource(t *testing.T, overrides map[string]domain.SectorOffset) (*TravellerMapSource, *fakeTravellerMap, *memSectorCache) {
	t.Helper()

	fake := &fakeTravellerMap{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cache := newMemSectorCache()
	src, err := NewTravellerMapSource(srv.URL, time.Second, cache, overrides)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	src.backoff = time.Millisecond
	return src, fake, cache
}

func TestTravellerMapParseSectorUsesCache(t *testing.T) {
	src, fake, cache := newTestSource(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := src.ParseSector(ctx, "Spinward  Marches")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 systems, got %d", len(got))
		}
		if got[0].Sector != "Spinward  Marches" {
			t.Fatalf("systems should carry the requested sector name, got %q", got[0].Sector)
		}
	}

	if hits := fake.secHits.Load(); hits != 1 {
		t.Fatalf("expected 1 sector fetch, got %d", hits)
	}
	if _, ok := cache.systems["Spinward Marches"]; !ok {
		t.Fatal("expected sector cached under normalized name")
	}
}

func TestTravellerMapParseSectorRetriesTransientErrors(t *testing.T) {
	src, fake, _ := newTestSource(t, nil)
	fake.failFirst.Store(2)

	got, err := src.ParseSector(context.Background(), "Spinward Marches")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 systems, got %d", len(got))
	}
}

func TestTravellerMapParseSectorUnknown(t *testing.T) {
	src, fake, _ := newTestSource(t, nil)

	if _, err := src.ParseSector(context.Background(), "Nowhere"); err == nil {
		t.Fatal("expected error for unknown sector")
	}
	if hits := fake.secHits.Load(); hits != 1 {
		t.Fatalf("404 should not be retried, got %d fetches", hits)
	}
}

func TestTravellerMapSectorCoordinates(t *testing.T) {
	src, fake, _ := newTestSource(t, map[string]domain.SectorOffset{"Home": {X: 9, Y: 9}})
	ctx := context.Background()

	off, err := src.SectorCoordinates(ctx, "Spinward Marches")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off == nil || off.X != -4 || off.Y != -1 {
		t.Fatalf("unexpected offset: %+v", off)
	}
	if _, err := src.SectorCoordinates(ctx, "Spinward Marches"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits := fake.coordHits.Load(); hits != 1 {
		t.Fatalf("expected cached coordinates after first call, got %d fetches", hits)
	}

	off, err = src.SectorCoordinates(ctx, "Home")
	if err != nil || off == nil || off.X != 9 {
		t.Fatalf("expected override offset, got %+v err=%v", off, err)
	}

	off, err = src.SectorCoordinates(ctx, "Nowhere")
	if err != nil {
		t.Fatalf("unknown sector should not error: %v", err)
	}
	if off != nil {
		t.Fatalf("expected nil offset for unknown sector, got %+v", off)
	}
}

func TestTravellerMapLookupWorld(t *testing.T) {
	src, _, _ := newTestSource(t, nil)
	ctx := context.Background()

	sys, err := src.LookupWorld(ctx, "Spinward Marches", "0102")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sys == nil || sys.Name != "Reno" {
		t.Fatalf("expected Reno, got %+v", sys)
	}

	sys, err = src.LookupWorld(ctx, "Spinward Marches", "3240")
	if err != nil || sys != nil {
		t.Fatalf("expected empty hex to return nil, got %+v err=%v", sys, err)
	}
}

func TestTravellerMapConcurrentFetchesShareOneRequest(t *testing.T) {
	src, fake, _ := newTestSource(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := src.ParseSector(context.Background(), "Spinward Marches"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if hits := fake.secHits.Load(); hits < 1 || hits > 8 {
		t.Fatalf("unexpected fetch count %d", hits)
	}
}

func TestTravellerMapCancelledCallerDoesNotFailWaiters(t *testing.T) {
	arrived := make(chan struct{}, 4)
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		arrived <- struct{}{}
		<-release
		fmt.Fprint(w, sampleSector)
	}))
	t.Cleanup(srv.Close)

	src, err := NewTravellerMapSource(srv.URL, 5*time.Second, nil, nil)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := src.ParseSector(ctx, "Spinward Marches")
		firstErr <- err
	}()
	<-arrived

	type result struct {
		n   int
		err error
	}
	second := make(chan result, 1)
	go func() {
		got, err := src.ParseSector(context.Background(), "Spinward Marches")
		second <- result{n: len(got), err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: expected context.Canceled, got %v", err)
	}

	close(release)
	res := <-second
	if res.err != nil {
		t.Fatalf("waiting caller failed: %v", res.err)
	}
	if res.n != 3 {
		t.Fatalf("expected 3 systems, got %d", res.n)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("expected one shared fetch, got %d", n)
	}
}
