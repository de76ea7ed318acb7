package systems

import (
	"astrogation-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

// MockSystemSource is an in-memory SystemDataSource for tests and offline runs.
type MockSystemSource struct {
	mu      sync.Mutex
	sectors map[string][]domain.System
	offsets map[string]domain.SectorOffset

	// When set, LookupWorld fails with this error.
	LookupErr error

	ParseCalls int
}

func NewMockSystemSource() *MockSystemSource {
	return &MockSystemSource{
		sectors: make(map[string][]domain.System),
		offsets: make(map[string]domain.SectorOffset),
	}
}

// AddSector registers a sector. A nil offset leaves the sector without
// published coordinates.
func (m *MockSystemSource) AddSector(name string, offset *domain.SectorOffset, systems ...domain.System) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range systems {
		systems[i].Sector = name
	}
	m.sectors[name] = append(m.sectors[name], systems...)
	if offset != nil {
		m.offsets[name] = *offset
	}
}

func (m *MockSystemSource) ParseSector(ctx context.Context, sector string) ([]domain.System, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ParseCalls++
	systems, ok := m.sectors[sector]
	if !ok {
		return nil, fmt.Errorf("mock source: unknown sector %q", sector)
	}
	out := make([]domain.System, len(systems))
	copy(out, systems)
	return out, nil
}

func (m *MockSystemSource) SectorCoordinates(ctx context.Context, sector string) (*domain.SectorOffset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	off, ok := m.offsets[sector]
	if !ok {
		return nil, nil
	}
	return &off, nil
}

func (m *MockSystemSource) LookupWorld(ctx context.Context, sector, hex string) (*domain.System, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	for _, s := range m.sectors[sector] {
		if s.Hex == hex {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}
