package ports

import (
	"astrogation-service/internal/domain"
	"context"
)

// Persistent cache for parsed sector data and sector offsets.
// The bool result reports a cache hit.
type SectorCache interface {
	GetSystems(ctx context.Context, sector string) ([]domain.System, bool, error)
	PutSystems(ctx context.Context, sector string, systems []domain.System) error
	GetOffset(ctx context.Context, sector string) (*domain.SectorOffset, bool, error)
	PutOffset(ctx context.Context, sector string, offset domain.SectorOffset) error
}
