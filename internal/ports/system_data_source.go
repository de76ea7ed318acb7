package ports

import (
	"astrogation-service/internal/domain"
	"context"
)

// Contract for reading raw star-system data and sector placement.
type SystemDataSource interface {
	// Return every system listed in a sector.
	ParseSector(ctx context.Context, sector string) ([]domain.System, error)

	// Return the sector's position on the sector grid.
	// A nil offset with a nil error means the sector is unknown.
	SectorCoordinates(ctx context.Context, sector string) (*domain.SectorOffset, error)
}
