package ports

import (
	"astrogation-service/internal/domain"
	"context"
)

// Optional extension of SystemDataSource that resolves a single world directly.
type WorldLookup interface {
	SystemDataSource
	// Return the system at sector/hex, or nil when no world is listed there.
	LookupWorld(ctx context.Context, sector, hex string) (*domain.System, error)
}
