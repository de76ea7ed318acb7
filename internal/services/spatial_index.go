package services

import "astrogation-service/internal/domain"

// Edge length of a spatial index cell, in cube units.
const spatialCellSize = 10

type cellKey struct {
	x, y int
}

// SpatialIndex buckets systems into fixed-size grid cells keyed by cube (x, y)
// so neighbor queries only touch the cells around a point.
type SpatialIndex struct {
	galaxy   *Galaxy
	cellSize int
	cells    map[cellKey][]string
}

func NewSpatialIndex(g *Galaxy) *SpatialIndex {
	idx := &SpatialIndex{
		galaxy:   g,
		cellSize: spatialCellSize,
		cells:    make(map[cellKey][]string),
	}
	for _, k := range g.Keys {
		c := idx.cellOf(g.Systems[k].Cube)
		idx.cells[c] = append(idx.cells[c], k)
	}
	return idx
}

func (idx *SpatialIndex) cellOf(c domain.Cube) cellKey {
	return cellKey{x: floorDiv(c.X, idx.cellSize), y: floorDiv(c.Y, idx.cellSize)}
}

// NeighborsWithin returns the keys of systems no further than radius from
// center, including a system at center itself. For radii up to the cell size
// this scans the center cell and its 8 neighbours; larger radii widen the ring.
// Results are ordered by cell, then by load order within a cell.
func (idx *SpatialIndex) NeighborsWithin(center domain.Cube, radius int) []string {
	if radius < 0 {
		return nil
	}

	span := 1
	if radius > idx.cellSize {
		span = (radius + idx.cellSize - 1) / idx.cellSize
	}

	home := idx.cellOf(center)
	out := make([]string, 0)
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for _, k := range idx.cells[cellKey{x: home.x + dx, y: home.y + dy}] {
				if domain.Distance(center, idx.galaxy.Systems[k].Cube) <= radius {
					out = append(out, k)
				}
			}
		}
	}
	return out
}

// floorDiv rounds toward negative infinity so cells stay uniform across zero.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
