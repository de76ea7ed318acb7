package domain

import "fmt"

// Dimensions of one sector's local hex grid.
const (
	SectorWidth  = 32
	SectorHeight = 40
)

// Position of a sector on the sector grid, in sectors rather than hexes.
type SectorOffset struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Global cube coordinate. X+Y+Z is always zero.
type Cube struct {
	X int
	Y int
	Z int
}

// HexToAxial splits a 4-digit hex address ("CCRR") into its column and row.
// Both pairs are decimal, as on Traveller sector maps: "1910" is column 19,
// row 10. Letters are rejected even though the address is called a hex.
func HexToAxial(hex string) (col, row int, err error) {
	if len(hex) != 4 {
		return 0, 0, fmt.Errorf("parse hex %q: want 4 digits: %w", hex, ErrInvalidFormat)
	}
	for i := 0; i < len(hex); i++ {
		if hex[i] < '0' || hex[i] > '9' {
			return 0, 0, fmt.Errorf("parse hex %q: non-digit at offset %d: %w", hex, i, ErrInvalidFormat)
		}
	}

	col = int(hex[0]-'0')*10 + int(hex[1]-'0')
	row = int(hex[2]-'0')*10 + int(hex[3]-'0')
	return col, row, nil
}

// GlobalCube places a sector-local hex on the galaxy-wide cube grid.
// Even columns sit half a hex lower than odd ones, as on Traveller sector maps.
func GlobalCube(hex string, offset SectorOffset) (Cube, error) {
	col, row, err := HexToAxial(hex)
	if err != nil {
		return Cube{}, err
	}

	col += offset.X * SectorWidth
	row += offset.Y * SectorHeight

	x := col
	y := row - (col+(col&1))/2
	return Cube{X: x, Y: y, Z: -x - y}, nil
}

// Distance is the number of parsecs (hex steps) between two cube coordinates.
func Distance(a, b Cube) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
