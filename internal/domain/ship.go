package domain

// Ship owning one or more routes.
type Ship struct {
	ID          int64
	Name        string
	JumpRating  int
	HullTonnage int
}

// JumpFuel returns the tons of fuel needed to jump the given number of parsecs:
// 10% of hull tonnage per parsec, rounded up.
func (s *Ship) JumpFuel(parsecs int) int {
	if s == nil || s.HullTonnage <= 0 || parsecs <= 0 {
		return 0
	}
	return (s.HullTonnage*parsecs + 9) / 10
}
