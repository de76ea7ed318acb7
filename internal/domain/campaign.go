package domain

const (
	DaysPerYear = 365

	// In-universe days spent per jump.
	JumpDurationDays = 7
)

// Campaign holding the shared in-universe calendar.
// Day and Year are optional; the calendar only runs once both are set.
type Campaign struct {
	ID   int64
	Name string
	Day  *int
	Year *int
}

// HasCalendar reports whether both day and year are set.
func (c *Campaign) HasCalendar() bool {
	return c != nil && c.Day != nil && c.Year != nil
}

// AdvanceDays moves the calendar forward, wrapping at 365 days a year.
// It reports false and does nothing when the calendar is not set.
func (c *Campaign) AdvanceDays(days int) bool {
	if !c.HasCalendar() || days <= 0 {
		return false
	}

	day := *c.Day + days
	year := *c.Year
	for day > DaysPerYear {
		day -= DaysPerYear
		year++
	}
	c.Day = &day
	c.Year = &year
	return true
}
