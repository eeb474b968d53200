package domain

import "time"

// Business hours. Promotions and cart sell times use the inclusive range
// [MinHour, MaxHour].
const (
	MinHour = 7
	MaxHour = 23

	MinQuantity = 1
	MaxQuantity = 100
)

// DateLayout is the calendar-date format used for PromotionDate.
const DateLayout = "2006-01-02"

// ValidHour reports whether h is inside business hours.
func ValidHour(h int) bool {
	return h >= MinHour && h <= MaxHour
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// SalesWindow is the half-open hour range [Open, Close) in which sales are
// accepted.
type SalesWindow struct {
	Open  int
	Close int
}

// DefaultSalesWindow is 07:00 up to, not including, 23:00.
var DefaultSalesWindow = SalesWindow{Open: MinHour, Close: MaxHour}

// Contains reports whether t's wall-clock hour lies inside the window.
func (w SalesWindow) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.Open && h < w.Close
}

// Clock yields the current instant in the business time zone.
type Clock interface {
	Now() time.Time
}

// LocationClock reads the system clock and converts it to Location.
type LocationClock struct {
	Location *time.Location
}

func (c LocationClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// FixedClock always returns the same instant. Handy in tests.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
