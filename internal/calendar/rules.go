package calendar

import (
	"time"

	"cloud.google.com/go/civil"
	cal "github.com/rickar/cal/v2"
)

// FixedHoliday falls on the same month and day every year.
type FixedHoliday struct {
	Month time.Month
	Day   int
}

// FloatingHoliday falls on the Nth weekday of a month, e.g. the 4th
// Thursday of November. A negative Nth counts from the end of the month.
type FloatingHoliday struct {
	Nth     int
	Weekday time.Weekday
	Month   time.Month
}

func (h FixedHoliday) holiday() *cal.Holiday {
	return &cal.Holiday{
		Month: h.Month,
		Day:   h.Day,
		Func:  cal.CalcDayOfMonth,
	}
}

func (h FloatingHoliday) holiday() *cal.Holiday {
	return &cal.Holiday{
		Month:   h.Month,
		Weekday: h.Weekday,
		Offset:  h.Nth,
		Func:    cal.CalcWeekdayOffset,
	}
}

// On returns the holiday in the given year. ok is false when the date
// does not exist that year, e.g. February 29th outside leap years.
func (h FixedHoliday) On(year int) (civil.Date, bool) {
	d, ok := occurrence(h.holiday(), year)
	if !ok || d.Day != h.Day {
		return civil.Date{}, false
	}
	return d, true
}

// On returns the holiday in the given year. ok is false when the month
// has no such weekday, e.g. a 5th Monday.
func (h FloatingHoliday) On(year int) (civil.Date, bool) {
	if h.Nth == 0 {
		return civil.Date{}, false
	}
	return occurrence(h.holiday(), year)
}

// ExpandHolidays generates every fixed and floating holiday between
// fromYear and toYear inclusive, sorted and without duplicates.
func ExpandHolidays(fromYear, toYear int, fixed []FixedHoliday, floating []FloatingHoliday) []civil.Date {
	seen := make(dateSet)
	for year := fromYear; year <= toYear; year++ {
		for _, h := range fixed {
			if d, ok := h.On(year); ok {
				seen[d] = struct{}{}
			}
		}
		for _, h := range floating {
			if d, ok := h.On(year); ok {
				seen[d] = struct{}{}
			}
		}
	}

	return seen.sorted()
}

// occurrence returns the observed date of h in year. ok is false when h
// does not happen that year or its calculation spills into another month.
func occurrence(h *cal.Holiday, year int) (civil.Date, bool) {
	actual, observed := h.Calc(year)
	if actual.IsZero() || actual.Month() != h.Month || actual.Year() != year {
		return civil.Date{}, false
	}
	return civil.DateOf(observed), true
}
