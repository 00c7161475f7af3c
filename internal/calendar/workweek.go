package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// WorkWeek marks the weekdays a currency does not settle on.
// The zero value has no weekends, i.e. every day is a working day.
type WorkWeek struct {
	weekends [7]bool
}

// StandardWorkWeek treats Saturday and Sunday as the weekend.
var StandardWorkWeek = NewWorkWeek(time.Saturday, time.Sunday)

// NewWorkWeek creates a work week with the given days as weekends.
func NewWorkWeek(weekends ...time.Weekday) WorkWeek {
	var ww WorkWeek
	for _, d := range weekends {
		if d >= time.Sunday && d <= time.Saturday {
			ww.weekends[d] = true
		}
	}
	return ww
}

// IsWorkingDay reports whether the weekday of d is not a weekend.
func (ww WorkWeek) IsWorkingDay(d civil.Date) bool {
	return !ww.weekends[Weekday(d)]
}

// Weekends returns the weekend days, Sunday first.
func (ww WorkWeek) Weekends() []time.Weekday {
	days := make([]time.Weekday, 0, 2)
	for d, off := range ww.weekends {
		if off {
			days = append(days, time.Weekday(d))
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

func (ww WorkWeek) String() string {
	days := ww.Weekends()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return "[" + strings.Join(names, ",") + "]"
}

// Weekday returns the day of the week d falls on.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// ParseWeekday accepts full English day names and three-letter
// abbreviations in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
