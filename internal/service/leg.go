package service

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/omerorhan/settlement-service/internal/calendar"
)

// legCalendar answers "is this a non-business day" for one currency. It
// holds the live holiday lookup, so holidays registered after the leg was
// built are still seen.
type legCalendar struct {
	ccy      string
	workWeek calendar.WorkWeek
	holidays calendar.CurrencyHolidays
}

func (l legCalendar) isUSD() bool {
	return l.ccy == calendar.USD
}

// closed reports whether date is a weekend or a holiday of the leg currency.
func (l legCalendar) closed(date civil.Date) (bool, error) {
	if !l.workWeek.IsWorkingDay(date) {
		return true, nil
	}
	holiday, err := l.holidays.IsHoliday(l.ccy, date)
	if err != nil {
		return false, fmt.Errorf("holiday lookup for %s: %w", l.ccy, err)
	}
	return holiday, nil
}

// consumesLastLagDay reports whether the USD leg may step off date using
// up its final unit of lag without checking USD holidays. This is what
// makes a USD holiday on T+1 a good business day for T+2 USD pairs.
func (l legCalendar) consumesLastLagDay(date civil.Date, lag int) bool {
	return l.isUSD() && lag == 1 && l.workWeek.IsWorkingDay(date)
}
