package calendar

import (
	"cloud.google.com/go/civil"
)

// CurrencyHolidays determines whether a date is a holiday of a currency.
// Implementations do not normalize currency codes: "usd" and "USD" are
// different currencies.
type CurrencyHolidays interface {
	IsHoliday(ccy string, date civil.Date) (bool, error)
}

// HolidayRegistry is a CurrencyHolidays that also accepts registrations.
// SetHolidays replaces whatever was registered for the currency before.
type HolidayRegistry interface {
	CurrencyHolidays
	SetHolidays(ccy string, dates []civil.Date) error
}
