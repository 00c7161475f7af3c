package calendar

import (
	"sort"
	"sync"

	"cloud.google.com/go/civil"
)

type dateSet map[civil.Date]struct{}

func (s dateSet) sorted() []civil.Date {
	dates := make([]civil.Date, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// MemoryHolidays implements HolidayRegistry using in-memory storage.
// Nothing survives the process.
type MemoryHolidays struct {
	mu       sync.RWMutex
	holidays map[string]dateSet
}

// NewMemoryHolidays creates a registry with no holidays.
func NewMemoryHolidays() *MemoryHolidays {
	return &MemoryHolidays{
		holidays: make(map[string]dateSet),
	}
}

// SetHolidays registers the holidays of ccy, dropping any earlier
// registration for it.
func (mh *MemoryHolidays) SetHolidays(ccy string, dates []civil.Date) error {
	set := make(dateSet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}

	mh.mu.Lock()
	mh.holidays[ccy] = set
	mh.mu.Unlock()

	return nil
}

// IsHoliday reports whether date is a registered holiday of ccy.
func (mh *MemoryHolidays) IsHoliday(ccy string, date civil.Date) (bool, error) {
	mh.mu.RLock()
	defer mh.mu.RUnlock()

	_, ok := mh.holidays[ccy][date]
	return ok, nil
}

// Holidays returns the registered holidays of ccy in chronological order.
func (mh *MemoryHolidays) Holidays(ccy string) []civil.Date {
	mh.mu.RLock()
	defer mh.mu.RUnlock()

	return mh.holidays[ccy].sorted()
}

// Currencies returns the currencies with a registration, sorted.
func (mh *MemoryHolidays) Currencies() []string {
	mh.mu.RLock()
	ccys := make([]string, 0, len(mh.holidays))
	for ccy := range mh.holidays {
		ccys = append(ccys, ccy)
	}
	mh.mu.RUnlock()

	sort.Strings(ccys)
	return ccys
}
