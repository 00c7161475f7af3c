package service

import (
	"fmt"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/omerorhan/settlement-service/internal/calendar"
)

const (
	// DefaultSpotLag is T+2.
	DefaultSpotLag = 2

	// DefaultMaxRollDays bounds every roll to roughly ten years.
	DefaultMaxRollDays = 3660
)

// ValueDateCalculator calculates FX spot value dates.
//
// It assumes calendar.StandardWorkWeek for every currency and T+2 for every
// pair unless told otherwise through SetWorkWeek and SetSpotLag. Currencies
// and pairs are used exactly as given: "USDCAD" and "usdcad" are different
// pairs, and a pair must be written "xxxyyy" with no separator.
//
// Trade date rollover is left to the caller, which also allows
// calculating value dates for historical and future trade dates.
type ValueDateCalculator struct {
	mu          sync.RWMutex
	holidays    calendar.CurrencyHolidays
	spotLags    map[string]int
	workWeeks   map[string]calendar.WorkWeek
	usd         legCalendar
	maxRollDays int
}

// CalculatorOption is a function that configures a ValueDateCalculator
type CalculatorOption func(*ValueDateCalculator)

// WithRollLimit caps the number of calendar days a single roll may
// advance. Rolls hitting the cap fail with ErrRollLimitExceeded.
func WithRollLimit(days int) CalculatorOption {
	return func(c *ValueDateCalculator) {
		if days > 0 {
			c.maxRollDays = days
		}
	}
}

// NewValueDateCalculator creates a calculator backed by the given holiday
// registry.
func NewValueDateCalculator(holidays calendar.CurrencyHolidays, options ...CalculatorOption) *ValueDateCalculator {
	c := &ValueDateCalculator{
		holidays:    holidays,
		spotLags:    make(map[string]int),
		workWeeks:   make(map[string]calendar.WorkWeek),
		maxRollDays: DefaultMaxRollDays,
	}
	c.usd = c.legLocked(calendar.USD)

	for _, option := range options {
		option(c)
	}
	return c
}

// SetSpotLag sets the number of business days between trade date and
// value date for pair. There is no need to set it for T+2 pairs.
func (c *ValueDateCalculator) SetSpotLag(pair string, lag int) error {
	if err := validateSpotLag(pair, lag); err != nil {
		return err
	}

	c.mu.Lock()
	c.spotLags[pair] = lag
	c.mu.Unlock()
	return nil
}

func validateSpotLag(pair string, lag int) error {
	if _, _, err := splitPair(pair); err != nil {
		return err
	}
	if lag < 0 {
		return fmt.Errorf("%w: %d for %s", ErrNegativeSpotLag, lag, pair)
	}
	return nil
}

// SetWorkWeek sets the work week of ccy and returns the calculator for
// chaining. Setting the "USD" work week also changes which days count as
// USD non-business days for every pair, USD or not.
func (c *ValueDateCalculator) SetWorkWeek(ccy string, ww calendar.WorkWeek) *ValueDateCalculator {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.workWeeks[ccy] = ww
	if ccy == calendar.USD {
		c.usd = c.legLocked(calendar.USD)
	}
	return c
}

// SpotLag returns the spot lag used for pair.
func (c *ValueDateCalculator) SpotLag(pair string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.spotLagLocked(pair)
}

// WorkWeek returns the work week used for ccy.
func (c *ValueDateCalculator) WorkWeek(ccy string) calendar.WorkWeek {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workWeekLocked(ccy)
}

// SpotFor calculates the spot value date of pair traded on tradeDate.
//
// For pairs with USD as one leg, a USD holiday on the last day of the spot
// lag (T+1 for T+2 pairs) still counts as a good business day. The value
// date itself never falls on a USD non-business day, even for crosses.
func (c *ValueDateCalculator) SpotFor(pair string, tradeDate civil.Date) (civil.Date, error) {
	baseCcy, termCcy, err := splitPair(pair)
	if err != nil {
		return civil.Date{}, err
	}

	c.mu.RLock()
	lag := c.spotLagLocked(pair)
	base := c.legLocked(baseCcy)
	term := c.legLocked(termCcy)
	usd := c.usd
	limit := c.maxRollDays
	c.mu.RUnlock()

	baseVD, err := rollLeg(base, tradeDate, lag, limit)
	if err != nil {
		return civil.Date{}, err
	}
	termVD, err := rollLeg(term, tradeDate, lag, limit)
	if err != nil {
		return civil.Date{}, err
	}

	candidate := baseVD
	if baseVD.Before(termVD) {
		candidate = termVD
	}

	return settle(candidate, limit, base, term, usd)
}

func (c *ValueDateCalculator) spotLagLocked(pair string) int {
	if lag, ok := c.spotLags[pair]; ok {
		return lag
	}
	return DefaultSpotLag
}

func (c *ValueDateCalculator) workWeekLocked(ccy string) calendar.WorkWeek {
	if ww, ok := c.workWeeks[ccy]; ok {
		return ww
	}
	return calendar.StandardWorkWeek
}

func (c *ValueDateCalculator) legLocked(ccy string) legCalendar {
	return legCalendar{
		ccy:      ccy,
		workWeek: c.workWeekLocked(ccy),
		holidays: c.holidays,
	}
}

// rollLeg walks from date past lag business days of one leg and lands on a
// good business day of that leg.
func rollLeg(leg legCalendar, date civil.Date, lag, limit int) (civil.Date, error) {
	start := date
	for steps := 0; steps <= limit; steps++ {
		if leg.consumesLastLagDay(date, lag) {
			date = date.AddDays(1)
			lag--
			continue
		}

		closed, err := leg.closed(date)
		if err != nil {
			return civil.Date{}, err
		}
		switch {
		case closed:
		case lag > 0:
			lag--
		default:
			return date, nil
		}
		date = date.AddDays(1)
	}
	return civil.Date{}, fmt.Errorf("%w: %s leg from %s after %d days", ErrRollLimitExceeded, leg.ccy, start, limit)
}

// settle advances date until it is open for every calendar, in order.
func settle(date civil.Date, limit int, calendars ...legCalendar) (civil.Date, error) {
	start := date
	for steps := 0; steps <= limit; steps++ {
		open, err := openForAll(date, calendars)
		if err != nil {
			return civil.Date{}, err
		}
		if open {
			return date, nil
		}
		date = date.AddDays(1)
	}
	return civil.Date{}, fmt.Errorf("%w: settling from %s after %d days", ErrRollLimitExceeded, start, limit)
}

func openForAll(date civil.Date, calendars []legCalendar) (bool, error) {
	for _, cal := range calendars {
		closed, err := cal.closed(date)
		if err != nil || closed {
			return false, err
		}
	}
	return true, nil
}
