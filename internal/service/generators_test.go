package service

import (
	"math/rand/v2"
	"time"

	"cloud.google.com/go/civil"

	"github.com/omerorhan/settlement-service/internal/calendar"
)

const samples = 1000

var epoch = civil.Date{Year: 2020, Month: time.January, Day: 1}

const currencyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// gen produces reproducible random inputs for the calculator tests.
type gen struct {
	r *rand.Rand
}

func newGen(seed uint64) gen {
	return gen{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g gen) tradeDate() civil.Date {
	return epoch.AddDays(g.r.IntN(365 * 80))
}

// weekdayTradeDate returns a trade date that is not a Saturday or Sunday.
func (g gen) weekdayTradeDate() civil.Date {
	d := g.tradeDate()
	for !calendar.StandardWorkWeek.IsWorkingDay(d) {
		d = d.AddDays(1)
	}
	return d
}

func (g gen) currency() string {
	b := make([]byte, 3)
	for i := range b {
		b[i] = currencyAlphabet[g.r.IntN(len(currencyAlphabet))]
	}
	return string(b)
}

func (g gen) pair() string {
	base := g.currency()
	term := g.currency()
	for term == base {
		term = g.currency()
	}
	return base + term
}

// workWeek returns a work week with up to two weekend days.
func (g gen) workWeek() calendar.WorkWeek {
	days := make([]time.Weekday, 0, 2)
	for i := g.r.IntN(3); i > 0; i-- {
		days = append(days, time.Weekday(g.r.IntN(7)))
	}
	return calendar.NewWorkWeek(days...)
}

// holidays returns up to ten dates within ten days after date.
func (g gen) holidays(date civil.Date) []civil.Date {
	n := g.r.IntN(11)
	dates := make([]civil.Date, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, date.AddDays(1+g.r.IntN(10)))
	}
	return dates
}

// spotDays counts standard working days in [from, to], minus
// one for the trade date itself.
func spotDays(from, to civil.Date) int {
	days := 0
	for d := from; !to.Before(d); d = d.AddDays(1) {
		if calendar.StandardWorkWeek.IsWorkingDay(d) {
			days++
		}
	}
	return days - 1
}

func contains(dates []civil.Date, d civil.Date) bool {
	for _, x := range dates {
		if x == d {
			return true
		}
	}
	return false
}
