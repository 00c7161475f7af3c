package service

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerorhan/settlement-service/internal/calendar"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func mustSpotFor(t *testing.T, calc *ValueDateCalculator, pair string, tradeDate civil.Date) civil.Date {
	t.Helper()
	vd, err := calc.SpotFor(pair, tradeDate)
	require.NoError(t, err, "%s traded %s", pair, tradeDate)
	return vd
}

func TestSpotFor_NeverOnWeekends(t *testing.T) {
	g := newGen(1)
	for i := 0; i < samples; i++ {
		tradeDate, pair := g.tradeDate(), g.pair()
		baseWW, termWW := g.workWeek(), g.workWeek()

		calc := NewValueDateCalculator(calendar.NewMemoryHolidays())
		calc.SetWorkWeek(pair[:3], baseWW).SetWorkWeek(pair[3:], termWW)

		vd := mustSpotFor(t, calc, pair, tradeDate)
		assert.True(t, baseWW.IsWorkingDay(vd), "%s traded %s settled on base weekend %s", pair, tradeDate, vd)
		assert.True(t, termWW.IsWorkingDay(vd), "%s traded %s settled on term weekend %s", pair, tradeDate, vd)
		assert.True(t, calendar.StandardWorkWeek.IsWorkingDay(vd) || pair[:3] == calendar.USD || pair[3:] == calendar.USD,
			"%s traded %s settled on USD weekend %s", pair, tradeDate, vd)
	}
}

func TestSpotFor_DefaultIsTPlus2(t *testing.T) {
	g := newGen(2)
	calc := NewValueDateCalculator(calendar.NewMemoryHolidays())
	for i := 0; i < samples; i++ {
		tradeDate, pair := g.tradeDate(), g.pair()

		vd := mustSpotFor(t, calc, pair, tradeDate)
		assert.Equal(t, 2, spotDays(tradeDate, vd), "%s traded %s settled %s", pair, tradeDate, vd)
	}
}

func TestSpotFor_USDCADIsTPlus1(t *testing.T) {
	calc := NewValueDateCalculator(calendar.NewMemoryHolidays())
	require.NoError(t, calc.SetSpotLag("USDCAD", 1))

	vd := mustSpotFor(t, calc, "USDCAD", date(2020, time.June, 1)) // Monday
	assert.Equal(t, date(2020, time.June, 2), vd)

	// other pairs keep T+2
	vd = mustSpotFor(t, calc, "USDJPY", date(2020, time.June, 1))
	assert.Equal(t, date(2020, time.June, 3), vd)
}

func TestSpotFor_NeverOnHolidays(t *testing.T) {
	g := newGen(3)
	for i := 0; i < samples; i++ {
		tradeDate, pair := g.tradeDate(), g.pair()
		baseHolidays, termHolidays := g.holidays(tradeDate), g.holidays(tradeDate)

		holidays := calendar.NewMemoryHolidays()
		require.NoError(t, holidays.SetHolidays(pair[:3], baseHolidays))
		require.NoError(t, holidays.SetHolidays(pair[3:], termHolidays))
		calc := NewValueDateCalculator(holidays)

		vd := mustSpotFor(t, calc, pair, tradeDate)
		assert.False(t, contains(baseHolidays, vd), "%s traded %s settled on base holiday %s", pair, tradeDate, vd)
		assert.False(t, contains(termHolidays, vd), "%s traded %s settled on term holiday %s", pair, tradeDate, vd)
	}
}

func TestSpotFor_USDHolidayOnTPlus1IsGoodBusinessDay(t *testing.T) {
	g := newGen(4)
	for i := 0; i < samples; i++ {
		tradeDate, ccy := g.weekdayTradeDate(), g.currency()
		if ccy == calendar.USD {
			continue
		}

		holidays := calendar.NewMemoryHolidays()
		require.NoError(t, holidays.SetHolidays(calendar.USD, []civil.Date{tradeDate.AddDays(1)}))
		calc := NewValueDateCalculator(holidays)

		for _, pair := range []string{calendar.USD + ccy, ccy + calendar.USD} {
			vd := mustSpotFor(t, calc, pair, tradeDate)
			assert.Equal(t, 2, spotDays(tradeDate, vd), "%s traded %s settled %s", pair, tradeDate, vd)
		}
	}
}

func TestSpotFor_HolidayOnTPlus1(t *testing.T) {
	monday := date(2020, time.June, 1)
	tuesday := monday.AddDays(1)

	tests := []struct {
		name string
		ccy  string
		pair string
		want civil.Date
	}{
		{"USD holiday does not push USD pair", "USD", "USDJPY", date(2020, time.June, 3)},
		{"USD holiday does not push USD term pair", "USD", "JPYUSD", date(2020, time.June, 3)},
		{"EUR holiday pushes EUR pair", "EUR", "EURJPY", date(2020, time.June, 4)},
		{"JPY holiday pushes USD pair", "JPY", "USDJPY", date(2020, time.June, 4)},
		{"USD holiday does not push cross", "USD", "EURJPY", date(2020, time.June, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holidays := calendar.NewMemoryHolidays()
			require.NoError(t, holidays.SetHolidays(tt.ccy, []civil.Date{tuesday}))
			calc := NewValueDateCalculator(holidays)

			assert.Equal(t, tt.want, mustSpotFor(t, calc, tt.pair, monday))
		})
	}
}

func TestSpotFor_NeverOnUSDHolidaysEvenForCrosses(t *testing.T) {
	g := newGen(5)
	for i := 0; i < samples; i++ {
		tradeDate, pair := g.tradeDate(), g.pair()
		usdHolidays, baseHolidays := g.holidays(tradeDate), g.holidays(tradeDate)

		holidays := calendar.NewMemoryHolidays()
		require.NoError(t, holidays.SetHolidays(calendar.USD, usdHolidays))
		require.NoError(t, holidays.SetHolidays(pair[:3], baseHolidays))
		if pair[:3] == calendar.USD {
			// the base registration replaced the USD one
			usdHolidays = baseHolidays
		}
		calc := NewValueDateCalculator(holidays)

		vd := mustSpotFor(t, calc, pair, tradeDate)
		assert.False(t, contains(usdHolidays, vd), "%s traded %s settled on USD holiday %s", pair, tradeDate, vd)
		assert.False(t, contains(baseHolidays, vd), "%s traded %s settled on base holiday %s", pair, tradeDate, vd)
	}
}

func TestSpotFor_USDHolidayOnValueDatePushesCross(t *testing.T) {
	holidays := calendar.NewMemoryHolidays()
	require.NoError(t, holidays.SetHolidays(calendar.USD, []civil.Date{date(2020, time.June, 3)}))
	calc := NewValueDateCalculator(holidays)

	assert.Equal(t, date(2020, time.June, 4), mustSpotFor(t, calc, "EURJPY", date(2020, time.June, 1)))
}

func TestSpotFor_USDWorkWeekChange(t *testing.T) {
	calc := NewValueDateCalculator(calendar.NewMemoryHolidays())
	calc.SetWorkWeek(calendar.USD, calendar.NewWorkWeek(time.Wednesday, time.Thursday))
	calc.SetWorkWeek("XYZ", calendar.NewWorkWeek())

	tradeDate := date(2020, time.July, 14) // Tuesday
	assert.Equal(t, date(2020, time.July, 18), mustSpotFor(t, calc, "USDXYZ", tradeDate))
}

func TestSpotFor_USDWorkWeekAppliesToCrosses(t *testing.T) {
	calc := NewValueDateCalculator(calendar.NewMemoryHolidays())
	tradeDate := date(2020, time.July, 13) // Monday

	assert.Equal(t, date(2020, time.July, 15), mustSpotFor(t, calc, "EURJPY", tradeDate))

	calc.SetWorkWeek(calendar.USD, calendar.NewWorkWeek(time.Wednesday, time.Thursday))
	assert.Equal(t, date(2020, time.July, 17), mustSpotFor(t, calc, "EURJPY", tradeDate))

	calc.SetWorkWeek(calendar.USD, calendar.StandardWorkWeek)
	assert.Equal(t, date(2020, time.July, 15), mustSpotFor(t, calc, "EURJPY", tradeDate))
}

func TestSpotFor_USDHolidaysRegisteredLaterAreSeen(t *testing.T) {
	holidays := calendar.NewMemoryHolidays()
	calc := NewValueDateCalculator(holidays)
	calc.SetWorkWeek(calendar.USD, calendar.StandardWorkWeek)
	tradeDate := date(2020, time.June, 1)

	require.NoError(t, holidays.SetHolidays(calendar.USD, []civil.Date{date(2020, time.June, 3)}))
	assert.Equal(t, date(2020, time.June, 4), mustSpotFor(t, calc, "EURJPY", tradeDate))
}

func TestSpotFor_Idempotent(t *testing.T) {
	g := newGen(6)
	for i := 0; i < samples; i++ {
		tradeDate, pair := g.tradeDate(), g.pair()

		holidays := calendar.NewMemoryHolidays()
		require.NoError(t, holidays.SetHolidays(pair[:3], g.holidays(tradeDate)))
		require.NoError(t, holidays.SetHolidays(calendar.USD, g.holidays(tradeDate)))
		calc := NewValueDateCalculator(holidays)
		calc.SetWorkWeek(pair[3:], g.workWeek())

		first := mustSpotFor(t, calc, pair, tradeDate)
		second := mustSpotFor(t, calc, pair, tradeDate)
		assert.Equal(t, first, second)
	}
}

func TestSpotFor_MonotonicInSpotLag(t *testing.T) {
	g := newGen(7)
	for i := 0; i < samples; i++ {
		tradeDate, pair := g.tradeDate(), g.pair()

		holidays := calendar.NewMemoryHolidays()
		require.NoError(t, holidays.SetHolidays(pair[:3], g.holidays(tradeDate)))
		require.NoError(t, holidays.SetHolidays(pair[3:], g.holidays(tradeDate)))
		require.NoError(t, holidays.SetHolidays(calendar.USD, g.holidays(tradeDate)))
		calc := NewValueDateCalculator(holidays)

		prev := civil.Date{}
		for lag := 0; lag <= 5; lag++ {
			require.NoError(t, calc.SetSpotLag(pair, lag))
			vd := mustSpotFor(t, calc, pair, tradeDate)
			assert.False(t, vd.Before(prev), "%s traded %s: T+%d settled %s before %s", pair, tradeDate, lag, vd, prev)
			prev = vd
		}
	}
}

func TestSpotFor_ZeroLagSettlesOnFirstGoodDay(t *testing.T) {
	calc := NewValueDateCalculator(calendar.NewMemoryHolidays())
	require.NoError(t, calc.SetSpotLag("EURJPY", 0))

	assert.Equal(t, date(2020, time.June, 1), mustSpotFor(t, calc, "EURJPY", date(2020, time.June, 1)))
	assert.Equal(t, date(2020, time.June, 8), mustSpotFor(t, calc, "EURJPY", date(2020, time.June, 6)))
}

func TestSpotFor_InvalidPair(t *testing.T) {
	calc := NewValueDateCalculator(calendar.NewMemoryHolidays())

	for _, pair := range []string{"", "USD", "USDCA", "USD/CAD", "USDCADX"} {
		t.Run(pair, func(t *testing.T) {
			_, err := calc.SpotFor(pair, date(2020, time.June, 1))
			assert.ErrorIs(t, err, ErrInvalidPair)
		})
	}
}

func TestSetSpotLag(t *testing.T) {
	calc := NewValueDateCalculator(calendar.NewMemoryHolidays())

	assert.ErrorIs(t, calc.SetSpotLag("USDCAD", -1), ErrNegativeSpotLag)
	assert.ErrorIs(t, calc.SetSpotLag("USD-CAD", 1), ErrInvalidPair)
	assert.Equal(t, DefaultSpotLag, calc.SpotLag("USDCAD"))

	require.NoError(t, calc.SetSpotLag("usdcad", 1))
	assert.Equal(t, 1, calc.SpotLag("usdcad"))
	assert.Equal(t, DefaultSpotLag, calc.SpotLag("USDCAD"), "pairs are not normalized")
}

func TestSetWorkWeek(t *testing.T) {
	calc := NewValueDateCalculator(calendar.NewMemoryHolidays())
	friSat := calendar.NewWorkWeek(time.Friday, time.Saturday)

	got := calc.SetWorkWeek("AED", friSat)
	assert.Same(t, calc, got)
	assert.Equal(t, friSat, calc.WorkWeek("AED"))
	assert.Equal(t, calendar.StandardWorkWeek, calc.WorkWeek("aed"))
	assert.Equal(t, calendar.StandardWorkWeek, calc.WorkWeek(calendar.USD))

	calc.SetWorkWeek(calendar.USD, friSat)
	assert.Equal(t, friSat, calc.usd.workWeek)
}

func TestSpotFor_RollLimit(t *testing.T) {
	tradeDate := date(2020, time.June, 1)
	closed := make([]civil.Date, 60)
	for i := range closed {
		closed[i] = tradeDate.AddDays(i + 1)
	}

	tests := []struct {
		name string
		ccy  string
	}{
		{"leg roll", "EUR"},
		{"settling on USD", calendar.USD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holidays := calendar.NewMemoryHolidays()
			require.NoError(t, holidays.SetHolidays(tt.ccy, closed))
			calc := NewValueDateCalculator(holidays, WithRollLimit(30))

			_, err := calc.SpotFor("EURJPY", tradeDate)
			assert.ErrorIs(t, err, ErrRollLimitExceeded)

			calc = NewValueDateCalculator(holidays)
			vd, err := calc.SpotFor("EURJPY", tradeDate)
			require.NoError(t, err)
			assert.True(t, closed[len(closed)-1].Before(vd))
		})
	}
}

type failingHolidays struct{ err error }

func (f failingHolidays) IsHoliday(string, civil.Date) (bool, error) {
	return false, f.err
}

func TestSpotFor_HolidayLookupError(t *testing.T) {
	boom := errors.New("boom")
	calc := NewValueDateCalculator(failingHolidays{err: boom})

	_, err := calc.SpotFor("EURJPY", date(2020, time.June, 1))
	assert.ErrorIs(t, err, boom)
}

func TestLegCalendar_ConsumesLastLagDay(t *testing.T) {
	holidays := calendar.NewMemoryHolidays()
	monday := date(2020, time.June, 1)
	saturday := date(2020, time.June, 6)
	usd := legCalendar{ccy: calendar.USD, workWeek: calendar.StandardWorkWeek, holidays: holidays}
	eur := legCalendar{ccy: "EUR", workWeek: calendar.StandardWorkWeek, holidays: holidays}
	lowerUSD := legCalendar{ccy: "usd", workWeek: calendar.StandardWorkWeek, holidays: holidays}

	assert.True(t, usd.consumesLastLagDay(monday, 1))
	assert.False(t, usd.consumesLastLagDay(monday, 2))
	assert.False(t, usd.consumesLastLagDay(monday, 0))
	assert.False(t, usd.consumesLastLagDay(saturday, 1))
	assert.False(t, eur.consumesLastLagDay(monday, 1))
	assert.False(t, lowerUSD.consumesLastLagDay(monday, 1))
}

func BenchmarkSpotFor(b *testing.B) {
	holidays := calendar.NewMemoryHolidays()
	usHolidays := calendar.ExpandHolidays(2020, 2030,
		[]calendar.FixedHoliday{{Month: time.July, Day: 4}, {Month: time.December, Day: 25}},
		[]calendar.FloatingHoliday{{Nth: 4, Weekday: time.Thursday, Month: time.November}},
	)
	if err := holidays.SetHolidays(calendar.USD, usHolidays); err != nil {
		b.Fatal(err)
	}
	calc := NewValueDateCalculator(holidays)
	tradeDate := date(2025, time.November, 25)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = calc.SpotFor("EURJPY", tradeDate)
		}
	})
}
