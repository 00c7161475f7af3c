package calendar

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// builtins are the holiday tables that can be referenced by name from the
// calendar file.
var builtins = map[string][]*cal.Holiday{
	"us-federal": {
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	},
}

// BuiltinNames lists the names accepted by BuiltinHolidays.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinHolidays returns the observed dates of the named holiday table
// between fromYear and toYear inclusive, sorted. An observed date may fall
// in the previous year, e.g. New Year's Day on a Saturday is observed on
// December 31st.
func BuiltinHolidays(name string, fromYear, toYear int) ([]civil.Date, error) {
	holidays, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown holiday calendar %q, expected one of %v", name, BuiltinNames())
	}

	seen := make(dateSet)
	for year := fromYear; year <= toYear; year++ {
		for _, h := range holidays {
			if d, ok := occurrence(h, year); ok {
				seen[d] = struct{}{}
			}
		}
	}
	return seen.sorted(), nil
}
