package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/omerorhan/settlement-service/internal/calendar"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the calendar configuration of the settlement service.
type Config struct {
	SpotLags    map[string]int             `yaml:"spot_lags"`
	WorkWeeks   map[string][]string        `yaml:"work_weeks"`
	Holidays    map[string]HolidayCalendar `yaml:"holidays"`
	Redis       Redis                      `yaml:"redis"`
	Logging     Logging                    `yaml:"logging"`
	MaxRollDays int                        `yaml:"max_roll_days"`
}

// HolidayCalendar lists the holidays of one currency. Explicit dates are
// taken as is; the builtin table and the fixed and floating rules are
// expanded over Years.
type HolidayCalendar struct {
	Years    YearRange      `yaml:"years"`
	Builtin  string         `yaml:"builtin"`
	Dates    []string       `yaml:"dates"`
	Fixed    []FixedRule    `yaml:"fixed"`
	Floating []FloatingRule `yaml:"floating"`
}

// YearRange is an inclusive range of years.
type YearRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// FixedRule is a holiday on the same day every year.
type FixedRule struct {
	Month int `yaml:"month"`
	Day   int `yaml:"day"`
}

// FloatingRule is a holiday on the Nth weekday of a month; negative Nth
// counts from the end of the month.
type FloatingRule struct {
	Nth     int    `yaml:"nth"`
	Weekday string `yaml:"weekday"`
	Month   int    `yaml:"month"`
}

// Redis points the service at a shared holiday registry.
type Redis struct {
	URL string        `yaml:"url"`
	TTL time.Duration `yaml:"ttl"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at path and applies environment
// variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML configuration and applies environment variable
// overrides.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv returns an otherwise empty configuration carrying only the
// environment overrides.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads environment variables from the given .env files, or from
// ./.env when none are given. A missing ./.env is not an error.
func LoadEnv(paths ...string) error {
	if len(paths) > 0 {
		return godotenv.Load(paths...)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SETTLEMENT_REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}

	if v := os.Getenv("SETTLEMENT_MAX_ROLL_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SETTLEMENT_MAX_ROLL_DAYS %q: %w", v, err)
		}
		cfg.MaxRollDays = n
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// ResolveWorkWeeks turns the configured weekday names into work weeks.
func (c *Config) ResolveWorkWeeks() (map[string]calendar.WorkWeek, error) {
	out := make(map[string]calendar.WorkWeek, len(c.WorkWeeks))
	for ccy, names := range c.WorkWeeks {
		days := make([]time.Weekday, 0, len(names))
		for _, name := range names {
			d, err := calendar.ParseWeekday(name)
			if err != nil {
				return nil, fmt.Errorf("work_weeks.%s: %w", ccy, err)
			}
			days = append(days, d)
		}
		out[ccy] = calendar.NewWorkWeek(days...)
	}
	return out, nil
}

// ResolveHolidays expands every configured holiday calendar into dates.
func (c *Config) ResolveHolidays() (map[string][]civil.Date, error) {
	out := make(map[string][]civil.Date, len(c.Holidays))
	for ccy, hc := range c.Holidays {
		dates, err := hc.resolve()
		if err != nil {
			return nil, fmt.Errorf("holidays.%s: %w", ccy, err)
		}
		out[ccy] = dates
	}
	return out, nil
}

func (hc HolidayCalendar) resolve() ([]civil.Date, error) {
	dates := make([]civil.Date, 0, len(hc.Dates))
	for _, s := range hc.Dates {
		d, err := civil.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", s, err)
		}
		dates = append(dates, d)
	}

	if hc.Builtin == "" && len(hc.Fixed) == 0 && len(hc.Floating) == 0 {
		return dates, nil
	}
	if hc.Years.From == 0 || hc.Years.To < hc.Years.From {
		return nil, fmt.Errorf("invalid years %d-%d for holiday rules", hc.Years.From, hc.Years.To)
	}

	if hc.Builtin != "" {
		builtin, err := calendar.BuiltinHolidays(hc.Builtin, hc.Years.From, hc.Years.To)
		if err != nil {
			return nil, err
		}
		dates = append(dates, builtin...)
	}

	fixed := make([]calendar.FixedHoliday, 0, len(hc.Fixed))
	for _, r := range hc.Fixed {
		if r.Month < 1 || r.Month > 12 {
			return nil, fmt.Errorf("invalid month %d in fixed rule", r.Month)
		}
		fixed = append(fixed, calendar.FixedHoliday{Month: time.Month(r.Month), Day: r.Day})
	}

	floating := make([]calendar.FloatingHoliday, 0, len(hc.Floating))
	for _, r := range hc.Floating {
		if r.Month < 1 || r.Month > 12 {
			return nil, fmt.Errorf("invalid month %d in floating rule", r.Month)
		}
		wd, err := calendar.ParseWeekday(r.Weekday)
		if err != nil {
			return nil, fmt.Errorf("floating rule: %w", err)
		}
		floating = append(floating, calendar.FloatingHoliday{Nth: r.Nth, Weekday: wd, Month: time.Month(r.Month)})
	}

	return append(dates, calendar.ExpandHolidays(hc.Years.From, hc.Years.To, fixed, floating)...), nil
}
