package service

import (
	"fmt"
	"io"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"

	"github.com/omerorhan/settlement-service/internal/calendar"
	"github.com/omerorhan/settlement-service/internal/config"
	"github.com/omerorhan/settlement-service/internal/logging"
)

// SettlementService wires a ValueDateCalculator to a holiday registry and
// the calendar configuration file.
type SettlementService struct {
	holidays    calendar.HolidayRegistry
	calculator  *ValueDateCalculator
	cfg         *config.Config
	opts        *ServiceOptions
	logger      *logrus.Logger
	mu          sync.RWMutex
	initialized bool
}

// NewSettlementService creates a settlement service. Options given
// explicitly take precedence over the environment, which takes precedence
// over the configuration file.
func NewSettlementService(options ...ServiceOption) (*SettlementService, error) {
	opts := DefaultServiceOptions()

	// Apply options
	for _, option := range options {
		option(opts)
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	mergeConfig(opts, cfg)
	if opts.ConfigPath == "" {
		cfg = nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New("SettlementService", opts.LogLevel)
		if opts.LogOutput != nil {
			logger.SetOutput(opts.LogOutput)
		}
	}

	var holidays calendar.HolidayRegistry
	if opts.RedisAddr != "" {
		redisHolidays, err := calendar.NewRedisHolidays(opts.RedisAddr, calendar.WithHolidayTTL(opts.RedisTTL))
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis holidays: %w", err)
		}
		holidays = redisHolidays
	} else {
		holidays = calendar.NewMemoryHolidays()
	}

	return &SettlementService{
		holidays:   holidays,
		calculator: NewValueDateCalculator(holidays, WithRollLimit(opts.MaxRollDays)),
		cfg:        cfg,
		opts:       opts,
		logger:     logger,
	}, nil
}

// loadConfig reads the configuration file at path, or only the
// environment overrides when there is no file.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.FromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// mergeConfig fills every option not given explicitly from cfg.
func mergeConfig(opts *ServiceOptions, cfg *config.Config) {
	if !opts.explicit.has(optRedisAddr) && cfg.Redis.URL != "" {
		opts.RedisAddr = cfg.Redis.URL
	}
	if !opts.explicit.has(optRedisTTL) && cfg.Redis.TTL != 0 {
		opts.RedisTTL = cfg.Redis.TTL
	}
	if !opts.explicit.has(optMaxRollDays) && cfg.MaxRollDays > 0 {
		opts.MaxRollDays = cfg.MaxRollDays
	}
	if !opts.explicit.has(optLogLevel) && cfg.Logging.Level != "" {
		opts.LogLevel = cfg.Logging.Level
	}
}

// Initialize loads the calendar configuration, if any, into the
// calculator and the holiday registry.
func (s *SettlementService) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	s.log("Initializing Settlement Service...")

	if s.cfg != nil {
		if err := s.applyConfig(s.cfg); err != nil {
			return err
		}
	}

	s.initialized = true
	s.log("Settlement Service initialized successfully")
	return nil
}

// applyConfig validates everything in cfg before changing any state. Only
// the holiday registrations can still fail halfway, leaving the currencies
// registered before the failure in place.
func (s *SettlementService) applyConfig(cfg *config.Config) error {
	workWeeks, err := cfg.ResolveWorkWeeks()
	if err != nil {
		return err
	}
	holidays, err := cfg.ResolveHolidays()
	if err != nil {
		return err
	}
	for pair, lag := range cfg.SpotLags {
		if err := validateSpotLag(pair, lag); err != nil {
			return fmt.Errorf("spot_lags.%s: %w", pair, err)
		}
	}

	for ccy, dates := range holidays {
		if err := s.holidays.SetHolidays(ccy, dates); err != nil {
			return fmt.Errorf("holidays.%s: %w", ccy, err)
		}
	}

	for pair, lag := range cfg.SpotLags {
		if err := s.calculator.SetSpotLag(pair, lag); err != nil {
			return fmt.Errorf("spot_lags.%s: %w", pair, err)
		}
	}

	for ccy, ww := range workWeeks {
		s.calculator.SetWorkWeek(ccy, ww)
	}

	s.log("Loaded %d spot lags, %d work weeks and holidays for %d currencies",
		len(cfg.SpotLags), len(workWeeks), len(holidays))
	return nil
}

// SpotFor returns the spot value date of pair traded on tradeDate.
func (s *SettlementService) SpotFor(pair string, tradeDate civil.Date) (civil.Date, error) {
	s.mu.RLock()
	initialized := s.initialized
	s.mu.RUnlock()
	if !initialized {
		return civil.Date{}, ErrNotInitialized
	}

	valueDate, err := s.calculator.SpotFor(pair, tradeDate)
	if err != nil {
		s.logAt(logrus.WarnLevel, "spot for %s traded %s failed: %v", pair, tradeDate, err)
		return civil.Date{}, err
	}

	s.logAt(logrus.DebugLevel, "spot for %s traded %s is %s", pair, tradeDate, valueDate)
	return valueDate, nil
}

// SetSpotLag overrides the spot lag of pair.
func (s *SettlementService) SetSpotLag(pair string, lag int) error {
	return s.calculator.SetSpotLag(pair, lag)
}

// SetWorkWeek overrides the work week of ccy.
func (s *SettlementService) SetWorkWeek(ccy string, ww calendar.WorkWeek) {
	s.calculator.SetWorkWeek(ccy, ww)
}

// SetHolidays replaces the holidays of ccy.
func (s *SettlementService) SetHolidays(ccy string, dates []civil.Date) error {
	return s.holidays.SetHolidays(ccy, dates)
}

// Calculator exposes the underlying calculator.
func (s *SettlementService) Calculator() *ValueDateCalculator {
	return s.calculator
}

// Stop releases the holiday registry.
func (s *SettlementService) Stop() error {
	s.log("Stopping Settlement Service...")

	if closer, ok := s.holidays.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close holidays: %w", err)
		}
	}

	s.log("Settlement Service stopped")
	return nil
}

func (s *SettlementService) log(format string, args ...interface{}) {
	s.logAt(logrus.InfoLevel, format, args...)
}

func (s *SettlementService) logAt(level logrus.Level, format string, args ...interface{}) {
	if s.opts.EnableLogging {
		s.logger.Logf(level, format, args...)
	}
}
