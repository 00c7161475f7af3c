package service

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// ServiceOptions provides configuration for the settlement service
type ServiceOptions struct {
	RedisAddr     string         `json:"redisAddr"`
	RedisTTL      time.Duration  `json:"redisTTL"`
	ConfigPath    string         `json:"configPath"`
	EnableLogging bool           `json:"enableLogging"`
	LogLevel      string         `json:"logLevel"`
	MaxRollDays   int            `json:"maxRollDays"`
	Logger        *logrus.Logger `json:"-"`
	LogOutput     io.Writer      `json:"-"`

	explicit optionSet
}

// optionSet records which options were given explicitly, so that the
// configuration file and environment never override them.
type optionSet uint8

const (
	optRedisAddr optionSet = 1 << iota
	optRedisTTL
	optLogLevel
	optMaxRollDays
)

func (s optionSet) has(o optionSet) bool {
	return s&o != 0
}

// DefaultServiceOptions returns sensible default options: in-memory
// holidays, T+2 everywhere, logging on at info level.
func DefaultServiceOptions() *ServiceOptions {
	return &ServiceOptions{
		EnableLogging: true,
		LogLevel:      "info",
		MaxRollDays:   DefaultMaxRollDays,
	}
}

// ServiceOption is a function that configures service options
type ServiceOption func(*ServiceOptions)

// WithRedisConfig keeps holidays in the Redis server at addr instead of
// in memory.
func WithRedisConfig(addr string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RedisAddr = addr
		opts.explicit |= optRedisAddr
	}
}

// WithRedisTTL expires holiday registrations stored in Redis.
func WithRedisTTL(ttl time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RedisTTL = ttl
		opts.explicit |= optRedisTTL
	}
}

// WithConfigFile loads spot lags, work weeks and holidays from a YAML file
// on Initialize.
func WithConfigFile(path string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.ConfigPath = path
	}
}

// WithLogging enables/disables logging. Disabled, the service logs
// nothing, spot calculation failures included.
func WithLogging(enabled bool) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.EnableLogging = enabled
	}
}

func WithLogLevel(level string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.LogLevel = level
		opts.explicit |= optLogLevel
	}
}

// WithLogger replaces the service's own logger.
func WithLogger(logger *logrus.Logger) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.Logger = logger
	}
}

// WithLogOutput sends the service's own logger to w instead of stdout.
// It has no effect together with WithLogger.
func WithLogOutput(w io.Writer) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.LogOutput = w
	}
}

// WithMaxRollDays caps how many calendar days a value date may be rolled.
func WithMaxRollDays(days int) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.MaxRollDays = days
		opts.explicit |= optMaxRollDays
	}
}
