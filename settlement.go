package settlement

import (
	"cloud.google.com/go/civil"

	"github.com/omerorhan/settlement-service/internal/calendar"
	"github.com/omerorhan/settlement-service/internal/service"
)

// Client provides a clean public API for the settlement service
type Client struct {
	service *service.SettlementService
}

// NewClient creates a new settlement service client
func NewClient(options ...ServiceOption) (*Client, error) {
	svc, err := service.NewSettlementService(options...)
	if err != nil {
		return nil, err
	}

	return &Client{
		service: svc,
	}, nil
}

// Initialize loads the calendar configuration
func (c *Client) Initialize() error {
	return c.service.Initialize()
}

// SpotFor returns the spot value date of pair, e.g. "USDJPY", traded on
// tradeDate.
func (c *Client) SpotFor(pair string, tradeDate civil.Date) (civil.Date, error) {
	return c.service.SpotFor(pair, tradeDate)
}

// SetSpotLag overrides the T+2 default for pair.
func (c *Client) SetSpotLag(pair string, lag int) error {
	return c.service.SetSpotLag(pair, lag)
}

// SetWorkWeek overrides the Saturday/Sunday weekend of ccy.
func (c *Client) SetWorkWeek(ccy string, ww WorkWeek) *Client {
	c.service.SetWorkWeek(ccy, ww)
	return c
}

// SetHolidays replaces the holidays of ccy.
func (c *Client) SetHolidays(ccy string, dates []civil.Date) error {
	return c.service.SetHolidays(ccy, dates)
}

// Stop gracefully shuts down the service
func (c *Client) Stop() error {
	return c.service.Stop()
}

// Service options (re-exported for convenience)
type ServiceOption = service.ServiceOption

// Re-export service options for clean API
var (
	WithRedisConfig  = service.WithRedisConfig
	WithRedisTTL     = service.WithRedisTTL
	WithConfigFile   = service.WithConfigFile
	WithLogging      = service.WithLogging
	WithLogLevel     = service.WithLogLevel
	WithLogger       = service.WithLogger
	WithLogOutput    = service.WithLogOutput
	WithMaxRollDays  = service.WithMaxRollDays
	NewWorkWeek      = calendar.NewWorkWeek
	StandardWorkWeek = calendar.StandardWorkWeek
)

// Re-export common types and errors for convenience
type (
	WorkWeek = calendar.WorkWeek
)

var (
	ErrInvalidPair       = service.ErrInvalidPair
	ErrNegativeSpotLag   = service.ErrNegativeSpotLag
	ErrRollLimitExceeded = service.ErrRollLimitExceeded
	ErrNotInitialized    = service.ErrNotInitialized
)
