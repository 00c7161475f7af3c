package calendar

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"
)

// RedisHolidays implements HolidayRegistry on top of Redis so that several
// processes can share one set of holiday calendars. Each currency is stored
// as a SET of ISO dates under keyPrefix+currency.
type RedisHolidays struct {
	client    *redis.Client
	ctx       context.Context
	keyPrefix string
	ttl       time.Duration
}

// RedisOption is a function that configures RedisHolidays
type RedisOption func(*RedisHolidays)

// WithContext sets the context for Redis operations
func WithContext(ctx context.Context) RedisOption {
	return func(rh *RedisHolidays) {
		rh.ctx = ctx
	}
}

// WithHolidayTTL expires registrations after ttl. Zero keeps them forever.
func WithHolidayTTL(ttl time.Duration) RedisOption {
	return func(rh *RedisHolidays) {
		rh.ttl = ttl
	}
}

// WithKeyPrefix overrides the "settlement:holidays:" key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(rh *RedisHolidays) {
		rh.keyPrefix = prefix
	}
}

// NewRedisHolidays connects to the Redis server at addr, given as
// scheme://[:password@]host:port[/db], e.g. tcp://localhost:6379/0.
func NewRedisHolidays(addr string, options ...RedisOption) (*RedisHolidays, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("can't parse url for redis: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in redis url %q", addr)
	}
	var passwd string
	if u.User != nil {
		passwd, _ = u.User.Password()
	}
	db := 0
	if 1 < len(u.Path) {
		db, err = strconv.Atoi(u.Path[1:])
		if err != nil {
			return nil, fmt.Errorf("can't convert %q into redis db: %w", u.Path[1:], err)
		}
	}
	network := u.Scheme
	if network == "" || network == "redis" {
		network = "tcp"
	}

	client := redis.NewClient(&redis.Options{
		Network:  network,
		Addr:     u.Host,
		Password: passwd,
		DB:       db,
	})

	rh := &RedisHolidays{
		client:    client,
		ctx:       context.Background(),
		keyPrefix: defaultKeyPrefix,
	}
	for _, option := range options {
		option(rh)
	}

	// Test connection
	if err := client.Ping(rh.ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rh, nil
}

func (rh *RedisHolidays) key(ccy string) string {
	return rh.keyPrefix + ccy
}

// SetHolidays atomically replaces the holiday set of ccy.
func (rh *RedisHolidays) SetHolidays(ccy string, dates []civil.Date) error {
	members := make([]interface{}, len(dates))
	for i, d := range dates {
		members[i] = d.String()
	}

	key := rh.key(ccy)
	_, err := rh.client.TxPipelined(rh.ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(rh.ctx, key)
		if len(members) > 0 {
			pipe.SAdd(rh.ctx, key, members...)
			if rh.ttl > 0 {
				pipe.Expire(rh.ctx, key, rh.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store %s holidays: %w", ccy, err)
	}
	return nil
}

// IsHoliday reports whether date is in the holiday set of ccy. A currency
// with no set has no holidays.
func (rh *RedisHolidays) IsHoliday(ccy string, date civil.Date) (bool, error) {
	ok, err := rh.client.SIsMember(rh.ctx, rh.key(ccy), date.String()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up %s holiday %s: %w", ccy, date, err)
	}
	return ok, nil
}

// Holidays returns the holiday set of ccy in chronological order.
func (rh *RedisHolidays) Holidays(ccy string) ([]civil.Date, error) {
	members, err := rh.client.SMembers(rh.ctx, rh.key(ccy)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s holidays: %w", ccy, err)
	}

	dates := make([]civil.Date, 0, len(members))
	for _, m := range members {
		d, err := civil.ParseDate(m)
		if err != nil {
			return nil, fmt.Errorf("bad %s holiday %q in redis: %w", ccy, m, err)
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// Currencies lists the currencies with a holiday set, sorted.
func (rh *RedisHolidays) Currencies() ([]string, error) {
	var ccys []string
	iter := rh.client.Scan(rh.ctx, 0, rh.keyPrefix+"*", 100).Iterator()
	for iter.Next(rh.ctx) {
		ccys = append(ccys, strings.TrimPrefix(iter.Val(), rh.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan holiday keys: %w", err)
	}
	sort.Strings(ccys)
	return ccys, nil
}

// Flush removes every holiday set under the key prefix.
func (rh *RedisHolidays) Flush() error {
	ccys, err := rh.Currencies()
	if err != nil {
		return err
	}
	if len(ccys) == 0 {
		return nil
	}
	keys := make([]string, len(ccys))
	for i, ccy := range ccys {
		keys[i] = rh.key(ccy)
	}
	return rh.client.Del(rh.ctx, keys...).Err()
}

func (rh *RedisHolidays) Close() error {
	return rh.client.Close()
}
