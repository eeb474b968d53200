package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultKeyPrefix = "pos"
)

// Config selects the Redis instance and the key namespace this point of sale
// writes under, so several branches can share one server.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string // defaults to "pos"
	Timeout   time.Duration
}

// Client is a go-redis client bound to one key namespace.
type Client struct {
	*redis.Client
	prefix string
}

// Connect dials Redis and pings it before handing the client out.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	prefix := strings.Trim(cfg.KeyPrefix, ":")
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &Client{Client: rdb, prefix: prefix}, nil
}

// Key joins parts under the client's namespace: <prefix>:<part>:<part>.
func (c *Client) Key(parts ...string) string {
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Healthy is the readiness check for the highlight cache.
func (c *Client) Healthy(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
