package storage

import (
	"context"
	"fmt"

	"hrblog/internal/config"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client used as the post cache backend.
type Client struct {
	*redis.Client
}

func NewClient(cfg config.RedisConf) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
	}
}

// Connect builds a client and verifies the server answers PING.
func Connect(ctx context.Context, cfg config.RedisConf) (*Client, error) {
	const op = "storage.redis.Connect"

	c := NewClient(cfg)
	if err := c.HealthCheck(ctx); err != nil {
		_ = c.Client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
