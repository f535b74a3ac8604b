package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fathima-sithara/chat-profile-service/config"
	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:"

// Client caches the password-free user view.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	c := New(rdb, cfg.UserTTL)
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return c, nil
}

func New(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{rdb: rdb, ttl: ttl}
}

func userKey(username string) string { return userKeyPrefix + username }

// GetUser reports found=false on a cache miss.
func (c *Client) GetUser(ctx context.Context, username string) (*models.User, bool, error) {
	raw, err := c.rdb.Get(ctx, userKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, false, fmt.Errorf("decode cached user %q: %w", username, err)
	}
	return &u, true, nil
}

func (c *Client) SetUser(ctx context.Context, u *models.User) error {
	data, err := json.Marshal(u.Safe())
	if err != nil {
		return fmt.Errorf("encode user %q: %w", u.Username, err)
	}
	return c.rdb.Set(ctx, userKey(u.Username), data, c.ttl).Err()
}

func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return c.rdb.Del(ctx, userKey(username)).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis client
func (c *Client) Close() error {
	return c.rdb.Close()
}
