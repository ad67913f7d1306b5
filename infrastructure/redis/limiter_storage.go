package redis

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const storageTimeout = 2 * time.Second

// LimiterStorage adapts Client to fiber.Storage so the rate limiter
// shares its counters across instances. Keys live under prefix.
type LimiterStorage struct {
	client *Client
	prefix string
}

var _ fiber.Storage = (*LimiterStorage)(nil)

func NewLimiterStorage(client *Client, prefix string) *LimiterStorage {
	return &LimiterStorage{client: client, prefix: prefix}
}

func (s *LimiterStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *LimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	return s.client.Set(ctx, s.prefix+key, val, exp)
}

func (s *LimiterStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	return s.client.Del(ctx, s.prefix+key)
}

// Reset removes only the limiter's own keys.
func (s *LimiterStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.client.ScanAndDelete(ctx, s.prefix+"*")
	return err
}

// Close is a no-op; the container owns the client.
func (s *LimiterStorage) Close() error {
	return nil
}
