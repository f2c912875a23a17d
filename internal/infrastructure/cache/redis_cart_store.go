package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/infrastructure/config"
)

// RedisCartStore implements sales.CartStore using Redis. Carts expire
// after the configured TTL; the TTL is refreshed on every write.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a Redis-backed cart store
func NewRedisCartStore(cfg config.RedisConfig, ttl time.Duration) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCartStore{
		client:    client,
		keyPrefix: "cart:session:",
		ttl:       ttl,
	}, nil
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client
func NewRedisCartStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCartStore {
	if keyPrefix == "" {
		keyPrefix = "cart:session:"
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get loads the cart for a session. A missing key yields a fresh empty cart.
func (s *RedisCartStore) Get(ctx context.Context, sessionKey string) (*sales.Cart, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+sessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sales.NewCart(sessionKey), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart sales.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

// Put stores the cart and refreshes its TTL
func (s *RedisCartStore) Put(ctx context.Context, cart *sales.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+cart.SessionKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

// Clear removes the cart for a session
func (s *RedisCartStore) Clear(ctx context.Context, sessionKey string) error {
	if err := s.client.Del(ctx, s.keyPrefix+sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

// Ensure RedisCartStore implements CartStore
var _ sales.CartStore = (*RedisCartStore)(nil)
