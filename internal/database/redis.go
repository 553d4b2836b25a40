package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store is the key-value surface the services depend on
type Store interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	IncrCounter(ctx context.Context, key string) (int64, error)
	GetCounter(ctx context.Context, key string) (int64, error)
}

// RedisClient represents the Redis client
type RedisClient struct {
	*redis.Client
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisClient{client}, nil
}

// Close closes the Redis connection
func (rc *RedisClient) Close() error {
	return rc.Client.Close()
}

// SetJSON sets a JSON value in Redis with expiration
func (rc *RedisClient) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return rc.Set(ctx, key, jsonData, expiration).Err()
}

// GetJSON gets a JSON value from Redis
func (rc *RedisClient) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := rc.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("key not found: %s", key)
		}
		return fmt.Errorf("failed to get from Redis: %w", err)
	}

	return json.Unmarshal([]byte(data), dest)
}

// Delete removes a key from Redis
func (rc *RedisClient) Delete(ctx context.Context, key string) error {
	return rc.Del(ctx, key).Err()
}

// IncrCounter atomically increments a counter key and returns the new value
func (rc *RedisClient) IncrCounter(ctx context.Context, key string) (int64, error) {
	value, err := rc.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return value, nil
}

// GetCounter reads a counter key, returning zero when it does not exist
func (rc *RedisClient) GetCounter(ctx context.Context, key string) (int64, error) {
	value, err := rc.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return value, nil
}

// GenerateFormKey generates the persistence key for a client's search form
func GenerateFormKey(clientID string) string {
	return fmt.Sprintf("search_form:%s", clientID)
}

// GenerateResultsKey generates the key holding a client's last search results
func GenerateResultsKey(clientID string) string {
	return fmt.Sprintf("search_results:%s", clientID)
}

// GenerateGenerationKey generates the key of a client's search generation counter
func GenerateGenerationKey(clientID string) string {
	return fmt.Sprintf("search_gen:%s", clientID)
}

// GenerateSearchCacheKey generates a cache key for flight search results
func GenerateSearchCacheKey(origin, destination, date string) string {
	return fmt.Sprintf("flight_search:%s:%s:%s", origin, destination, date)
}

// GenerateAirportCacheKey generates a cache key for airport suggestions
func GenerateAirportCacheKey(q string) string {
	return fmt.Sprintf("airport_search:%s", q)
}

// GenerateSessionKey generates the key of a booking wizard session
func GenerateSessionKey(sessionID string) string {
	return fmt.Sprintf("booking_session:%s", sessionID)
}
