package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	CarCacheTTL        = 60 * time.Second // listing data changes rarely outside status flips
	SuggestionCacheTTL = 10 * time.Minute // address suggestions are stable per query
)

// Key prefixes
const (
	carCachePrefix        = "cache:car:"
	suggestionCachePrefix = "cache:suggest:"
)

// CachedCar represents a cached car entity, trimmed to the fields the
// availability filter needs.
type CachedCar struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"owner_id"`
	DailyRate float64 `json:"daily_rate"`
	Status    string  `json:"status"`
	Approved  bool    `json:"approved"`
}

// GetCar retrieves a car from cache. Returns nil on a miss.
func (s *CacheStore) GetCar(ctx context.Context, carID string) (*CachedCar, error) {
	key := carCachePrefix + carID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var car CachedCar
	if err := json.Unmarshal(data, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// SetCar stores a car in cache.
func (s *CacheStore) SetCar(ctx context.Context, car *CachedCar) error {
	key := carCachePrefix + car.ID
	data, err := json.Marshal(car)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, CarCacheTTL).Err()
}

// InvalidateCar removes a car from cache. Called on every status flip so the
// availability filter never serves a stale Rented/Available value for the
// full TTL.
func (s *CacheStore) InvalidateCar(ctx context.Context, carID string) error {
	key := carCachePrefix + carID
	return s.client.Del(ctx, key).Err()
}

// GetSuggestions retrieves cached address suggestions for a query.
// Returns nil on a miss.
func (s *CacheStore) GetSuggestions(ctx context.Context, query string) ([]string, error) {
	key := suggestionCachePrefix + normalizeQuery(query)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var suggestions []string
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// SetSuggestions stores address suggestions for a query with a bounded TTL.
func (s *CacheStore) SetSuggestions(ctx context.Context, query string, suggestions []string) error {
	key := suggestionCachePrefix + normalizeQuery(query)
	data, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, SuggestionCacheTTL).Err()
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
