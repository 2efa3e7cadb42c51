package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for car location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, carID string, lat, lng float64) error
	FindNearbyCars(ctx context.Context, lat, lng, radiusKm float64) ([]CarLocation, error)
	RemoveLocation(ctx context.Context, carID string) error
}

// LockStoreInterface defines the interface for distributed booking locks.
type LockStoreInterface interface {
	AcquireCarLock(ctx context.Context, carID string, ttl time.Duration) (bool, error)
	ReleaseCarLock(ctx context.Context, carID string) error
}

// CacheStoreInterface defines the interface for entity and suggestion
// caching.
type CacheStoreInterface interface {
	GetCar(ctx context.Context, carID string) (*CachedCar, error)
	SetCar(ctx context.Context, car *CachedCar) error
	InvalidateCar(ctx context.Context, carID string) error
	GetSuggestions(ctx context.Context, query string) ([]string, error)
	SetSuggestions(ctx context.Context, query string, suggestions []string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ CacheStoreInterface    = (*CacheStore)(nil)
)
