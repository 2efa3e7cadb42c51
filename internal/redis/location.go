package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const carLocationKey = "cars:locations"

// CarLocation represents a car's position in the geo index.
type CarLocation struct {
	CarID      string
	Lat        float64
	Lng        float64
	DistanceKm float64
}

// LocationStore handles car location operations in Redis. Cars without
// coordinates are never added, so proximity queries exclude them by
// construction.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a car's location using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, carID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, carLocationKey, &redis.GeoLocation{
		Name:      carID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// FindNearbyCars returns car locations within the given radius (kilometers),
// closest first.
func (s *LocationStore) FindNearbyCars(ctx context.Context, lat, lng, radiusKm float64) ([]CarLocation, error) {
	results, err := s.client.GeoRadius(ctx, carLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]CarLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, CarLocation{
			CarID:      r.Name,
			Lat:        r.Latitude,
			Lng:        r.Longitude,
			DistanceKm: r.Dist,
		})
	}

	return locations, nil
}

// RemoveLocation removes a car's location from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, carID string) error {
	return s.client.ZRem(ctx, carLocationKey, carID).Err()
}
