package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentndrive/internal/domain"
	"rentndrive/internal/redis"
	"rentndrive/internal/service"
)

func TestNearbyAvailableCars(t *testing.T) {
	f := newFixture()

	available := f.addCar("car-ok", "owner-1", 1000)
	rented := f.addCar("car-rented", "owner-1", 1000)
	rented.Status = domain.CarStatusRented
	unapproved := f.addCar("car-unapproved", "owner-1", 1000)
	unapproved.Approved = false

	f.locationStore.AddCarLocation(redis.CarLocation{CarID: "car-ok", Lat: 12.97, Lng: 77.59, DistanceKm: 1.2})
	f.locationStore.AddCarLocation(redis.CarLocation{CarID: "car-rented", Lat: 12.97, Lng: 77.60, DistanceKm: 2.0})
	f.locationStore.AddCarLocation(redis.CarLocation{CarID: "car-unapproved", Lat: 12.98, Lng: 77.59, DistanceKm: 2.5})
	// Indexed but deleted from the catalog; must be skipped, not an error.
	f.locationStore.AddCarLocation(redis.CarLocation{CarID: "car-gone", Lat: 12.99, Lng: 77.58, DistanceKm: 3.0})

	cars, err := f.availability.NearbyAvailableCars(context.Background(), 12.97, 77.59, 5)
	require.NoError(t, err)

	require.Len(t, cars, 1)
	assert.Equal(t, available.ID, cars[0].Car.ID)
	assert.Equal(t, 1.2, cars[0].DistanceKm)

	// Eligible cars get cached for the next query.
	assert.True(t, f.cacheStore.HasCachedCar("car-ok"))
}

func TestNearbyAvailableCarsInvalidCoordinates(t *testing.T) {
	f := newFixture()

	_, err := f.availability.NearbyAvailableCars(context.Background(), 91, 77.59, 5)
	assert.ErrorIs(t, err, service.ErrInvalidLocation)

	_, err = f.availability.NearbyAvailableCars(context.Background(), 12.97, -181, 5)
	assert.ErrorIs(t, err, service.ErrInvalidLocation)
}

func TestNearbyAvailableCarsCacheShortCircuit(t *testing.T) {
	f := newFixture()

	// Only the cache knows this car, and it is ineligible: the catalog is
	// never consulted for it.
	f.locationStore.AddCarLocation(redis.CarLocation{CarID: "car-cached", Lat: 12.97, Lng: 77.59})
	require.NoError(t, f.cacheStore.SetCar(context.Background(), &redis.CachedCar{
		ID:       "car-cached",
		Status:   string(domain.CarStatusRented),
		Approved: true,
	}))

	cars, err := f.availability.NearbyAvailableCars(context.Background(), 12.97, 77.59, 5)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestNearbyAvailableCarsDefaultRadius(t *testing.T) {
	f := newFixture()
	f.addCar("car-ok", "owner-1", 1000)
	f.locationStore.AddCarLocation(redis.CarLocation{CarID: "car-ok", Lat: 12.97, Lng: 77.59})

	// Radius 0 falls back to the configured default instead of failing.
	cars, err := f.availability.NearbyAvailableCars(context.Background(), 12.97, 77.59, 0)
	require.NoError(t, err)
	assert.Len(t, cars, 1)
}
