package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"rentndrive/internal/domain"
	"rentndrive/internal/redis"
	"rentndrive/internal/repository"
)

// DefaultSearchRadiusKm is the nearby-cars radius used when the caller does
// not supply one.
const DefaultSearchRadiusKm = 5.0

// NearbyCar is an available car together with its distance from the search
// point.
type NearbyCar struct {
	Car        *domain.Car
	DistanceKm float64
}

// AvailabilityService answers "which cars can be booked near me right now".
type AvailabilityService struct {
	carRepo       repository.CarRepository
	locationStore redis.LocationStoreInterface
	cacheStore    redis.CacheStoreInterface
	log           *logrus.Logger
	defaultRadius float64
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(
	carRepo repository.CarRepository,
	locationStore redis.LocationStoreInterface,
	cacheStore redis.CacheStoreInterface,
	log *logrus.Logger,
	defaultRadiusKm float64,
) *AvailabilityService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = DefaultSearchRadiusKm
	}
	return &AvailabilityService{
		carRepo:       carRepo,
		locationStore: locationStore,
		cacheStore:    cacheStore,
		log:           log,
		defaultRadius: defaultRadiusKm,
	}
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// NearbyAvailableCars returns approved, Available cars within radiusKm of
// the given point, nearest first. A non-positive radius falls back to the
// configured default.
func (s *AvailabilityService) NearbyAvailableCars(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyCar, error) {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}
	if radiusKm <= 0 {
		radiusKm = s.defaultRadius
	}

	locations, err := s.locationStore.FindNearbyCars(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}

	cars := make([]NearbyCar, 0, len(locations))
	for _, loc := range locations {
		// Cache-first eligibility check. A cached ineligible car is skipped
		// without touching the database.
		if cached, err := s.cacheStore.GetCar(ctx, loc.CarID); err == nil && cached != nil {
			if cached.Status != string(domain.CarStatusAvailable) || !cached.Approved {
				continue
			}
		} else if err != nil {
			s.log.WithError(err).WithField("car_id", loc.CarID).Warn("car cache read failed")
		}

		car, err := s.carRepo.GetByID(ctx, loc.CarID)
		if err != nil {
			// The geo index can briefly outlive a deleted listing.
			s.log.WithField("car_id", loc.CarID).Debug("indexed car not found, skipping")
			continue
		}

		if err := s.cacheStore.SetCar(ctx, &redis.CachedCar{
			ID:        car.ID,
			OwnerID:   car.OwnerID,
			DailyRate: car.DailyRate,
			Status:    string(car.Status),
			Approved:  car.Approved,
		}); err != nil {
			s.log.WithError(err).WithField("car_id", car.ID).Warn("car cache write failed")
		}

		if car.Status != domain.CarStatusAvailable || !car.Approved {
			continue
		}

		cars = append(cars, NearbyCar{Car: car, DistanceKm: loc.DistanceKm})
	}

	return cars, nil
}
