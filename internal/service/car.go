package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rentndrive/internal/domain"
	"rentndrive/internal/gateway"
	"rentndrive/internal/redis"
	"rentndrive/internal/repository"
)

// CarService manages the car catalog: listings, admin approval, and the geo
// index behind proximity search.
type CarService struct {
	carRepo       repository.CarRepository
	locationStore redis.LocationStoreInterface
	cacheStore    redis.CacheStoreInterface
	suggester     gateway.AddressSuggester
	log           *logrus.Logger
}

// NewCarService creates a new CarService.
func NewCarService(
	carRepo repository.CarRepository,
	locationStore redis.LocationStoreInterface,
	cacheStore redis.CacheStoreInterface,
	suggester gateway.AddressSuggester,
	log *logrus.Logger,
) *CarService {
	return &CarService{
		carRepo:       carRepo,
		locationStore: locationStore,
		cacheStore:    cacheStore,
		suggester:     suggester,
		log:           log,
	}
}

// CreateCarRequest contains the parameters for listing a car.
type CreateCarRequest struct {
	Name         string
	Make         string
	Model        string
	Year         int
	LicensePlate string
	DailyRate    float64
	Latitude     float64
	Longitude    float64
	HasLocation  bool
	Address      string
	Transmission domain.Transmission
	FuelType     domain.FuelType
	Seats        int
	Mileage      float64
	Features     string
	ImageURL     string
}

// CreateCar lists a new car for the acting owner. Listings start
// unapproved and invisible to search until an admin approves them.
func (s *CarService) CreateCar(ctx context.Context, actor Actor, req CreateCarRequest) (*domain.Car, error) {
	if actor.Role != domain.RoleOwner && actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}
	if req.DailyRate <= 0 {
		return nil, ErrInvalidDailyRate
	}
	if req.HasLocation && (!isValidLatitude(req.Latitude) || !isValidLongitude(req.Longitude)) {
		return nil, ErrInvalidLocation
	}

	car := &domain.Car{
		ID:           uuid.New().String(),
		OwnerID:      actor.UserID,
		Name:         req.Name,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		DailyRate:    req.DailyRate,
		Status:       domain.CarStatusAvailable,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		HasLocation:  req.HasLocation,
		Address:      req.Address,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Seats:        req.Seats,
		Mileage:      req.Mileage,
		Features:     req.Features,
		ImageURL:     req.ImageURL,
		Approved:     false,
		CreatedAt:    time.Now(),
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}

	if car.HasLocation {
		if err := s.locationStore.UpdateLocation(ctx, car.ID, car.Latitude, car.Longitude); err != nil {
			s.log.WithError(err).WithField("car_id", car.ID).Warn("failed to index car location")
		}
	}

	return car, nil
}

// GetCar retrieves a car by ID.
func (s *CarService) GetCar(ctx context.Context, carID string) (*domain.Car, error) {
	if carID == "" {
		return nil, ErrInvalidCarID
	}
	return s.carRepo.GetByID(ctx, carID)
}

// ListOwnerCars returns the actor's own listings.
func (s *CarService) ListOwnerCars(ctx context.Context, actor Actor) ([]*domain.Car, error) {
	if actor.UserID == "" {
		return nil, ErrInvalidUserID
	}
	return s.carRepo.GetByOwner(ctx, actor.UserID)
}

// ListAllCars returns every listing. Admin only.
func (s *CarService) ListAllCars(ctx context.Context, actor Actor) ([]*domain.Car, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}
	return s.carRepo.GetAll(ctx)
}

// UpdateCar updates a listing's editable fields. Only the listing's owner
// or an admin may update; status and approval are not touched here.
func (s *CarService) UpdateCar(ctx context.Context, actor Actor, carID string, req CreateCarRequest) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && actor.UserID != car.OwnerID {
		return nil, ErrAccessDenied
	}
	if req.DailyRate <= 0 {
		return nil, ErrInvalidDailyRate
	}
	if req.HasLocation && (!isValidLatitude(req.Latitude) || !isValidLongitude(req.Longitude)) {
		return nil, ErrInvalidLocation
	}

	car.Name = req.Name
	car.Make = req.Make
	car.Model = req.Model
	car.Year = req.Year
	car.LicensePlate = req.LicensePlate
	car.DailyRate = req.DailyRate
	car.Latitude = req.Latitude
	car.Longitude = req.Longitude
	car.HasLocation = req.HasLocation
	car.Address = req.Address
	car.Transmission = req.Transmission
	car.FuelType = req.FuelType
	car.Seats = req.Seats
	car.Mileage = req.Mileage
	car.Features = req.Features
	car.ImageURL = req.ImageURL

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}

	if car.HasLocation {
		if err := s.locationStore.UpdateLocation(ctx, car.ID, car.Latitude, car.Longitude); err != nil {
			s.log.WithError(err).WithField("car_id", car.ID).Warn("failed to index car location")
		}
	} else {
		if err := s.locationStore.RemoveLocation(ctx, car.ID); err != nil {
			s.log.WithError(err).WithField("car_id", car.ID).Warn("failed to remove car location")
		}
	}

	if err := s.cacheStore.InvalidateCar(ctx, car.ID); err != nil {
		s.log.WithError(err).WithField("car_id", car.ID).Warn("failed to invalidate car cache")
	}

	return car, nil
}

// ApproveCar flips a listing's approval flag. Admin only.
func (s *CarService) ApproveCar(ctx context.Context, actor Actor, carID string, approved bool) error {
	if actor.Role != domain.RoleAdmin {
		return ErrAccessDenied
	}
	if err := s.carRepo.SetApproved(ctx, carID, approved); err != nil {
		return err
	}
	if err := s.cacheStore.InvalidateCar(ctx, carID); err != nil {
		s.log.WithError(err).WithField("car_id", carID).Warn("failed to invalidate car cache")
	}
	return nil
}

// SuggestAddresses returns address autocomplete suggestions for a partial
// query, cached per normalized query.
func (s *CarService) SuggestAddresses(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}

	if cached, err := s.cacheStore.GetSuggestions(ctx, query); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.log.WithError(err).Warn("suggestion cache read failed")
	}

	suggestions, err := s.suggester.Suggest(ctx, query)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	if err := s.cacheStore.SetSuggestions(ctx, query, suggestions); err != nil {
		s.log.WithError(err).Warn("suggestion cache write failed")
	}

	return suggestions, nil
}
