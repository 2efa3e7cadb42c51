package tests

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"rentndrive/internal/domain"
	"rentndrive/internal/service"
)

const testSigningSecret = "test-secret"

// fixture bundles the mocks and services under test.
type fixture struct {
	carRepo         *MockCarRepository
	reservationRepo *MockReservationRepository
	paymentRepo     *MockPaymentRepository
	userRepo        *MockUserRepository
	reviewRepo      *MockReviewRepository
	uow             *MockUnitOfWork
	lockStore       *MockLockStore
	cacheStore      *MockCacheStore
	locationStore   *MockLocationStore
	gateway         *MockGateway
	mailer          *MockMailer

	reservations *service.ReservationService
	availability *service.AvailabilityService
	payments     *service.PaymentService
	reviews      *service.ReviewService
}

func newFixture() *fixture {
	f := &fixture{
		carRepo:         NewMockCarRepository(),
		reservationRepo: NewMockReservationRepository(),
		paymentRepo:     NewMockPaymentRepository(),
		userRepo:        NewMockUserRepository(),
		reviewRepo:      NewMockReviewRepository(),
		lockStore:       NewMockLockStore(),
		cacheStore:      NewMockCacheStore(),
		locationStore:   NewMockLocationStore(),
		gateway:         NewMockGateway(),
		mailer:          NewMockMailer(),
	}
	f.uow = NewMockUnitOfWork(f.reservationRepo, f.carRepo, f.paymentRepo)
	f.reservationRepo.CarOwnerLookup = func(carID string) (string, bool) {
		car := f.carRepo.GetCar(carID)
		if car == nil {
			return "", false
		}
		return car.OwnerID, true
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	notifications := service.NewNotificationService(f.mailer, log)
	f.reservations = service.NewReservationService(
		f.uow, f.reservationRepo, f.carRepo, f.userRepo, f.paymentRepo,
		f.lockStore, f.cacheStore, f.gateway, testSigningSecret,
		notifications, log, 10*time.Second,
	)
	f.availability = service.NewAvailabilityService(f.carRepo, f.locationStore, f.cacheStore, log, 5.0)
	f.payments = service.NewPaymentService(f.paymentRepo, f.carRepo, f.reservationRepo, f.gateway, "rzp_test_key", testSigningSecret)
	f.reviews = service.NewReviewService(f.reviewRepo, f.reservationRepo, f.carRepo, f.userRepo)

	return f
}

func (f *fixture) addCar(id, ownerID string, rate float64) *domain.Car {
	car := &domain.Car{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "Swift Dzire",
		DailyRate: rate,
		Status:    domain.CarStatusAvailable,
		Approved:  true,
		CreatedAt: time.Now(),
	}
	f.carRepo.AddCar(car)
	return car
}

func (f *fixture) addUser(id string, role domain.Role) *domain.User {
	user := &domain.User{
		ID:       id,
		Name:     "User " + id,
		Email:    id + "@example.com",
		Phone:    "9999900000",
		Role:     role,
		Approved: true,
	}
	f.userRepo.AddUser(user)
	return user
}

func customer(id string) service.Actor {
	return service.Actor{UserID: id, Role: domain.RoleCustomer, Approved: true}
}

func owner(id string) service.Actor {
	return service.Actor{UserID: id, Role: domain.RoleOwner, Approved: true}
}

func admin(id string) service.Actor {
	return service.Actor{UserID: id, Role: domain.RoleAdmin, Approved: true}
}

// sign computes a valid payment signature the way the gateway would.
func sign(orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(testSigningSecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}
