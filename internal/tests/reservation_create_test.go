package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentndrive/internal/domain"
	"rentndrive/internal/repository"
	"rentndrive/internal/service"
)

func TestCreateReservation(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)

	start := date(2026, 10, 1)
	end := date(2026, 10, 3)

	result, err := f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID:     "car-1",
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationStatusPending, result.Reservation.Status)
	assert.Equal(t, "cust-1", result.Reservation.UserID)
	assert.Equal(t, "car-1", result.Reservation.CarID)
	assert.Equal(t, "car-1", result.Car.ID)

	// 2026-10-01 to 2026-10-03 bills 3 days at 1000/day.
	assert.Equal(t, 3000.0, result.Reservation.TotalAmount)

	// Booking does not flip the car to Rented.
	assert.Equal(t, domain.CarStatusAvailable, f.carRepo.GetCar("car-1").Status)

	// The per-car lock is released after creation.
	assert.False(t, f.lockStore.IsLocked("car-1"))
}

func TestCreateReservationRequiresApprovedCustomer(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)

	req := service.CreateReservationRequest{
		CarID:     "car-1",
		StartDate: date(2026, 10, 1),
		EndDate:   date(2026, 10, 3),
	}

	_, err := f.reservations.CreateReservation(context.Background(), service.Actor{
		UserID: "cust-1", Role: domain.RoleCustomer, Approved: false,
	}, req)
	assert.ErrorIs(t, err, service.ErrNotApproved)

	_, err = f.reservations.CreateReservation(context.Background(), owner("owner-1"), req)
	assert.ErrorIs(t, err, service.ErrNotApproved)

	assert.Equal(t, 0, f.reservationRepo.CountReservations())
}

func TestCreateReservationInvalidDateRange(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)

	_, err := f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID:     "car-1",
		StartDate: date(2026, 10, 3),
		EndDate:   date(2026, 10, 1),
	})
	assert.ErrorIs(t, err, service.ErrInvalidDateRange)

	_, err = f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID: "car-1",
	})
	assert.ErrorIs(t, err, service.ErrInvalidDateRange)
}

func TestCreateReservationCarNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID:     "missing",
		StartDate: date(2026, 10, 1),
		EndDate:   date(2026, 10, 3),
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)

	f.reservationRepo.AddReservation(&domain.Reservation{
		ID:        "res-existing",
		CarID:     "car-1",
		UserID:    "cust-other",
		StartDate: date(2026, 10, 2),
		EndDate:   date(2026, 10, 5),
		Status:    domain.ReservationStatusConfirmed,
	})

	_, err := f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID:     "car-1",
		StartDate: date(2026, 10, 1),
		EndDate:   date(2026, 10, 3),
	})
	assert.ErrorIs(t, err, service.ErrCarAlreadyReserved)
	assert.Equal(t, 1, f.reservationRepo.CountReservations())
	assert.False(t, f.lockStore.IsLocked("car-1"))
}

func TestCreateReservationIgnoresTerminalOverlap(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)

	// Cancelled and completed bookings do not block the dates.
	f.reservationRepo.AddReservation(&domain.Reservation{
		ID:        "res-cancelled",
		CarID:     "car-1",
		UserID:    "cust-other",
		StartDate: date(2026, 10, 1),
		EndDate:   date(2026, 10, 5),
		Status:    domain.ReservationStatusCancelled,
	})
	f.reservationRepo.AddReservation(&domain.Reservation{
		ID:        "res-completed",
		CarID:     "car-1",
		UserID:    "cust-other",
		StartDate: date(2026, 10, 2),
		EndDate:   date(2026, 10, 4),
		Status:    domain.ReservationStatusCompleted,
	})

	_, err := f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID:     "car-1",
		StartDate: date(2026, 10, 1),
		EndDate:   date(2026, 10, 3),
	})
	assert.NoError(t, err)
}

func TestCreateReservationAllowsBackToBack(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)

	boundary := date(2026, 10, 3)
	f.reservationRepo.AddReservation(&domain.Reservation{
		ID:        "res-earlier",
		CarID:     "car-1",
		UserID:    "cust-other",
		StartDate: date(2026, 10, 1),
		EndDate:   boundary,
		Status:    domain.ReservationStatusConfirmed,
	})

	// A new booking starting exactly when the previous one ends is allowed.
	_, err := f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID:     "car-1",
		StartDate: boundary,
		EndDate:   date(2026, 10, 6),
	})
	assert.NoError(t, err)
}

func TestCreateReservationLockContention(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	f.lockStore.ForceAcquireFailure = true

	_, err := f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID:     "car-1",
		StartDate: date(2026, 10, 1),
		EndDate:   date(2026, 10, 3),
	})
	assert.ErrorIs(t, err, service.ErrCarAlreadyReserved)
	assert.Equal(t, 0, f.reservationRepo.CountReservations())
}

func TestCreateReservationSameDayBillsOneDay(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)

	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

	result, err := f.reservations.CreateReservation(context.Background(), customer("cust-1"), service.CreateReservationRequest{
		CarID:     "car-1",
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, result.Reservation.TotalAmount)
}
