package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentndrive/internal/domain"
	"rentndrive/internal/gateway"
	"rentndrive/internal/service"
)

func pendingReservation(f *fixture, id, carID, userID string) *domain.Reservation {
	r := &domain.Reservation{
		ID:          id,
		CarID:       carID,
		UserID:      userID,
		StartDate:   date(2026, 10, 1),
		EndDate:     date(2026, 10, 3),
		TotalAmount: 3000,
		Status:      domain.ReservationStatusPending,
		CreatedAt:   time.Now(),
	}
	f.reservationRepo.AddReservation(r)
	return r
}

func pendingPayment(f *fixture, id, orderRef, reservationID, carID, userID string) *domain.Payment {
	p := &domain.Payment{
		ID:            id,
		UserID:        userID,
		CarID:         carID,
		ReservationID: reservationID,
		Amount:        3000,
		Currency:      "INR",
		Status:        domain.PaymentStatusPending,
		OrderRef:      orderRef,
		TransactionID: "temp_0_000000",
		CreatedAt:     time.Now(),
	}
	f.paymentRepo.AddPayment(p)
	return p
}

func TestConfirmReservation(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	f.addUser("cust-1", domain.RoleCustomer)
	f.addUser("owner-1", domain.RoleOwner)
	pendingReservation(f, "res-1", "car-1", "cust-1")
	pendingPayment(f, "pmt-1", "order_abc", "res-1", "car-1", "cust-1")

	f.gateway.AddPayment(&gateway.GatewayPayment{
		ID:       "pay_abc",
		OrderID:  "order_abc",
		Status:   "captured",
		Captured: true,
	})

	reservation, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationStatusConfirmed, reservation.Status)
	assert.Equal(t, "pmt-1", f.reservationRepo.GetReservation("res-1").PaymentID)
	assert.Equal(t, domain.CarStatusRented, f.carRepo.GetCar("car-1").Status)
	assert.False(t, f.cacheStore.HasCachedCar("car-1"))

	// Customer and owner both get a confirmation email.
	sent := f.mailer.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "cust-1@example.com", sent[0].To)
	assert.Equal(t, "owner-1@example.com", sent[1].To)
}

func TestConfirmReservationInvalidSignature(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")

	_, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     "bogus",
	})
	assert.ErrorIs(t, err, service.ErrInvalidSignature)

	// Nothing changed.
	assert.Equal(t, domain.ReservationStatusPending, f.reservationRepo.GetReservation("res-1").Status)
	assert.Equal(t, domain.CarStatusAvailable, f.carRepo.GetCar("car-1").Status)
	assert.Equal(t, int32(0), f.gateway.FetchPaymentCallCount)
}

func TestConfirmReservationNotCaptured(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")
	pendingPayment(f, "pmt-1", "order_abc", "res-1", "car-1", "cust-1")

	f.gateway.AddPayment(&gateway.GatewayPayment{
		ID:      "pay_abc",
		OrderID: "order_abc",
		Status:  "authorized",
	})

	_, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	assert.ErrorIs(t, err, service.ErrPaymentNotCaptured)
	assert.Equal(t, domain.ReservationStatusPending, f.reservationRepo.GetReservation("res-1").Status)
}

func TestConfirmReservationIdempotent(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	r := pendingReservation(f, "res-1", "car-1", "cust-1")
	r.Status = domain.ReservationStatusConfirmed

	reservation, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusConfirmed, reservation.Status)

	// No gateway round-trip for an already confirmed booking.
	assert.Equal(t, int32(0), f.gateway.FetchPaymentCallCount)
}

func TestConfirmReservationTerminal(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	r := pendingReservation(f, "res-1", "car-1", "cust-1")
	r.Status = domain.ReservationStatusCancelled

	_, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	assert.ErrorIs(t, err, service.ErrReservationTerminal)
}

func TestConfirmReservationGatewayRetry(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	f.addUser("cust-1", domain.RoleCustomer)
	f.addUser("owner-1", domain.RoleOwner)
	pendingReservation(f, "res-1", "car-1", "cust-1")
	pendingPayment(f, "pmt-1", "order_abc", "res-1", "car-1", "cust-1")

	// First two fetches time out; the third succeeds.
	f.gateway.FetchFailures = 2
	f.gateway.AddPayment(&gateway.GatewayPayment{
		ID:       "pay_abc",
		OrderID:  "order_abc",
		Status:   "captured",
		Captured: true,
	})

	reservation, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusConfirmed, reservation.Status)
	assert.Equal(t, int32(3), f.gateway.FetchPaymentCallCount)
}

func TestConfirmReservationGatewayUnavailable(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")
	pendingPayment(f, "pmt-1", "order_abc", "res-1", "car-1", "cust-1")

	f.gateway.FetchError = ErrMockTimeout

	_, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	assert.ErrorIs(t, err, service.ErrGatewayUnavailable)
	assert.Equal(t, int32(3), f.gateway.FetchPaymentCallCount)
	assert.Equal(t, domain.ReservationStatusPending, f.reservationRepo.GetReservation("res-1").Status)
}

func TestConfirmReservationForeignOrder(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")

	// The order's ledger row belongs to a different booking.
	pendingPayment(f, "pmt-1", "order_abc", "res-other", "car-1", "cust-other")

	_, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	assert.ErrorIs(t, err, service.ErrPaymentMismatch)

	// Rejected before any gateway round-trip, and nothing changed.
	assert.Equal(t, int32(0), f.gateway.FetchPaymentCallCount)
	assert.Equal(t, domain.ReservationStatusPending, f.reservationRepo.GetReservation("res-1").Status)
	assert.Equal(t, domain.CarStatusAvailable, f.carRepo.GetCar("car-1").Status)
}

func TestConfirmReservationWrongOrder(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")
	pendingPayment(f, "pmt-1", "order_abc", "res-1", "car-1", "cust-1")

	// A captured payment taken against some other order cannot confirm this
	// booking, even with a valid signature over its own refs.
	f.gateway.AddPayment(&gateway.GatewayPayment{
		ID:       "pay_abc",
		OrderID:  "order_other",
		Status:   "captured",
		Captured: true,
	})

	_, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	assert.ErrorIs(t, err, service.ErrPaymentMismatch)
	assert.Equal(t, domain.ReservationStatusPending, f.reservationRepo.GetReservation("res-1").Status)
}

func TestConfirmReservationMidTransactionFailure(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	f.addUser("cust-1", domain.RoleCustomer)
	f.addUser("owner-1", domain.RoleOwner)
	pendingReservation(f, "res-1", "car-1", "cust-1")
	pendingPayment(f, "pmt-1", "order_abc", "res-1", "car-1", "cust-1")

	f.gateway.AddPayment(&gateway.GatewayPayment{
		ID:       "pay_abc",
		OrderID:  "order_abc",
		Status:   "captured",
		Captured: true,
	})

	// The car-status write fails after the reservation row is written; the
	// transaction must roll both back.
	f.carRepo.UpdateStatusError = ErrMockDBConstraint

	_, err := f.reservations.Confirm(context.Background(), service.ConfirmRequest{
		ReservationID: "res-1",
		OrderRef:      "order_abc",
		PaymentRef:    "pay_abc",
		Signature:     sign("order_abc", "pay_abc"),
	})
	assert.ErrorIs(t, err, ErrMockDBConstraint)

	stored := f.reservationRepo.GetReservation("res-1")
	assert.Equal(t, domain.ReservationStatusPending, stored.Status)
	assert.Empty(t, stored.PaymentID)
	assert.Equal(t, domain.CarStatusAvailable, f.carRepo.GetCar("car-1").Status)
	assert.Equal(t, int32(0), f.cacheStore.InvalidateCarCallCount)
	assert.Empty(t, f.mailer.Sent())
}

func TestCancelReservation(t *testing.T) {
	f := newFixture()
	car := f.addCar("car-1", "owner-1", 1000)
	car.Status = domain.CarStatusRented
	f.addUser("cust-1", domain.RoleCustomer)
	f.addUser("owner-1", domain.RoleOwner)
	r := pendingReservation(f, "res-1", "car-1", "cust-1")
	r.Status = domain.ReservationStatusConfirmed

	before := time.Now()
	err := f.reservations.Cancel(context.Background(), customer("cust-1"), "res-1")
	require.NoError(t, err)

	stored := f.reservationRepo.GetReservation("res-1")
	assert.Equal(t, domain.ReservationStatusCancelled, stored.Status)
	assert.False(t, stored.EndDate.Before(before))
	assert.Equal(t, domain.CarStatusAvailable, f.carRepo.GetCar("car-1").Status)
}

func TestCancelReservationAuthz(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")

	err := f.reservations.Cancel(context.Background(), customer("cust-stranger"), "res-1")
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	// The car's owner may cancel.
	err = f.reservations.Cancel(context.Background(), owner("owner-1"), "res-1")
	assert.NoError(t, err)
}

func TestCancelReservationTerminal(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	r := pendingReservation(f, "res-1", "car-1", "cust-1")
	r.Status = domain.ReservationStatusCompleted

	err := f.reservations.Cancel(context.Background(), admin("adm-1"), "res-1")
	assert.ErrorIs(t, err, service.ErrReservationTerminal)
}

func TestCompleteReservation(t *testing.T) {
	f := newFixture()
	car := f.addCar("car-1", "owner-1", 1000)
	car.Status = domain.CarStatusRented
	f.addUser("cust-1", domain.RoleCustomer)
	r := pendingReservation(f, "res-1", "car-1", "cust-1")
	r.Status = domain.ReservationStatusConfirmed

	err := f.reservations.Complete(context.Background(), owner("owner-1"), "res-1")
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationStatusCompleted, f.reservationRepo.GetReservation("res-1").Status)
	assert.Equal(t, domain.CarStatusAvailable, f.carRepo.GetCar("car-1").Status)
}

func TestCompleteReservationOnlyOwnerOrAdmin(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	r := pendingReservation(f, "res-1", "car-1", "cust-1")
	r.Status = domain.ReservationStatusConfirmed

	// The booking customer cannot mark the car returned.
	err := f.reservations.Complete(context.Background(), customer("cust-1"), "res-1")
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	err = f.reservations.Complete(context.Background(), owner("owner-other"), "res-1")
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	err = f.reservations.Complete(context.Background(), admin("adm-1"), "res-1")
	assert.NoError(t, err)
}

func TestCompleteReservationAlreadyCompleted(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	r := pendingReservation(f, "res-1", "car-1", "cust-1")
	r.Status = domain.ReservationStatusCompleted

	err := f.reservations.Complete(context.Background(), owner("owner-1"), "res-1")
	assert.ErrorIs(t, err, service.ErrAlreadyCompleted)

	r.Status = domain.ReservationStatusCancelled
	err = f.reservations.Complete(context.Background(), owner("owner-1"), "res-1")
	assert.ErrorIs(t, err, service.ErrReservationTerminal)
}

func TestUpdateReservation(t *testing.T) {
	f := newFixture()
	car := f.addCar("car-1", "owner-1", 1000)
	f.addUser("cust-1", domain.RoleCustomer)
	f.addUser("owner-1", domain.RoleOwner)
	pendingReservation(f, "res-1", "car-1", "cust-1")

	// The rate changed since booking; the new amount uses the current rate.
	car.DailyRate = 1200

	updated, err := f.reservations.UpdateReservation(context.Background(), customer("cust-1"), service.UpdateReservationRequest{
		ReservationID: "res-1",
		StartDate:     date(2026, 10, 10),
		EndDate:       date(2026, 10, 12),
	})
	require.NoError(t, err)

	assert.Equal(t, date(2026, 10, 10), updated.StartDate)
	assert.Equal(t, 1200.0*3, updated.TotalAmount)
	assert.False(t, f.lockStore.IsLocked("car-1"))
}

func TestUpdateReservationExcludesSelfFromOverlap(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	f.addUser("cust-1", domain.RoleCustomer)
	f.addUser("owner-1", domain.RoleOwner)
	pendingReservation(f, "res-1", "car-1", "cust-1")

	// Shifting within the booking's own range must not conflict with itself.
	_, err := f.reservations.UpdateReservation(context.Background(), customer("cust-1"), service.UpdateReservationRequest{
		ReservationID: "res-1",
		StartDate:     date(2026, 10, 2),
		EndDate:       date(2026, 10, 4),
	})
	assert.NoError(t, err)
}

func TestUpdateReservationConflict(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	pendingReservation(f, "res-1", "car-1", "cust-1")
	f.reservationRepo.AddReservation(&domain.Reservation{
		ID:        "res-2",
		CarID:     "car-1",
		UserID:    "cust-other",
		StartDate: date(2026, 10, 10),
		EndDate:   date(2026, 10, 15),
		Status:    domain.ReservationStatusConfirmed,
	})

	_, err := f.reservations.UpdateReservation(context.Background(), customer("cust-1"), service.UpdateReservationRequest{
		ReservationID: "res-1",
		StartDate:     date(2026, 10, 12),
		EndDate:       date(2026, 10, 14),
	})
	assert.ErrorIs(t, err, service.ErrCarAlreadyReserved)

	// The stored reservation keeps its original dates.
	assert.Equal(t, date(2026, 10, 1), f.reservationRepo.GetReservation("res-1").StartDate)
}

func TestPurgeReservation(t *testing.T) {
	f := newFixture()
	car := f.addCar("car-1", "owner-1", 1000)
	car.Status = domain.CarStatusRented
	pendingReservation(f, "res-1", "car-1", "cust-1")

	err := f.reservations.Purge(context.Background(), admin("adm-1"), "res-1")
	require.NoError(t, err)

	assert.Equal(t, 0, f.reservationRepo.CountReservations())
	assert.Equal(t, domain.CarStatusAvailable, f.carRepo.GetCar("car-1").Status)
}

func TestGetReservationAuthz(t *testing.T) {
	f := newFixture()
	f.addCar("car-1", "owner-1", 1000)
	f.addUser("cust-1", domain.RoleCustomer)
	pendingReservation(f, "res-1", "car-1", "cust-1")

	_, err := f.reservations.GetReservation(context.Background(), customer("cust-stranger"), "res-1")
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	enriched, err := f.reservations.GetReservation(context.Background(), owner("owner-1"), "res-1")
	require.NoError(t, err)
	assert.Equal(t, "car-1", enriched.Car.ID)
	assert.Equal(t, "cust-1", enriched.Customer.ID)
}

func TestEffectiveStatusOngoing(t *testing.T) {
	now := time.Now()
	r := &domain.Reservation{
		Status:    domain.ReservationStatusConfirmed,
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
	}
	assert.Equal(t, domain.ReservationStatusOngoing, r.EffectiveStatus(now))

	// Outside the window it reads as confirmed; ongoing is never stored.
	assert.Equal(t, domain.ReservationStatusConfirmed, r.EffectiveStatus(now.Add(48*time.Hour)))
	assert.Equal(t, domain.ReservationStatusConfirmed, r.Status)

	r.Status = domain.ReservationStatusPending
	assert.Equal(t, domain.ReservationStatusPending, r.EffectiveStatus(now))
}
