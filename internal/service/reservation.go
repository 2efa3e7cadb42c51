package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rentndrive/internal/domain"
	"rentndrive/internal/gateway"
	"rentndrive/internal/redis"
	"rentndrive/internal/repository"
)

const (
	defaultCarLockTTL = 10 * time.Second

	gatewayFetchAttempts = 3
	gatewayFetchBackoff  = 200 * time.Millisecond
)

// ReservationService owns the reservation lifecycle: creation with overlap
// checking, pricing, status transitions, and cross-entity consistency with
// the car catalog and payment ledger.
type ReservationService struct {
	uow             repository.UnitOfWork
	reservationRepo repository.ReservationRepository
	carRepo         repository.CarRepository
	userRepo        repository.UserRepository
	paymentRepo     repository.PaymentRepository
	lockStore       redis.LockStoreInterface
	cacheStore      redis.CacheStoreInterface
	gateway         gateway.PaymentGateway
	signingSecret   string
	notifications   *NotificationService
	log             *logrus.Logger
	carLockTTL      time.Duration
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	uow repository.UnitOfWork,
	reservationRepo repository.ReservationRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	gw gateway.PaymentGateway,
	signingSecret string,
	notifications *NotificationService,
	log *logrus.Logger,
	carLockTTL time.Duration,
) *ReservationService {
	if carLockTTL <= 0 {
		carLockTTL = defaultCarLockTTL
	}
	return &ReservationService{
		uow:             uow,
		reservationRepo: reservationRepo,
		carRepo:         carRepo,
		userRepo:        userRepo,
		paymentRepo:     paymentRepo,
		lockStore:       lockStore,
		cacheStore:      cacheStore,
		gateway:         gw,
		signingSecret:   signingSecret,
		notifications:   notifications,
		log:             log,
		carLockTTL:      carLockTTL,
	}
}

// CreateReservationRequest contains the parameters for creating a
// reservation.
type CreateReservationRequest struct {
	CarID     string
	StartDate time.Time
	EndDate   time.Time
}

// CreateReservationResponse contains the created reservation together with
// its car, read-enriched for the caller's immediate use.
type CreateReservationResponse struct {
	Reservation *domain.Reservation
	Car         *domain.Car
}

// CreateReservation creates a reservation in pending status after the
// overlap check. Booking does not flip the car to Rented: capacity is held
// only once payment confirms, so an abandoned checkout never strands a car.
func (s *ReservationService) CreateReservation(ctx context.Context, actor Actor, req CreateReservationRequest) (*CreateReservationResponse, error) {
	if actor.Role != domain.RoleCustomer || !actor.Approved {
		return nil, ErrNotApproved
	}
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	// Serialize check-then-insert per car. Contention is indistinguishable
	// from a date conflict for the losing caller.
	locked, err := s.lockStore.AcquireCarLock(ctx, req.CarID, s.carLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrCarAlreadyReserved
	}
	defer func() {
		if err := s.lockStore.ReleaseCarLock(ctx, req.CarID); err != nil {
			s.log.WithError(err).WithField("car_id", req.CarID).Warn("failed to release car lock")
		}
	}()

	reservation := &domain.Reservation{
		ID:          uuid.New().String(),
		CarID:       car.ID,
		UserID:      actor.UserID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalAmount: domain.RentalAmount(car.DailyRate, req.StartDate, req.EndDate),
		Status:      domain.ReservationStatusPending,
		CreatedAt:   time.Now(),
	}

	err = s.uow.Do(ctx, func(tx repository.TxRepos) error {
		overlapping, err := tx.Reservations.CountOverlapping(ctx, req.CarID, req.StartDate, req.EndDate, "")
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrCarAlreadyReserved
		}
		return tx.Reservations.Create(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	return &CreateReservationResponse{Reservation: reservation, Car: car}, nil
}

// ConfirmRequest contains the payment confirmation callback parameters.
type ConfirmRequest struct {
	ReservationID string
	OrderRef      string
	PaymentRef    string
	Signature     string
}

// Confirm verifies the payment signature and capture state, then flips the
// reservation to confirmed and the car to Rented in one transaction. The
// order must have a ledger row for this reservation and the captured payment
// must belong to that order. Confirming an already confirmed reservation is
// a no-op.
func (s *ReservationService) Confirm(ctx context.Context, req ConfirmRequest) (*domain.Reservation, error) {
	if req.ReservationID == "" {
		return nil, ErrInvalidReservationID
	}

	// Signature failure must perform no mutation, so verify before any read.
	if !VerifyPaymentSignature(req.OrderRef, req.PaymentRef, req.Signature, s.signingSecret) {
		return nil, ErrInvalidSignature
	}

	reservation, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	if reservation.Status == domain.ReservationStatusConfirmed {
		return reservation, nil
	}
	if reservation.Terminal() {
		return nil, ErrReservationTerminal
	}

	car, err := s.carRepo.GetByID(ctx, reservation.CarID)
	if err != nil {
		return nil, err
	}

	// The order ref must resolve to a ledger row for this reservation, or a
	// captured payment for an unrelated booking could confirm this one.
	ledger, err := s.paymentRepo.GetByOrderRef(ctx, req.OrderRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentMismatch
		}
		return nil, err
	}
	if ledger.ReservationID != reservation.ID {
		return nil, ErrPaymentMismatch
	}

	gatewayPayment, err := s.fetchPaymentWithRetry(ctx, req.PaymentRef)
	if err != nil {
		return nil, err
	}
	if gatewayPayment.OrderID != req.OrderRef {
		return nil, ErrPaymentMismatch
	}
	if !gatewayPayment.Captured {
		return nil, ErrPaymentNotCaptured
	}

	reservation.Status = domain.ReservationStatusConfirmed
	reservation.PaymentID = ledger.ID
	err = s.uow.Do(ctx, func(tx repository.TxRepos) error {
		if err := tx.Reservations.Update(ctx, reservation); err != nil {
			return err
		}
		return tx.Cars.UpdateStatus(ctx, car.ID, domain.CarStatusRented)
	})
	if err != nil {
		return nil, err
	}
	car.Status = domain.CarStatusRented
	s.invalidateCarCache(ctx, car.ID)

	s.notify(ctx, reservation, car, func(customer, owner *domain.User) {
		s.notifications.NotifyReservationConfirmed(ctx, reservation, car, customer, owner)
	})

	return reservation, nil
}

// fetchPaymentWithRetry fetches the gateway payment state with a bounded
// retry. Exhausting the retries yields ErrGatewayUnavailable, distinct from
// a captured-state failure.
func (s *ReservationService) fetchPaymentWithRetry(ctx context.Context, paymentRef string) (*gateway.GatewayPayment, error) {
	var lastErr error
	backoff := gatewayFetchBackoff

	for attempt := 0; attempt < gatewayFetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		payment, err := s.gateway.FetchPayment(ctx, paymentRef)
		if err == nil {
			return payment, nil
		}
		lastErr = err
		s.log.WithError(err).WithField("payment_ref", paymentRef).Warn("gateway payment fetch failed")
	}

	s.log.WithError(lastErr).Error("payment gateway unreachable after retries")
	return nil, ErrGatewayUnavailable
}

// Cancel soft-cancels a reservation, stamps the cancellation time as its end
// date, and frees the car.
func (s *ReservationService) Cancel(ctx context.Context, actor Actor, reservationID string) error {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	car, err := s.carRepo.GetByID(ctx, reservation.CarID)
	if err != nil {
		return err
	}

	if !s.mayMutate(actor, reservation, car) {
		return ErrAccessDenied
	}

	if reservation.Terminal() {
		return ErrReservationTerminal
	}

	reservation.Status = domain.ReservationStatusCancelled
	reservation.EndDate = time.Now() // audit marker of when cancellation occurred

	err = s.uow.Do(ctx, func(tx repository.TxRepos) error {
		if err := tx.Reservations.Update(ctx, reservation); err != nil {
			return err
		}
		return tx.Cars.UpdateStatus(ctx, car.ID, domain.CarStatusAvailable)
	})
	if err != nil {
		return err
	}
	s.invalidateCarCache(ctx, car.ID)

	s.notify(ctx, reservation, car, func(customer, owner *domain.User) {
		s.notifications.NotifyReservationCancelled(ctx, reservation, car, customer, owner)
	})

	return nil
}

// Complete marks a reservation completed on car return and frees the car.
// Only the car's owner or an admin may complete.
func (s *ReservationService) Complete(ctx context.Context, actor Actor, reservationID string) error {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	car, err := s.carRepo.GetByID(ctx, reservation.CarID)
	if err != nil {
		return err
	}

	if actor.Role != domain.RoleAdmin && actor.UserID != car.OwnerID {
		return ErrAccessDenied
	}

	if reservation.Status == domain.ReservationStatusCompleted {
		return ErrAlreadyCompleted
	}
	if reservation.Status == domain.ReservationStatusCancelled {
		return ErrReservationTerminal
	}

	reservation.Status = domain.ReservationStatusCompleted
	reservation.EndDate = time.Now()

	err = s.uow.Do(ctx, func(tx repository.TxRepos) error {
		if err := tx.Reservations.Update(ctx, reservation); err != nil {
			return err
		}
		return tx.Cars.UpdateStatus(ctx, car.ID, domain.CarStatusAvailable)
	})
	if err != nil {
		return err
	}
	s.invalidateCarCache(ctx, car.ID)

	s.notify(ctx, reservation, car, func(customer, _ *domain.User) {
		s.notifications.NotifyReservationCompleted(ctx, reservation, car, customer)
	})

	return nil
}

// UpdateReservationRequest contains the parameters for a date change.
type UpdateReservationRequest struct {
	ReservationID string
	StartDate     time.Time
	EndDate       time.Time
}

// UpdateReservation changes a reservation's dates, re-running the overlap
// check against other bookings and recomputing the amount from the car's
// current daily rate.
func (s *ReservationService) UpdateReservation(ctx context.Context, actor Actor, req UpdateReservationRequest) (*domain.Reservation, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	reservation, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin && actor.UserID != reservation.UserID {
		return nil, ErrAccessDenied
	}

	if reservation.Terminal() {
		return nil, ErrReservationTerminal
	}

	car, err := s.carRepo.GetByID(ctx, reservation.CarID)
	if err != nil {
		return nil, err
	}

	locked, err := s.lockStore.AcquireCarLock(ctx, car.ID, s.carLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrCarAlreadyReserved
	}
	defer func() {
		if err := s.lockStore.ReleaseCarLock(ctx, car.ID); err != nil {
			s.log.WithError(err).WithField("car_id", car.ID).Warn("failed to release car lock")
		}
	}()

	reservation.StartDate = req.StartDate
	reservation.EndDate = req.EndDate
	reservation.TotalAmount = domain.RentalAmount(car.DailyRate, req.StartDate, req.EndDate)

	err = s.uow.Do(ctx, func(tx repository.TxRepos) error {
		overlapping, err := tx.Reservations.CountOverlapping(ctx, car.ID, req.StartDate, req.EndDate, reservation.ID)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrCarAlreadyReserved
		}
		return tx.Reservations.Update(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, reservation, car, func(customer, owner *domain.User) {
		s.notifications.NotifyReservationUpdated(ctx, reservation, car, customer, owner)
	})

	return reservation, nil
}

// Purge hard-deletes a reservation and frees the car. Administrative
// correction path, distinct from the customer-facing cancel flow.
func (s *ReservationService) Purge(ctx context.Context, actor Actor, reservationID string) error {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	car, err := s.carRepo.GetByID(ctx, reservation.CarID)
	if err != nil {
		return err
	}

	if !s.mayMutate(actor, reservation, car) {
		return ErrAccessDenied
	}

	err = s.uow.Do(ctx, func(tx repository.TxRepos) error {
		if err := tx.Reservations.Delete(ctx, reservationID); err != nil {
			return err
		}
		return tx.Cars.UpdateStatus(ctx, car.ID, domain.CarStatusAvailable)
	})
	if err != nil {
		return err
	}
	s.invalidateCarCache(ctx, car.ID)
	return nil
}

func (s *ReservationService) invalidateCarCache(ctx context.Context, carID string) {
	if err := s.cacheStore.InvalidateCar(ctx, carID); err != nil {
		s.log.WithError(err).WithField("car_id", carID).Warn("failed to invalidate car cache")
	}
}

// EnrichedReservation bundles a reservation with its car and customer.
type EnrichedReservation struct {
	Reservation *domain.Reservation
	Car         *domain.Car
	Customer    *domain.User
}

// GetReservation fetches one reservation with car and customer attached.
// Visible to admins, the booking customer, and the car's owner.
func (s *ReservationService) GetReservation(ctx context.Context, actor Actor, reservationID string) (*EnrichedReservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, reservation.CarID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin && actor.UserID != reservation.UserID && actor.UserID != car.OwnerID {
		return nil, ErrAccessDenied
	}

	enriched := &EnrichedReservation{Reservation: reservation, Car: car}
	if customer, err := s.userRepo.GetByID(ctx, reservation.UserID); err == nil {
		enriched.Customer = customer
	}

	return enriched, nil
}

// ListForUser returns the actor's own reservations.
func (s *ReservationService) ListForUser(ctx context.Context, actor Actor) ([]*domain.Reservation, error) {
	if actor.UserID == "" {
		return nil, ErrInvalidUserID
	}
	return s.reservationRepo.GetByUser(ctx, actor.UserID)
}

// ListForCar returns reservations for a car. Restricted to the car's owner
// or an admin.
func (s *ReservationService) ListForCar(ctx context.Context, actor Actor, carID string) ([]*domain.Reservation, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && actor.UserID != car.OwnerID {
		return nil, ErrAccessDenied
	}
	return s.reservationRepo.GetByCar(ctx, carID)
}

// ListAll returns every reservation. Admin only.
func (s *ReservationService) ListAll(ctx context.Context, actor Actor) ([]*domain.Reservation, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}
	return s.reservationRepo.GetAll(ctx)
}

// AdminBooking is a reservation enriched with owner contact for the admin
// bookings view.
type AdminBooking struct {
	Reservation *domain.Reservation
	Car         *domain.Car
	Customer    *domain.User
	Owner       *domain.User
}

// AdminBookings lists every reservation with car, customer, and owner
// contact attached. Admin only. Enrichment is best-effort: a missing user
// record leaves the field nil rather than failing the listing.
func (s *ReservationService) AdminBookings(ctx context.Context, actor Actor) ([]*AdminBooking, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}

	reservations, err := s.reservationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	bookings := make([]*AdminBooking, 0, len(reservations))
	for _, reservation := range reservations {
		booking := &AdminBooking{Reservation: reservation}
		if car, err := s.carRepo.GetByID(ctx, reservation.CarID); err == nil {
			booking.Car = car
			if owner, err := s.userRepo.GetByID(ctx, car.OwnerID); err == nil {
				booking.Owner = owner
			}
		}
		if customer, err := s.userRepo.GetByID(ctx, reservation.UserID); err == nil {
			booking.Customer = customer
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

// mayMutate reports whether the actor may mutate the reservation: the
// booking customer, the car's owner, or an admin.
func (s *ReservationService) mayMutate(actor Actor, reservation *domain.Reservation, car *domain.Car) bool {
	return actor.Role == domain.RoleAdmin ||
		actor.UserID == reservation.UserID ||
		actor.UserID == car.OwnerID
}

// notify resolves customer and owner records and invokes fn with them.
// Lookup failures are logged and the notification is skipped for the missing
// party; the primary operation has already succeeded.
func (s *ReservationService) notify(ctx context.Context, reservation *domain.Reservation, car *domain.Car, fn func(customer, owner *domain.User)) {
	var customer, owner *domain.User

	if u, err := s.userRepo.GetByID(ctx, reservation.UserID); err == nil {
		customer = u
	} else {
		s.log.WithError(err).WithField("user_id", reservation.UserID).Warn("customer lookup for notification failed")
	}

	if u, err := s.userRepo.GetByID(ctx, car.OwnerID); err == nil {
		owner = u
	} else {
		s.log.WithError(err).WithField("user_id", car.OwnerID).Warn("owner lookup for notification failed")
	}

	fn(customer, owner)
}
