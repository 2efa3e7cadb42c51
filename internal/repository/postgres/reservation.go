package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentndrive/internal/domain"
	"rentndrive/internal/repository"
)

// ReservationRepository is a PostgreSQL implementation of
// repository.ReservationRepository.
type ReservationRepository struct {
	q Querier
}

// NewReservationRepository creates a new PostgreSQL reservation repository.
func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{q: db}
}

// NewReservationRepositoryWithTx creates a reservation repository using a
// transaction.
func NewReservationRepositoryWithTx(tx *sql.Tx) *ReservationRepository {
	return &ReservationRepository{q: tx}
}

const reservationColumns = `id, car_id, user_id, start_date, end_date, total_amount, status, payment_id, created_at`

// Create persists a new reservation.
func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var paymentID sql.NullString
	if reservation.PaymentID != "" {
		paymentID = sql.NullString{String: reservation.PaymentID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		reservation.ID,
		reservation.CarID,
		reservation.UserID,
		reservation.StartDate,
		reservation.EndDate,
		reservation.TotalAmount,
		reservation.Status,
		paymentID,
		reservation.CreatedAt,
	)

	return err
}

func scanReservation(row interface{ Scan(...any) error }) (*domain.Reservation, error) {
	var reservation domain.Reservation
	var paymentID sql.NullString

	err := row.Scan(
		&reservation.ID,
		&reservation.CarID,
		&reservation.UserID,
		&reservation.StartDate,
		&reservation.EndDate,
		&reservation.TotalAmount,
		&reservation.Status,
		&paymentID,
		&reservation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentID.Valid {
		reservation.PaymentID = paymentID.String
	}

	return &reservation, nil
}

// GetByID retrieves a reservation by ID.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	reservation, err := scanReservation(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return reservation, nil
}

// GetByUser retrieves all reservations placed by a user.
func (r *ReservationRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryReservations(ctx, query, userID)
}

// GetByCar retrieves all reservations for a car.
func (r *ReservationRepository) GetByCar(ctx context.Context, carID string) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE car_id = $1 ORDER BY start_date`
	return r.queryReservations(ctx, query, carID)
}

// GetAll retrieves all reservations.
func (r *ReservationRepository) GetAll(ctx context.Context) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC`
	return r.queryReservations(ctx, query)
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]*domain.Reservation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, rows.Err()
}

// Update updates an existing reservation.
func (r *ReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET start_date = $1, end_date = $2, total_amount = $3, status = $4, payment_id = $5
		WHERE id = $6
	`

	var paymentID sql.NullString
	if reservation.PaymentID != "" {
		paymentID = sql.NullString{String: reservation.PaymentID, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		reservation.StartDate,
		reservation.EndDate,
		reservation.TotalAmount,
		reservation.Status,
		paymentID,
		reservation.ID,
	)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// Delete removes a reservation entirely.
func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CountOverlapping counts non-terminal reservations intersecting the range.
func (r *ReservationRepository) CountOverlapping(ctx context.Context, carID string, start, end time.Time, excludeID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE car_id = $1
		  AND start_date < $3
		  AND end_date > $2
		  AND status NOT IN ('cancelled', 'completed')
		  AND ($4 = '' OR id <> $4)
	`

	var count int
	err := r.q.QueryRowContext(ctx, query, carID, start, end, excludeID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// HasCompletedForUserAndCar reports whether the user completed a rental of
// the car.
func (r *ReservationRepository) HasCompletedForUserAndCar(ctx context.Context, userID, carID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND car_id = $2 AND status = 'completed'
		)
	`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, userID, carID).Scan(&exists)
	return exists, err
}

// HasCompletedBetweenUsers reports whether a completed rental links the two
// users, in either renter/owner direction.
func (r *ReservationRepository) HasCompletedBetweenUsers(ctx context.Context, userA, userB string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM reservations res
			JOIN cars c ON c.id = res.car_id
			WHERE res.status = 'completed'
			  AND ((res.user_id = $1 AND c.owner_id = $2)
			    OR (res.user_id = $2 AND c.owner_id = $1))
		)
	`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, userA, userB).Scan(&exists)
	return exists, err
}
