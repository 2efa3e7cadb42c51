package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentndrive/internal/domain"
	"rentndrive/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of
// repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, user_id, car_id, reservation_id, amount, currency, status, method, order_ref, transaction_id, created_at`

// Create persists a new payment attempt.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.UserID,
		payment.CarID,
		payment.ReservationID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.Method,
		payment.OrderRef,
		payment.TransactionID,
		payment.CreatedAt,
	)

	return err
}

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	var payment domain.Payment
	err := row.Scan(
		&payment.ID,
		&payment.UserID,
		&payment.CarID,
		&payment.ReservationID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.Method,
		&payment.OrderRef,
		&payment.TransactionID,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// GetByOrderRef retrieves a payment by its gateway order reference.
func (r *PaymentRepository) GetByOrderRef(ctx context.Context, orderRef string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_ref = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, orderRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// GetByCar retrieves all payments made against a car.
func (r *PaymentRepository) GetByCar(ctx context.Context, carID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE car_id = $1 ORDER BY created_at DESC`
	return r.queryPayments(ctx, query, carID)
}

// GetByUser retrieves all payments made by a user.
func (r *PaymentRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryPayments(ctx, query, userID)
}

// GetAll retrieves all payments.
func (r *PaymentRepository) GetAll(ctx context.Context) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`
	return r.queryPayments(ctx, query)
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// MarkSuccess transitions the payment to Success and stores the gateway
// payment id as its transaction id.
func (r *PaymentRepository) MarkSuccess(ctx context.Context, orderRef, transactionID string) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = $1, transaction_id = $2
		WHERE order_ref = $3
		RETURNING ` + paymentColumns + `
	`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, domain.PaymentStatusSuccess, transactionID, orderRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// HasSuccessful reports whether a Success payment already backs the
// reservation.
func (r *PaymentRepository) HasSuccessful(ctx context.Context, reservationID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments WHERE reservation_id = $1 AND status = 'Success'
		)
	`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, reservationID).Scan(&exists)
	return exists, err
}
